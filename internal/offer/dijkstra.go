package offer

import (
	"container/heap"

	"github.com/shopspring/decimal"
)

// Дейкстра из Start в End. Вместо float-весов используются точные
// decimal-веса: стоимость длинных аренд суммируется без дрейфа копеек.
// При равной стоимости путей побеждает путь, найденный первым при
// лексикографическом порядке обхода соседей.

type pqItem struct {
	node  string
	dist  decimal.Decimal
	index int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	cmp := pq[i].dist.Cmp(pq[j].dist)
	if cmp != 0 {
		return cmp < 0
	}
	return pq[i].node < pq[j].node
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// shortestPath возвращает последовательность узлов кратчайшего пути
// от source до target включительно и его суммарную стоимость
func shortestPath(g *graph, source, target string) ([]string, decimal.Decimal, error) {
	dist := map[string]decimal.Decimal{source: decimal.Zero}
	prev := make(map[string]string)
	visited := make(map[string]bool)

	pq := priorityQueue{{node: source, dist: decimal.Zero}}
	heap.Init(&pq)

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*pqItem)
		if visited[current.node] {
			continue
		}
		visited[current.node] = true

		if current.node == target {
			break
		}

		for _, e := range g.neighbors(current.node) {
			if visited[e.to] {
				continue
			}

			candidate := current.dist.Add(e.weight)
			known, ok := dist[e.to]
			if !ok || candidate.LessThan(known) {
				dist[e.to] = candidate
				prev[e.to] = current.node
				heap.Push(&pq, &pqItem{node: e.to, dist: candidate})
			}
		}
	}

	if !visited[target] {
		return nil, decimal.Zero, ErrNoOffer
	}

	path := []string{target}
	for node := target; node != source; {
		node = prev[node]
		path = append(path, node)
	}

	// Разворачиваем путь
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, dist[target], nil
}
