package offer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Построение графа офферов: узлы — пары "экземпляр-день", плюс два
// сентинела Start и End. Граф событийный: узлы создаются только на границах
// диапазонов доступности, на границах окна запроса и в точках, где другой
// экземпляр тоже доступен (там путь может сменить экземпляр). Один узел на
// каждый календарный день не материализуется.

const (
	nodeStart = "Start"
	nodeEnd   = "End"
)

func nodeID(instanceID string, day int) string {
	return fmt.Sprintf("%s-%d", instanceID, day)
}

// parseNode разбирает узел по последнему дефису: id экземпляра может сам
// содержать дефисы (например, uuid)
func parseNode(node string) (instanceID string, day int) {
	idx := strings.LastIndexByte(node, '-')
	if idx < 0 {
		return node, 0
	}
	day, err := strconv.Atoi(node[idx+1:])
	if err != nil {
		return node, 0
	}
	return node[:idx], day
}

func nodeInstanceOf(node string) string {
	if node == nodeStart || node == nodeEnd {
		return node
	}
	id, _ := parseNode(node)
	return id
}

// graph ориентированный взвешенный граф на строковых узлах
type graph struct {
	adjacency map[string]map[string]decimal.Decimal
}

func newGraph() *graph {
	return &graph{adjacency: make(map[string]map[string]decimal.Decimal)}
}

func (g *graph) link(from, to string, weight decimal.Decimal) {
	edges, ok := g.adjacency[from]
	if !ok {
		edges = make(map[string]decimal.Decimal)
		g.adjacency[from] = edges
	}
	edges[to] = weight
}

// neighbors возвращает исходящие рёбра узла в лексикографическом порядке.
// Фиксированный порядок обхода делает выбор пути при равной стоимости
// детерминированным.
func (g *graph) neighbors(node string) []edge {
	edges := g.adjacency[node]
	if len(edges) == 0 {
		return nil
	}

	result := make([]edge, 0, len(edges))
	for to, weight := range edges {
		result = append(result, edge{to: to, weight: weight})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].to < result[j].to })
	return result
}

type edge struct {
	to     string
	weight decimal.Decimal
}

// prepRange диапазон доступности в днях от эпохи, правая граница исключена
type prepRange struct {
	from      int
	to        int
	price     decimal.Decimal
	discounts domain.Discounts
	nodes     []int
}

func (r *prepRange) containsDay(day int) bool {
	return r.from <= day && r.to >= day
}

func (r *prepRange) addNode(day int) {
	for _, n := range r.nodes {
		if n == day {
			return
		}
	}
	r.nodes = append(r.nodes, day)
}

// prepInstance экземпляр с доступностью, переведённой в дневные смещения
type prepInstance struct {
	id           string
	availability []*prepRange
}

func (i *prepInstance) containingRange(day int) *prepRange {
	for _, r := range i.availability {
		if r.containsDay(day) {
			return r
		}
	}
	return nil
}

// prepared входные данные оффера, приведённые к целочисленным дням
type prepared struct {
	instances []*prepInstance
	byID      map[string]*prepInstance
	startDay  int
	endDay    int
	epochDay  int
}

// prepare переводит календарные даты в смещения от общей эпохи
// (минимум из первого дня доступности и начала окна) и приводит правые
// границы диапазонов к исключённому виду [from, to).
func prepare(instances map[string][]domain.DateRange, from, to types.Date) *prepared {
	epochDay := from.DayNumber()
	for _, availability := range instances {
		for _, r := range availability {
			if d := r.From.DayNumber(); d < epochDay {
				epochDay = d
			}
		}
	}

	p := &prepared{
		byID:     make(map[string]*prepInstance, len(instances)),
		startDay: from.DayNumber() - epochDay,
		// Запрошенное окно [from, to] включительно переводится в [from, to+1)
		endDay:   to.DayNumber() - epochDay + 1,
		epochDay: epochDay,
	}

	ids := make([]string, 0, len(instances))
	for id := range instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		inst := &prepInstance{id: id}
		for _, r := range instances[id] {
			inst.availability = append(inst.availability, &prepRange{
				from:      r.From.DayNumber() - epochDay,
				to:        r.To.DayNumber() - epochDay + 1,
				price:     r.Price,
				discounts: r.Discounts,
			})
		}
		sort.Slice(inst.availability, func(i, j int) bool {
			return inst.availability[i].from < inst.availability[j].from
		})
		p.instances = append(p.instances, inst)
		p.byID[id] = inst
	}

	return p
}

// buildGraph собирает граф оффера.
//   - Бесплатные рёбра Start -> (экземпляр, startDay) и (экземпляр, endDay) -> End
//     для каждого экземпляра, доступного в соответствующий день.
//   - Рёбра веса exchangeCost между узлами двух экземпляров в один и тот же день
//     на границах диапазонов — смена экземпляра посреди окна.
//   - Внутри экземпляра рёбра между соседними узловыми днями одного диапазона
//     с весом "цена за день * количество дней".
func buildGraph(p *prepared, exchangeCost decimal.Decimal) *graph {
	g := newGraph()

	// Переломные точки самих диапазонов
	for _, inst := range p.instances {
		for _, r := range inst.availability {
			r.nodes = []int{r.from, r.to}
		}
	}

	// Вход и выход окна запроса
	for _, inst := range p.instances {
		if r := inst.containingRange(p.startDay); r != nil {
			g.link(nodeStart, nodeID(inst.id, p.startDay), decimal.Zero)
			r.addNode(p.startDay)
		}
		if r := inst.containingRange(p.endDay); r != nil {
			g.link(nodeID(inst.id, p.endDay), nodeEnd, decimal.Zero)
			r.addNode(p.endDay)
		}
	}

	// Смена экземпляра на границах диапазонов
	for _, inst := range p.instances {
		for _, r := range inst.availability {
			fromNode := nodeID(inst.id, r.from)
			toNode := nodeID(inst.id, r.to)

			for _, other := range p.instances {
				if other.id == inst.id {
					continue
				}

				if otherRange := other.containingRange(r.from); otherRange != nil {
					// Переход с другого экземпляра на текущий в начале диапазона
					g.link(nodeID(other.id, r.from), fromNode, exchangeCost)
					otherRange.addNode(r.from)
				}

				if otherRange := other.containingRange(r.to); otherRange != nil {
					// Текущий диапазон закончился, переход на другой экземпляр
					g.link(toNode, nodeID(other.id, r.to), exchangeCost)
					otherRange.addNode(r.to)
				}
			}
		}
	}

	// Продолжение на том же экземпляре между соседними узловыми днями
	for _, inst := range p.instances {
		for _, r := range inst.availability {
			sort.Ints(r.nodes)

			for i := 0; i+1 < len(r.nodes); i++ {
				days := decimal.NewFromInt(int64(r.nodes[i+1] - r.nodes[i]))
				g.link(
					nodeID(inst.id, r.nodes[i]),
					nodeID(inst.id, r.nodes[i+1]),
					r.price.Mul(days),
				)
			}
		}
	}

	return g
}
