package offer

import (
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// decodePath восстанавливает из сырого пути по узлам распределение аренды:
// какому экземпляру какие конкретные диапазоны дат достались. Подряд идущие
// узлы одного экземпляра внутри одного диапазона доступности сворачиваются в
// один выходной диапазон; цена и скидки берутся из исходного диапазона.
func decodePath(path []string, p *prepared) map[string][]domain.DateRange {
	result := make(map[string][]domain.DateRange)

	// Шаг 1: режем путь (без сентинелов Start/End) на сегменты по экземплярам
	var segments [][]string

	i := 1
	for i < len(path)-2 {
		first := path[i]
		segment := []string{first}

		for i+2 < len(path) && nodeInstanceOf(path[i+2]) == nodeInstanceOf(first) {
			i++
			segment = append(segment, path[i])
		}

		i++
		segment = append(segment, path[i])
		segments = append(segments, segment)
		i++
	}

	for _, segment := range segments {
		instanceID := nodeInstanceOf(segment[0])
		inst := p.byID[instanceID]
		if inst == nil {
			continue
		}

		// Шаг 2: внутри сегмента группируем узлы по диапазону доступности
		groups := [][]string{{segment[0]}}

		for _, node := range segment[1:] {
			last := groups[len(groups)-1]
			currentRange := containingRangeOfNode(inst, last[0])

			if containingRangeOfNode(inst, node) == currentRange {
				groups[len(groups)-1] = append(last, node)
			} else {
				groups = append(groups, []string{node})
			}
		}

		// Шаг 3: путь сменил диапазон, оставшись на том же экземпляре —
		// общая граница дублируется как конец предыдущей группы и начало
		// следующей ("узел-коннектор"), чтобы у каждой группы были обе границы
		for j := 1; j < len(groups); j++ {
			connector := groups[j-1][len(groups[j-1])-1]
			groups[j] = append([]string{connector}, groups[j]...)
		}

		for _, group := range groups {
			firstNode := group[0]
			lastNode := group[len(group)-1]

			// Первый узел группы может оказаться коннектором из соседнего
			// диапазона, поэтому исходный диапазон ищем по последнему узлу
			src := containingRangeOfNode(inst, lastNode)
			if src == nil {
				continue
			}

			_, fromDay := parseNode(firstNode)
			_, toDay := parseNode(lastNode)

			result[instanceID] = append(result[instanceID], domain.DateRange{
				From: types.DateFromDayNumber(p.epochDay + fromDay),
				// Внутреннее представление [from, to) возвращается к включительным границам
				To:        types.DateFromDayNumber(p.epochDay + toDay - 1),
				Price:     src.price,
				Discounts: src.discounts,
			})
		}
	}

	return result
}

func containingRangeOfNode(inst *prepInstance, node string) *prepRange {
	_, day := parseNode(node)
	return inst.containingRange(day)
}
