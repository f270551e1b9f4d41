package ranges

import (
	"sort"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Алгебра интервалов над диапазонами календарных дней [from, to]
// (обе границы включительно).
//
// Ключевой приём — "nudge and round": перед пересечением каждая конечная
// граница раздвигается на одну единицу внутреннего разрешения (четверть дня),
// после пересечения результат округляется обратно к границе дня. Благодаря
// этому диапазоны, соприкасающиеся только границей ([1,5] и [5,9]),
// пересекаются в вырожденном точечном диапазоне [5,5], а диапазоны с зазором
// в день и больше ([1,4] и [6,9]) не пересекаются вовсе.

const (
	// fineScale внутреннее разрешение: четыре единицы на день.
	// Сдвиг на одну единицу меньше половины дня, поэтому округление
	// к ближайшей границе дня восстанавливает исходные даты без потерь.
	fineScale = 4
	fineNudge = 1

	// Конечные сентинелы вместо -inf/+inf при построении дополнений
	sentinelMinDay = -1 << 30
	sentinelMaxDay = 1 << 30
)

// daySpan диапазон в целых днях от эпохи Unix, границы включительно
type daySpan struct {
	from int
	to   int
}

func spanOf(r domain.DateRange) daySpan {
	return daySpan{from: r.From.DayNumber(), to: r.To.DayNumber()}
}

func fineStart(day int) int64 {
	return int64(day)*fineScale - fineNudge
}

func fineEnd(day int) int64 {
	return int64(day)*fineScale + fineNudge
}

// fineToDay округляет внутреннюю координату к ближайшей границе дня
func fineToDay(x int64) int {
	return int(floorDiv(x+fineScale/2, fineScale))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

type sweepEvent struct {
	at    int64
	delta int
}

// edgeIntersectSpans возвращает максимальные участки, покрытые не менее чем
// minCover входными диапазонами, с учётом точечных пересечений на границах.
// Результат отсортирован по возрастанию и не содержит пересекающихся участков.
func edgeIntersectSpans(spans []daySpan, minCover int) []daySpan {
	if len(spans) == 0 || minCover <= 0 {
		return nil
	}

	events := make([]sweepEvent, 0, len(spans)*2)
	for _, s := range spans {
		if s.to < s.from {
			continue
		}
		// Полуоткрытые интервалы во внутренних координатах
		events = append(events,
			sweepEvent{at: fineStart(s.from), delta: 1},
			sweepEvent{at: fineEnd(s.to) + 1, delta: -1},
		)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta > events[j].delta
	})

	var result []daySpan
	count := 0
	var regionStart int64

	for _, ev := range events {
		prev := count
		count += ev.delta

		if prev < minCover && count >= minCover {
			regionStart = ev.at
		}
		if prev >= minCover && count < minCover {
			result = append(result, daySpan{
				from: fineToDay(regionStart),
				to:   fineToDay(ev.at - 1),
			})
		}
	}

	return result
}

// MergeAdjacent склеивает пересекающиеся и соприкасающиеся диапазоны:
// [1,5] и [6,9] дают [1,9], а [1,5] и [7,9] не склеиваются.
// Соприкосновение сводится к обычному пересечению равномерным расширением
// правой границы каждого диапазона на один день перед склейкой и
// обратным сжатием после. Цена и скидки результата берутся из первого
// диапазона склеенной группы; вызывающий код использует только границы.
func MergeAdjacent(dateRanges []domain.DateRange) []domain.DateRange {
	if len(dateRanges) == 0 {
		return nil
	}

	type expanded struct {
		from, to int
		src      domain.DateRange
	}

	items := make([]expanded, 0, len(dateRanges))
	for _, r := range dateRanges {
		s := spanOf(r)
		items = append(items, expanded{from: s.from, to: s.to + 1, src: r})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].from != items[j].from {
			return items[i].from < items[j].from
		}
		return items[i].to < items[j].to
	})

	merged := []expanded{items[0]}
	for _, item := range items[1:] {
		last := &merged[len(merged)-1]
		if item.from <= last.to {
			if item.to > last.to {
				last.to = item.to
			}
			continue
		}
		merged = append(merged, item)
	}

	result := make([]domain.DateRange, 0, len(merged))
	for _, m := range merged {
		r := m.src
		r.From = types.DateFromDayNumber(m.from)
		r.To = types.DateFromDayNumber(m.to - 1)
		result = append(result, r)
	}

	return result
}

// EdgeIntersect возвращает участки, где пересекаются хотя бы два из
// переданных диапазонов. Диапазоны, соприкасающиеся только границей,
// дают точечный результат: [1,5] и [5,9] -> [5,5].
// В результирующих диапазонах значимы только границы from/to.
func EdgeIntersect(dateRanges []domain.DateRange) []domain.DateRange {
	spans := make([]daySpan, 0, len(dateRanges))
	for _, r := range dateRanges {
		spans = append(spans, spanOf(r))
	}

	return spansToRanges(edgeIntersectSpans(spans, 2))
}

// Subtract вычитает removed из oldRanges. Для каждого removed-диапазона
// строится дополнение в виде пары лучей, ограниченных конечными сентинелами,
// и каждый старый диапазон пересекается со всеми дополнениями одновременно:
// день выживает, только если он покрыт старым диапазоном и по одному лучу
// каждого вычитаемого. Каждый выживший участок наследует цену и скидки
// своего старого диапазона. Subtract(r, nil) возвращает r без изменений.
func Subtract(oldRanges, removed []domain.DateRange) []domain.DateRange {
	if len(removed) == 0 {
		result := make([]domain.DateRange, len(oldRanges))
		copy(result, oldRanges)
		return result
	}

	var result []domain.DateRange

	for _, old := range oldRanges {
		spans := make([]daySpan, 0, 1+len(removed)*2)
		spans = append(spans, spanOf(old))

		for _, rem := range removed {
			s := spanOf(rem)
			spans = append(spans,
				daySpan{from: sentinelMinDay, to: s.from - 1},
				daySpan{from: s.to + 1, to: sentinelMaxDay},
			)
		}

		// Выживший день покрыт старым диапазоном и одним лучом на каждое вычитание
		pieces := edgeIntersectSpans(spans, 1+len(removed))

		for _, p := range pieces {
			r := old
			r.From = types.DateFromDayNumber(p.from)
			r.To = types.DateFromDayNumber(p.to)
			result = append(result, r)
		}
	}

	return result
}

func spansToRanges(spans []daySpan) []domain.DateRange {
	if len(spans) == 0 {
		return nil
	}
	result := make([]domain.DateRange, 0, len(spans))
	for _, s := range spans {
		result = append(result, domain.DateRange{
			From: types.DateFromDayNumber(s.from),
			To:   types.DateFromDayNumber(s.to),
		})
	}
	return result
}
