package ranges

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// PriceRanges оценивает стоимость запрошенных диапазонов по прайсу доступности.
// Каждый день каждого запрошенного диапазона должен быть накрыт ровно одним
// диапазоном доступности; ноль или несколько означают противоречивый каталог.
// Скидки диапазона доступности применяются к его дневной цене; флаг выходного
// берется от запрошенного диапазона, так как именно он оплачивается.
// Возвращает общую стоимость и стоимость каждого запрошенного диапазона.
func PriceRanges(requested, availability []domain.DateRange) (decimal.Decimal, []decimal.Decimal, error) {
	total := decimal.Zero
	perRange := make([]decimal.Decimal, 0, len(requested))

	for _, req := range requested {
		hasWeekend := req.ContainsWeekend()
		rangeTotal := decimal.Zero

		for day := req.From.DayNumber(); day <= req.To.DayNumber(); day++ {
			date := types.DateFromDayNumber(day)

			var cover *domain.DateRange
			covered := 0
			for i := range availability {
				if availability[i].ContainsDate(date) {
					cover = &availability[i]
					covered++
				}
			}
			if covered != 1 {
				return decimal.Zero, nil, fmt.Errorf("%w: day %s covered by %d availability ranges",
					ErrDataInconsistency, date, covered)
			}

			rangeTotal = rangeTotal.Add(cover.Discounts.Apply(cover.Price, hasWeekend))
		}

		perRange = append(perRange, rangeTotal)
		total = total.Add(rangeTotal)
	}

	return total, perRange, nil
}
