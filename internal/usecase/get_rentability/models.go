package get_rentability

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Request запрос на расчет rentability продукта.
// IgnoreAllRentals и IgnoreRentalID взаимоисключающие: первый дает чистую
// доступность каталога, второй исключает одну аренду (превью её обновления).
type Request struct {
	ProductID        int64
	IgnoreAllRentals bool
	IgnoreRentalID   *int64
}

// RentableRange свободный диапазон в ответе
type RentableRange struct {
	From      types.Date       `json:"from"`
	To        types.Date       `json:"to"`
	Price     decimal.Decimal  `json:"price"`
	Discounts domain.Discounts `json:"discounts,omitempty"`
}

// Response rentability по каждому экземпляру продукта
type Response struct {
	ProductID int64                      `json:"productId"`
	Instances map[string][]RentableRange `json:"instances"`
}

func fromDomainRanges(dateRanges []domain.DateRange) []RentableRange {
	out := make([]RentableRange, 0, len(dateRanges))
	for _, r := range dateRanges {
		out = append(out, RentableRange{
			From:      r.From,
			To:        r.To,
			Price:     r.Price,
			Discounts: r.Discounts,
		})
	}
	return out
}
