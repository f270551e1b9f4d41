package create_rental

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	rentalModels "github.com/m04kA/SMC-RentalService/internal/service/rentals/models"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// RangeRequest запрошенный диапазон аренды.
// Цена не принимается от клиента: она пересчитывается по каталогу.
type RangeRequest struct {
	From types.Date `json:"from"`
	To   types.Date `json:"to"`
}

// InstanceRequest запрошенные диапазоны по одному экземпляру
type InstanceRequest struct {
	DateRanges []RangeRequest   `json:"dateRanges"`
	Discounts  domain.Discounts `json:"discounts,omitempty"`
}

// ProductRequest запрошенная часть аренды по одному продукту
type ProductRequest struct {
	Instances map[string]InstanceRequest `json:"instances"`
	Discounts domain.Discounts           `json:"discounts,omitempty"`
}

// Request запрос на создание аренды.
// ForUserID позволяет оформить аренду на другого пользователя,
// это требует capability manageRentals.
type Request struct {
	Auth      domain.Auth
	ForUserID *int64
	Products  map[int64]ProductRequest
	Discounts domain.Discounts
}

// Response созданная аренда и её итоговая стоимость
type Response struct {
	Rental     *rentalModels.RentalResponse `json:"rental"`
	TotalPrice decimal.Decimal              `json:"totalPrice"`
}

func toDomainRanges(requested []RangeRequest) []domain.DateRange {
	out := make([]domain.DateRange, 0, len(requested))
	for _, r := range requested {
		out = append(out, domain.DateRange{From: r.From, To: r.To})
	}
	return out
}
