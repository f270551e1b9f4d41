package update_rental

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	rentalModels "github.com/m04kA/SMC-RentalService/internal/service/rentals/models"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// RangeRequest новый диапазон аренды; цена пересчитывается по каталогу
type RangeRequest struct {
	From types.Date `json:"from"`
	To   types.Date `json:"to"`
}

// InstanceRequest новые диапазоны по одному экземпляру
type InstanceRequest struct {
	DateRanges []RangeRequest   `json:"dateRanges"`
	Discounts  domain.Discounts `json:"discounts,omitempty"`
}

// ProductRequest новая часть аренды по одному продукту
type ProductRequest struct {
	Instances map[string]InstanceRequest `json:"instances"`
	Discounts domain.Discounts           `json:"discounts,omitempty"`
}

// Request запрос на обновление аренды. Поля-указатели со значением nil
// оставляют соответствующую часть аренды без изменений; Products заменяет
// распределение целиком и проходит повторную валидацию покрытия.
type Request struct {
	Auth      domain.Auth
	RentalID  int64
	Status    *string
	Penalty   *decimal.Decimal
	Products  map[int64]ProductRequest
	Discounts *domain.Discounts
}

// Response обновленная аренда и её итоговая стоимость.
// TotalPrice пересчитывается только при замене распределения,
// иначе остается нулевым.
type Response struct {
	Rental     *rentalModels.RentalResponse `json:"rental"`
	TotalPrice *decimal.Decimal             `json:"totalPrice,omitempty"`
}

func toDomainRanges(requested []RangeRequest) []domain.DateRange {
	out := make([]domain.DateRange, 0, len(requested))
	for _, r := range requested {
		out = append(out, domain.DateRange{From: r.From, To: r.To})
	}
	return out
}
