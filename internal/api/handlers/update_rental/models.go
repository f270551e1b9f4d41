package update_rental

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	updateRental "github.com/m04kA/SMC-RentalService/internal/usecase/update_rental"
)

// UpdateRentalRequest тело запроса на обновление аренды.
// Отсутствующие поля не меняют аренду; products заменяет распределение целиком.
type UpdateRentalRequest struct {
	Status    *string                               `json:"status,omitempty"`
	Penalty   *decimal.Decimal                      `json:"penalty,omitempty"`
	Products  map[int64]updateRental.ProductRequest `json:"products,omitempty"`
	Discounts *domain.Discounts                     `json:"discounts,omitempty"`
}

// ToUseCaseRequest собирает запрос use case из тела, авторизации и ID аренды
func (r *UpdateRentalRequest) ToUseCaseRequest(auth domain.Auth, rentalID int64) *updateRental.Request {
	return &updateRental.Request{
		Auth:      auth,
		RentalID:  rentalID,
		Status:    r.Status,
		Penalty:   r.Penalty,
		Products:  r.Products,
		Discounts: r.Discounts,
	}
}
