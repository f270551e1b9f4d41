package create_rental

import (
	"github.com/m04kA/SMC-RentalService/internal/domain"
	createRental "github.com/m04kA/SMC-RentalService/internal/usecase/create_rental"
)

// CreateRentalRequest тело запроса на создание аренды.
// Авторизация берется из заголовков, не из тела.
type CreateRentalRequest struct {
	ForUserID *int64                                `json:"forUserId,omitempty"`
	Products  map[int64]createRental.ProductRequest `json:"products"`
	Discounts domain.Discounts                      `json:"discounts,omitempty"`
}

// ToUseCaseRequest собирает запрос use case из тела и авторизации
func (r *CreateRentalRequest) ToUseCaseRequest(auth domain.Auth) *createRental.Request {
	return &createRental.Request{
		Auth:      auth,
		ForUserID: r.ForUserID,
		Products:  r.Products,
		Discounts: r.Discounts,
	}
}
