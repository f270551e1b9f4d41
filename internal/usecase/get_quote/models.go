package get_quote

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Request запрос на подбор оффера.
// ExchangeCost перекрывает штраф за смену экземпляра из конфигурации.
// IgnoreAllRentals и IgnoreRentalID взаимоисключающие.
type Request struct {
	ProductID        int64
	From             types.Date
	To               types.Date
	ExchangeCost     *decimal.Decimal
	IgnoreAllRentals bool
	IgnoreRentalID   *int64
}

// OfferRange диапазон оффера, закрепленный за экземпляром
type OfferRange struct {
	From      types.Date       `json:"from"`
	To        types.Date       `json:"to"`
	Price     decimal.Decimal  `json:"price"`
	Discounts domain.Discounts `json:"discounts,omitempty"`
}

// Response подобранный оффер: распределение окна по экземплярам
// и суммарная стоимость вместе со штрафами за смены
type Response struct {
	ProductID  int64                   `json:"productId"`
	From       types.Date              `json:"from"`
	To         types.Date              `json:"to"`
	TotalPrice decimal.Decimal         `json:"totalPrice"`
	Instances  map[string][]OfferRange `json:"instances"`
}
