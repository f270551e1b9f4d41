package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountType тип скидки
type DiscountType string

const (
	// DiscountPercentage процентная скидка, применяется мультипликативно
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed фиксированная скидка, вычитается из цены
	DiscountFixed DiscountType = "fixed"
	// DiscountContainsWeekend фиксированная скидка, действующая только если
	// оплачиваемый диапазон накрывает выходной день
	DiscountContainsWeekend DiscountType = "contains_weekend"
)

// Discount скидка, привязанная к продукту, экземпляру, аренде или диапазону
type Discount struct {
	Name        string          `json:"name"`
	Type        DiscountType    `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description,omitempty"`
}

// IsValidDiscountType проверяет, что строка является известным типом скидки
func IsValidDiscountType(t string) bool {
	switch DiscountType(t) {
	case DiscountPercentage, DiscountFixed, DiscountContainsWeekend:
		return true
	default:
		return false
	}
}

var hundred = decimal.NewFromInt(100)

// Apply применяет скидку к цене. hasWeekend сообщает, накрывает ли
// оплачиваемый диапазон выходной день (для contains_weekend).
// Результат не опускается ниже нуля.
func (d Discount) Apply(price decimal.Decimal, hasWeekend bool) decimal.Decimal {
	var result decimal.Decimal

	switch d.Type {
	case DiscountPercentage:
		result = price.Sub(price.Mul(d.Value).Div(hundred))
	case DiscountFixed:
		result = price.Sub(d.Value)
	case DiscountContainsWeekend:
		if !hasWeekend {
			return price
		}
		result = price.Sub(d.Value)
	default:
		return price
	}

	if result.IsNegative() {
		return decimal.Zero
	}
	return result
}

// Discounts список скидок; применяется в порядке следования
type Discounts []Discount

// Apply последовательно применяет все скидки к цене
func (ds Discounts) Apply(price decimal.Decimal, hasWeekend bool) decimal.Decimal {
	for _, d := range ds {
		price = d.Apply(price, hasWeekend)
	}
	return price
}

// Value реализует driver.Valuer для записи в JSONB
func (ds Discounts) Value() (driver.Value, error) {
	if ds == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(ds)
}

// Scan реализует sql.Scanner для чтения из JSONB
func (ds *Discounts) Scan(src interface{}) error {
	if src == nil {
		*ds = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("domain.Discounts: cannot scan %T", src)
	}
	return json.Unmarshal(data, ds)
}
