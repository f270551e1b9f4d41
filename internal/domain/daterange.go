package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// DateRange непрерывный диапазон календарных дней [From, To] (обе границы
// включительно) с ценой за день и списком скидок.
// Принадлежит либо availability экземпляра, либо записи аренды.
type DateRange struct {
	From      types.Date      `json:"from"`
	To        types.Date      `json:"to"`
	Price     decimal.Decimal `json:"price"`
	Discounts Discounts       `json:"discounts,omitempty"`
}

// IsValid проверяет инвариант From <= To
func (r DateRange) IsValid() bool {
	return !r.To.Before(r.From)
}

// Days возвращает количество дней в диапазоне (обе границы включительно)
func (r DateRange) Days() int {
	return r.To.DaysSince(r.From) + 1
}

// ContainsDate сообщает, что день попадает в диапазон
func (r DateRange) ContainsDate(d types.Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// Overlaps сообщает, что диапазоны имеют хотя бы один общий день.
// Диапазоны, граничащие по дням ([1,5] и [6,9]), пересечением не считаются.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.From.After(other.To) && !other.From.After(r.To)
}

// ContainsWeekend сообщает, что диапазон накрывает субботу или воскресенье
func (r DateRange) ContainsWeekend() bool {
	if r.Days() >= 7 {
		return true
	}
	for d := r.From; !d.After(r.To); d = d.AddDays(1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
	}
	return false
}

// DateRanges список диапазонов, хранимый в JSONB-колонке
type DateRanges []DateRange

// Value реализует driver.Valuer для записи в JSONB
func (rs DateRanges) Value() (driver.Value, error) {
	if rs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(rs)
}

// Scan реализует sql.Scanner для чтения из JSONB
func (rs *DateRanges) Scan(src interface{}) error {
	if src == nil {
		*rs = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("domain.DateRanges: cannot scan %T", src)
	}
	return json.Unmarshal(data, rs)
}
