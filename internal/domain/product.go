package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// InstanceStatus статус физического экземпляра продукта
type InstanceStatus string

const (
	InstanceInStock     InstanceStatus = "in_stock"
	InstanceRented      InstanceStatus = "rented"
	InstanceMaintenance InstanceStatus = "maintenance"
	InstanceRetired     InstanceStatus = "retired"
)

// IsValidInstanceStatus проверяет, что строка является известным статусом экземпляра
func IsValidInstanceStatus(s string) bool {
	switch InstanceStatus(s) {
	case InstanceInStock, InstanceRented, InstanceMaintenance, InstanceRetired:
		return true
	default:
		return false
	}
}

// InstanceLog запись журнала обслуживания экземпляра
type InstanceLog struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// InstanceLogs журнал экземпляра, хранимый в JSONB-колонке
type InstanceLogs []InstanceLog

// Value реализует driver.Valuer для записи в JSONB
func (ls InstanceLogs) Value() (driver.Value, error) {
	if ls == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(ls)
}

// Scan реализует sql.Scanner для чтения из JSONB
func (ls *InstanceLogs) Scan(src interface{}) error {
	if src == nil {
		*ls = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("domain.InstanceLogs: cannot scan %T", src)
	}
	return json.Unmarshal(data, ls)
}

// Instance один физический экземпляр продукта.
// Диапазоны в Availability не пересекаются между собой; порядок не гарантируется.
// Availability меняется только административными обновлениями продукта:
// вычисление rentability всегда строит новый список, не трогая хранимый.
type Instance struct {
	ID           string
	Availability []DateRange
	Discounts    Discounts
	Status       InstanceStatus
	Logs         InstanceLogs
}

// HasValidAvailability проверяет инварианты availability:
// каждый диапазон корректен (From <= To) и диапазоны попарно не пересекаются
func (i *Instance) HasValidAvailability() bool {
	for idx, r := range i.Availability {
		if !r.IsValid() {
			return false
		}
		for _, other := range i.Availability[idx+1:] {
			if r.Overlaps(other) {
				return false
			}
		}
	}
	return true
}

// Product логический арендуемый товар с взаимозаменяемыми экземплярами
type Product struct {
	ID          int64
	Name        string
	Description string
	Stars       *int
	CoverImage  *string
	OtherImages []string
	Instances   map[string]Instance
	Discounts   Discounts
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Instance возвращает экземпляр по id
func (p *Product) Instance(instanceID string) (Instance, bool) {
	inst, ok := p.Instances[instanceID]
	return inst, ok
}
