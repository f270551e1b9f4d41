package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentalStatus статус аренды.
// Жизненный цикл строго ready -> active -> closed.
type RentalStatus string

const (
	RentalReady  RentalStatus = "ready"
	RentalActive RentalStatus = "active"
	RentalClosed RentalStatus = "closed"
)

// IsValidRentalStatus проверяет, что строка является известным статусом аренды
func IsValidRentalStatus(s string) bool {
	switch RentalStatus(s) {
	case RentalReady, RentalActive, RentalClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo проверяет допустимость перехода статуса
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	switch s {
	case RentalReady:
		return next == RentalReady || next == RentalActive
	case RentalActive:
		return next == RentalActive || next == RentalClosed
	case RentalClosed:
		return next == RentalClosed
	default:
		return false
	}
}

// InstanceRental диапазоны, занятые арендой у конкретного экземпляра
type InstanceRental struct {
	DateRanges []DateRange `json:"dateRanges"`
	Discounts  Discounts   `json:"discounts,omitempty"`
}

// ProductRental часть аренды, относящаяся к одному продукту
type ProductRental struct {
	Instances map[string]InstanceRental `json:"instances"`
	Discounts Discounts                 `json:"discounts,omitempty"`
}

// Rental оформленная или ожидающая аренда.
// Каждая запись (продукт, экземпляр) фиксирует конкретные занятые диапазоны.
type Rental struct {
	ID         int64
	UserID     int64
	ApprovedBy *int64
	Status     RentalStatus
	Products   map[int64]ProductRental
	Discounts  Discounts
	Penalty    *decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ConsumesAvailability сообщает, занимает ли аренда доступность экземпляров.
// Закрытые аренды освобождают свои диапазоны.
func (r *Rental) ConsumesAvailability() bool {
	return r.Status != RentalClosed
}

// RangesFor возвращает диапазоны, занятые арендой у пары (продукт, экземпляр)
func (r *Rental) RangesFor(productID int64, instanceID string) []DateRange {
	product, ok := r.Products[productID]
	if !ok {
		return nil
	}
	instance, ok := product.Instances[instanceID]
	if !ok {
		return nil
	}
	return instance.DateRanges
}
