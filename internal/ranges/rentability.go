package ranges

import (
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// ComputeRentability вычисляет остаточные свободные диапазоны экземпляра:
// availability минус все диапазоны, уже занятые переданными арендами у пары
// (productID, instanceID). Закрытые аренды доступность не занимают.
// Хранимый экземпляр не изменяется — результат всегда новый список.
// При пустом списке аренд rentability совпадает с availability.
func ComputeRentability(productID int64, instanceID string, instance domain.Instance, rentals []*domain.Rental) []domain.DateRange {
	var consumed []domain.DateRange

	for _, rental := range rentals {
		if !rental.ConsumesAvailability() {
			continue
		}
		consumed = append(consumed, rental.RangesFor(productID, instanceID)...)
	}

	return Subtract(instance.Availability, consumed)
}

// ComputeRentabilities вычисляет rentability для всех экземпляров продукта
func ComputeRentabilities(productID int64, instances map[string]domain.Instance, rentals []*domain.Rental) map[string][]domain.DateRange {
	result := make(map[string][]domain.DateRange, len(instances))
	for instanceID, instance := range instances {
		result[instanceID] = ComputeRentability(productID, instanceID, instance, rentals)
	}
	return result
}
