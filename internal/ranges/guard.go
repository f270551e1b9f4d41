package ranges

import (
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// GuardRequested проверяет запрошенные диапазоны одного экземпляра:
// сначала покрытие доступностью каталога, затем покрытие свободными
// диапазонами с учетом остальных аренд. Возвращает CoverageError
// с соответствующим Kind при провале любой из проверок.
func GuardRequested(
	productID int64,
	instanceID string,
	instance domain.Instance,
	requested []domain.DateRange,
	rentals []*domain.Rental,
) error {
	if err := ValidateRentedRanges(instance.Availability, requested,
		productID, instanceID, KindAvailable); err != nil {
		return err
	}

	rentable := ComputeRentability(productID, instanceID, instance, rentals)
	return ValidateRentedRanges(rentable, requested, productID, instanceID, KindRentable)
}
