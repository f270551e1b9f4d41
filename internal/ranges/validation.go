package ranges

import (
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// ValidateRanges проверяет корректность набора диапазонов одного запроса:
// каждый диапазон имеет from <= to, и никакие два диапазона не пересекаются
func ValidateRanges(dateRanges []domain.DateRange) error {
	for i, r := range dateRanges {
		if !r.IsValid() {
			return fmt.Errorf("%w: range %s..%s", ErrMalformedRange, r.From, r.To)
		}
		for _, other := range dateRanges[i+1:] {
			if r.Overlaps(other) {
				return fmt.Errorf("%w: %s..%s and %s..%s",
					ErrOverlappingRanges, r.From, r.To, other.From, other.To)
			}
		}
	}
	return nil
}

// ValidateRentedRanges проверяет, что requested в точности покрывается
// референсным списком reference (availability или rentability):
//
//  1. requested корректен и без взаимных пересечений;
//  2. reference склеивается с учётом соприкосновений;
//  3. граничное пересечение склеенного reference с requested, сравнённое
//     подиапазонно по порядку, должно совпасть с requested — иначе запрос
//     покрыт частично, с зазором или фантомно, и отклоняется.
//
// kind попадает в ошибку, чтобы вызывающий код мог отличить
// "not available" от "not rentable".
func ValidateRentedRanges(reference, requested []domain.DateRange, productID int64, instanceID string, kind Kind) error {
	if err := ValidateRanges(requested); err != nil {
		return err
	}

	merged := MergeAdjacent(reference)
	if len(merged) == 0 {
		return &CoverageError{ProductID: productID, InstanceID: instanceID, Kind: kind}
	}

	combined := make([]domain.DateRange, 0, len(merged)+len(requested))
	combined = append(combined, merged...)
	combined = append(combined, requested...)

	intersection := EdgeIntersect(combined)

	if !sameIntervals(intersection, requested) {
		return &CoverageError{ProductID: productID, InstanceID: instanceID, Kind: kind}
	}

	return nil
}

// sameIntervals сравнивает два списка диапазонов подиапазонно по порядку
func sameIntervals(a, b []domain.DateRange) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].From.Equal(b[i].From) || !a[i].To.Equal(b[i].To) {
			return false
		}
	}
	return true
}
