package ranges

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRange возвращается, когда у диапазона to раньше from
	ErrMalformedRange = errors.New(`ranges: "to" must be greater than or equal to "from"`)

	// ErrOverlappingRanges возвращается, когда диапазоны одного запроса пересекаются
	ErrOverlappingRanges = errors.New("ranges: ranges must be non-overlapping")

	// ErrNotCovered возвращается, когда запрошенные диапазоны не совпадают
	// в точности с пересечением по указанному референсному списку
	ErrNotCovered = errors.New("ranges: requested ranges are not covered")

	// ErrDataInconsistency возвращается, когда день запрошенного диапазона
	// покрыт нулём или более чем одним диапазоном availability.
	// Сигнализирует о повреждённых данных каталога; не восстанавливается.
	ErrDataInconsistency = errors.New("ranges: availability data is inconsistent")
)

// Kind указывает, по какому референсному списку шла проверка покрытия
type Kind string

const (
	// KindAvailable проверка по сырой availability экземпляра
	KindAvailable Kind = "available"
	// KindRentable проверка по rentability с учётом других аренд
	KindRentable Kind = "rentable"
)

// CoverageError ошибка проверки покрытия с привязкой к продукту и экземпляру
type CoverageError struct {
	ProductID  int64
	InstanceID string
	Kind       Kind
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("ranges: rented ranges for instance %s of product %d are not %s",
		e.InstanceID, e.ProductID, e.Kind)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrNotCovered)
func (e *CoverageError) Unwrap() error {
	return ErrNotCovered
}
