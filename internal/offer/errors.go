package offer

import "errors"

var (
	// ErrNoOffer возвращается, когда запрошенное окно нельзя покрыть
	// никакой комбинацией экземпляров
	ErrNoOffer = errors.New("offer: no offer available for the requested period")

	// ErrNegativeCost возвращается при отрицательной стоимости смены экземпляра
	// или отрицательной цене дня: веса рёбер графа обязаны быть неотрицательными
	ErrNegativeCost = errors.New("offer: costs must be non-negative")

	// ErrInvalidPeriod возвращается, когда конец окна раньше начала
	ErrInvalidPeriod = errors.New(`offer: "to" must be greater than or equal to "from"`)
)
