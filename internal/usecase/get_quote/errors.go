package get_quote

import "errors"

var (
	// ErrProductNotFound возвращается, когда продукт не найден
	ErrProductNotFound = errors.New("product not found")

	// ErrNoOffer возвращается, когда окно нельзя покрыть ни одной
	// комбинацией экземпляров
	ErrNoOffer = errors.New("no offer covers the requested period")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
