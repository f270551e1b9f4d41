package products

import "errors"

var (
	// ErrProductNotFound возвращается, когда продукт не найден
	ErrProductNotFound = errors.New("product not found")

	// ErrInstanceNotFound возвращается, когда экземпляр продукта не найден
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidRanges возвращается, когда диапазоны доступности экземпляра
	// некорректны или пересекаются между собой
	ErrInvalidRanges = errors.New("invalid availability ranges")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("internal service error")
)
