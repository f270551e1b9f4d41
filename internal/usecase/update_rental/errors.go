package update_rental

import "errors"

var (
	// ErrRentalNotFound возвращается, когда аренда не найдена
	ErrRentalNotFound = errors.New("rental not found")

	// ErrProductNotFound возвращается, когда продукт не найден
	ErrProductNotFound = errors.New("product not found")

	// ErrInstanceNotFound возвращается, когда экземпляр продукта не найден
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrRangesNotAvailable возвращается, когда новые диапазоны
	// не покрываются доступностью экземпляра
	ErrRangesNotAvailable = errors.New("requested ranges are not available")

	// ErrRangesNotRentable возвращается, когда новые диапазоны заняты
	// другими арендами
	ErrRangesNotRentable = errors.New("requested ranges are not rentable")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
