package get_quote

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// ProductRepository интерфейс репозитория продуктов
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	GetWithFilter(ctx context.Context, filter domain.RentalFilter) ([]*domain.Rental, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
