package get_product

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

type ProductService interface {
	GetByID(ctx context.Context, id int64) (*models.ProductResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
