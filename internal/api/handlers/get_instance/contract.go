package get_instance

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

type ProductService interface {
	GetInstance(ctx context.Context, productID int64, instanceID string) (*models.InstanceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
