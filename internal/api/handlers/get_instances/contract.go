package get_instances

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

type ProductService interface {
	GetInstances(ctx context.Context, productID int64) (map[string]models.InstanceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
