package update_product

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

type ProductService interface {
	Update(ctx context.Context, auth domain.Auth, id int64, req *models.UpdateProductRequest) (*models.ProductResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
