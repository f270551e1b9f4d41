package delete_rental

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

type RentalService interface {
	Delete(ctx context.Context, auth domain.Auth, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
