package get_rentability

import (
	"context"

	getRentability "github.com/m04kA/SMC-RentalService/internal/usecase/get_rentability"
)

type GetRentabilityUseCase interface {
	Execute(ctx context.Context, req *getRentability.Request) (*getRentability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
