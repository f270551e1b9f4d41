package get_rentability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	"github.com/m04kA/SMC-RentalService/internal/ranges"
)

// UseCase use case расчета rentability: свободных диапазонов экземпляров
// продукта с учетом занимающих доступность аренд
type UseCase struct {
	productRepo ProductRepository
	rentalRepo  RentalRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(productRepo ProductRepository, rentalRepo RentalRepository, logger Logger) *UseCase {
	return &UseCase{
		productRepo: productRepo,
		rentalRepo:  rentalRepo,
		logger:      logger,
	}
}

// Execute вычисляет rentability продукта
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetRentability: product=%d ignoreAll=%t ignoreRental=%v",
		req.ProductID, req.IgnoreAllRentals, req.IgnoreRentalID)

	// 1. Валидация входных данных
	if req.IgnoreAllRentals && req.IgnoreRentalID != nil {
		uc.logger.Warn("GetRentability: ignoreAllRentals and ignoreRental are mutually exclusive")
		return nil, fmt.Errorf("%w: ignoreAllRentals and ignoreRental are mutually exclusive", ErrInvalidInput)
	}

	// 2. Получаем продукт с экземплярами и доступностью
	product, err := uc.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			uc.logger.Warn("GetRentability: product id=%d not found", req.ProductID)
			return nil, ErrProductNotFound
		}
		uc.logger.Error("GetRentability: failed to get product id=%d: %v", req.ProductID, err)
		return nil, fmt.Errorf("%w: failed to get product: %v", ErrInternal, err)
	}

	// 3. Получаем занимающие доступность аренды
	rentals, err := uc.loadRentals(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Вычитаем занятые диапазоны из доступности каждого экземпляра
	rentable := ranges.ComputeRentabilities(product.ID, product.Instances, rentals)

	instances := make(map[string][]RentableRange, len(rentable))
	for instanceID, dateRanges := range rentable {
		instances[instanceID] = fromDomainRanges(dateRanges)
	}

	return &Response{
		ProductID: product.ID,
		Instances: instances,
	}, nil
}

func (uc *UseCase) loadRentals(ctx context.Context, req *Request) ([]*domain.Rental, error) {
	if req.IgnoreAllRentals {
		return nil, nil
	}

	rentals, err := uc.rentalRepo.GetWithFilter(ctx, domain.RentalFilter{
		OnlyConsuming:   true,
		ExcludeRentalID: req.IgnoreRentalID,
	})
	if err != nil {
		uc.logger.Error("GetRentability: failed to get rentals: %v", err)
		return nil, fmt.Errorf("%w: failed to get rentals: %v", ErrInternal, err)
	}
	return rentals, nil
}
