package update_rental

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	rentalRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/rental"
	rentalModels "github.com/m04kA/SMC-RentalService/internal/service/rentals/models"
)

// UseCase use case обновления аренды: переход статуса, штраф и замена
// распределения диапазонов. Замена ревалидируется против rentability,
// из которой исключена сама обновляемая аренда.
type UseCase struct {
	productRepo ProductRepository
	rentalRepo  RentalRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	productRepo ProductRepository,
	rentalRepo RentalRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		productRepo: productRepo,
		rentalRepo:  rentalRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case обновления аренды
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateRental: user=%d rental=%d", req.Auth.UserID, req.RentalID)

	// 1. Валидация формы запроса
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateRental: validation failed: %v", err)
		return nil, err
	}

	var (
		updated *domain.Rental
		total   *decimal.Decimal
	)

	// 2. Обновление в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		rental, err := uc.rentalRepo.GetByID(txCtx, req.RentalID)
		if err != nil {
			if errors.Is(err, rentalRepo.ErrRentalNotFound) {
				return ErrRentalNotFound
			}
			return fmt.Errorf("%w: failed to get rental: %v", ErrInternal, err)
		}

		// 2.1. Права доступа
		if err := checkAccess(req, rental); err != nil {
			return err
		}

		// 2.2. Переход статуса
		if req.Status != nil {
			next := domain.RentalStatus(*req.Status)
			if !rental.Status.CanTransitionTo(next) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rental.Status, next)
			}
			if next == domain.RentalActive && rental.Status != domain.RentalActive {
				approver := req.Auth.UserID
				rental.ApprovedBy = &approver
			}
			rental.Status = next
		}

		if req.Penalty != nil {
			rental.Penalty = req.Penalty
		}
		if req.Discounts != nil {
			rental.Discounts = *req.Discounts
		}

		// 2.3. Замена распределения с ревалидацией без самой аренды
		if req.Products != nil {
			newTotal, products, err := uc.rebuildProducts(txCtx, req, rental)
			if err != nil {
				return err
			}
			rental.Products = products
			total = &newTotal
		}

		updated, err = uc.rentalRepo.Update(txCtx, rental)
		if err != nil {
			return fmt.Errorf("%w: failed to update rental: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if isClientError(err) {
			uc.logger.Warn("UpdateRental: rejected for rental=%d: %v", req.RentalID, err)
		} else {
			uc.logger.Error("UpdateRental: failed for rental=%d: %v", req.RentalID, err)
		}
		return nil, err
	}

	uc.logger.Info("UpdateRental: rental id=%d updated, status=%s", updated.ID, updated.Status)

	return &Response{
		Rental:     rentalModels.FromDomainRental(updated),
		TotalPrice: total,
	}, nil
}

// rebuildProducts валидирует и оценивает новое распределение.
// Снапшот rentability строится без самой обновляемой аренды.
func (uc *UseCase) rebuildProducts(
	ctx context.Context,
	req *Request,
	rental *domain.Rental,
) (decimal.Decimal, map[int64]domain.ProductRental, error) {
	rentals, err := uc.rentalRepo.GetWithFilter(ctx, domain.RentalFilter{
		OnlyConsuming:   true,
		ExcludeRentalID: &rental.ID,
	})
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("%w: failed to get rentals: %v", ErrInternal, err)
	}

	products := make(map[int64]domain.ProductRental, len(req.Products))
	total := decimal.Zero
	rentalHasWeekend := false

	for productID, productReq := range req.Products {
		product, err := uc.productRepo.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, productRepo.ErrProductNotFound) {
				return decimal.Zero, nil, fmt.Errorf("%w: product %d", ErrProductNotFound, productID)
			}
			return decimal.Zero, nil, fmt.Errorf("%w: failed to get product %d: %v", ErrInternal, productID, err)
		}

		productTotal := decimal.Zero
		productHasWeekend := false
		instances := make(map[string]domain.InstanceRental, len(productReq.Instances))

		for instanceID, instanceReq := range productReq.Instances {
			instance, ok := product.Instance(instanceID)
			if !ok {
				return decimal.Zero, nil, fmt.Errorf("%w: instance %s of product %d",
					ErrInstanceNotFound, instanceID, productID)
			}

			requested := toDomainRanges(instanceReq.DateRanges)

			priced, subtotal, err := checkAndPrice(productID, instanceID, instance, requested, rentals)
			if err != nil {
				return decimal.Zero, nil, err
			}

			hasWeekend := anyContainsWeekend(requested)
			productHasWeekend = productHasWeekend || hasWeekend

			subtotal = instanceReq.Discounts.Apply(subtotal, hasWeekend)
			productTotal = productTotal.Add(subtotal)

			instances[instanceID] = domain.InstanceRental{
				DateRanges: priced,
				Discounts:  instanceReq.Discounts,
			}
		}

		productTotal = product.Discounts.Apply(productTotal, productHasWeekend)
		productTotal = productReq.Discounts.Apply(productTotal, productHasWeekend)
		total = total.Add(productTotal)
		rentalHasWeekend = rentalHasWeekend || productHasWeekend

		products[productID] = domain.ProductRental{
			Instances: instances,
			Discounts: productReq.Discounts,
		}
	}

	total = rental.Discounts.Apply(total, rentalHasWeekend)

	return total, products, nil
}

func isClientError(err error) bool {
	return errors.Is(err, ErrRentalNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInstanceNotFound) ||
		errors.Is(err, ErrRangesNotAvailable) ||
		errors.Is(err, ErrRangesNotRentable) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrAccessDenied)
}
