package create_rental

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	rentalModels "github.com/m04kA/SMC-RentalService/internal/service/rentals/models"
)

// UseCase use case создания аренды.
// Проверка покрытия и пересчет цены выполняются в сериализуемой транзакции:
// две конкурентные аренды одного экземпляра не могут пройти валидацию обе.
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

// Execute выполняет use case создания аренды
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateRental: user=%d products=%d", req.Auth.UserID, len(req.Products))

	// 1. Валидация формы запроса
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateRental: validation failed: %v", err)
		return nil, err
	}

	renterID := req.Auth.UserID
	if req.ForUserID != nil {
		renterID = *req.ForUserID
	}

	var (
		created *domain.Rental
		total   decimal.Decimal
	)

	// 2. Проверки покрытия и создание в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Занимающие доступность аренды: снапшот один на весь запрос
		rentals, err := uc.rentalRepo.GetWithFilter(txCtx, domain.RentalFilter{OnlyConsuming: true})
		if err != nil {
			return fmt.Errorf("%w: failed to get rentals: %v", ErrInternal, err)
		}

		rentalProducts := make(map[int64]domain.ProductRental, len(req.Products))
		total = decimal.Zero

		for productID, productReq := range req.Products {
			// 2.2. Продукт с экземплярами и доступностью
			product, err := uc.productRepo.GetByID(txCtx, productID)
			if err != nil {
				if errors.Is(err, productRepo.ErrProductNotFound) {
					return fmt.Errorf("%w: product %d", ErrProductNotFound, productID)
				}
				return fmt.Errorf("%w: failed to get product %d: %v", ErrInternal, productID, err)
			}

			productTotal := decimal.Zero
			productHasWeekend := false
			instances := make(map[string]domain.InstanceRental, len(productReq.Instances))

			for instanceID, instanceReq := range productReq.Instances {
				instance, ok := product.Instance(instanceID)
				if !ok {
					return fmt.Errorf("%w: instance %s of product %d",
						ErrInstanceNotFound, instanceID, productID)
				}

				requested := toDomainRanges(instanceReq.DateRanges)

				// 2.3. Покрытие и цена по экземпляру
				priced, subtotal, err := checkAndPrice(productID, instanceID, instance, requested, rentals)
				if err != nil {
					return err
				}

				hasWeekend := anyContainsWeekend(requested)
				productHasWeekend = productHasWeekend || hasWeekend

				// Скидки экземпляра из запроса поверх каталожных
				subtotal = instanceReq.Discounts.Apply(subtotal, hasWeekend)
				productTotal = productTotal.Add(subtotal)

				instances[instanceID] = domain.InstanceRental{
					DateRanges: priced,
					Discounts:  instanceReq.Discounts,
				}
			}

			// 2.4. Скидки продукта: каталожные, затем из запроса
			productTotal = product.Discounts.Apply(productTotal, productHasWeekend)
			productTotal = productReq.Discounts.Apply(productTotal, productHasWeekend)
			total = total.Add(productTotal)

			rentalProducts[productID] = domain.ProductRental{
				Instances: instances,
				Discounts: productReq.Discounts,
			}
		}

		// 2.5. Скидки уровня аренды
		rentalHasWeekend := rentalContainsWeekend(rentalProducts)
		total = req.Discounts.Apply(total, rentalHasWeekend)

		// 2.6. Создаем аренду
		created, err = uc.rentalRepo.Create(txCtx, &domain.Rental{
			UserID:    renterID,
			Status:    domain.RentalReady,
			Products:  rentalProducts,
			Discounts: req.Discounts,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create rental: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if isClientError(err) {
			uc.logger.Warn("CreateRental: rejected: %v", err)
		} else {
			uc.logger.Error("CreateRental: failed: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("CreateRental: rental id=%d created for user=%d, total=%s",
		created.ID, renterID, total)

	return &Response{
		Rental:     rentalModels.FromDomainRental(created),
		TotalPrice: total,
	}, nil
}

func rentalContainsWeekend(products map[int64]domain.ProductRental) bool {
	for _, productRental := range products {
		for _, instanceRental := range productRental.Instances {
			if anyContainsWeekend(instanceRental.DateRanges) {
				return true
			}
		}
	}
	return false
}

func isClientError(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInstanceNotFound) ||
		errors.Is(err, ErrRangesNotAvailable) ||
		errors.Is(err, ErrRangesNotRentable) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrAccessDenied)
}
