package get_quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	"github.com/m04kA/SMC-RentalService/internal/offer"
	"github.com/m04kA/SMC-RentalService/internal/ranges"
)

// UseCase use case подбора оффера: находит самое дешевое покрытие окна
// аренды экземплярами продукта с учетом платных смен экземпляра
type UseCase struct {
	productRepo         ProductRepository
	rentalRepo          RentalRepository
	defaultExchangeCost decimal.Decimal
	logger              Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	productRepo ProductRepository,
	rentalRepo RentalRepository,
	defaultExchangeCost decimal.Decimal,
	logger Logger,
) *UseCase {
	return &UseCase{
		productRepo:         productRepo,
		rentalRepo:          rentalRepo,
		defaultExchangeCost: defaultExchangeCost,
		logger:              logger,
	}
}

// Execute подбирает оффер для окна [From, To]
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetQuote: product=%d window=[%s, %s] ignoreAll=%t ignoreRental=%v",
		req.ProductID, req.From, req.To, req.IgnoreAllRentals, req.IgnoreRentalID)

	// 1. Валидация входных данных
	if req.To.Before(req.From) {
		uc.logger.Warn("GetQuote: invalid window [%s, %s]", req.From, req.To)
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}
	if req.IgnoreAllRentals && req.IgnoreRentalID != nil {
		uc.logger.Warn("GetQuote: ignoreAllRentals and ignoreRental are mutually exclusive")
		return nil, fmt.Errorf("%w: ignoreAllRentals and ignoreRental are mutually exclusive", ErrInvalidInput)
	}

	exchangeCost := uc.defaultExchangeCost
	if req.ExchangeCost != nil {
		if req.ExchangeCost.IsNegative() {
			uc.logger.Warn("GetQuote: negative exchange cost %s", req.ExchangeCost)
			return nil, fmt.Errorf("%w: exchange cost is negative", ErrInvalidInput)
		}
		exchangeCost = *req.ExchangeCost
	}

	// 2. Получаем продукт
	product, err := uc.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			uc.logger.Warn("GetQuote: product id=%d not found", req.ProductID)
			return nil, ErrProductNotFound
		}
		uc.logger.Error("GetQuote: failed to get product id=%d: %v", req.ProductID, err)
		return nil, fmt.Errorf("%w: failed to get product: %v", ErrInternal, err)
	}

	// 3. Получаем занимающие доступность аренды
	var rentals []*domain.Rental
	if !req.IgnoreAllRentals {
		rentals, err = uc.rentalRepo.GetWithFilter(ctx, domain.RentalFilter{
			OnlyConsuming:   true,
			ExcludeRentalID: req.IgnoreRentalID,
		})
		if err != nil {
			uc.logger.Error("GetQuote: failed to get rentals: %v", err)
			return nil, fmt.Errorf("%w: failed to get rentals: %v", ErrInternal, err)
		}
	}

	// 4. Снапшот rentability по экземплярам
	rentable := ranges.ComputeRentabilities(product.ID, product.Instances, rentals)

	// 5. Подбираем оффер на снапшоте
	best, err := offer.BestOffer(rentable, exchangeCost, req.From, req.To)
	if err != nil {
		if errors.Is(err, offer.ErrNoOffer) {
			uc.logger.Info("GetQuote: no offer for product=%d window=[%s, %s]",
				req.ProductID, req.From, req.To)
			return nil, ErrNoOffer
		}
		uc.logger.Error("GetQuote: offer computation failed: %v", err)
		return nil, fmt.Errorf("%w: offer computation failed: %v", ErrInternal, err)
	}

	instances := make(map[string][]OfferRange, len(best.Instances))
	for instanceID, dateRanges := range best.Instances {
		out := make([]OfferRange, 0, len(dateRanges))
		for _, r := range dateRanges {
			out = append(out, OfferRange{
				From:      r.From,
				To:        r.To,
				Price:     r.Price,
				Discounts: r.Discounts,
			})
		}
		instances[instanceID] = out
	}

	uc.logger.Info("GetQuote: offer for product=%d costs %s across %d instances",
		req.ProductID, best.TotalCost, len(instances))

	return &Response{
		ProductID:  req.ProductID,
		From:       req.From,
		To:         req.To,
		TotalPrice: best.TotalCost,
		Instances:  instances,
	}, nil
}
