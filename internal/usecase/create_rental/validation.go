package create_rental

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/ranges"
)

// validateRequest проверяет форму запроса до обращения к БД
func validateRequest(req *Request) error {
	if len(req.Products) == 0 {
		return fmt.Errorf("%w: at least one product is required", ErrInvalidInput)
	}

	hasCustomDiscounts := len(req.Discounts) > 0

	for productID, productReq := range req.Products {
		if len(productReq.Instances) == 0 {
			return fmt.Errorf("%w: product %d has no instances", ErrInvalidInput, productID)
		}
		if len(productReq.Discounts) > 0 {
			hasCustomDiscounts = true
		}

		for instanceID, instanceReq := range productReq.Instances {
			if len(instanceReq.DateRanges) == 0 {
				return fmt.Errorf("%w: instance %s of product %d has no date ranges",
					ErrInvalidInput, instanceID, productID)
			}
			if len(instanceReq.DateRanges) > domain.MaxRangesPerRequest {
				return fmt.Errorf("%w: instance %s of product %d exceeds %d ranges",
					ErrInvalidInput, instanceID, productID, domain.MaxRangesPerRequest)
			}
			if len(instanceReq.Discounts) > 0 {
				hasCustomDiscounts = true
			}

			if err := ranges.ValidateRanges(toDomainRanges(instanceReq.DateRanges)); err != nil {
				return fmt.Errorf("%w: instance %s of product %d: %v",
					ErrInvalidInput, instanceID, productID, err)
			}
		}
	}

	// Скидки в запросе и аренда на другого пользователя доступны
	// только менеджерам
	if hasCustomDiscounts && !req.Auth.Can(domain.CapManageRentals) {
		return fmt.Errorf("%w: custom discounts require %s", ErrAccessDenied, domain.CapManageRentals)
	}
	if req.ForUserID != nil && *req.ForUserID != req.Auth.UserID && !req.Auth.Can(domain.CapManageRentals) {
		return fmt.Errorf("%w: renting for another user requires %s", ErrAccessDenied, domain.CapManageRentals)
	}

	return nil
}

// checkAndPrice проверяет запрошенные диапазоны одного экземпляра против
// доступности и rentability и оценивает их стоимость по каталогу.
// Возвращает диапазоны с проставленной ценой и сумму по экземпляру
// до применения скидок уровней выше.
func checkAndPrice(
	productID int64,
	instanceID string,
	instance domain.Instance,
	requested []domain.DateRange,
	rentals []*domain.Rental,
) ([]domain.DateRange, decimal.Decimal, error) {
	if err := ranges.GuardRequested(productID, instanceID, instance, requested, rentals); err != nil {
		return nil, decimal.Zero, coverageToError(err)
	}

	subtotal, perRange, err := ranges.PriceRanges(requested, instance.Availability)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("%w: instance %s of product %d: %v",
			ErrInternal, instanceID, productID, err)
	}

	priced := make([]domain.DateRange, len(requested))
	for i, r := range requested {
		priced[i] = domain.DateRange{From: r.From, To: r.To, Price: perRange[i]}
	}

	// Скидки самого экземпляра применяются к его сумме
	hasWeekend := anyContainsWeekend(requested)
	subtotal = instance.Discounts.Apply(subtotal, hasWeekend)

	return priced, subtotal, nil
}

func coverageToError(err error) error {
	var coverage *ranges.CoverageError
	if errors.As(err, &coverage) {
		sentinel := ErrRangesNotAvailable
		if coverage.Kind == ranges.KindRentable {
			sentinel = ErrRangesNotRentable
		}
		return fmt.Errorf("%w: instance %s of product %d",
			sentinel, coverage.InstanceID, coverage.ProductID)
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

func anyContainsWeekend(dateRanges []domain.DateRange) bool {
	for _, r := range dateRanges {
		if r.ContainsWeekend() {
			return true
		}
	}
	return false
}
