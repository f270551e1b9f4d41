package update_rental

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/ranges"
)

// validateRequest проверяет форму запроса до обращения к БД
func validateRequest(req *Request) error {
	if req.Status == nil && req.Penalty == nil && req.Products == nil && req.Discounts == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if req.Status != nil && !domain.IsValidRentalStatus(*req.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}
	if req.Penalty != nil && req.Penalty.IsNegative() {
		return fmt.Errorf("%w: penalty is negative", ErrInvalidInput)
	}

	for productID, productReq := range req.Products {
		if len(productReq.Instances) == 0 {
			return fmt.Errorf("%w: product %d has no instances", ErrInvalidInput, productID)
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
			if err := ranges.ValidateRanges(toDomainRanges(instanceReq.DateRanges)); err != nil {
				return fmt.Errorf("%w: instance %s of product %d: %v",
					ErrInvalidInput, instanceID, productID, err)
			}
		}
	}

	return nil
}

// checkAccess проверяет права на обновление.
// Владелец без manageRentals может менять только распределение своей
// аренды, пока она в статусе ready; остальное требует manageRentals.
func checkAccess(req *Request, rental *domain.Rental) error {
	if req.Auth.Can(domain.CapManageRentals) {
		return nil
	}

	if rental.UserID != req.Auth.UserID {
		return fmt.Errorf("%w: rental belongs to another user", ErrAccessDenied)
	}
	if req.Status != nil || req.Penalty != nil || req.Discounts != nil || hasCustomDiscounts(req.Products) {
		return fmt.Errorf("%w: changing status, penalty or discounts requires %s",
			ErrAccessDenied, domain.CapManageRentals)
	}
	if rental.Status != domain.RentalReady {
		return fmt.Errorf("%w: only a ready rental can be reshaped by its owner", ErrAccessDenied)
	}
	return nil
}

func hasCustomDiscounts(products map[int64]ProductRequest) bool {
	for _, productReq := range products {
		if len(productReq.Discounts) > 0 {
			return true
		}
		for _, instanceReq := range productReq.Instances {
			if len(instanceReq.Discounts) > 0 {
				return true
			}
		}
	}
	return false
}

// checkAndPrice проверяет диапазоны одного экземпляра против доступности
// и rentability и оценивает их по каталогу
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
