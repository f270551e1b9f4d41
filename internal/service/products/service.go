package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	"github.com/m04kA/SMC-RentalService/internal/ranges"
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

// Service сервис для работы с каталогом продуктов
type Service struct {
	productRepo ProductRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса продуктов
func NewService(productRepo ProductRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		productRepo: productRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create создает продукт. Требует capability manageProducts.
func (s *Service) Create(ctx context.Context, auth domain.Auth, req *models.CreateProductRequest) (*models.ProductResponse, error) {
	s.logger.Info("Create: user=%d creating product name=%q with %d instances",
		auth.UserID, req.Name, len(req.Instances))

	if !auth.Can(domain.CapManageProducts) {
		s.logger.Warn("Create: access denied for user=%d", auth.UserID)
		return nil, ErrAccessDenied
	}

	if err := validateProductFields(req.Name, req.Description, req.Discounts); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	instances, err := buildInstances(req.Instances, nil)
	if err != nil {
		s.logger.Warn("Create: instance validation failed: %v", err)
		return nil, err
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Stars:       req.Stars,
		CoverImage:  req.CoverImage,
		OtherImages: req.OtherImages,
		Discounts:   req.Discounts,
		Instances:   instances,
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		product, err = s.productRepo.Create(txCtx, product)
		return err
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: product id=%d created", product.ID)
	return models.FromDomainProduct(product), nil
}

// GetByID получает продукт по ID. Доступно без авторизации.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			s.logger.Warn("GetByID: product id=%d not found", id)
			return nil, ErrProductNotFound
		}
		s.logger.Error("GetByID: repository error for product id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProduct(product), nil
}

// List получает список продуктов с фильтрацией по названию или ключевым
// словам и пагинацией
func (s *Service) List(ctx context.Context, req *models.ListProductsRequest) (*models.ProductListResponse, error) {
	if req.Name != nil && len(req.Keywords) > 0 {
		s.logger.Warn("List: name and keywords are mutually exclusive")
		return nil, fmt.Errorf("%w: name and keywords are mutually exclusive", ErrInvalidInput)
	}

	products, err := s.productRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProductList(products), nil
}

// GetInstances получает экземпляры продукта
func (s *Service) GetInstances(ctx context.Context, productID int64) (map[string]models.InstanceResponse, error) {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return product.Instances, nil
}

// GetInstance получает один экземпляр продукта
func (s *Service) GetInstance(ctx context.Context, productID int64, instanceID string) (*models.InstanceResponse, error) {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	instance, ok := product.Instances[instanceID]
	if !ok {
		s.logger.Warn("GetInstance: instance %s of product id=%d not found", instanceID, productID)
		return nil, ErrInstanceNotFound
	}
	return &instance, nil
}

// Update обновляет продукт, полностью заменяя набор экземпляров.
// Требует capability manageProducts. Смена статуса экземпляра фиксируется
// в его журнале.
func (s *Service) Update(ctx context.Context, auth domain.Auth, id int64, req *models.UpdateProductRequest) (*models.ProductResponse, error) {
	s.logger.Info("Update: user=%d updating product id=%d", auth.UserID, id)

	if !auth.Can(domain.CapManageProducts) {
		s.logger.Warn("Update: access denied for user=%d", auth.UserID)
		return nil, ErrAccessDenied
	}

	if err := validateProductFields(req.Name, req.Description, req.Discounts); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	var updated *domain.Product
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.productRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		instances, err := buildInstances(req.Instances, current.Instances)
		if err != nil {
			return err
		}

		product := &domain.Product{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Stars:       req.Stars,
			CoverImage:  req.CoverImage,
			OtherImages: req.OtherImages,
			Discounts:   req.Discounts,
			Instances:   instances,
		}

		updated, err = s.productRepo.Update(txCtx, product)
		return err
	})
	if err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			s.logger.Warn("Update: product id=%d not found", id)
			return nil, ErrProductNotFound
		}
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidRanges) {
			s.logger.Warn("Update: validation failed for product id=%d: %v", id, err)
			return nil, err
		}
		s.logger.Error("Update: repository error for product id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: product id=%d updated", id)
	return models.FromDomainProduct(updated), nil
}

// Delete удаляет продукт. Требует capability manageProducts.
func (s *Service) Delete(ctx context.Context, auth domain.Auth, id int64) error {
	s.logger.Info("Delete: user=%d deleting product id=%d", auth.UserID, id)

	if !auth.Can(domain.CapManageProducts) {
		s.logger.Warn("Delete: access denied for user=%d", auth.UserID)
		return ErrAccessDenied
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, productRepo.ErrProductNotFound) {
			s.logger.Warn("Delete: product id=%d not found", id)
			return ErrProductNotFound
		}
		s.logger.Error("Delete: repository error for product id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: product id=%d deleted", id)
	return nil
}

func validateProductFields(name, description string, discounts domain.Discounts) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxProductNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, domain.MaxProductNameLength)
	}
	if len(description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	return validateDiscounts(discounts)
}

func validateDiscounts(discounts domain.Discounts) error {
	for _, d := range discounts {
		if !domain.IsValidDiscountType(string(d.Type)) {
			return fmt.Errorf("%w: unknown discount type %q", ErrInvalidInput, d.Type)
		}
		if len(d.Name) > domain.MaxDiscountNameLength {
			return fmt.Errorf("%w: discount name exceeds %d characters", ErrInvalidInput, domain.MaxDiscountNameLength)
		}
		if d.Value.IsNegative() {
			return fmt.Errorf("%w: discount %q has negative value", ErrInvalidInput, d.Name)
		}
	}
	return nil
}

// buildInstances собирает domain-экземпляры из payload.
// current содержит прежний набор при обновлении: журналы переносятся,
// смена статуса дописывается в журнал.
func buildInstances(payloads []models.InstancePayload, current map[string]domain.Instance) (map[string]domain.Instance, error) {
	instances := make(map[string]domain.Instance, len(payloads))

	for _, payload := range payloads {
		instanceID := uuid.NewString()
		if payload.ID != nil && *payload.ID != "" {
			instanceID = *payload.ID
		}
		if _, exists := instances[instanceID]; exists {
			return nil, fmt.Errorf("%w: duplicate instance id %s", ErrInvalidInput, instanceID)
		}

		status := domain.InstanceInStock
		if payload.Status != nil {
			if !domain.IsValidInstanceStatus(*payload.Status) {
				return nil, fmt.Errorf("%w: unknown instance status %q", ErrInvalidInput, *payload.Status)
			}
			status = domain.InstanceStatus(*payload.Status)
		}

		if err := validateDiscounts(payload.Discounts); err != nil {
			return nil, err
		}

		availability := make([]domain.DateRange, 0, len(payload.Availability))
		for _, r := range payload.Availability {
			if r.Price.IsNegative() {
				return nil, fmt.Errorf("%w: instance %s has negative price", ErrInvalidInput, instanceID)
			}
			if err := validateDiscounts(r.Discounts); err != nil {
				return nil, err
			}
			availability = append(availability, r.ToDomain())
		}
		if err := ranges.ValidateRanges(availability); err != nil {
			return nil, fmt.Errorf("%w: instance %s: %v", ErrInvalidRanges, instanceID, err)
		}

		instance := domain.Instance{
			ID:           instanceID,
			Availability: availability,
			Discounts:    payload.Discounts,
			Status:       status,
		}

		if prev, ok := current[instanceID]; ok {
			instance.Logs = prev.Logs
			if prev.Status != status {
				instance.Logs = append(instance.Logs, domain.InstanceLog{
					At:      time.Now().UTC(),
					Message: fmt.Sprintf("status changed: %s -> %s", prev.Status, status),
				})
			}
		}

		instances[instanceID] = instance
	}

	return instances, nil
}
