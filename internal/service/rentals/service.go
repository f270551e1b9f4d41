package rentals

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	rentalRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/rental"
	"github.com/m04kA/SMC-RentalService/internal/service/rentals/models"
)

// Service сервис чтения и удаления аренд.
// Создание и обновление идут через отдельные use case: там валидация
// покрытия диапазонов и пересчет цены.
type Service struct {
	rentalRepo RentalRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса аренд
func NewService(rentalRepo RentalRepository, logger Logger) *Service {
	return &Service{
		rentalRepo: rentalRepo,
		logger:     logger,
	}
}

// GetByID получает аренду по ID.
// Пользователь видит только свои аренды; manageRentals открывает все.
func (s *Service) GetByID(ctx context.Context, auth domain.Auth, id int64) (*models.RentalResponse, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rentalRepo.ErrRentalNotFound) {
			s.logger.Warn("GetByID: rental id=%d not found", id)
			return nil, ErrRentalNotFound
		}
		s.logger.Error("GetByID: repository error for rental id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if rental.UserID != auth.UserID && !auth.Can(domain.CapManageRentals) {
		s.logger.Warn("GetByID: access denied for user=%d to rental id=%d", auth.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainRental(rental), nil
}

// List получает список аренд.
// Без manageRentals фильтр по пользователю принудительно сужается до своих.
func (s *Service) List(ctx context.Context, auth domain.Auth, req *models.ListRentalsRequest) (*models.RentalListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !auth.Can(domain.CapManageRentals) {
		userID := auth.UserID
		filter.UserID = &userID
	}

	rentals, err := s.rentalRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRentalList(rentals), nil
}

// Delete удаляет аренду. Требует capability manageRentals.
func (s *Service) Delete(ctx context.Context, auth domain.Auth, id int64) error {
	s.logger.Info("Delete: user=%d deleting rental id=%d", auth.UserID, id)

	if !auth.Can(domain.CapManageRentals) {
		s.logger.Warn("Delete: access denied for user=%d", auth.UserID)
		return ErrAccessDenied
	}

	if err := s.rentalRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, rentalRepo.ErrRentalNotFound) {
			s.logger.Warn("Delete: rental id=%d not found", id)
			return ErrRentalNotFound
		}
		s.logger.Error("Delete: repository error for rental id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: rental id=%d deleted", id)
	return nil
}
