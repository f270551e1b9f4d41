package create_rental

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	createRental "github.com/m04kA/SMC-RentalService/internal/usecase/create_rental"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgProductNotFound    = "продукт не найден"
	msgInstanceNotFound   = "экземпляр не найден"
	msgRangesNotAvailable = "запрошенные диапазоны вне доступности экземпляра"
	msgRangesNotRentable  = "запрошенные диапазоны заняты другими арендами"
)

type Handler struct {
	useCase CreateRentalUseCase
	logger  Logger
}

func NewHandler(useCase CreateRentalUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/rentals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuth(r.Context())
	if !ok {
		h.logger.Warn("POST /rentals - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateRentalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rentals - Invalid request body: user_id=%d, error=%v", auth.UserID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(auth))
	if err != nil {
		switch {
		case errors.Is(err, createRental.ErrProductNotFound):
			h.logger.Warn("POST /rentals - Product not found: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, createRental.ErrInstanceNotFound):
			h.logger.Warn("POST /rentals - Instance not found: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondNotFound(w, msgInstanceNotFound)

		case errors.Is(err, createRental.ErrRangesNotAvailable):
			h.logger.Warn("POST /rentals - Ranges not available: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondConflict(w, msgRangesNotAvailable)

		case errors.Is(err, createRental.ErrRangesNotRentable):
			h.logger.Warn("POST /rentals - Ranges not rentable: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondConflict(w, msgRangesNotRentable)

		case errors.Is(err, createRental.ErrAccessDenied):
			h.logger.Warn("POST /rentals - Access denied: user_id=%d", auth.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createRental.ErrInvalidInput):
			h.logger.Warn("POST /rentals - Invalid input: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /rentals - Failed to create rental: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rentals - Rental created successfully: rental_id=%d, user_id=%d, total=%s",
		result.Rental.ID, auth.UserID, result.TotalPrice)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
