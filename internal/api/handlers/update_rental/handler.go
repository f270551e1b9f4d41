package update_rental

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	updateRental "github.com/m04kA/SMC-RentalService/internal/usecase/update_rental"
)

const (
	msgInvalidRentalID    = "некорректный ID аренды"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgRentalNotFound     = "аренда не найдена"
	msgProductNotFound    = "продукт не найден"
	msgInstanceNotFound   = "экземпляр не найден"
	msgRangesNotAvailable = "запрошенные диапазоны вне доступности экземпляра"
	msgRangesNotRentable  = "запрошенные диапазоны заняты другими арендами"
	msgInvalidTransition  = "недопустимый переход статуса"
)

type Handler struct {
	useCase UpdateRentalUseCase
	logger  Logger
}

func NewHandler(useCase UpdateRentalUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/rentals/{rentalId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuth(r.Context())
	if !ok {
		h.logger.Warn("PUT /rentals/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	rentalID, err := strconv.ParseInt(mux.Vars(r)["rentalId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /rentals/{id} - Invalid rental ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRentalID)
		return
	}

	var req UpdateRentalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /rentals/{id} - Invalid request body: rental_id=%d, error=%v", rentalID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(auth, rentalID))
	if err != nil {
		switch {
		case errors.Is(err, updateRental.ErrRentalNotFound):
			h.logger.Warn("PUT /rentals/{id} - Rental not found: rental_id=%d", rentalID)
			handlers.RespondNotFound(w, msgRentalNotFound)

		case errors.Is(err, updateRental.ErrProductNotFound):
			h.logger.Warn("PUT /rentals/{id} - Product not found: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, updateRental.ErrInstanceNotFound):
			h.logger.Warn("PUT /rentals/{id} - Instance not found: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondNotFound(w, msgInstanceNotFound)

		case errors.Is(err, updateRental.ErrRangesNotAvailable):
			h.logger.Warn("PUT /rentals/{id} - Ranges not available: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondConflict(w, msgRangesNotAvailable)

		case errors.Is(err, updateRental.ErrRangesNotRentable):
			h.logger.Warn("PUT /rentals/{id} - Ranges not rentable: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondConflict(w, msgRangesNotRentable)

		case errors.Is(err, updateRental.ErrInvalidTransition):
			h.logger.Warn("PUT /rentals/{id} - Invalid status transition: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, updateRental.ErrAccessDenied):
			h.logger.Warn("PUT /rentals/{id} - Access denied: rental_id=%d, user_id=%d", rentalID, auth.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateRental.ErrInvalidInput):
			h.logger.Warn("PUT /rentals/{id} - Invalid input: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /rentals/{id} - Failed to update rental: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /rentals/{id} - Rental updated successfully: rental_id=%d, user_id=%d",
		rentalID, auth.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
