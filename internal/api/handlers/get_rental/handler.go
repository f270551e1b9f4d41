package get_rental

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/service/rentals"
)

const (
	msgInvalidRentalID = "некорректный ID аренды"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
	msgNotFound        = "аренда не найдена"
)

type Handler struct {
	service RentalService
	logger  Logger
}

func NewHandler(service RentalService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/rentals/{rentalId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuth(r.Context())
	if !ok {
		h.logger.Warn("GET /rentals/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	rentalID, err := strconv.ParseInt(mux.Vars(r)["rentalId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /rentals/{id} - Invalid rental ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRentalID)
		return
	}

	rental, err := h.service.GetByID(r.Context(), auth, rentalID)
	if err != nil {
		switch {
		case errors.Is(err, rentals.ErrRentalNotFound):
			h.logger.Warn("GET /rentals/{id} - Rental not found: rental_id=%d", rentalID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rentals.ErrAccessDenied):
			h.logger.Warn("GET /rentals/{id} - Access denied: rental_id=%d, user_id=%d", rentalID, auth.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /rentals/{id} - Failed to get rental: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rental)
}
