package list_rentals

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/service/rentals"
	"github.com/m04kA/SMC-RentalService/internal/service/rentals/models"
)

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidUserID   = "некорректный ID пользователя в фильтре"
	msgInvalidPage     = "некорректный номер страницы"
	msgInvalidPageSize = "некорректный размер страницы"
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

// Handle GET /api/v1/rentals
// Query params: userId, status, page, pageSize.
// Фильтр userId работает только с capability manageRentals,
// иначе список ограничен арендами самого пользователя.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuth(r.Context())
	if !ok {
		h.logger.Warn("GET /rentals - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.ListRentalsRequest

	query := r.URL.Query()

	if userIDStr := query.Get("userId"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /rentals - Invalid userId filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidUserID)
			return
		}
		req.UserID = &userID
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.ParseUint(pageStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /rentals - Invalid page: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPage)
			return
		}
		req.Page = page
	}

	if pageSizeStr := query.Get("pageSize"); pageSizeStr != "" {
		pageSize, err := strconv.ParseUint(pageSizeStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /rentals - Invalid pageSize: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPageSize)
			return
		}
		req.PageSize = pageSize
	}

	result, err := h.service.List(r.Context(), auth, &req)
	if err != nil {
		switch {
		case errors.Is(err, rentals.ErrInvalidInput):
			h.logger.Warn("GET /rentals - Invalid input: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /rentals - Failed to list rentals: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
