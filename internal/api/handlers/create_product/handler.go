package create_product

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/service/products"
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidRanges      = "некорректные диапазоны доступности"
)

type Handler struct {
	service ProductService
	logger  Logger
}

func NewHandler(service ProductService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/products
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuth(r.Context())
	if !ok {
		h.logger.Warn("POST /products - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateProductRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /products - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	product, err := h.service.Create(r.Context(), auth, &req)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrAccessDenied):
			h.logger.Warn("POST /products - Access denied: user_id=%d", auth.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, products.ErrInvalidRanges):
			h.logger.Warn("POST /products - Invalid ranges: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidRanges)

		case errors.Is(err, products.ErrInvalidInput):
			h.logger.Warn("POST /products - Invalid input: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /products - Failed to create product: user_id=%d, error=%v", auth.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /products - Product created successfully: product_id=%d, user_id=%d",
		product.ID, auth.UserID)
	handlers.RespondJSON(w, http.StatusCreated, product)
}
