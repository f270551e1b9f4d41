package update_product

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/service/products"
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

const (
	msgInvalidProductID   = "некорректный ID продукта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgNotFound           = "продукт не найден"
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

// Handle PUT /api/v1/products/{productId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuth(r.Context())
	if !ok {
		h.logger.Warn("PUT /products/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	productID, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /products/{id} - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}

	var req models.UpdateProductRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /products/{id} - Invalid request body: product_id=%d, error=%v", productID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	product, err := h.service.Update(r.Context(), auth, productID, &req)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrProductNotFound):
			h.logger.Warn("PUT /products/{id} - Product not found: product_id=%d", productID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, products.ErrAccessDenied):
			h.logger.Warn("PUT /products/{id} - Access denied: product_id=%d, user_id=%d", productID, auth.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, products.ErrInvalidRanges):
			h.logger.Warn("PUT /products/{id} - Invalid ranges: product_id=%d, error=%v", productID, err)
			handlers.RespondBadRequest(w, msgInvalidRanges)

		case errors.Is(err, products.ErrInvalidInput):
			h.logger.Warn("PUT /products/{id} - Invalid input: product_id=%d, error=%v", productID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /products/{id} - Failed to update product: product_id=%d, error=%v", productID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /products/{id} - Product updated successfully: product_id=%d, user_id=%d",
		productID, auth.UserID)
	handlers.RespondJSON(w, http.StatusOK, product)
}
