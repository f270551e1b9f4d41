package delete_product

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/service/products"
)

const (
	msgInvalidProductID = "некорректный ID продукта"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
	msgNotFound         = "продукт не найден"
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

// Handle DELETE /api/v1/products/{productId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuth(r.Context())
	if !ok {
		h.logger.Warn("DELETE /products/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	productID, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /products/{id} - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}

	if err := h.service.Delete(r.Context(), auth, productID); err != nil {
		switch {
		case errors.Is(err, products.ErrProductNotFound):
			h.logger.Warn("DELETE /products/{id} - Product not found: product_id=%d", productID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, products.ErrAccessDenied):
			h.logger.Warn("DELETE /products/{id} - Access denied: product_id=%d, user_id=%d", productID, auth.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /products/{id} - Failed to delete product: product_id=%d, error=%v", productID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /products/{id} - Product deleted successfully: product_id=%d, user_id=%d",
		productID, auth.UserID)
	w.WriteHeader(http.StatusNoContent)
}
