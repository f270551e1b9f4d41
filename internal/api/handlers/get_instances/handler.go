package get_instances

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/products"
)

const (
	msgInvalidProductID = "некорректный ID продукта"
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

// Handle GET /api/v1/products/{productId}/instances
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /products/{id}/instances - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}

	instances, err := h.service.GetInstances(r.Context(), productID)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrProductNotFound):
			h.logger.Warn("GET /products/{id}/instances - Product not found: product_id=%d", productID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /products/{id}/instances - Failed to get instances: product_id=%d, error=%v", productID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, instances)
}
