package get_instance

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
	msgProductNotFound  = "продукт не найден"
	msgInstanceNotFound = "экземпляр не найден"
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

// Handle GET /api/v1/products/{productId}/instances/{instanceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	productID, err := strconv.ParseInt(vars["productId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /products/{id}/instances/{instanceId} - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}
	instanceID := vars["instanceId"]

	instance, err := h.service.GetInstance(r.Context(), productID, instanceID)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrProductNotFound):
			h.logger.Warn("GET /products/{id}/instances/{instanceId} - Product not found: product_id=%d", productID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, products.ErrInstanceNotFound):
			h.logger.Warn("GET /products/{id}/instances/{instanceId} - Instance not found: product_id=%d, instance_id=%s",
				productID, instanceID)
			handlers.RespondNotFound(w, msgInstanceNotFound)

		default:
			h.logger.Error("GET /products/{id}/instances/{instanceId} - Failed to get instance: product_id=%d, instance_id=%s, error=%v",
				productID, instanceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, instance)
}
