package get_rentability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	getRentability "github.com/m04kA/SMC-RentalService/internal/usecase/get_rentability"
)

const (
	msgInvalidProductID    = "некорректный ID продукта"
	msgInvalidIgnoreRental = "некорректный ID игнорируемой аренды"
	msgProductNotFound     = "продукт не найден"
)

type Handler struct {
	useCase GetRentabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetRentabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/products/{productId}/rentability
// Query params: ignoreAllRentals (bool), ignoreRental (ID аренды) — взаимоисключающие
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /products/{id}/rentability - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}

	req := &getRentability.Request{ProductID: productID}

	query := r.URL.Query()
	req.IgnoreAllRentals = query.Get("ignoreAllRentals") == "true"

	if ignoreRentalStr := query.Get("ignoreRental"); ignoreRentalStr != "" {
		ignoreRentalID, err := strconv.ParseInt(ignoreRentalStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /products/{id}/rentability - Invalid ignoreRental: product_id=%d, error=%v", productID, err)
			handlers.RespondBadRequest(w, msgInvalidIgnoreRental)
			return
		}
		req.IgnoreRentalID = &ignoreRentalID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getRentability.ErrProductNotFound):
			h.logger.Warn("GET /products/{id}/rentability - Product not found: product_id=%d", productID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, getRentability.ErrInvalidInput):
			h.logger.Warn("GET /products/{id}/rentability - Invalid input: product_id=%d, error=%v", productID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /products/{id}/rentability - Failed to compute rentability: product_id=%d, error=%v",
				productID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
