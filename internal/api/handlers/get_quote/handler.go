package get_quote

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	getQuote "github.com/m04kA/SMC-RentalService/internal/usecase/get_quote"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

const (
	msgInvalidProductID    = "некорректный ID продукта"
	msgMissingFrom         = "параметр from обязателен"
	msgMissingTo           = "параметр to обязателен"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidExchangeCost = "некорректная стоимость смены экземпляра"
	msgInvalidIgnoreRental = "некорректный ID игнорируемой аренды"
	msgProductNotFound     = "продукт не найден"
	msgNoOffer             = "нет оффера, покрывающего запрошенный период"
)

type Handler struct {
	useCase GetQuoteUseCase
	logger  Logger
}

func NewHandler(useCase GetQuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/products/{productId}/quote
// Query params: from (required), to (required), exchangeCost,
// ignoreAllRentals (bool), ignoreRental (ID аренды)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /products/{id}/quote - Invalid product ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProductID)
		return
	}

	query := r.URL.Query()

	fromStr := query.Get("from")
	if fromStr == "" {
		h.logger.Warn("GET /products/{id}/quote - Missing from: product_id=%d", productID)
		handlers.RespondBadRequest(w, msgMissingFrom)
		return
	}
	from, err := types.NewDateFromString(fromStr)
	if err != nil {
		h.logger.Warn("GET /products/{id}/quote - Invalid from: product_id=%d, error=%v", productID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	toStr := query.Get("to")
	if toStr == "" {
		h.logger.Warn("GET /products/{id}/quote - Missing to: product_id=%d", productID)
		handlers.RespondBadRequest(w, msgMissingTo)
		return
	}
	to, err := types.NewDateFromString(toStr)
	if err != nil {
		h.logger.Warn("GET /products/{id}/quote - Invalid to: product_id=%d, error=%v", productID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &getQuote.Request{
		ProductID: productID,
		From:      from,
		To:        to,
	}

	if exchangeCostStr := query.Get("exchangeCost"); exchangeCostStr != "" {
		exchangeCost, err := decimal.NewFromString(exchangeCostStr)
		if err != nil {
			h.logger.Warn("GET /products/{id}/quote - Invalid exchangeCost: product_id=%d, error=%v", productID, err)
			handlers.RespondBadRequest(w, msgInvalidExchangeCost)
			return
		}
		req.ExchangeCost = &exchangeCost
	}

	req.IgnoreAllRentals = query.Get("ignoreAllRentals") == "true"

	if ignoreRentalStr := query.Get("ignoreRental"); ignoreRentalStr != "" {
		ignoreRentalID, err := strconv.ParseInt(ignoreRentalStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /products/{id}/quote - Invalid ignoreRental: product_id=%d, error=%v", productID, err)
			handlers.RespondBadRequest(w, msgInvalidIgnoreRental)
			return
		}
		req.IgnoreRentalID = &ignoreRentalID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getQuote.ErrProductNotFound):
			h.logger.Warn("GET /products/{id}/quote - Product not found: product_id=%d", productID)
			handlers.RespondNotFound(w, msgProductNotFound)

		case errors.Is(err, getQuote.ErrNoOffer):
			h.logger.Warn("GET /products/{id}/quote - No offer: product_id=%d, from=%s, to=%s",
				productID, from, to)
			handlers.RespondNotFound(w, msgNoOffer)

		case errors.Is(err, getQuote.ErrInvalidInput):
			h.logger.Warn("GET /products/{id}/quote - Invalid input: product_id=%d, error=%v", productID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /products/{id}/quote - Failed to build quote: product_id=%d, error=%v", productID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /products/{id}/quote - Quote built successfully: product_id=%d, from=%s, to=%s, total=%s",
		productID, from, to, result.TotalPrice)
	handlers.RespondJSON(w, http.StatusOK, result)
}
