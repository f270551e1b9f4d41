package list_products

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/products"
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
)

const (
	msgInvalidPage     = "некорректный номер страницы"
	msgInvalidPageSize = "некорректный размер страницы"
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

// Handle GET /api/v1/products
// Query параметры: name, keywords (через запятую), page, pageSize.
// name и keywords взаимоисключающие.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.ListProductsRequest

	query := r.URL.Query()

	if name := query.Get("name"); name != "" {
		req.Name = &name
	}

	if keywords := query.Get("keywords"); keywords != "" {
		for _, keyword := range strings.Split(keywords, ",") {
			keyword = strings.TrimSpace(keyword)
			if keyword != "" {
				req.Keywords = append(req.Keywords, keyword)
			}
		}
	}

	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.ParseUint(pageStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /products - Invalid page: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPage)
			return
		}
		req.Page = page
	}

	if pageSizeStr := query.Get("pageSize"); pageSizeStr != "" {
		pageSize, err := strconv.ParseUint(pageSizeStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /products - Invalid pageSize: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPageSize)
			return
		}
		req.PageSize = pageSize
	}

	result, err := h.service.List(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, products.ErrInvalidInput):
			h.logger.Warn("GET /products - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /products - Failed to list products: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
