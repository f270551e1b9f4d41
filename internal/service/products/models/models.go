package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Request модели

// RangePayload один диапазон доступности в запросе
type RangePayload struct {
	From      types.Date       `json:"from"`
	To        types.Date       `json:"to"`
	Price     decimal.Decimal  `json:"price"`
	Discounts domain.Discounts `json:"discounts,omitempty"`
}

// ToDomain конвертирует payload в domain.DateRange
func (p RangePayload) ToDomain() domain.DateRange {
	return domain.DateRange{
		From:      p.From,
		To:        p.To,
		Price:     p.Price,
		Discounts: p.Discounts,
	}
}

// InstancePayload экземпляр продукта в запросе.
// ID опционален: для новых экземпляров идентификатор генерируется сервисом.
type InstancePayload struct {
	ID           *string          `json:"id,omitempty"`
	Status       *string          `json:"status,omitempty"`
	Availability []RangePayload   `json:"availability"`
	Discounts    domain.Discounts `json:"discounts,omitempty"`
}

// CreateProductRequest запрос на создание продукта
type CreateProductRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Stars       *int              `json:"stars,omitempty"`
	CoverImage  *string           `json:"coverImage,omitempty"`
	OtherImages []string          `json:"otherImages,omitempty"`
	Discounts   domain.Discounts  `json:"discounts,omitempty"`
	Instances   []InstancePayload `json:"instances"`
}

// UpdateProductRequest запрос на обновление продукта.
// Экземпляры заменяют текущий набор целиком.
type UpdateProductRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Stars       *int              `json:"stars,omitempty"`
	CoverImage  *string           `json:"coverImage,omitempty"`
	OtherImages []string          `json:"otherImages,omitempty"`
	Discounts   domain.Discounts  `json:"discounts,omitempty"`
	Instances   []InstancePayload `json:"instances"`
}

// ListProductsRequest запрос на получение списка продуктов.
// Name и Keywords взаимоисключающие.
type ListProductsRequest struct {
	Name     *string  `json:"name,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Page     uint64   `json:"page,omitempty"`
	PageSize uint64   `json:"pageSize,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListProductsRequest) ToDomainFilter() domain.ProductFilter {
	pageSize := r.PageSize
	if pageSize == 0 || pageSize > domain.MaxPageSize {
		pageSize = domain.DefaultPageSize
	}
	page := r.Page
	if page > 0 {
		page--
	}
	return domain.ProductFilter{
		Name:     r.Name,
		Keywords: r.Keywords,
		Limit:    pageSize,
		Offset:   page * pageSize,
	}
}

// Response модели

// InstanceResponse экземпляр продукта в ответе
type InstanceResponse struct {
	ID           string             `json:"id"`
	Status       string             `json:"status"`
	Availability []RangePayload     `json:"availability"`
	Discounts    domain.Discounts   `json:"discounts,omitempty"`
	Logs         []InstanceLogEntry `json:"logs,omitempty"`
}

// InstanceLogEntry запись журнала экземпляра в ответе
type InstanceLogEntry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// ProductResponse продукт в ответе
type ProductResponse struct {
	ID          int64                       `json:"id"`
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Stars       *int                        `json:"stars,omitempty"`
	CoverImage  *string                     `json:"coverImage,omitempty"`
	OtherImages []string                    `json:"otherImages,omitempty"`
	Discounts   domain.Discounts            `json:"discounts,omitempty"`
	Instances   map[string]InstanceResponse `json:"instances"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

// ProductListResponse список продуктов
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// FromDomainProduct конвертирует domain.Product в response модель
func FromDomainProduct(product *domain.Product) *ProductResponse {
	instances := make(map[string]InstanceResponse, len(product.Instances))
	for id, instance := range product.Instances {
		instances[id] = fromDomainInstance(instance)
	}

	return &ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Stars:       product.Stars,
		CoverImage:  product.CoverImage,
		OtherImages: product.OtherImages,
		Discounts:   product.Discounts,
		Instances:   instances,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// FromDomainProductList конвертирует список продуктов в response модель
func FromDomainProductList(products []*domain.Product) *ProductListResponse {
	result := &ProductListResponse{Products: make([]ProductResponse, 0, len(products))}
	for _, product := range products {
		result.Products = append(result.Products, *FromDomainProduct(product))
	}
	return result
}

func fromDomainInstance(instance domain.Instance) InstanceResponse {
	availability := make([]RangePayload, 0, len(instance.Availability))
	for _, r := range instance.Availability {
		availability = append(availability, RangePayload{
			From:      r.From,
			To:        r.To,
			Price:     r.Price,
			Discounts: r.Discounts,
		})
	}

	logs := make([]InstanceLogEntry, 0, len(instance.Logs))
	for _, l := range instance.Logs {
		logs = append(logs, InstanceLogEntry{At: l.At, Message: l.Message})
	}

	return InstanceResponse{
		ID:           instance.ID,
		Status:       string(instance.Status),
		Availability: availability,
		Discounts:    instance.Discounts,
		Logs:         logs,
	}
}
