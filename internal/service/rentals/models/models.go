package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе аренды
	ErrInvalidStatus = errors.New("invalid rental status")
)

// Request модели

// ListRentalsRequest запрос на получение списка аренд
type ListRentalsRequest struct {
	UserID   *int64  `json:"userId,omitempty"`
	Status   *string `json:"status,omitempty"`
	Page     uint64  `json:"page,omitempty"`
	PageSize uint64  `json:"pageSize,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRentalsRequest) ToDomainFilter() (domain.RentalFilter, error) {
	filter := domain.RentalFilter{UserID: r.UserID}

	if r.Status != nil {
		if !domain.IsValidRentalStatus(*r.Status) {
			return filter, ErrInvalidStatus
		}
		status := domain.RentalStatus(*r.Status)
		filter.Status = &status
	}

	pageSize := r.PageSize
	if pageSize == 0 || pageSize > domain.MaxPageSize {
		pageSize = domain.DefaultPageSize
	}
	page := r.Page
	if page > 0 {
		page--
	}
	filter.Limit = pageSize
	filter.Offset = page * pageSize

	return filter, nil
}

// Response модели

// RentedRange занятый диапазон в ответе
type RentedRange struct {
	From      types.Date       `json:"from"`
	To        types.Date       `json:"to"`
	Price     decimal.Decimal  `json:"price"`
	Discounts domain.Discounts `json:"discounts,omitempty"`
}

// InstanceRentalResponse часть аренды по одному экземпляру
type InstanceRentalResponse struct {
	DateRanges []RentedRange    `json:"dateRanges"`
	Discounts  domain.Discounts `json:"discounts,omitempty"`
}

// ProductRentalResponse часть аренды по одному продукту
type ProductRentalResponse struct {
	Instances map[string]InstanceRentalResponse `json:"instances"`
	Discounts domain.Discounts                  `json:"discounts,omitempty"`
}

// RentalResponse аренда в ответе
type RentalResponse struct {
	ID         int64                           `json:"id"`
	UserID     int64                           `json:"userId"`
	ApprovedBy *int64                          `json:"approvedBy,omitempty"`
	Status     string                          `json:"status"`
	Products   map[int64]ProductRentalResponse `json:"products"`
	Discounts  domain.Discounts                `json:"discounts,omitempty"`
	Penalty    *decimal.Decimal                `json:"penalty,omitempty"`
	CreatedAt  time.Time                       `json:"createdAt"`
	UpdatedAt  time.Time                       `json:"updatedAt"`
}

// RentalListResponse список аренд
type RentalListResponse struct {
	Rentals []RentalResponse `json:"rentals"`
}

// FromDomainRental конвертирует domain.Rental в response модель
func FromDomainRental(rental *domain.Rental) *RentalResponse {
	products := make(map[int64]ProductRentalResponse, len(rental.Products))
	for productID, productRental := range rental.Products {
		instances := make(map[string]InstanceRentalResponse, len(productRental.Instances))
		for instanceID, instanceRental := range productRental.Instances {
			dateRanges := make([]RentedRange, 0, len(instanceRental.DateRanges))
			for _, r := range instanceRental.DateRanges {
				dateRanges = append(dateRanges, RentedRange{
					From:      r.From,
					To:        r.To,
					Price:     r.Price,
					Discounts: r.Discounts,
				})
			}
			instances[instanceID] = InstanceRentalResponse{
				DateRanges: dateRanges,
				Discounts:  instanceRental.Discounts,
			}
		}
		products[productID] = ProductRentalResponse{
			Instances: instances,
			Discounts: productRental.Discounts,
		}
	}

	return &RentalResponse{
		ID:         rental.ID,
		UserID:     rental.UserID,
		ApprovedBy: rental.ApprovedBy,
		Status:     string(rental.Status),
		Products:   products,
		Discounts:  rental.Discounts,
		Penalty:    rental.Penalty,
		CreatedAt:  rental.CreatedAt,
		UpdatedAt:  rental.UpdatedAt,
	}
}

// FromDomainRentalList конвертирует список аренд в response модель
func FromDomainRentalList(rentals []*domain.Rental) *RentalListResponse {
	result := &RentalListResponse{Rentals: make([]RentalResponse, 0, len(rentals))}
	for _, rental := range rentals {
		result.Rentals = append(result.Rentals, *FromDomainRental(rental))
	}
	return result
}
