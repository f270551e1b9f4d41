package get_quote

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

type fakeProductRepo struct {
	products map[int64]*domain.Product
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, productRepo.ErrProductNotFound
	}
	return product, nil
}

type fakeRentalRepo struct {
	rentals []*domain.Rental
}

func (f *fakeRentalRepo) GetWithFilter(_ context.Context, filter domain.RentalFilter) ([]*domain.Rental, error) {
	var out []*domain.Rental
	for _, rental := range f.rentals {
		if filter.OnlyConsuming && !rental.ConsumesAvailability() {
			continue
		}
		if filter.ExcludeRentalID != nil && rental.ID == *filter.ExcludeRentalID {
			continue
		}
		out = append(out, rental)
	}
	return out, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func day(t *testing.T, s string) types.Date {
	t.Helper()
	d, err := types.NewDateFromString(s)
	require.NoError(t, err)
	return d
}

func twoInstanceProduct(t *testing.T) *domain.Product {
	t.Helper()
	return &domain.Product{
		ID:   1,
		Name: "camera",
		Instances: map[string]domain.Instance{
			"inst-a": {
				ID:     "inst-a",
				Status: domain.InstanceInStock,
				Availability: []domain.DateRange{
					{From: day(t, "2024-01-01"), To: day(t, "2024-01-05"), Price: decimal.NewFromInt(10)},
				},
			},
			"inst-b": {
				ID:     "inst-b",
				Status: domain.InstanceInStock,
				Availability: []domain.DateRange{
					{From: day(t, "2024-01-03"), To: day(t, "2024-01-09"), Price: decimal.NewFromInt(8)},
				},
			},
		},
	}
}

func newTestUseCase(t *testing.T, rentals *fakeRentalRepo) *UseCase {
	t.Helper()
	products := &fakeProductRepo{products: map[int64]*domain.Product{1: twoInstanceProduct(t)}}
	return NewUseCase(products, rentals, decimal.NewFromInt(3), nopLogger{})
}

func TestGetQuote_SwitchesInstanceMidWindow(t *testing.T) {
	uc := newTestUseCase(t, &fakeRentalRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		ProductID: 1,
		From:      day(t, "2024-01-01"),
		To:        day(t, "2024-01-08"),
	})
	require.NoError(t, err)

	// 2 дня A по 10 + смена 3 + 6 дней B по 8
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(71)), "got %s", resp.TotalPrice)
	require.Len(t, resp.Instances, 2)
	require.Len(t, resp.Instances["inst-a"], 1)
	assert.Equal(t, "2024-01-02", resp.Instances["inst-a"][0].To.String())
	require.Len(t, resp.Instances["inst-b"], 1)
	assert.Equal(t, "2024-01-03", resp.Instances["inst-b"][0].From.String())
}

func TestGetQuote_ExchangeCostOverride(t *testing.T) {
	uc := newTestUseCase(t, &fakeRentalRepo{})

	expensive := decimal.NewFromInt(100)
	resp, err := uc.Execute(context.Background(), &Request{
		ProductID:    1,
		From:         day(t, "2024-01-01"),
		To:           day(t, "2024-01-04"),
		ExchangeCost: &expensive,
	})
	require.NoError(t, err)

	// Смена невыгодна, окно закрывает один экземпляр
	require.Len(t, resp.Instances, 1)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(40)), "got %s", resp.TotalPrice)
}

func TestGetQuote_RentalsShrinkOffer(t *testing.T) {
	rentals := &fakeRentalRepo{rentals: []*domain.Rental{
		{
			ID:     1,
			Status: domain.RentalReady,
			Products: map[int64]domain.ProductRental{
				1: {Instances: map[string]domain.InstanceRental{
					"inst-b": {DateRanges: []domain.DateRange{
						{From: day(t, "2024-01-03"), To: day(t, "2024-01-09")},
					}},
				}},
			},
		},
	}}
	uc := newTestUseCase(t, rentals)

	// B полностью занят: окно закрывается только A
	resp, err := uc.Execute(context.Background(), &Request{
		ProductID: 1,
		From:      day(t, "2024-01-01"),
		To:        day(t, "2024-01-05"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Instances, 1)
	require.Contains(t, resp.Instances, "inst-a")

	// Окно длиннее доступности A покрыть нечем
	_, err = uc.Execute(context.Background(), &Request{
		ProductID: 1,
		From:      day(t, "2024-01-01"),
		To:        day(t, "2024-01-08"),
	})
	require.ErrorIs(t, err, ErrNoOffer)

	// ignoreAllRentals возвращает оффер по чистому каталогу
	resp, err = uc.Execute(context.Background(), &Request{
		ProductID:        1,
		From:             day(t, "2024-01-01"),
		To:               day(t, "2024-01-08"),
		IgnoreAllRentals: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(71)), "got %s", resp.TotalPrice)
}

func TestGetQuote_InputGuards(t *testing.T) {
	uc := newTestUseCase(t, &fakeRentalRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		ProductID: 1,
		From:      day(t, "2024-01-05"),
		To:        day(t, "2024-01-01"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		ProductID:        1,
		From:             day(t, "2024-01-01"),
		To:               day(t, "2024-01-05"),
		IgnoreAllRentals: true,
		IgnoreRentalID:   ptr.Ptr(int64(1)),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		ProductID: 404,
		From:      day(t, "2024-01-01"),
		To:        day(t, "2024-01-05"),
	})
	require.ErrorIs(t, err, ErrProductNotFound)
}
