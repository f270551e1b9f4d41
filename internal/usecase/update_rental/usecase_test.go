package update_rental

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	rentalRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/rental"
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
	rentals map[int64]*domain.Rental
	updated *domain.Rental
}

func (f *fakeRentalRepo) GetByID(_ context.Context, id int64) (*domain.Rental, error) {
	rental, ok := f.rentals[id]
	if !ok {
		return nil, rentalRepo.ErrRentalNotFound
	}
	clone := *rental
	return &clone, nil
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

func (f *fakeRentalRepo) Update(_ context.Context, rental *domain.Rental) (*domain.Rental, error) {
	if _, ok := f.rentals[rental.ID]; !ok {
		return nil, rentalRepo.ErrRentalNotFound
	}
	f.rentals[rental.ID] = rental
	f.updated = rental
	return rental, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func testProduct(t *testing.T) *domain.Product {
	t.Helper()
	return &domain.Product{
		ID:   1,
		Name: "excavator",
		Instances: map[string]domain.Instance{
			"inst-a": {
				ID:     "inst-a",
				Status: domain.InstanceInStock,
				Availability: []domain.DateRange{
					{
						From:  day(t, "2025-06-01"),
						To:    day(t, "2025-06-30"),
						Price: decimal.NewFromInt(10),
					},
				},
			},
		},
	}
}

func testRental(t *testing.T, from, to string) *domain.Rental {
	t.Helper()
	return &domain.Rental{
		ID:     5,
		UserID: 42,
		Status: domain.RentalReady,
		Products: map[int64]domain.ProductRental{
			1: {Instances: map[string]domain.InstanceRental{
				"inst-a": {DateRanges: []domain.DateRange{
					{From: day(t, from), To: day(t, to), Price: decimal.NewFromInt(30)},
				}},
			}},
		},
	}
}

func newTestUseCase(t *testing.T, rentals *fakeRentalRepo) *UseCase {
	t.Helper()
	products := &fakeProductRepo{products: map[int64]*domain.Product{1: testProduct(t)}}
	return NewUseCase(products, rentals, fakeTxManager{}, nopLogger{})
}

func TestUpdateRental_StatusTransition(t *testing.T) {
	rentals := &fakeRentalRepo{rentals: map[int64]*domain.Rental{5: testRental(t, "2025-06-02", "2025-06-04")}}
	uc := newTestUseCase(t, rentals)

	manager := domain.Auth{UserID: 7, Capabilities: []string{domain.CapManageRentals}}
	status := "active"

	resp, err := uc.Execute(context.Background(), &Request{Auth: manager, RentalID: 5, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "active", resp.Rental.Status)
	require.NotNil(t, resp.Rental.ApprovedBy)
	assert.EqualValues(t, 7, *resp.Rental.ApprovedBy)

	// active -> ready запрещен
	back := "ready"
	_, err = uc.Execute(context.Background(), &Request{Auth: manager, RentalID: 5, Status: &back})
	require.ErrorIs(t, err, ErrInvalidTransition)

	// active -> closed разрешен
	closed := "closed"
	resp, err = uc.Execute(context.Background(), &Request{Auth: manager, RentalID: 5, Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, "closed", resp.Rental.Status)
}

func TestUpdateRental_OwnerReshapesOwnReadyRental(t *testing.T) {
	rentals := &fakeRentalRepo{rentals: map[int64]*domain.Rental{5: testRental(t, "2025-06-02", "2025-06-04")}}
	uc := newTestUseCase(t, rentals)

	req := &Request{
		Auth:     domain.Auth{UserID: 42},
		RentalID: 5,
		Products: map[int64]ProductRequest{
			1: {Instances: map[string]InstanceRequest{
				"inst-a": {DateRanges: []RangeRequest{
					{From: day(t, "2025-06-02"), To: day(t, "2025-06-06")},
				}},
			}},
		},
	}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.TotalPrice)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(50)), "got %s", resp.TotalPrice)

	stored := rentals.updated.RangesFor(1, "inst-a")
	require.Len(t, stored, 1)
	assert.Equal(t, "2025-06-06", stored[0].To.String())
}

// Старые диапазоны самой аренды не должны блокировать её новое распределение
func TestUpdateRental_ExcludesSelfFromRentability(t *testing.T) {
	rentals := &fakeRentalRepo{rentals: map[int64]*domain.Rental{5: testRental(t, "2025-06-02", "2025-06-10")}}
	uc := newTestUseCase(t, rentals)

	req := &Request{
		Auth:     domain.Auth{UserID: 42},
		RentalID: 5,
		Products: map[int64]ProductRequest{
			1: {Instances: map[string]InstanceRequest{
				"inst-a": {DateRanges: []RangeRequest{
					{From: day(t, "2025-06-05"), To: day(t, "2025-06-12")},
				}},
			}},
		},
	}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestUpdateRental_ConflictWithOtherRental(t *testing.T) {
	other := testRental(t, "2025-06-08", "2025-06-12")
	other.ID = 6
	other.UserID = 99

	rentals := &fakeRentalRepo{rentals: map[int64]*domain.Rental{
		5: testRental(t, "2025-06-02", "2025-06-04"),
		6: other,
	}}
	uc := newTestUseCase(t, rentals)

	req := &Request{
		Auth:     domain.Auth{UserID: 42},
		RentalID: 5,
		Products: map[int64]ProductRequest{
			1: {Instances: map[string]InstanceRequest{
				"inst-a": {DateRanges: []RangeRequest{
					{From: day(t, "2025-06-02"), To: day(t, "2025-06-09")},
				}},
			}},
		},
	}

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrRangesNotRentable)
}

func TestUpdateRental_AccessControl(t *testing.T) {
	status := "active"
	penalty := decimal.NewFromInt(100)

	tests := []struct {
		name string
		req  *Request
	}{
		{
			name: "stranger cannot touch the rental",
			req: &Request{
				Auth:     domain.Auth{UserID: 99},
				RentalID: 5,
				Products: map[int64]ProductRequest{
					1: {Instances: map[string]InstanceRequest{
						"inst-a": {DateRanges: []RangeRequest{
							{From: day(t, "2025-06-02"), To: day(t, "2025-06-04")},
						}},
					}},
				},
			},
		},
		{
			name: "owner cannot change status",
			req:  &Request{Auth: domain.Auth{UserID: 42}, RentalID: 5, Status: &status},
		},
		{
			name: "owner cannot set penalty",
			req:  &Request{Auth: domain.Auth{UserID: 42}, RentalID: 5, Penalty: &penalty},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rentals := &fakeRentalRepo{rentals: map[int64]*domain.Rental{5: testRental(t, "2025-06-02", "2025-06-04")}}
			uc := newTestUseCase(t, rentals)

			_, err := uc.Execute(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrAccessDenied)
		})
	}
}

func TestUpdateRental_NotFoundAndEmptyRequest(t *testing.T) {
	rentals := &fakeRentalRepo{rentals: map[int64]*domain.Rental{5: testRental(t, "2025-06-02", "2025-06-04")}}
	uc := newTestUseCase(t, rentals)

	_, err := uc.Execute(context.Background(), &Request{Auth: domain.Auth{UserID: 42}, RentalID: 5})
	require.ErrorIs(t, err, ErrInvalidInput)

	status := "active"
	manager := domain.Auth{UserID: 7, Capabilities: []string{domain.CapManageRentals}}
	_, err = uc.Execute(context.Background(), &Request{Auth: manager, RentalID: 404, Status: &status})
	require.ErrorIs(t, err, ErrRentalNotFound)
}
