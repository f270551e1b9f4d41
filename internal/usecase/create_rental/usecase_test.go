package create_rental

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
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
	created *domain.Rental
}

func (f *fakeRentalRepo) Create(_ context.Context, rental *domain.Rental) (*domain.Rental, error) {
	rental.ID = int64(len(f.rentals) + 1)
	f.rentals = append(f.rentals, rental)
	f.created = rental
	return rental, nil
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

func newTestUseCase(products *fakeProductRepo, rentals *fakeRentalRepo) *UseCase {
	return NewUseCase(products, rentals, fakeTxManager{}, nopLogger{})
}

func singleInstanceRequest(t *testing.T, from, to string) *Request {
	t.Helper()
	return &Request{
		Auth: domain.Auth{UserID: 42},
		Products: map[int64]ProductRequest{
			1: {Instances: map[string]InstanceRequest{
				"inst-a": {DateRanges: []RangeRequest{{From: day(t, from), To: day(t, to)}}},
			}},
		},
	}
}

func TestCreateRental_Success(t *testing.T) {
	products := &fakeProductRepo{products: map[int64]*domain.Product{1: testProduct(t)}}
	rentals := &fakeRentalRepo{}
	uc := newTestUseCase(products, rentals)

	// 3 дня по 10
	resp, err := uc.Execute(context.Background(), singleInstanceRequest(t, "2025-06-02", "2025-06-04"))
	require.NoError(t, err)

	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(30)), "got %s", resp.TotalPrice)
	assert.Equal(t, "ready", resp.Rental.Status)
	assert.EqualValues(t, 42, resp.Rental.UserID)

	require.NotNil(t, rentals.created)
	stored := rentals.created.RangesFor(1, "inst-a")
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Price.Equal(decimal.NewFromInt(30)))
}

func TestCreateRental_OutsideAvailability(t *testing.T) {
	products := &fakeProductRepo{products: map[int64]*domain.Product{1: testProduct(t)}}
	uc := newTestUseCase(products, &fakeRentalRepo{})

	_, err := uc.Execute(context.Background(), singleInstanceRequest(t, "2025-06-28", "2025-07-03"))
	require.ErrorIs(t, err, ErrRangesNotAvailable)
}

func TestCreateRental_ConflictWithExistingRental(t *testing.T) {
	products := &fakeProductRepo{products: map[int64]*domain.Product{1: testProduct(t)}}
	rentals := &fakeRentalRepo{}
	uc := newTestUseCase(products, rentals)

	_, err := uc.Execute(context.Background(), singleInstanceRequest(t, "2025-06-03", "2025-06-05"))
	require.NoError(t, err)

	// Пересечение с уже занятым [06-03, 06-05]
	_, err = uc.Execute(context.Background(), singleInstanceRequest(t, "2025-06-05", "2025-06-08"))
	require.ErrorIs(t, err, ErrRangesNotRentable)

	// Свободный хвост сдается
	_, err = uc.Execute(context.Background(), singleInstanceRequest(t, "2025-06-06", "2025-06-08"))
	require.NoError(t, err)
}

func TestCreateRental_ClosedRentalFreesRanges(t *testing.T) {
	products := &fakeProductRepo{products: map[int64]*domain.Product{1: testProduct(t)}}
	rentals := &fakeRentalRepo{rentals: []*domain.Rental{
		{
			ID:     10,
			UserID: 7,
			Status: domain.RentalClosed,
			Products: map[int64]domain.ProductRental{
				1: {Instances: map[string]domain.InstanceRental{
					"inst-a": {DateRanges: []domain.DateRange{
						{From: day(t, "2025-06-01"), To: day(t, "2025-06-30")},
					}},
				}},
			},
		},
	}}
	uc := newTestUseCase(products, rentals)

	_, err := uc.Execute(context.Background(), singleInstanceRequest(t, "2025-06-02", "2025-06-04"))
	require.NoError(t, err)
}

func TestCreateRental_UnknownProductAndInstance(t *testing.T) {
	products := &fakeProductRepo{products: map[int64]*domain.Product{1: testProduct(t)}}
	uc := newTestUseCase(products, &fakeRentalRepo{})

	req := singleInstanceRequest(t, "2025-06-02", "2025-06-04")
	req.Products[99] = req.Products[1]
	delete(req.Products, 1)
	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrProductNotFound)

	req = singleInstanceRequest(t, "2025-06-02", "2025-06-04")
	req.Products[1] = ProductRequest{Instances: map[string]InstanceRequest{
		"inst-x": {DateRanges: []RangeRequest{{From: day(t, "2025-06-02"), To: day(t, "2025-06-04")}}},
	}}
	_, err = uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestCreateRental_OverlappingRequestedRanges(t *testing.T) {
	products := &fakeProductRepo{products: map[int64]*domain.Product{1: testProduct(t)}}
	uc := newTestUseCase(products, &fakeRentalRepo{})

	req := &Request{
		Auth: domain.Auth{UserID: 42},
		Products: map[int64]ProductRequest{
			1: {Instances: map[string]InstanceRequest{
				"inst-a": {DateRanges: []RangeRequest{
					{From: day(t, "2025-06-02"), To: day(t, "2025-06-05")},
					{From: day(t, "2025-06-04"), To: day(t, "2025-06-08")},
				}},
			}},
		},
	}

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateRental_CustomDiscountsRequireCapability(t *testing.T) {
	products := &fakeProductRepo{products: map[int64]*domain.Product{1: testProduct(t)}}
	uc := newTestUseCase(products, &fakeRentalRepo{})

	req := singleInstanceRequest(t, "2025-06-02", "2025-06-04")
	req.Discounts = domain.Discounts{
		{Name: "vip", Type: domain.DiscountPercentage, Value: decimal.NewFromInt(50)},
	}

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrAccessDenied)

	req.Auth.Capabilities = []string{domain.CapManageRentals}
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(15)), "got %s", resp.TotalPrice)
}

func TestCreateRental_ForAnotherUser(t *testing.T) {
	products := &fakeProductRepo{products: map[int64]*domain.Product{1: testProduct(t)}}
	rentals := &fakeRentalRepo{}
	uc := newTestUseCase(products, rentals)

	req := singleInstanceRequest(t, "2025-06-02", "2025-06-04")
	other := int64(99)
	req.ForUserID = &other

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrAccessDenied)

	req.Auth.Capabilities = []string{domain.CapManageRentals}
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.EqualValues(t, 99, resp.Rental.UserID)
}

func TestCreateRental_InstanceDiscountApplied(t *testing.T) {
	product := testProduct(t)
	instance := product.Instances["inst-a"]
	instance.Discounts = domain.Discounts{
		{Name: "worn", Type: domain.DiscountPercentage, Value: decimal.NewFromInt(10)},
	}
	product.Instances["inst-a"] = instance

	products := &fakeProductRepo{products: map[int64]*domain.Product{1: product}}
	uc := newTestUseCase(products, &fakeRentalRepo{})

	// 30 минус 10%
	resp, err := uc.Execute(context.Background(), singleInstanceRequest(t, "2025-06-02", "2025-06-04"))
	require.NoError(t, err)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(27)), "got %s", resp.TotalPrice)
}
