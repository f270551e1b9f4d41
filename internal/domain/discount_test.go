package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RentalService/pkg/types"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestDiscount_Apply(t *testing.T) {
	tests := []struct {
		name       string
		discount   Discount
		price      string
		hasWeekend bool
		want       string
	}{
		{
			name:     "percentage multiplies",
			discount: Discount{Name: "ten off", Type: DiscountPercentage, Value: d("10")},
			price:    "200",
			want:     "180",
		},
		{
			name:     "fixed subtracts",
			discount: Discount{Name: "coupon", Type: DiscountFixed, Value: d("15.50")},
			price:    "100",
			want:     "84.5",
		},
		{
			name:       "contains_weekend applies only with weekend",
			discount:   Discount{Name: "weekend", Type: DiscountContainsWeekend, Value: d("5")},
			price:      "100",
			hasWeekend: true,
			want:       "95",
		},
		{
			name:     "contains_weekend skipped without weekend",
			discount: Discount{Name: "weekend", Type: DiscountContainsWeekend, Value: d("5")},
			price:    "100",
			want:     "100",
		},
		{
			name:     "never goes negative",
			discount: Discount{Name: "big", Type: DiscountFixed, Value: d("500")},
			price:    "100",
			want:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.discount.Apply(d(tt.price), tt.hasWeekend)
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestDiscounts_ApplyInOrder(t *testing.T) {
	discounts := Discounts{
		{Name: "half", Type: DiscountPercentage, Value: d("50")},
		{Name: "minus ten", Type: DiscountFixed, Value: d("10")},
	}

	// 50% от 100 = 50, затем -10 = 40; в обратном порядке было бы 45
	got := discounts.Apply(d("100"), false)
	assert.True(t, d("40").Equal(got), "got %s", got)
}

func TestDateRange_ContainsWeekend(t *testing.T) {
	// 2024-01-01 понедельник
	monday := types.NewDate(2024, time.January, 1)

	weekdaysOnly := DateRange{From: monday, To: monday.AddDays(4)}
	assert.False(t, weekdaysOnly.ContainsWeekend())

	withSaturday := DateRange{From: monday, To: monday.AddDays(5)}
	assert.True(t, withSaturday.ContainsWeekend())

	fullWeek := DateRange{From: monday, To: monday.AddDays(10)}
	assert.True(t, fullWeek.ContainsWeekend())
}

func TestRentalStatus_Transitions(t *testing.T) {
	assert.True(t, RentalReady.CanTransitionTo(RentalActive))
	assert.True(t, RentalActive.CanTransitionTo(RentalClosed))
	assert.True(t, RentalReady.CanTransitionTo(RentalReady))

	assert.False(t, RentalReady.CanTransitionTo(RentalClosed))
	assert.False(t, RentalActive.CanTransitionTo(RentalReady))
	assert.False(t, RentalClosed.CanTransitionTo(RentalActive))
}

func TestInstance_HasValidAvailability(t *testing.T) {
	day := types.NewDate(2024, time.June, 1)

	valid := Instance{Availability: []DateRange{
		{From: day, To: day.AddDays(5)},
		{From: day.AddDays(10), To: day.AddDays(12)},
	}}
	assert.True(t, valid.HasValidAvailability())

	overlapping := Instance{Availability: []DateRange{
		{From: day, To: day.AddDays(5)},
		{From: day.AddDays(5), To: day.AddDays(12)},
	}}
	assert.False(t, overlapping.HasValidAvailability())

	malformed := Instance{Availability: []DateRange{
		{From: day.AddDays(3), To: day},
	}}
	assert.False(t, malformed.HasValidAvailability())
}
