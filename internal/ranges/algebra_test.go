package ranges

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

func day(t *testing.T, s string) types.Date {
	t.Helper()
	d, err := types.NewDateFromString(s)
	require.NoError(t, err)
	return d
}

func rng(t *testing.T, from, to string) domain.DateRange {
	t.Helper()
	return domain.DateRange{From: day(t, from), To: day(t, to)}
}

func pricedRng(t *testing.T, from, to, price string) domain.DateRange {
	t.Helper()
	r := rng(t, from, to)
	r.Price = decimal.RequireFromString(price)
	return r
}

func bounds(rs []domain.DateRange) [][2]string {
	out := make([][2]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, [2]string{r.From.String(), r.To.String()})
	}
	return out
}

func TestMergeAdjacent(t *testing.T) {
	tests := []struct {
		name  string
		input []domain.DateRange
		want  [][2]string
	}{
		{
			name: "touching ranges merge",
			input: []domain.DateRange{
				rng(t, "2024-01-01", "2024-01-05"),
				rng(t, "2024-01-06", "2024-01-09"),
			},
			want: [][2]string{{"2024-01-01", "2024-01-09"}},
		},
		{
			name: "gap of one day does not merge",
			input: []domain.DateRange{
				rng(t, "2024-01-01", "2024-01-05"),
				rng(t, "2024-01-07", "2024-01-09"),
			},
			want: [][2]string{{"2024-01-01", "2024-01-05"}, {"2024-01-07", "2024-01-09"}},
		},
		{
			name: "overlapping ranges merge",
			input: []domain.DateRange{
				rng(t, "2024-01-01", "2024-01-06"),
				rng(t, "2024-01-04", "2024-01-10"),
			},
			want: [][2]string{{"2024-01-01", "2024-01-10"}},
		},
		{
			name: "unsorted input is sorted",
			input: []domain.DateRange{
				rng(t, "2024-02-10", "2024-02-12"),
				rng(t, "2024-01-01", "2024-01-03"),
			},
			want: [][2]string{{"2024-01-01", "2024-01-03"}, {"2024-02-10", "2024-02-12"}},
		},
		{
			name: "contained range is absorbed",
			input: []domain.DateRange{
				rng(t, "2024-01-01", "2024-01-10"),
				rng(t, "2024-01-03", "2024-01-05"),
			},
			want: [][2]string{{"2024-01-01", "2024-01-10"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeAdjacent(tt.input)
			assert.Equal(t, tt.want, bounds(got))
		})
	}
}

func TestMergeAdjacent_Idempotent(t *testing.T) {
	input := []domain.DateRange{
		rng(t, "2024-01-01", "2024-01-05"),
		rng(t, "2024-01-06", "2024-01-09"),
		rng(t, "2024-01-20", "2024-01-25"),
		rng(t, "2024-01-22", "2024-01-28"),
	}

	once := MergeAdjacent(input)
	twice := MergeAdjacent(once)

	assert.Equal(t, bounds(once), bounds(twice))
}

func TestEdgeIntersect_BoundaryTouch(t *testing.T) {
	// Общая граница даёт точечное пересечение
	got := EdgeIntersect([]domain.DateRange{
		rng(t, "2024-01-01", "2024-01-05"),
		rng(t, "2024-01-05", "2024-01-09"),
	})
	assert.Equal(t, [][2]string{{"2024-01-05", "2024-01-05"}}, bounds(got))

	// Зазор в день и больше пересечения не даёт
	got = EdgeIntersect([]domain.DateRange{
		rng(t, "2024-01-01", "2024-01-04"),
		rng(t, "2024-01-06", "2024-01-09"),
	})
	assert.Empty(t, got)
}

func TestEdgeIntersect_Plain(t *testing.T) {
	got := EdgeIntersect([]domain.DateRange{
		rng(t, "2024-01-01", "2024-01-10"),
		rng(t, "2024-01-05", "2024-01-20"),
	})
	assert.Equal(t, [][2]string{{"2024-01-05", "2024-01-10"}}, bounds(got))
}

func TestSubtract_Identity(t *testing.T) {
	old := []domain.DateRange{
		pricedRng(t, "2024-01-01", "2024-01-10", "10"),
		pricedRng(t, "2024-02-01", "2024-02-05", "12"),
	}

	got := Subtract(old, nil)
	assert.Equal(t, bounds(old), bounds(got))
}

func TestSubtract_Self(t *testing.T) {
	old := []domain.DateRange{
		rng(t, "2024-01-01", "2024-01-10"),
		rng(t, "2024-02-01", "2024-02-05"),
	}

	got := Subtract(old, old)
	assert.Empty(t, got)
}

func TestSubtract_MiddleSplitsRange(t *testing.T) {
	// Сценарий из аренды: доступность [01-01, 01-10], занято [01-03, 01-05]
	old := []domain.DateRange{pricedRng(t, "2024-01-01", "2024-01-10", "10")}
	removed := []domain.DateRange{rng(t, "2024-01-03", "2024-01-05")}

	got := Subtract(old, removed)

	assert.Equal(t, [][2]string{
		{"2024-01-01", "2024-01-02"},
		{"2024-01-06", "2024-01-10"},
	}, bounds(got))

	// Цена и скидки наследуются от исходного диапазона
	for _, r := range got {
		assert.True(t, r.Price.Equal(decimal.RequireFromString("10")))
	}
}

func TestSubtract_MultipleRemovalsFromOneRange(t *testing.T) {
	old := []domain.DateRange{rng(t, "2024-01-01", "2024-01-31")}
	removed := []domain.DateRange{
		rng(t, "2024-01-05", "2024-01-07"),
		rng(t, "2024-01-20", "2024-01-25"),
		rng(t, "2024-01-10", "2024-01-10"),
	}

	got := Subtract(old, removed)

	assert.Equal(t, [][2]string{
		{"2024-01-01", "2024-01-04"},
		{"2024-01-08", "2024-01-09"},
		{"2024-01-11", "2024-01-19"},
		{"2024-01-26", "2024-01-31"},
	}, bounds(got))
}

func TestSubtract_RemovalAtBoundary(t *testing.T) {
	old := []domain.DateRange{rng(t, "2024-01-01", "2024-01-10")}

	got := Subtract(old, []domain.DateRange{rng(t, "2024-01-01", "2024-01-03")})
	assert.Equal(t, [][2]string{{"2024-01-04", "2024-01-10"}}, bounds(got))

	got = Subtract(old, []domain.DateRange{rng(t, "2024-01-08", "2024-01-10")})
	assert.Equal(t, [][2]string{{"2024-01-01", "2024-01-07"}}, bounds(got))
}

func TestSubtract_OverlappingRemovals(t *testing.T) {
	old := []domain.DateRange{rng(t, "2024-01-01", "2024-01-20")}
	removed := []domain.DateRange{
		rng(t, "2024-01-05", "2024-01-12"),
		rng(t, "2024-01-10", "2024-01-15"),
	}

	got := Subtract(old, removed)

	assert.Equal(t, [][2]string{
		{"2024-01-01", "2024-01-04"},
		{"2024-01-16", "2024-01-20"},
	}, bounds(got))
}

func TestSubtract_RemovalOutsideOldRange(t *testing.T) {
	old := []domain.DateRange{rng(t, "2024-01-01", "2024-01-10")}
	removed := []domain.DateRange{rng(t, "2024-03-01", "2024-03-05")}

	got := Subtract(old, removed)
	assert.Equal(t, [][2]string{{"2024-01-01", "2024-01-10"}}, bounds(got))
}
