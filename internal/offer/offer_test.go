package offer

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

func priced(t *testing.T, from, to, price string) domain.DateRange {
	t.Helper()
	return domain.DateRange{
		From:  day(t, from),
		To:    day(t, to),
		Price: decimal.RequireFromString(price),
	}
}

func bounds(rs []domain.DateRange) [][2]string {
	out := make([][2]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, [2]string{r.From.String(), r.To.String()})
	}
	return out
}

func TestBestOffer_SingleInstance(t *testing.T) {
	instances := map[string][]domain.DateRange{
		"inst-a": {priced(t, "2024-01-01", "2024-01-10", "10")},
	}

	got, err := BestOffer(instances, decimal.Zero, day(t, "2024-01-02"), day(t, "2024-01-06"))
	require.NoError(t, err)

	require.Len(t, got.Instances, 1)
	assert.Equal(t, [][2]string{{"2024-01-02", "2024-01-06"}}, bounds(got.Instances["inst-a"]))
	assert.True(t, got.Instances["inst-a"][0].Price.Equal(decimal.RequireFromString("10")))
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(50)), "got %s", got.TotalCost)
}

func TestBestOffer_SwitchesWhenSavingsExceedExchangeCost(t *testing.T) {
	// A [01-01, 01-05] по 10/день, B [01-03, 01-09] по 8/день, смена стоит 3.
	// Окно [01-01, 01-08]: экономия 2/день за 5 дней на B перекрывает штраф,
	// оффер переключается на B в 01-03.
	instances := map[string][]domain.DateRange{
		"inst-a": {priced(t, "2024-01-01", "2024-01-05", "10")},
		"inst-b": {priced(t, "2024-01-03", "2024-01-09", "8")},
	}

	got, err := BestOffer(instances, decimal.NewFromInt(3), day(t, "2024-01-01"), day(t, "2024-01-08"))
	require.NoError(t, err)

	require.Len(t, got.Instances, 2)
	assert.Equal(t, [][2]string{{"2024-01-01", "2024-01-02"}}, bounds(got.Instances["inst-a"]))
	assert.Equal(t, [][2]string{{"2024-01-03", "2024-01-08"}}, bounds(got.Instances["inst-b"]))

	// 2 дня A по 10 + смена 3 + 6 дней B по 8
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(71)), "got %s", got.TotalCost)
}

func TestBestOffer_StaysWhenExchangeCostTooHigh(t *testing.T) {
	// Окно [01-01, 01-04] покрывается экземпляром A целиком за 40.
	// Переключение на B стоило бы 20 + exchange + 16: выгодно при смене за 3,
	// невыгодно при смене за 10.
	instances := map[string][]domain.DateRange{
		"inst-a": {priced(t, "2024-01-01", "2024-01-05", "10")},
		"inst-b": {priced(t, "2024-01-03", "2024-01-09", "8")},
	}
	from, to := day(t, "2024-01-01"), day(t, "2024-01-04")

	cheap, err := BestOffer(instances, decimal.NewFromInt(3), from, to)
	require.NoError(t, err)
	require.Len(t, cheap.Instances, 2)
	assert.Equal(t, [][2]string{{"2024-01-01", "2024-01-02"}}, bounds(cheap.Instances["inst-a"]))
	assert.Equal(t, [][2]string{{"2024-01-03", "2024-01-04"}}, bounds(cheap.Instances["inst-b"]))
	assert.True(t, cheap.TotalCost.Equal(decimal.NewFromInt(39)), "got %s", cheap.TotalCost)

	expensive, err := BestOffer(instances, decimal.NewFromInt(10), from, to)
	require.NoError(t, err)
	require.Len(t, expensive.Instances, 1)
	assert.Equal(t, [][2]string{{"2024-01-01", "2024-01-04"}}, bounds(expensive.Instances["inst-a"]))
	assert.True(t, expensive.TotalCost.Equal(decimal.NewFromInt(40)), "got %s", expensive.TotalCost)
}

func TestBestOffer_ConnectorNodeOnSameInstance(t *testing.T) {
	// Два соприкасающихся диапазона одного экземпляра с разными ценами:
	// общая граница дублируется, каждый выходной диапазон получает свою цену
	instances := map[string][]domain.DateRange{
		"inst-a": {
			priced(t, "2024-01-01", "2024-01-05", "10"),
			priced(t, "2024-01-06", "2024-01-10", "12"),
		},
	}

	got, err := BestOffer(instances, decimal.Zero, day(t, "2024-01-01"), day(t, "2024-01-09"))
	require.NoError(t, err)

	require.Len(t, got.Instances, 1)
	require.Equal(t, [][2]string{
		{"2024-01-01", "2024-01-05"},
		{"2024-01-06", "2024-01-09"},
	}, bounds(got.Instances["inst-a"]))

	assert.True(t, got.Instances["inst-a"][0].Price.Equal(decimal.RequireFromString("10")))
	assert.True(t, got.Instances["inst-a"][1].Price.Equal(decimal.RequireFromString("12")))

	// 5 дней по 10 + 4 дня по 12
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(98)), "got %s", got.TotalCost)
}

func TestBestOffer_NoOffer(t *testing.T) {
	tests := []struct {
		name      string
		instances map[string][]domain.DateRange
		from, to  string
	}{
		{
			name: "gap in availability",
			instances: map[string][]domain.DateRange{
				"inst-a": {
					priced(t, "2024-01-01", "2024-01-03", "10"),
					priced(t, "2024-01-07", "2024-01-10", "10"),
				},
			},
			from: "2024-01-01", to: "2024-01-09",
		},
		{
			name: "window outside availability",
			instances: map[string][]domain.DateRange{
				"inst-a": {priced(t, "2024-01-01", "2024-01-05", "10")},
			},
			from: "2024-02-01", to: "2024-02-05",
		},
		{
			name:      "no instances at all",
			instances: map[string][]domain.DateRange{},
			from:      "2024-01-01", to: "2024-01-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BestOffer(tt.instances, decimal.Zero, day(t, tt.from), day(t, tt.to))
			assert.ErrorIs(t, err, ErrNoOffer)
		})
	}
}

func TestBestOffer_InputGuards(t *testing.T) {
	instances := map[string][]domain.DateRange{
		"inst-a": {priced(t, "2024-01-01", "2024-01-10", "10")},
	}

	_, err := BestOffer(instances, decimal.Zero, day(t, "2024-01-05"), day(t, "2024-01-01"))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = BestOffer(instances, decimal.NewFromInt(-1), day(t, "2024-01-01"), day(t, "2024-01-05"))
	assert.ErrorIs(t, err, ErrNegativeCost)

	negative := map[string][]domain.DateRange{
		"inst-a": {priced(t, "2024-01-01", "2024-01-10", "-5")},
	}
	_, err = BestOffer(negative, decimal.Zero, day(t, "2024-01-01"), day(t, "2024-01-05"))
	assert.ErrorIs(t, err, ErrNegativeCost)
}

func TestBestOffer_Deterministic(t *testing.T) {
	// Два экземпляра с одинаковой ценой: при равной стоимости путей выбор
	// стабилен между запусками (лексикографический порядок обхода соседей)
	instances := map[string][]domain.DateRange{
		"inst-a": {priced(t, "2024-01-01", "2024-01-10", "10")},
		"inst-b": {priced(t, "2024-01-01", "2024-01-10", "10")},
	}
	from, to := day(t, "2024-01-01"), day(t, "2024-01-05")

	first, err := BestOffer(instances, decimal.NewFromInt(3), from, to)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := BestOffer(instances, decimal.NewFromInt(3), from, to)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestParseNode_InstanceIDWithDashes(t *testing.T) {
	id, dayNum := parseNode("550e8400-e29b-41d4-a716-446655440000-17")
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id)
	assert.Equal(t, 17, dayNum)
}
