package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_ParseAndFormat(t *testing.T) {
	d, err := NewDateFromString("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", d.String())

	_, err = NewDateFromString("05.01.2024")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2024, time.January, 1)

	assert.Equal(t, "2024-01-10", d.AddDays(9).String())
	assert.Equal(t, "2023-12-31", d.AddDays(-1).String())
	assert.Equal(t, 9, d.AddDays(9).DaysSince(d))
	assert.Equal(t, -9, d.DaysSince(d.AddDays(9)))
}

func TestDate_DayNumberRoundTrip(t *testing.T) {
	dates := []Date{
		NewDate(1970, time.January, 1),
		NewDate(2024, time.February, 29),
		NewDate(2031, time.December, 31),
	}

	for _, d := range dates {
		assert.True(t, DateFromDayNumber(d.DayNumber()).Equal(d), "round trip failed for %s", d)
	}

	assert.Equal(t, 0, NewDate(1970, time.January, 1).DayNumber())
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2024, time.March, 15)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(raw))

	var parsed Date
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.True(t, parsed.Equal(d))

	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &parsed))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.July, 1, 13, 45, 0, 0, time.Local)))
	assert.Equal(t, "2024-07-01", d.String())

	require.NoError(t, d.Scan([]byte("2025-02-03")))
	assert.Equal(t, "2025-02-03", d.String())

	assert.Error(t, d.Scan(42))
}
