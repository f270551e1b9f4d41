package ranges

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

func TestValidateRanges(t *testing.T) {
	t.Run("valid non-overlapping ranges pass", func(t *testing.T) {
		err := ValidateRanges([]domain.DateRange{
			rng(t, "2024-01-01", "2024-01-05"),
			rng(t, "2024-01-06", "2024-01-09"),
		})
		assert.NoError(t, err)
	})

	t.Run("malformed range is rejected", func(t *testing.T) {
		err := ValidateRanges([]domain.DateRange{
			rng(t, "2024-01-05", "2024-01-01"),
		})
		assert.ErrorIs(t, err, ErrMalformedRange)
	})

	t.Run("overlapping ranges are rejected", func(t *testing.T) {
		err := ValidateRanges([]domain.DateRange{
			rng(t, "2024-01-01", "2024-01-05"),
			rng(t, "2024-01-03", "2024-01-07"),
		})
		assert.ErrorIs(t, err, ErrOverlappingRanges)
	})

	t.Run("shared day counts as overlap", func(t *testing.T) {
		err := ValidateRanges([]domain.DateRange{
			rng(t, "2024-01-01", "2024-01-05"),
			rng(t, "2024-01-05", "2024-01-09"),
		})
		assert.ErrorIs(t, err, ErrOverlappingRanges)
	})
}

func TestValidateRentedRanges_RoundTrip(t *testing.T) {
	availability := []domain.DateRange{
		rng(t, "2024-01-01", "2024-01-05"),
		rng(t, "2024-01-06", "2024-01-10"),
		rng(t, "2024-02-01", "2024-02-10"),
	}

	// Любая корректная подвыборка склеенной availability проходит проверку
	valid := [][]domain.DateRange{
		{rng(t, "2024-01-01", "2024-01-10")},
		{rng(t, "2024-01-02", "2024-01-04")},
		{rng(t, "2024-01-01", "2024-01-03"), rng(t, "2024-01-07", "2024-01-10")},
		{rng(t, "2024-02-01", "2024-02-10")},
	}

	for _, requested := range valid {
		err := ValidateRentedRanges(availability, requested, 1, "inst-a", KindAvailable)
		assert.NoError(t, err, "requested %v", bounds(requested))
	}
}

func TestValidateRentedRanges_BoundaryPerturbation(t *testing.T) {
	availability := []domain.DateRange{
		rng(t, "2024-01-03", "2024-01-10"),
	}

	// Сдвиг любой границы запроса на день за пределы availability ломает покрытие
	perturbed := [][]domain.DateRange{
		{rng(t, "2024-01-02", "2024-01-10")},
		{rng(t, "2024-01-03", "2024-01-11")},
	}

	for _, requested := range perturbed {
		err := ValidateRentedRanges(availability, requested, 1, "inst-a", KindAvailable)
		assert.ErrorIs(t, err, ErrNotCovered, "requested %v", bounds(requested))
	}
}

func TestValidateRentedRanges_GapFails(t *testing.T) {
	// Запрос [01-01, 01-03] поверх availability с реальным зазором
	availability := []domain.DateRange{
		rng(t, "2024-01-01", "2024-01-02"),
		rng(t, "2024-01-04", "2024-01-06"),
	}
	requested := []domain.DateRange{rng(t, "2024-01-01", "2024-01-03")}

	err := ValidateRentedRanges(availability, requested, 7, "inst-b", KindAvailable)
	require.ErrorIs(t, err, ErrNotCovered)

	var coverageErr *CoverageError
	require.True(t, errors.As(err, &coverageErr))
	assert.Equal(t, int64(7), coverageErr.ProductID)
	assert.Equal(t, "inst-b", coverageErr.InstanceID)
	assert.Equal(t, KindAvailable, coverageErr.Kind)
}

func TestValidateRentedRanges_OverlapCheckedBeforeCoverage(t *testing.T) {
	// Пересечение диапазонов запроса отклоняется до проверки availability
	var emptyAvailability []domain.DateRange
	requested := []domain.DateRange{
		rng(t, "2024-01-01", "2024-01-05"),
		rng(t, "2024-01-03", "2024-01-07"),
	}

	err := ValidateRentedRanges(emptyAvailability, requested, 1, "inst-a", KindAvailable)
	assert.ErrorIs(t, err, ErrOverlappingRanges)
}

func TestValidateRentedRanges_EmptyReference(t *testing.T) {
	err := ValidateRentedRanges(nil, []domain.DateRange{rng(t, "2024-01-01", "2024-01-02")}, 1, "inst-a", KindRentable)

	var coverageErr *CoverageError
	require.True(t, errors.As(err, &coverageErr))
	assert.Equal(t, KindRentable, coverageErr.Kind)
}

func TestValidateRentedRanges_TouchingReferenceRanges(t *testing.T) {
	// Запрос пересекает границу двух соприкасающихся диапазонов availability:
	// после склейки они образуют единый [01-01, 01-10]
	availability := []domain.DateRange{
		rng(t, "2024-01-01", "2024-01-05"),
		rng(t, "2024-01-06", "2024-01-10"),
	}
	requested := []domain.DateRange{rng(t, "2024-01-04", "2024-01-08")}

	assert.NoError(t, ValidateRentedRanges(availability, requested, 1, "inst-a", KindAvailable))
}
