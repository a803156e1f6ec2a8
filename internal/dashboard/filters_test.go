package dashboard

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFiltersValidRange(t *testing.T) {
	f := ParseFilters(url.Values{
		"date_from": {"2025-01-01"},
		"date_to":   {"2025-03-31"},
		"course_id": {"7"},
	})

	require.NotNil(t, f.DateFrom)
	require.NotNil(t, f.DateTo)
	assert.Equal(t, "2025-01-01", f.DateFrom.Format("2006-01-02"))
	// The final day is included whole.
	assert.Equal(t, 23, f.DateTo.Hour())
	assert.Equal(t, uint(7), f.CourseID)
	assert.Empty(t, f.Warning)
	assert.Equal(t, "monthly", f.Period)
}

func TestParseFiltersMalformedDateDegrades(t *testing.T) {
	f := ParseFilters(url.Values{"date_from": {"2024-13-01"}})

	assert.Nil(t, f.DateFrom)
	assert.Contains(t, f.Warning, "2024-13-01")
	assert.Contains(t, f.Warning, "inválida")
}

func TestParseFiltersInvertedRangeDropped(t *testing.T) {
	f := ParseFilters(url.Values{
		"date_from": {"2025-06-01"},
		"date_to":   {"2025-01-01"},
	})

	assert.Nil(t, f.DateFrom)
	assert.Nil(t, f.DateTo)
	assert.Contains(t, f.Warning, "invertido")
}

func TestCacheKeyStableAcrossParamOrder(t *testing.T) {
	a := ParseFilters(url.Values{
		"course_id":  {"7"},
		"program_id": {"2"},
		"date_from":  {"2025-01-01"},
	})
	b := ParseFilters(url.Values{
		"date_from":  {"2025-01-01"},
		"program_id": {"2"},
		"course_id":  {"7"},
	})

	assert.Equal(t, a.CacheKey("overview"), b.CacheKey("overview"))
	assert.Contains(t, a.CacheKey("overview"), CachePrefix)
	assert.NotEqual(t, a.CacheKey("overview"), a.CacheKey("temporal"))
}

func TestCacheKeyDiffersPerFilter(t *testing.T) {
	base := Filters{}
	filtered := Filters{CourseID: 7}
	assert.NotEqual(t, base.CacheKey("overview"), filtered.CacheKey("overview"))
}

func TestHistogramRangeDefaultsToCurrentYear(t *testing.T) {
	now := time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)
	from, to := Filters{}.HistogramRange(now)
	assert.Equal(t, 2025, from.Year())
	assert.Equal(t, time.January, from.Month())
	assert.Equal(t, time.December, to.Month())
}

func TestHistogramRangeUsesFilteredDates(t *testing.T) {
	dateFrom := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	dateTo := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	from, to := Filters{DateFrom: &dateFrom, DateTo: &dateTo}.HistogramRange(time.Now())
	assert.Equal(t, dateFrom, from)
	assert.Equal(t, dateTo, to)
}
