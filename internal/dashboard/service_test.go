package dashboard

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvarofrk/teckperu/internal/models"
	"github.com/Alvarofrk/teckperu/pkg/cache"
)

type fakeDashboardStore struct {
	sittings []models.Sitting
	calls    int
}

func (f *fakeDashboardStore) FinalizedSittings(Filters) ([]models.Sitting, error) {
	f.calls++
	return f.sittings, nil
}

func testSittings() []models.Sitting {
	end := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
	pass := approvedSitting(1, 1, 4, 4, end)
	pass.User = &models.User{FirstName: "Ana", LastName: "Quispe", Gender: models.GenderFemale}
	pass.CertificateCode = "abc-123"
	fail := approvedSitting(2, 1, 1, 4, end)
	fail.User = &models.User{FirstName: "Luis", LastName: "Rojas", Gender: models.GenderMale}
	return []models.Sitting{pass, fail}
}

func newTestDashboard(store Store) *Service {
	svc := NewService(store, cache.NewMemoryCache())
	svc.now = func() time.Time {
		return time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestOverviewCachedAndRecomputedAnswersMatch(t *testing.T) {
	store := &fakeDashboardStore{sittings: testSittings()}
	svc := newTestDashboard(store)

	first, err := svc.Overview(Filters{})
	require.NoError(t, err)
	second, err := svc.Overview(Filters{})
	require.NoError(t, err)

	// The second call is served from cache.
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, first.TotalAttempts, second.TotalAttempts)
	assert.Equal(t, first.ApprovedCertificates, second.ApprovedCertificates)
	assert.Equal(t, first.Monthly, second.Monthly)
	assert.Equal(t, first.Gender, second.Gender)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	store := &fakeDashboardStore{sittings: testSittings()}
	svc := newTestDashboard(store)

	_, err := svc.Overview(Filters{})
	require.NoError(t, err)
	svc.Invalidate()
	_, err = svc.Overview(Filters{})
	require.NoError(t, err)

	assert.Equal(t, 2, store.calls)
}

func TestWarningSurvivesCacheHit(t *testing.T) {
	store := &fakeDashboardStore{sittings: testSittings()}
	svc := newTestDashboard(store)

	clean := ParseFilters(url.Values{})
	_, err := svc.Overview(clean)
	require.NoError(t, err)

	// Same effective filters, but this request carried a bad date.
	warned := ParseFilters(url.Values{"date_from": {"not-a-date"}})
	require.NotEmpty(t, warned.Warning)
	result, err := svc.Overview(warned)
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, warned.Warning, result.Warning)
}

func TestCoursePerformanceSkipsRowsWithMissingRelations(t *testing.T) {
	sittings := testSittings()
	broken := approvedSitting(3, 1, 4, 4, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
	broken.User = nil
	sittings = append(sittings, broken)

	svc := newTestDashboard(&fakeDashboardStore{sittings: sittings})
	result, err := svc.CoursePerformance(Filters{CourseID: 1})
	require.NoError(t, err)

	// The broken row is dropped from the participant table but still
	// counted in the statistics.
	assert.Len(t, result.Participants, 2)
	assert.Equal(t, 3, result.Stats.TotalParticipants)
	assert.Equal(t, "Ana Quispe", result.Participants[0].Name)
	assert.Equal(t, "abc-123", result.Participants[0].CertificateCode)
}

func TestTemporalAnalysisPeriods(t *testing.T) {
	svc := newTestDashboard(&fakeDashboardStore{sittings: testSittings()})

	monthly, err := svc.TemporalAnalysis(Filters{Period: "monthly"})
	require.NoError(t, err)
	assert.Len(t, monthly.Histogram.Labels, 12)

	quarterly, err := svc.TemporalAnalysis(Filters{Period: "quarterly"})
	require.NoError(t, err)
	assert.Len(t, quarterly.Histogram.Labels, 4)
	assert.Equal(t, []int{0, 1, 0, 0}, quarterly.Histogram.Data)

	yearly, err := svc.TemporalAnalysis(Filters{Period: "yearly"})
	require.NoError(t, err)
	assert.Equal(t, "2020", yearly.Histogram.Labels[0])
}
