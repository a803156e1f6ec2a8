package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvarofrk/teckperu/internal/models"
)

func approvedSitting(userID, courseID uint, score, total int, end time.Time) models.Sitting {
	endCopy := end
	return models.Sitting{
		UserID:        userID,
		CourseID:      courseID,
		QuizID:        courseID,
		QuestionOrder: orderOf(total),
		CurrentScore:  score,
		Complete:      true,
		End:           &endCopy,
		ApprovedAt:    &endCopy,
		Quiz:          &models.Quiz{PassMark: 60},
	}
}

func orderOf(total int) string {
	ids := make([]uint, total)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	return models.EncodeIDList(ids)
}

func TestOverviewCountsApprovalsThroughPassMark(t *testing.T) {
	end := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	sittings := []models.Sitting{
		approvedSitting(1, 1, 4, 4, end),
		approvedSitting(2, 1, 3, 4, end),
		approvedSitting(3, 1, 1, 4, end), // 25%, below the pass mark
	}

	stats := Overview(sittings)
	assert.Equal(t, 3, stats.TotalAttempts)
	assert.Equal(t, 2, stats.ApprovedCertificates)
	assert.Equal(t, 1, stats.PendingCertificates)
	assert.InDelta(t, 66.67, stats.ApprovalRate, 0.01)
}

func TestMonthlyApprovalsLabelsEmptyMonths(t *testing.T) {
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	sittings := []models.Sitting{
		approvedSitting(1, 1, 4, 4, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)),
		approvedSitting(2, 1, 4, 4, time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)),
		approvedSitting(3, 1, 1, 4, time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC)),
	}

	chart := MonthlyApprovals(sittings, from, to, ByCompletion)
	assert.Equal(t, []string{"Jan 2025", "Feb 2025", "Mar 2025"}, chart.Labels)
	assert.Equal(t, []int{1, 0, 1}, chart.Data)
}

func TestQuarterlyApprovalsIgnoresOtherYears(t *testing.T) {
	sittings := []models.Sitting{
		approvedSitting(1, 1, 4, 4, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)),
		approvedSitting(2, 1, 4, 4, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)),
		approvedSitting(3, 1, 4, 4, time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)),
	}

	chart := QuarterlyApprovals(sittings, 2025, ByCompletion)
	assert.Equal(t, []int{1, 0, 0, 1}, chart.Data)
	assert.Equal(t, "Q1 (Ene-Mar)", chart.Labels[0])
}

func TestCompanyDistributionFoldsOverflowAndMissing(t *testing.T) {
	end := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	var sittings []models.Sitting
	// Twelve distinct companies plus one sitting without a company.
	companies := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	for i, company := range companies {
		s := approvedSitting(uint(i+1), 1, 4, 4, end)
		s.User = &models.User{Student: &models.Student{Company: company}}
		sittings = append(sittings, s)
	}
	noCompany := approvedSitting(99, 1, 4, 4, end)
	noCompany.User = &models.User{Student: &models.Student{Company: "  "}}
	sittings = append(sittings, noCompany)

	chart := CompanyDistribution(sittings)
	assert.Contains(t, chart.Labels, "Otras")
	assert.Contains(t, chart.Labels, "Sin Empresa")
	// Top 10 plus the two fold labels.
	assert.Len(t, chart.Labels, 12)

	total := 0
	for _, v := range chart.Data {
		total += v
	}
	assert.Equal(t, 13, total)
}

func TestGenderDistributionOnlyReportsDeclared(t *testing.T) {
	end := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	male := approvedSitting(1, 1, 4, 4, end)
	male.User = &models.User{Gender: models.GenderMale}
	female := approvedSitting(2, 1, 4, 4, end)
	female.User = &models.User{Gender: models.GenderFemale}
	unspecified := approvedSitting(3, 1, 4, 4, end)
	unspecified.User = &models.User{}

	chart := GenderDistribution([]models.Sitting{male, female, unspecified})
	assert.Equal(t, []string{"Masculino", "Femenino"}, chart.Labels)
	assert.Equal(t, []int{1, 1}, chart.Data)
}

func TestTopCoursesCountsOneCertificatePerUserAndCourse(t *testing.T) {
	course := &models.Course{ID: 1, Title: "Trabajos en altura", Code: "0003"}
	early := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	// The same user passes the same course twice; only the later
	// attempt may count.
	first := approvedSitting(1, 1, 3, 4, early)
	first.Course = course
	second := approvedSitting(1, 1, 4, 4, late)
	second.Course = course
	other := approvedSitting(2, 1, 4, 4, late)
	other.Course = course

	summaries := TopCourses([]models.Sitting{first, second, other}, 10)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Trabajos en altura", summaries[0].Title)
	assert.Equal(t, 2, summaries[0].Certificates)
	// Both counted attempts scored 100%, grade 20.
	assert.InDelta(t, 20.0, summaries[0].AvgGrade, 0.001)
}

func TestScoreDistributionBuckets(t *testing.T) {
	end := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	sittings := []models.Sitting{
		approvedSitting(1, 1, 20, 20, end), // grade 20
		approvedSitting(2, 1, 15, 20, end), // grade 15
		approvedSitting(3, 1, 12, 20, end), // grade 12
		approvedSitting(4, 1, 9, 20, end),  // grade 9
		approvedSitting(5, 1, 2, 20, end),  // grade 2
	}

	chart := ScoreDistribution(sittings)
	assert.Equal(t, []int{1, 1, 1, 1, 1}, chart.Data)
}

func TestTemporalStatsTrend(t *testing.T) {
	rising := TemporalStatsOf(models.ChartData{
		Labels: []string{"a", "b", "c", "d", "e", "f"},
		Data:   []int{1, 1, 1, 5, 6, 7},
	})
	assert.Equal(t, "Ascendente", rising.Trend)
	assert.Equal(t, "f", rising.PeakPeriod)

	falling := TemporalStatsOf(models.ChartData{
		Labels: []string{"a", "b", "c", "d", "e", "f"},
		Data:   []int{7, 6, 5, 1, 1, 1},
	})
	assert.Equal(t, "Descendente", falling.Trend)

	empty := TemporalStatsOf(models.ChartData{})
	assert.Equal(t, "Estable", empty.Trend)
	assert.Equal(t, "N/A", empty.PeakPeriod)
}

func TestCourseStatsAverageOnTwentyScale(t *testing.T) {
	end := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	stats := CourseStatsOf([]models.Sitting{
		approvedSitting(1, 1, 4, 4, end), // 100% -> 20
		approvedSitting(2, 1, 2, 4, end), // 50% -> 10
	})
	assert.Equal(t, 2, stats.TotalParticipants)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 1, stats.NotApproved)
	assert.InDelta(t, 15.0, stats.AverageGrade, 0.001)
	assert.InDelta(t, 50.0, stats.ApprovalRate, 0.001)
}
