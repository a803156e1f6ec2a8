package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Alvarofrk/teckperu/internal/models"
)

// The aggregations in this file are pure: given the same finalized
// sittings and parameters they produce the same result, with no
// dependency on the cache layer wrapped around them.

const (
	companyOther = "Otras"
	companyNone  = "Sin Empresa"
)

type OverviewStats struct {
	TotalAttempts        int     `json:"total_attempts"`
	ApprovedCertificates int     `json:"approved_certificates"`
	PendingCertificates  int     `json:"pending_certificates"`
	ApprovalRate         float64 `json:"approval_rate"`
}

// Overview counts attempts and approvals. Approval goes through the
// single Sitting.Approved predicate, like every other aggregation.
func Overview(sittings []models.Sitting) OverviewStats {
	stats := OverviewStats{TotalAttempts: len(sittings)}
	for i := range sittings {
		if sittings[i].Approved() {
			stats.ApprovedCertificates++
		}
	}
	stats.PendingCertificates = stats.TotalAttempts - stats.ApprovedCertificates
	if stats.TotalAttempts > 0 {
		stats.ApprovalRate = float64(stats.ApprovedCertificates) / float64(stats.TotalAttempts) * 100
	}
	return stats
}

// MonthlyApprovals buckets approved sittings per month between from
// and to inclusive, labeling every month in the span even when empty.
func MonthlyApprovals(sittings []models.Sitting, from, to time.Time, dateOf DateField) models.ChartData {
	counts := map[string]int{}
	for i := range sittings {
		s := &sittings[i]
		t := dateOf(s)
		if t == nil || !s.Approved() {
			continue
		}
		counts[t.Format("2006-01")]++
	}

	chart := models.ChartData{Labels: []string{}, Data: []int{}}
	for m := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(to); m = m.AddDate(0, 1, 0) {
		chart.Labels = append(chart.Labels, m.Format("Jan 2006"))
		chart.Data = append(chart.Data, counts[m.Format("2006-01")])
	}
	return chart
}

// QuarterlyApprovals buckets approved sittings of one year by quarter.
func QuarterlyApprovals(sittings []models.Sitting, year int, dateOf DateField) models.ChartData {
	counts := [4]int{}
	for i := range sittings {
		s := &sittings[i]
		t := dateOf(s)
		if t == nil || t.Year() != year || !s.Approved() {
			continue
		}
		counts[(int(t.Month())-1)/3]++
	}
	return models.ChartData{
		Labels: []string{"Q1 (Ene-Mar)", "Q2 (Abr-Jun)", "Q3 (Jul-Sep)", "Q4 (Oct-Dic)"},
		Data:   counts[:],
	}
}

// YearlyApprovals buckets approved sittings per year over [firstYear,
// lastYear].
func YearlyApprovals(sittings []models.Sitting, firstYear, lastYear int, dateOf DateField) models.ChartData {
	if lastYear < firstYear {
		return models.ChartData{Labels: []string{}, Data: []int{}}
	}
	chart := models.ChartData{
		Labels: make([]string, 0, lastYear-firstYear+1),
		Data:   make([]int, lastYear-firstYear+1),
	}
	for y := firstYear; y <= lastYear; y++ {
		chart.Labels = append(chart.Labels, fmt.Sprintf("%d", y))
	}
	for i := range sittings {
		s := &sittings[i]
		t := dateOf(s)
		if t == nil || !s.Approved() {
			continue
		}
		if y := t.Year(); y >= firstYear && y <= lastYear {
			chart.Data[y-firstYear]++
		}
	}
	return chart
}

// ProgramDistribution counts approvals per program, top 8.
func ProgramDistribution(sittings []models.Sitting) models.ChartData {
	counts := map[string]int{}
	for i := range sittings {
		s := &sittings[i]
		if !s.Approved() || s.Course == nil || s.Course.Program == nil {
			continue
		}
		counts[s.Course.Program.Title]++
	}
	return topN(counts, 8, "")
}

// CompanyDistribution counts approvals per declared company: top 10,
// the rest folded into "Otras", sittings without a company under
// "Sin Empresa".
func CompanyDistribution(sittings []models.Sitting) models.ChartData {
	counts := map[string]int{}
	none := 0
	for i := range sittings {
		s := &sittings[i]
		if !s.Approved() {
			continue
		}
		company := ""
		if s.User != nil && s.User.Student != nil {
			company = strings.TrimSpace(s.User.Student.Company)
		}
		if company == "" {
			none++
		} else {
			counts[company]++
		}
	}
	chart := topN(counts, 10, companyOther)
	if none > 0 {
		chart.Labels = append(chart.Labels, companyNone)
		chart.Data = append(chart.Data, none)
	}
	return chart
}

// GenderDistribution counts approvals by declared gender. Only M and F
// are reported; unspecified is excluded.
func GenderDistribution(sittings []models.Sitting) models.ChartData {
	counts := map[string]int{models.GenderMale: 0, models.GenderFemale: 0}
	for i := range sittings {
		s := &sittings[i]
		if !s.Approved() || s.User == nil {
			continue
		}
		gender := strings.TrimSpace(s.User.Gender)
		if _, ok := counts[gender]; ok {
			counts[gender]++
		}
	}
	return models.ChartData{
		Labels: []string{"Masculino", "Femenino"},
		Data:   []int{counts[models.GenderMale], counts[models.GenderFemale]},
	}
}

type CourseSummary struct {
	Title        string  `json:"title"`
	Code         string  `json:"code"`
	Program      string  `json:"program"`
	Certificates int     `json:"certificates"`
	AvgGrade     float64 `json:"avg_grade"`
}

// TopCourses ranks courses by issued certificates. Per (user, course)
// only the latest passing attempt counts; earlier passes of the same
// user on the same course are ignored.
func TopCourses(sittings []models.Sitting, limit int) []CourseSummary {
	type key struct{ userID, courseID uint }
	latest := map[key]*models.Sitting{}
	for i := range sittings {
		s := &sittings[i]
		if !s.Approved() || s.Course == nil || s.End == nil {
			continue
		}
		k := key{s.UserID, s.CourseID}
		if prev, ok := latest[k]; !ok || s.End.After(*prev.End) {
			latest[k] = s
		}
	}

	type tally struct {
		summary CourseSummary
		total   float64
	}
	courses := map[uint]*tally{}
	for _, s := range latest {
		t, ok := courses[s.CourseID]
		if !ok {
			program := "Sin programa"
			if s.Course.Program != nil {
				program = s.Course.Program.Title
			}
			t = &tally{summary: CourseSummary{
				Title:   s.Course.Title,
				Code:    s.Course.Code,
				Program: program,
			}}
			courses[s.CourseID] = t
		}
		t.summary.Certificates++
		t.total += s.Grade20()
	}

	result := make([]CourseSummary, 0, len(courses))
	for _, t := range courses {
		t.summary.AvgGrade = t.total / float64(t.summary.Certificates)
		result = append(result, t.summary)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Certificates != result[j].Certificates {
			return result[i].Certificates > result[j].Certificates
		}
		return result[i].Title < result[j].Title
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

type CourseStats struct {
	TotalParticipants int     `json:"total_participants"`
	Approved          int     `json:"approved"`
	NotApproved       int     `json:"not_approved"`
	AverageGrade      float64 `json:"average_grade"`
	ApprovalRate      float64 `json:"approval_rate"`
}

// CourseStatsOf summarizes the sittings of one course on the 1-20
// grading scale.
func CourseStatsOf(sittings []models.Sitting) CourseStats {
	stats := CourseStats{TotalParticipants: len(sittings)}
	total := 0.0
	for i := range sittings {
		s := &sittings[i]
		total += s.Grade20()
		if s.Approved() {
			stats.Approved++
		} else {
			stats.NotApproved++
		}
	}
	if stats.TotalParticipants > 0 {
		stats.AverageGrade = total / float64(stats.TotalParticipants)
		stats.ApprovalRate = float64(stats.Approved) / float64(stats.TotalParticipants) * 100
	}
	return stats
}

// ScoreDistribution buckets sittings by grade on the 1-20 scale:
// 18-20, 15-17, 12-14, 9-11, below 9.
func ScoreDistribution(sittings []models.Sitting) models.ChartData {
	buckets := [5]int{}
	for i := range sittings {
		switch grade := sittings[i].Grade20(); {
		case grade >= 18:
			buckets[0]++
		case grade >= 15:
			buckets[1]++
		case grade >= 12:
			buckets[2]++
		case grade >= 9:
			buckets[3]++
		default:
			buckets[4]++
		}
	}
	return models.ChartData{
		Labels: []string{"18-20", "15-17", "12-14", "9-11", "<9"},
		Data:   buckets[:],
	}
}

type TemporalStats struct {
	GrowthRate  float64 `json:"growth_rate"`
	PeakPeriod  string  `json:"peak_period"`
	Trend       string  `json:"trend"`
	AvgPeriod   float64 `json:"avg_period"`
	TotalPeriod int     `json:"total_period"`
}

// TemporalStatsOf derives growth and trend indicators from a
// histogram.
func TemporalStatsOf(chart models.ChartData) TemporalStats {
	if len(chart.Data) == 0 {
		return TemporalStats{PeakPeriod: "N/A", Trend: "Estable"}
	}

	total := 0
	peak := 0
	for i, v := range chart.Data {
		total += v
		if v > chart.Data[peak] {
			peak = i
		}
	}

	stats := TemporalStats{
		PeakPeriod:  chart.Labels[peak],
		TotalPeriod: total,
		AvgPeriod:   float64(total) / float64(len(chart.Data)),
		Trend:       "Estable",
	}
	if len(chart.Data) >= 2 && chart.Data[0] > 0 {
		stats.GrowthRate = float64(chart.Data[len(chart.Data)-1]-chart.Data[0]) / float64(chart.Data[0]) * 100
	}
	if len(chart.Data) >= 3 {
		recent := avgOf(chart.Data[len(chart.Data)-3:])
		earlier := avgOf(chart.Data[:3])
		switch {
		case recent > earlier*1.1:
			stats.Trend = "Ascendente"
		case recent < earlier*0.9:
			stats.Trend = "Descendente"
		}
	}
	return stats
}

func avgOf(data []int) float64 {
	total := 0
	for _, v := range data {
		total += v
	}
	return float64(total) / float64(len(data))
}

// topN keeps the n largest entries and folds the remainder into an
// overflow label when one is given.
func topN(counts map[string]int, n int, overflow string) models.ChartData {
	type entry struct {
		label string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for label, count := range counts {
		if count > 0 {
			entries = append(entries, entry{label, count})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].label < entries[j].label
	})

	chart := models.ChartData{Labels: []string{}, Data: []int{}}
	rest := 0
	for i, e := range entries {
		if i < n {
			chart.Labels = append(chart.Labels, e.label)
			chart.Data = append(chart.Data, e.count)
		} else {
			rest += e.count
		}
	}
	if rest > 0 && overflow != "" {
		chart.Labels = append(chart.Labels, overflow)
		chart.Data = append(chart.Data, rest)
	}
	return chart
}
