package dashboard

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Alvarofrk/teckperu/internal/models"
	"github.com/Alvarofrk/teckperu/pkg/cache"
)

// CachePrefix namespaces every dashboard cache key; invalidation drops
// the whole prefix.
const CachePrefix = "dashboard:"

const cacheTTL = 5 * time.Minute

type Service struct {
	store Store
	cache cache.Cache
	now   func() time.Time
}

func NewService(store Store, c cache.Cache) *Service {
	return &Service{store: store, cache: c, now: time.Now}
}

type OverviewResult struct {
	OverviewStats
	Monthly    models.ChartData `json:"monthly"`
	Program    models.ChartData `json:"program"`
	Company    models.ChartData `json:"company"`
	Gender     models.ChartData `json:"gender"`
	TopCourses []CourseSummary  `json:"top_courses"`
	Warning    string           `json:"warning,omitempty"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Overview is the certificates dashboard: totals, approval rate and
// the distribution charts, over the filtered finalized sittings.
func (s *Service) Overview(f Filters) (*OverviewResult, error) {
	var result OverviewResult
	key := f.CacheKey("overview")
	if s.fromCache(key, &result) {
		result.Warning = f.Warning
		return &result, nil
	}

	sittings, err := s.store.FinalizedSittings(f)
	if err != nil {
		return nil, err
	}

	from, to := f.HistogramRange(s.now())
	result = OverviewResult{
		OverviewStats: Overview(sittings),
		Monthly:       MonthlyApprovals(sittings, from, to, ByCompletion),
		Program:       ProgramDistribution(sittings),
		Company:       CompanyDistribution(sittings),
		Gender:        GenderDistribution(sittings),
		TopCourses:    TopCourses(sittings, 10),
		Warning:       f.Warning,
		UpdatedAt:     s.now(),
	}
	s.toCache(key, &result)
	return &result, nil
}

type ParticipantRow struct {
	Name            string     `json:"name"`
	Username        string     `json:"username"`
	Company         string     `json:"company"`
	PercentCorrect  int        `json:"percent_correct"`
	Grade           float64    `json:"grade"`
	Approved        bool       `json:"approved"`
	CompletedAt     *time.Time `json:"completed_at"`
	CertificateCode string     `json:"certificate_code,omitempty"`
}

type CourseResult struct {
	Stats             CourseStats      `json:"stats"`
	ScoreDistribution models.ChartData `json:"score_distribution"`
	Monthly           models.ChartData `json:"monthly"`
	Participants      []ParticipantRow `json:"participants"`
	Warning           string           `json:"warning,omitempty"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// CoursePerformance is the per-course dashboard. Rows with missing
// relations are skipped and logged instead of aborting the view.
func (s *Service) CoursePerformance(f Filters) (*CourseResult, error) {
	var result CourseResult
	key := f.CacheKey("course")
	if s.fromCache(key, &result) {
		result.Warning = f.Warning
		return &result, nil
	}

	sittings, err := s.store.FinalizedSittings(f)
	if err != nil {
		return nil, err
	}

	participants := make([]ParticipantRow, 0, len(sittings))
	for i := range sittings {
		st := &sittings[i]
		if st.User == nil || st.Quiz == nil {
			log.Printf("dashboard: skipping sitting %d with missing relations", st.ID)
			continue
		}
		row := ParticipantRow{
			Name:            st.User.FullName(),
			Username:        st.User.Username,
			PercentCorrect:  st.PercentCorrect(),
			Grade:           st.Grade20(),
			Approved:        st.Approved(),
			CompletedAt:     st.End,
			CertificateCode: st.CertificateCode,
		}
		if st.User.Student != nil {
			row.Company = st.User.Student.Company
		}
		participants = append(participants, row)
	}

	from, to := f.HistogramRange(s.now())
	result = CourseResult{
		Stats:             CourseStatsOf(sittings),
		ScoreDistribution: ScoreDistribution(sittings),
		Monthly:           MonthlyApprovals(sittings, from, to, ByCompletion),
		Participants:      participants,
		Warning:           f.Warning,
		UpdatedAt:         s.now(),
	}
	s.toCache(key, &result)
	return &result, nil
}

type TemporalResult struct {
	Histogram      models.ChartData `json:"histogram"`
	Stats          TemporalStats    `json:"stats"`
	YearComparison models.ChartData `json:"year_comparison"`
	Seasonal       models.ChartData `json:"seasonal"`
	Warning        string           `json:"warning,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TemporalAnalysis serves the monthly/quarterly/yearly approval
// histograms plus trend statistics.
func (s *Service) TemporalAnalysis(f Filters) (*TemporalResult, error) {
	var result TemporalResult
	key := f.CacheKey("temporal")
	if s.fromCache(key, &result) {
		result.Warning = f.Warning
		return &result, nil
	}

	sittings, err := s.store.FinalizedSittings(f)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var histogram models.ChartData
	switch f.Period {
	case "quarterly":
		histogram = QuarterlyApprovals(sittings, now.Year(), ByCompletion)
	case "yearly":
		histogram = YearlyApprovals(sittings, 2020, now.Year(), ByCompletion)
	default:
		from, to := f.HistogramRange(now)
		histogram = MonthlyApprovals(sittings, from, to, ByCompletion)
	}

	result = TemporalResult{
		Histogram:      histogram,
		Stats:          TemporalStatsOf(histogram),
		YearComparison: YearlyApprovals(sittings, now.Year()-3, now.Year(), ByCompletion),
		Seasonal:       QuarterlyApprovals(sittings, now.Year(), ByCompletion),
		Warning:        f.Warning,
		UpdatedAt:      now,
	}
	s.toCache(key, &result)
	return &result, nil
}

// Invalidate drops every cached dashboard aggregate. Called whenever a
// sitting is finalized or deleted.
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(CachePrefix)
	}
}

func (s *Service) fromCache(key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, ok := s.cache.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("dashboard: discarding bad cache entry %s: %v", key, err)
		return false
	}
	return true
}

func (s *Service) toCache(key string, v interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("dashboard: error caching %s: %v", key, err)
		return
	}
	s.cache.Set(key, data, cacheTTL)
}
