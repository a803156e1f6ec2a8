package dashboard

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Alvarofrk/teckperu/internal/models"
)

const dateLayout = "2006-01-02"

// Filters scope the sittings a dashboard aggregates over. A malformed
// date never reaches the aggregation: it is dropped during parsing and
// reported through Warning, so the dashboard renders unfiltered data
// instead of failing.
type Filters struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	CourseID   uint
	ProgramID  uint
	LecturerID uint
	Period     string
	Warning    string
}

// ParseFilters reads dashboard query parameters. Unparseable dates and
// inverted ranges degrade to "no date filter" with a warning attached.
func ParseFilters(query url.Values) Filters {
	f := Filters{Period: query.Get("period")}
	if f.Period == "" {
		f.Period = "monthly"
	}

	var warnings []string
	if raw := query.Get("date_from"); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			f.DateFrom = &t
		} else {
			warnings = append(warnings, fmt.Sprintf("fecha date_from %q inválida, ignorada", raw))
		}
	}
	if raw := query.Get("date_to"); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			// Include the whole final day.
			end := t.AddDate(0, 0, 1).Add(-time.Second)
			f.DateTo = &end
		} else {
			warnings = append(warnings, fmt.Sprintf("fecha date_to %q inválida, ignorada", raw))
		}
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		warnings = append(warnings, "rango de fechas invertido, ignorado")
		f.DateFrom = nil
		f.DateTo = nil
	}

	f.CourseID = parseID(query.Get("course_id"))
	f.ProgramID = parseID(query.Get("program_id"))
	f.LecturerID = parseID(query.Get("lecturer_id"))
	f.Warning = strings.Join(warnings, "; ")
	return f
}

func parseID(raw string) uint {
	id, _ := strconv.ParseUint(raw, 10, 64)
	return uint(id)
}

// CacheKey builds a stable key from the aggregation name and every
// effective filter parameter, so a hit and a miss answer identically
// for the same filters.
func (f Filters) CacheKey(name string) string {
	parts := map[string]string{}
	if f.DateFrom != nil {
		parts["date_from"] = f.DateFrom.Format(dateLayout)
	}
	if f.DateTo != nil {
		parts["date_to"] = f.DateTo.Format(dateLayout)
	}
	if f.CourseID != 0 {
		parts["course"] = strconv.FormatUint(uint64(f.CourseID), 10)
	}
	if f.ProgramID != 0 {
		parts["program"] = strconv.FormatUint(uint64(f.ProgramID), 10)
	}
	if f.LecturerID != 0 {
		parts["lecturer"] = strconv.FormatUint(uint64(f.LecturerID), 10)
	}
	if f.Period != "" {
		parts["period"] = f.Period
	}

	keys := make([]string, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := strings.Builder{}
	b.WriteString(CachePrefix)
	b.WriteString(name)
	for _, k := range keys {
		b.WriteString(":")
		b.WriteString(k)
		b.WriteString("_")
		b.WriteString(parts[k])
	}
	return b.String()
}

// HistogramRange picks the span monthly histograms cover: the filtered
// range when one is set, otherwise the current year.
func (f Filters) HistogramRange(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, time.UTC)
	if f.DateFrom != nil {
		from = *f.DateFrom
	}
	if f.DateTo != nil {
		to = *f.DateTo
	}
	if to.Before(from) {
		return from, from
	}
	return from, to
}

// DateField selects which sitting timestamp an aggregation buckets and
// filters on. The default is the completion timestamp, which exists
// for every finalized sitting; approval exists only for passes.
type DateField func(*models.Sitting) *time.Time

func ByCompletion(s *models.Sitting) *time.Time { return s.End }
func ByApproval(s *models.Sitting) *time.Time   { return s.ApprovedAt }
