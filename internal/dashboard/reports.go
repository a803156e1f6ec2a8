package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Alvarofrk/teckperu/internal/models"
)

type ReportSummary struct {
	TotalRecords int     `json:"total_records"`
	Approved     int     `json:"approved"`
	NotApproved  int     `json:"not_approved"`
	AvgPercent   float64 `json:"avg_percent"`
}

type ReportResult struct {
	Type    string             `json:"type"`
	Table   models.ReportTable `json:"table"`
	Summary ReportSummary      `json:"summary"`
	Warning string             `json:"warning,omitempty"`
}

// Report builds a tabular export over the filtered sittings. The
// report types share one row builder and differ only in columns;
// scoping (course, program, instructor) is already carried by the
// filters. A malformed row is skipped and logged, never fatal.
func (s *Service) Report(reportType string, f Filters) (*ReportResult, error) {
	var result ReportResult
	f.Period = reportType
	key := f.CacheKey("report")
	if s.fromCache(key, &result) {
		result.Warning = f.Warning
		return &result, nil
	}

	sittings, err := s.store.FinalizedSittings(f)
	if err != nil {
		return nil, err
	}

	result = ReportResult{
		Type:    reportType,
		Table:   buildReportTable(reportType, sittings),
		Summary: summarize(sittings),
		Warning: f.Warning,
	}
	s.toCache(key, &result)
	return &result, nil
}

func summarize(sittings []models.Sitting) ReportSummary {
	summary := ReportSummary{TotalRecords: len(sittings)}
	total := 0
	for i := range sittings {
		total += sittings[i].PercentCorrect()
		if sittings[i].Approved() {
			summary.Approved++
		} else {
			summary.NotApproved++
		}
	}
	if summary.TotalRecords > 0 {
		summary.AvgPercent = float64(total) / float64(summary.TotalRecords)
	}
	return summary
}

func buildReportTable(reportType string, sittings []models.Sitting) models.ReportTable {
	var headers []string
	switch reportType {
	case "course":
		headers = []string{"Participante", "Empresa", "Puntuación", "Estado", "Fecha", "Código Certificado"}
	case "temporal":
		headers = []string{"Fecha", "Participante", "Curso", "Programa", "Puntuación", "Estado", "Código Certificado"}
	default: // general, program, instructor
		headers = []string{"Participante", "Curso", "Programa", "Puntuación", "Estado", "Fecha", "Código Certificado"}
	}

	table := models.ReportTable{Headers: headers, Rows: [][]string{}}
	for i := range sittings {
		st := &sittings[i]
		if st.User == nil || st.Quiz == nil || st.Course == nil {
			log.Printf("report: skipping sitting %d with missing relations", st.ID)
			continue
		}
		table.Rows = append(table.Rows, reportRow(reportType, st))
	}
	return table
}

func reportRow(reportType string, st *models.Sitting) []string {
	status := "Reprobado"
	if st.Approved() {
		status = "Aprobado"
	}
	date := "-"
	if st.End != nil {
		date = st.End.Format("02/01/2006")
	}
	code := st.CertificateCode
	if code == "" {
		code = "-"
	}
	percent := fmt.Sprintf("%d%%", st.PercentCorrect())
	program := "-"
	if st.Course.Program != nil {
		program = st.Course.Program.Title
	}
	company := "-"
	if st.User.Student != nil && st.User.Student.Company != "" {
		company = st.User.Student.Company
	}

	switch reportType {
	case "course":
		return []string{st.User.FullName(), company, percent, status, date, code}
	case "temporal":
		return []string{date, st.User.FullName(), st.Course.Title, program, percent, status, code}
	default:
		return []string{st.User.FullName(), st.Course.Title, program, percent, status, date, code}
	}
}

// WriteCSV streams the table as UTF-8 CSV with a BOM so spreadsheet
// software renders accented names correctly.
func WriteCSV(w io.Writer, table models.ReportTable) error {
	if _, err := w.Write([]byte("\xEF\xBB\xBF")); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Headers); err != nil {
		return err
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// ExportFilename names a downloaded report after its type and the
// generation date.
func ExportFilename(reportType, extension string) string {
	return fmt.Sprintf("reporte_%s_%s.%s", reportType, time.Now().Format("20060102"), extension)
}
