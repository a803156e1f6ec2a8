package dashboard

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/Alvarofrk/teckperu/internal/certificate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CertificatesOverview(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Overview(ParseFilters(r.URL.Query()))
	if err != nil {
		log.Printf("Error building certificates overview: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) CoursePerformance(w http.ResponseWriter, r *http.Request) {
	f := ParseFilters(r.URL.Query())
	if f.CourseID == 0 {
		http.Error(w, "course_id is required", http.StatusBadRequest)
		return
	}
	result, err := h.service.CoursePerformance(f)
	if err != nil {
		log.Printf("Error building course dashboard: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) TemporalAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.TemporalAnalysis(ParseFilters(r.URL.Query()))
	if err != nil {
		log.Printf("Error building temporal dashboard: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(result)
}

// Reports serves the export dashboard. Without export=true the table
// is returned as JSON for preview; with it, the table is downloaded as
// CSV or PDF.
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	reportType := query.Get("report_type")
	if reportType == "" {
		reportType = "general"
	}

	result, err := h.service.Report(reportType, ParseFilters(query))
	if err != nil {
		log.Printf("Error building %s report: %v", reportType, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if query.Get("export") != "true" {
		json.NewEncoder(w).Encode(result)
		return
	}

	switch query.Get("format") {
	case "pdf":
		data, err := certificate.RenderReportTable("Reporte de certificados", result.Table)
		if err != nil {
			log.Printf("Error rendering report PDF: %v", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", ExportFilename(reportType, "pdf")))
		w.Write(data)
	default:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", ExportFilename(reportType, "csv")))
		if err := WriteCSV(w, result.Table); err != nil {
			log.Printf("Error writing CSV export: %v", err)
		}
	}
}
