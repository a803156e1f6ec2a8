package certificate

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Alvarofrk/teckperu/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Certificate serves the PDF certificate of one approved sitting.
func (h *Handler) Certificate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	sittingID, err := strconv.ParseUint(mux.Vars(r)["sittingID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid sitting id", http.StatusBadRequest)
		return
	}

	pdf, err := h.service.Certificate(uint(sittingID), userID, auth.IsSuperuser(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	servePDF(w, pdf, fmt.Sprintf("certificado_%d.pdf", sittingID))
}

type annexRequest struct {
	EntryDate  string `json:"entry_date"`
	Occupation string `json:"occupation"`
	WorkArea   string `json:"work_area"`
	Company    string `json:"company"`
	District   string `json:"district"`
	Province   string `json:"province"`
}

// Annex serves the declaration annex of the caller's own approved
// sitting, filled with the posted form fields.
func (h *Handler) Annex(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	sittingID, err := strconv.ParseUint(mux.Vars(r)["sittingID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid sitting id", http.StatusBadRequest)
		return
	}
	var req annexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pdf, err := h.service.Annex(uint(sittingID), userID, AnnexForm{
		EntryDate:  req.EntryDate,
		Occupation: req.Occupation,
		WorkArea:   req.WorkArea,
		Company:    req.Company,
		District:   req.District,
		Province:   req.Province,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	servePDF(w, pdf, "anexo4.pdf")
}

// Transcript serves the caller's consolidated PDF of approved courses.
func (h *Handler) Transcript(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	pdf, err := h.service.Transcript(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	servePDF(w, pdf, "consolidado.pdf")
}

func servePDF(w http.ResponseWriter, pdf []byte, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(pdf)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNotAvailable):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("certificate handler error: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
