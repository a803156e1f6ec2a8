package course

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/Alvarofrk/teckperu/internal/auth"
	"github.com/Alvarofrk/teckperu/internal/models"
)

type Handler struct {
	store    Store
	validate *validator.Validate
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store, validate: validator.New()}
}

type programRequest struct {
	Title   string `json:"title" validate:"required"`
	Summary string `json:"summary"`
}

type courseRequest struct {
	Slug      string `json:"slug" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Code      string `json:"code"`
	Summary   string `json:"summary"`
	ProgramID *uint  `json:"program_id"`
	IsActive  *bool  `json:"is_active"`
}

type allocationRequest struct {
	LecturerID uint `json:"lecturer_id" validate:"required"`
	CourseID   uint `json:"course_id" validate:"required"`
}

func (h *Handler) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var req programRequest
	if !h.decode(w, r, &req) {
		return
	}
	p := &models.Program{Title: req.Title, Summary: req.Summary}
	if err := h.store.CreateProgram(p); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.store.ListPrograms()
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(programs)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if !h.decode(w, r, &req) {
		return
	}
	c := &models.Course{
		Slug:      req.Slug,
		Title:     req.Title,
		Code:      req.Code,
		Summary:   req.Summary,
		ProgramID: req.ProgramID,
		IsActive:  true,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := h.store.CreateCourse(c); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseID")
	if err != nil {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}
	var req courseRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.store.GetCourse(courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	c.Slug = req.Slug
	c.Title = req.Title
	c.Code = req.Code
	c.Summary = req.Summary
	c.ProgramID = req.ProgramID
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := h.store.UpdateCourse(c); err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(c)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCourseBySlug(mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(c)
}

// ListCourses serves the catalog, optionally filtered by program.
// Students only see active courses.
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	var programID uint
	if raw := r.URL.Query().Get("program_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid program id", http.StatusBadRequest)
			return
		}
		programID = uint(id)
	}

	activeOnly := !auth.IsPrivileged(r.Context())
	courses, err := h.store.ListCourses(programID, activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(courses)
}

func (h *Handler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.store.Allocate(req.LecturerID, req.CourseID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) Deallocate(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.store.Deallocate(req.LecturerID, req.CourseID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MyCourses serves the courses allocated to the calling lecturer.
func (h *Handler) MyCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	courses, err := h.store.AllocationsForLecturer(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(courses)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	return uint(id), err
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	log.Printf("course handler error: %v", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}
