package sitting

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/Alvarofrk/teckperu/internal/auth"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type submitAnswerRequest struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	Answer     string `json:"answer"`
}

// CreateSitting starts (or resumes) the caller's attempt at a quiz.
func (h *Handler) CreateSitting(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "quizID")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}

	s, err := h.service.Create(userID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	// The attached quiz carries the full question set with correct
	// flags; strip it before the sitting leaves the server.
	sanitized := *s
	if sanitized.Quiz != nil {
		quizCopy := *sanitized.Quiz
		quizCopy.Questions = nil
		sanitized.Quiz = &quizCopy
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(&sanitized)
}

// CurrentQuestion serves the head of the queue, or reports the sitting
// as ready to finalize once the queue is empty.
func (h *Handler) CurrentQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	sittingID, err := pathID(r, "sittingID")
	if err != nil {
		http.Error(w, "Invalid sitting id", http.StatusBadRequest)
		return
	}

	question, err := h.service.CurrentQuestion(userID, sittingID)
	if err != nil {
		writeError(w, err)
		return
	}
	if question == nil {
		json.NewEncoder(w).Encode(map[string]interface{}{"complete": true})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"complete": false,
		"question": question.ToDTO(false),
	})
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	sittingID, err := pathID(r, "sittingID")
	if err != nil {
		http.Error(w, "Invalid sitting id", http.StatusBadRequest)
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.SubmitAnswer(userID, sittingID, req.QuestionID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	sittingID, err := pathID(r, "sittingID")
	if err != nil {
		http.Error(w, "Invalid sitting id", http.StatusBadRequest)
		return
	}

	result, err := h.service.Finalize(userID, sittingID, auth.IsPrivileged(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(result)
}

// SittingDetail serves a completed sitting with its marked questions
// for the lecturer marking views.
func (h *Handler) SittingDetail(w http.ResponseWriter, r *http.Request) {
	sittingID, err := pathID(r, "sittingID")
	if err != nil {
		http.Error(w, "Invalid sitting id", http.StatusBadRequest)
		return
	}

	s, questions, err := h.service.Detail(sittingID)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"sitting":   s,
		"questions": questions,
		"answers":   s.AnswerMap(),
		"incorrect": s.IncorrectQuestionIDs(),
	})
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	return uint(id), err
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAlreadyCompleted):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNoQuestions):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("sitting handler error: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
