package quiz

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
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type quizRequest struct {
	CourseID      uint   `json:"course_id" validate:"required"`
	Slug          string `json:"slug" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description"`
	PassMark      int    `json:"pass_mark" validate:"min=0,max=100"`
	RandomOrder   bool   `json:"random_order"`
	AnswersAtEnd  bool   `json:"answers_at_end"`
	SingleAttempt bool   `json:"single_attempt"`
	ExamPaper     bool   `json:"exam_paper"`
	Draft         bool   `json:"draft"`
}

type choiceRequest struct {
	Content string `json:"content" validate:"required"`
	Correct bool   `json:"correct"`
}

type questionRequest struct {
	Type        string          `json:"type" validate:"omitempty,oneof=multiple_choice essay"`
	Content     string          `json:"content" validate:"required"`
	Category    string          `json:"category"`
	Explanation string          `json:"explanation"`
	Choices     []choiceRequest `json:"choices" validate:"dive"`
}

func (req *questionRequest) toModel() *models.Question {
	q := &models.Question{
		Type:        req.Type,
		Content:     req.Content,
		Category:    req.Category,
		Explanation: req.Explanation,
	}
	for _, c := range req.Choices {
		q.Choices = append(q.Choices, models.Choice{Content: c.Content, Correct: c.Correct})
	}
	return q
}

// GetQuiz serves one quiz by slug. Students never see drafts nor which
// options are correct.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	privileged := auth.IsPrivileged(r.Context())
	q, err := h.service.GetQuiz(mux.Vars(r)["slug"], privileged)
	if err != nil {
		writeError(w, err)
		return
	}

	questions := make([]models.QuestionDTO, len(q.Questions))
	for i := range q.Questions {
		questions[i] = q.Questions[i].ToDTO(privileged)
	}
	// The raw question set embeds the correct flags; only the DTOs
	// leave the server.
	sanitized := *q
	sanitized.Questions = nil
	json.NewEncoder(w).Encode(map[string]interface{}{
		"quiz":      &sanitized,
		"questions": questions,
	})
}

// ListByCourse serves a course's quizzes with the caller's attempt
// status on each.
func (h *Handler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	courseID, err := pathID(r, "courseID")
	if err != nil {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}

	summaries, err := h.service.ListByCourse(courseID, userID, auth.IsPrivileged(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(summaries)
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if !h.decode(w, r, &req) {
		return
	}

	q := &models.Quiz{
		CourseID:      req.CourseID,
		Slug:          req.Slug,
		Title:         req.Title,
		Description:   req.Description,
		PassMark:      req.PassMark,
		RandomOrder:   req.RandomOrder,
		AnswersAtEnd:  req.AnswersAtEnd,
		SingleAttempt: req.SingleAttempt,
		ExamPaper:     req.ExamPaper,
		Draft:         req.Draft,
	}
	if err := h.service.CreateQuiz(q); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(q)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}
	var req quizRequest
	if !h.decode(w, r, &req) {
		return
	}

	q, err := h.service.GetQuizByID(quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	q.CourseID = req.CourseID
	q.Slug = req.Slug
	q.Title = req.Title
	q.Description = req.Description
	q.PassMark = req.PassMark
	q.RandomOrder = req.RandomOrder
	q.AnswersAtEnd = req.AnswersAtEnd
	q.SingleAttempt = req.SingleAttempt
	q.ExamPaper = req.ExamPaper
	q.Draft = req.Draft

	if err := h.service.UpdateQuiz(q); err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(q)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteQuiz(quizID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "quizID")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}
	var req questionRequest
	if !h.decode(w, r, &req) {
		return
	}

	q := req.toModel()
	if err := h.service.AddQuestion(quizID, q); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(q)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r, "questionID")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}
	var req questionRequest
	if !h.decode(w, r, &req) {
		return
	}

	q, err := h.service.UpdateQuestion(questionID, req.toModel())
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(q)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r, "questionID")
	if err != nil {
		http.Error(w, "Invalid question id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteQuestion(questionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidQuestion), errors.Is(err, ErrSlugTaken):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("quiz handler error: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
