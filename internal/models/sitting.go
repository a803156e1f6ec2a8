package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sitting is one attempt of one user at one quiz within a course.
// The remaining questions are kept as a comma separated id list that
// shrinks to empty as answers arrive; QuestionOrder keeps the full
// order the sitting was created with.
type Sitting struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	UserID    uint           `json:"user_id" gorm:"index:idx_sitting_user_quiz_course;not null"`
	QuizID    uint           `json:"quiz_id" gorm:"index:idx_sitting_user_quiz_course;not null"`
	CourseID  uint           `json:"course_id" gorm:"index:idx_sitting_user_quiz_course;not null"`
	User      *User          `json:"user,omitempty"`
	Quiz      *Quiz          `json:"quiz,omitempty"`
	Course    *Course        `json:"course,omitempty"`

	QuestionOrder      string         `json:"-"`
	QuestionQueue      string         `json:"-"`
	IncorrectQuestions string         `json:"-"`
	UserAnswers        datatypes.JSON `json:"-"`

	CurrentScore int        `json:"current_score"`
	Complete     bool       `json:"complete" gorm:"index"`
	Start        time.Time  `json:"start"`
	End          *time.Time `json:"end"`
	// ApprovedAt is stamped on the first passing finalize and never
	// moves afterwards.
	ApprovedAt *time.Time `json:"approved_at"`
	// CertificateCode is assigned at most once, on the first passing
	// finalize, and is stable across repeated finalize calls.
	CertificateCode string `json:"certificate_code" gorm:"index"`
}

func EncodeIDList(ids []uint) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func DecodeIDList(s string) []uint {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64); err == nil {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// RemainingQuestions returns the ids still to be answered, in order.
func (s *Sitting) RemainingQuestions() []uint {
	return DecodeIDList(s.QuestionQueue)
}

// FirstQuestionID returns the id at the head of the queue. ok is false
// once every question has been answered.
func (s *Sitting) FirstQuestionID() (id uint, ok bool) {
	ids := s.RemainingQuestions()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// RemoveFirstQuestion pops the head of the queue.
func (s *Sitting) RemoveFirstQuestion() {
	ids := s.RemainingQuestions()
	if len(ids) > 0 {
		s.QuestionQueue = EncodeIDList(ids[1:])
	}
}

func (s *Sitting) AddIncorrectQuestion(questionID uint) {
	ids := DecodeIDList(s.IncorrectQuestions)
	for _, id := range ids {
		if id == questionID {
			return
		}
	}
	s.IncorrectQuestions = EncodeIDList(append(ids, questionID))
}

func (s *Sitting) IncorrectQuestionIDs() []uint {
	return DecodeIDList(s.IncorrectQuestions)
}

// RecordAnswer stores the raw submitted answer keyed by question id.
func (s *Sitting) RecordAnswer(questionID uint, answer string) error {
	answers := s.AnswerMap()
	answers[strconv.FormatUint(uint64(questionID), 10)] = answer
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	s.UserAnswers = datatypes.JSON(data)
	return nil
}

func (s *Sitting) AnswerMap() map[string]string {
	answers := map[string]string{}
	if len(s.UserAnswers) > 0 {
		_ = json.Unmarshal(s.UserAnswers, &answers)
	}
	return answers
}

// Answered reports whether the question was already submitted in this
// sitting, regardless of outcome.
func (s *Sitting) Answered(questionID uint) bool {
	_, ok := s.AnswerMap()[strconv.FormatUint(uint64(questionID), 10)]
	return ok
}

// MaxScore is the number of questions the sitting was created with.
func (s *Sitting) MaxScore() int {
	return len(DecodeIDList(s.QuestionOrder))
}

// PercentCorrect is the rounded percentage of correct answers over the
// full question set.
func (s *Sitting) PercentCorrect() int {
	total := s.MaxScore()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(s.CurrentScore) / float64(total) * 100))
}

// Approved is the single pass predicate: a sitting counts as approved
// when it is complete and its percentage reaches the quiz pass mark.
// Every consumer (retake gating, certificates, dashboards, reports)
// goes through this method.
func (s *Sitting) Approved() bool {
	if s.Quiz == nil {
		return false
	}
	return s.Complete && s.PercentCorrect() >= s.Quiz.PassMark
}

// Grade20 converts the percentage to the 1-20 grading scale printed on
// certificates.
func (s *Sitting) Grade20() float64 {
	return float64(s.PercentCorrect()) / 100 * 20
}
