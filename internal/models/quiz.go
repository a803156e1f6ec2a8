package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	CourseID    uint           `json:"course_id" gorm:"index;not null"`
	Course      *Course        `json:"course,omitempty"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	// PassMark is the minimum percentage required to approve.
	PassMark int `json:"pass_mark" gorm:"default:80"`
	// RandomOrder shuffles the question queue per sitting.
	RandomOrder  bool `json:"random_order"`
	AnswersAtEnd bool `json:"answers_at_end"`
	// SingleAttempt forbids any retake after a completed attempt.
	SingleAttempt bool `json:"single_attempt"`
	// ExamPaper keeps sittings after completion; non-exam sittings are
	// discarded once scored and never reach the dashboards.
	ExamPaper bool       `json:"exam_paper"`
	Draft     bool       `json:"draft"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionEssay          = "essay"
)

type Question struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	QuizID    uint           `json:"quiz_id" gorm:"index;not null"`
	Type      string         `json:"type" gorm:"not null;default:multiple_choice"`
	Content   string         `json:"content" gorm:"not null"`
	Category  string         `json:"category"`
	// Explanation is shown after answering when the quiz reveals answers.
	Explanation string   `json:"explanation"`
	Choices     []Choice `json:"choices,omitempty" gorm:"foreignKey:QuestionID"`
}

type Choice struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	QuestionID uint           `json:"question_id" gorm:"index;not null"`
	Content    string         `json:"content" gorm:"not null"`
	Correct    bool           `json:"correct"`
}

// Check scores a submitted answer. For multiple-choice questions the
// answer is the chosen choice id and the result reports whether that
// choice is marked correct. Essay questions are never auto-scored and
// return nil.
func (q *Question) Check(answer string) *bool {
	if q.Type == QuestionEssay {
		return nil
	}
	result := false
	if id, err := strconv.ParseUint(answer, 10, 64); err == nil {
		for _, c := range q.Choices {
			if c.ID == uint(id) {
				result = c.Correct
				break
			}
		}
	}
	return &result
}

// CorrectChoice returns the correct option, used when answers are
// revealed at the end of a sitting.
func (q *Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].Correct {
			return &q.Choices[i]
		}
	}
	return nil
}
