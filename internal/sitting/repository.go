package sitting

import (
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Alvarofrk/teckperu/internal/models"
)

// Store is the persistence surface the state machine runs on.
// Implemented by the gorm Repository below and by an in-memory fake in
// tests. Mutate must serialize concurrent mutations of the same
// sitting: two overlapping calls for one sitting id may not interleave.
type Store interface {
	GetQuiz(quizID uint) (*models.Quiz, error)
	GetQuestion(questionID uint) (*models.Question, error)
	OpenSitting(userID, quizID, courseID uint) (*models.Sitting, error)
	CompletedSittings(userID, quizID, courseID uint) ([]models.Sitting, error)
	CreateSitting(s *models.Sitting) error
	GetSitting(id uint) (*models.Sitting, error)
	Mutate(id uint, fn func(s *models.Sitting) error) (*models.Sitting, error)
	DeleteSitting(s *models.Sitting) error
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetQuiz(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id asc")
	}).Preload("Questions.Choices").Preload("Course").First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) GetQuestion(questionID uint) (*models.Question, error) {
	var question models.Question
	err := r.db.Preload("Choices").First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// OpenSitting returns the single incomplete sitting for the tuple, or
// nil when there is none.
func (r *Repository) OpenSitting(userID, quizID, courseID uint) (*models.Sitting, error) {
	var s models.Sitting
	err := r.db.Preload("Quiz").
		Where("user_id = ? AND quiz_id = ? AND course_id = ? AND complete = ?",
			userID, quizID, courseID, false).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repository) CompletedSittings(userID, quizID, courseID uint) ([]models.Sitting, error) {
	var sittings []models.Sitting
	err := r.db.Preload("Quiz").
		Where("user_id = ? AND quiz_id = ? AND course_id = ? AND complete = ?",
			userID, quizID, courseID, true).
		Order("\"end\" desc").
		Find(&sittings).Error
	return sittings, err
}

func (r *Repository) CreateSitting(s *models.Sitting) error {
	if err := r.db.Create(s).Error; err != nil {
		log.Printf("Error creating sitting for user %d quiz %d: %v", s.UserID, s.QuizID, err)
		return err
	}
	return nil
}

func (r *Repository) GetSitting(id uint) (*models.Sitting, error) {
	var s models.Sitting
	err := r.db.Preload("Quiz").Preload("User").Preload("Course").First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Mutate loads the sitting under a row lock, applies fn and saves the
// result in one transaction. Concurrent submissions to the same
// sitting serialize on the lock instead of interleaving.
func (r *Repository) Mutate(id uint, fn func(s *models.Sitting) error) (*models.Sitting, error) {
	var result *models.Sitting
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var s models.Sitting
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Quiz").First(&s, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := fn(&s); err != nil {
			return err
		}
		if err := tx.Save(&s).Error; err != nil {
			return err
		}
		result = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository) DeleteSitting(s *models.Sitting) error {
	return r.db.Delete(s).Error
}
