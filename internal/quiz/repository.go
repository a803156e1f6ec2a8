package quiz

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Alvarofrk/teckperu/internal/models"
)

type Store interface {
	CreateQuiz(q *models.Quiz) error
	UpdateQuiz(q *models.Quiz) error
	DeleteQuiz(quizID uint) error
	GetQuizBySlug(slug string) (*models.Quiz, error)
	GetQuizByID(quizID uint) (*models.Quiz, error)
	ListByCourse(courseID uint, includeDrafts bool) ([]models.Quiz, error)
	SlugExists(slug string, excludeID uint) (bool, error)

	CreateQuestion(q *models.Question) error
	GetQuestion(questionID uint) (*models.Question, error)
	UpdateQuestion(q *models.Question) error
	DeleteQuestion(questionID uint) error
	ReplaceChoices(questionID uint, choices []models.Choice) error

	CompletedSittings(userID uint, quizIDs []uint) ([]models.Sitting, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateQuiz(q *models.Quiz) error {
	return r.db.Create(q).Error
}

func (r *Repository) UpdateQuiz(q *models.Quiz) error {
	return r.db.Save(q).Error
}

func (r *Repository) DeleteQuiz(quizID uint) error {
	return r.db.Delete(&models.Quiz{}, quizID).Error
}

func (r *Repository) GetQuizBySlug(slug string) (*models.Quiz, error) {
	var q models.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id asc")
	}).Preload("Questions.Choices").Preload("Course").
		Where("slug = ?", slug).First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *Repository) GetQuizByID(quizID uint) (*models.Quiz, error) {
	var q models.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id asc")
	}).Preload("Questions.Choices").Preload("Course").First(&q, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *Repository) ListByCourse(courseID uint, includeDrafts bool) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	query := r.db.Where("course_id = ?", courseID)
	if !includeDrafts {
		query = query.Where("draft = ?", false)
	}
	err := query.Order("id asc").Find(&quizzes).Error
	return quizzes, err
}

func (r *Repository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.Quiz{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateQuestion(q *models.Question) error {
	return r.db.Create(q).Error
}

func (r *Repository) GetQuestion(questionID uint) (*models.Question, error) {
	var q models.Question
	err := r.db.Preload("Choices").First(&q, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *Repository) UpdateQuestion(q *models.Question) error {
	return r.db.Omit("Choices").Save(q).Error
}

func (r *Repository) DeleteQuestion(questionID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Choice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, questionID).Error
	})
}

// ReplaceChoices swaps the full option set of a question in one
// transaction, so an edit never leaves a question half updated.
func (r *Repository) ReplaceChoices(questionID uint, choices []models.Choice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Choice{}).Error; err != nil {
			return err
		}
		for i := range choices {
			choices[i].ID = 0
			choices[i].QuestionID = questionID
		}
		if len(choices) == 0 {
			return nil
		}
		return tx.Create(&choices).Error
	})
}

func (r *Repository) CompletedSittings(userID uint, quizIDs []uint) ([]models.Sitting, error) {
	if len(quizIDs) == 0 {
		return nil, nil
	}
	var sittings []models.Sitting
	err := r.db.Preload("Quiz").
		Where("user_id = ? AND quiz_id IN ? AND complete = ?", userID, quizIDs, true).
		Order(`"end" desc`).
		Find(&sittings).Error
	return sittings, err
}
