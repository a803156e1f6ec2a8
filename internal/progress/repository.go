package progress

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Alvarofrk/teckperu/internal/models"
)

// Store accumulates per-category answer tallies. Implemented by the
// gorm Repository and by an in-memory fake in tests.
type Store interface {
	IncrementScore(userID uint, category string, correct, total int) error
	RecordsForUser(userID uint) ([]models.ProgressRecord, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) IncrementScore(userID uint, category string, correct, total int) error {
	var record models.ProgressRecord
	err := r.db.Where("user_id = ? AND category = ?", userID, category).First(&record).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record = models.ProgressRecord{UserID: userID, Category: category}
	}
	record.Correct += correct
	record.Total += total
	return r.db.Save(&record).Error
}

func (r *Repository) RecordsForUser(userID uint) ([]models.ProgressRecord, error) {
	var records []models.ProgressRecord
	err := r.db.Where("user_id = ?", userID).Order("category asc").Find(&records).Error
	return records, err
}
