package certificate

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Alvarofrk/teckperu/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetSitting(sittingID uint) (*models.Sitting, error) {
	var s models.Sitting
	err := r.db.Preload("User.Student").Preload("Quiz").Preload("Course").First(&s, sittingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repository) IsLecturerAllocated(lecturerID, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CourseAllocation{}).
		Where("lecturer_id = ? AND course_id = ?", lecturerID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) ApprovedSittings(userID uint) ([]models.Sitting, error) {
	var sittings []models.Sitting
	err := r.db.Preload("User").Preload("Quiz").Preload("Course").
		Where("user_id = ? AND complete = ? AND approved_at IS NOT NULL", userID, true).
		Order("approved_at desc").
		Find(&sittings).Error
	return sittings, err
}
