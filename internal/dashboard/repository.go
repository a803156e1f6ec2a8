package dashboard

import (
	"gorm.io/gorm"

	"github.com/Alvarofrk/teckperu/internal/models"
)

// Store supplies the finalized sittings a dashboard aggregates over.
type Store interface {
	FinalizedSittings(f Filters) ([]models.Sitting, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FinalizedSittings fetches completed sittings matching the filters,
// with every relation the aggregations touch preloaded. Date filters
// apply to the completion timestamp.
func (r *Repository) FinalizedSittings(f Filters) ([]models.Sitting, error) {
	q := r.db.Model(&models.Sitting{}).
		Where("sittings.complete = ?", true).
		Preload("Quiz").
		Preload("Course").
		Preload("Course.Program").
		Preload("User").
		Preload("User.Student")

	if f.DateFrom != nil {
		q = q.Where("sittings.\"end\" >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("sittings.\"end\" <= ?", *f.DateTo)
	}
	if f.CourseID != 0 {
		q = q.Where("sittings.course_id = ?", f.CourseID)
	}
	if f.ProgramID != 0 {
		q = q.Joins("JOIN courses ON courses.id = sittings.course_id").
			Where("courses.program_id = ? AND courses.deleted_at IS NULL", f.ProgramID)
	}
	if f.LecturerID != 0 {
		q = q.Joins("JOIN course_allocations ON course_allocations.course_id = sittings.course_id").
			Where("course_allocations.lecturer_id = ? AND course_allocations.deleted_at IS NULL", f.LecturerID)
	}

	var sittings []models.Sitting
	err := q.Order("sittings.\"end\" desc").Find(&sittings).Error
	return sittings, err
}
