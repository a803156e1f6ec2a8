package course

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Alvarofrk/teckperu/internal/models"
)

var ErrNotFound = errors.New("course: not found")

type Store interface {
	CreateProgram(p *models.Program) error
	ListPrograms() ([]models.Program, error)

	CreateCourse(c *models.Course) error
	UpdateCourse(c *models.Course) error
	GetCourse(courseID uint) (*models.Course, error)
	GetCourseBySlug(slug string) (*models.Course, error)
	ListCourses(programID uint, activeOnly bool) ([]models.Course, error)

	Allocate(lecturerID, courseID uint) error
	Deallocate(lecturerID, courseID uint) error
	AllocationsForLecturer(lecturerID uint) ([]models.Course, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateProgram(p *models.Program) error {
	return r.db.Create(p).Error
}

func (r *Repository) ListPrograms() ([]models.Program, error) {
	var programs []models.Program
	err := r.db.Order("title asc").Find(&programs).Error
	return programs, err
}

func (r *Repository) CreateCourse(c *models.Course) error {
	return r.db.Create(c).Error
}

func (r *Repository) UpdateCourse(c *models.Course) error {
	return r.db.Save(c).Error
}

func (r *Repository) GetCourse(courseID uint) (*models.Course, error) {
	var c models.Course
	err := r.db.Preload("Program").First(&c, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetCourseBySlug(slug string) (*models.Course, error) {
	var c models.Course
	err := r.db.Preload("Program").Where("slug = ?", slug).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListCourses(programID uint, activeOnly bool) ([]models.Course, error) {
	var courses []models.Course
	query := r.db.Preload("Program")
	if programID != 0 {
		query = query.Where("program_id = ?", programID)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("title asc").Find(&courses).Error
	return courses, err
}

func (r *Repository) Allocate(lecturerID, courseID uint) error {
	var existing models.CourseAllocation
	err := r.db.Where("lecturer_id = ? AND course_id = ?", lecturerID, courseID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.CourseAllocation{LecturerID: lecturerID, CourseID: courseID}).Error
}

func (r *Repository) Deallocate(lecturerID, courseID uint) error {
	return r.db.Where("lecturer_id = ? AND course_id = ?", lecturerID, courseID).
		Delete(&models.CourseAllocation{}).Error
}

func (r *Repository) AllocationsForLecturer(lecturerID uint) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Preload("Program").
		Joins("JOIN course_allocations ON course_allocations.course_id = courses.id").
		Where("course_allocations.lecturer_id = ? AND course_allocations.deleted_at IS NULL", lecturerID).
		Order("courses.title asc").
		Find(&courses).Error
	return courses, err
}
