package models

import (
	"time"

	"gorm.io/gorm"
)

type Program struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Title     string         `json:"title" gorm:"not null"`
	Summary   string         `json:"summary"`
}

type Course struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Slug      string         `json:"slug" gorm:"uniqueIndex;not null"`
	Title     string         `json:"title" gorm:"not null"`
	// Code selects the certificate layout ("0001".."0009").
	Code      string   `json:"code" gorm:"index"`
	Summary   string   `json:"summary"`
	ProgramID *uint    `json:"program_id"`
	Program   *Program `json:"program,omitempty"`
	IsActive  bool     `json:"is_active" gorm:"default:true"`
}

// CourseAllocation assigns a lecturer to a course. Marking views and
// certificate downloads are gated on these rows.
type CourseAllocation struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	LecturerID uint           `json:"lecturer_id" gorm:"index:idx_allocation,unique"`
	CourseID   uint           `json:"course_id" gorm:"index:idx_allocation,unique"`
}
