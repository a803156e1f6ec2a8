package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	GenderMale   = "M"
	GenderFemale = "F"
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	// Username holds the national ID (DNI) for students.
	Username    string   `json:"username" gorm:"unique;not null"`
	Password    string   `json:"-" gorm:"not null"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Gender      string   `json:"gender"` // "M", "F" or empty
	IsStudent   bool     `json:"is_student" gorm:"default:true"`
	IsLecturer  bool     `json:"is_lecturer" gorm:"default:false"`
	IsSuperuser bool     `json:"is_superuser" gorm:"default:false"`
	Student     *Student `json:"student,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Student carries the declaration fields used on certificates and
// company reporting, filled by the student after enrollment.
type Student struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	UserID    uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	Company   string         `json:"company"`
	District  string         `json:"district"`
	Province  string         `json:"province"`
}
