package auth

import (
	"log"

	"gorm.io/gorm"

	"github.com/Alvarofrk/teckperu/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	result := r.db.Preload("Student").Where("username = ?", username).First(&user)
	if result.Error != nil {
		log.Printf("Error finding user %s: %v", username, result.Error)
		return nil, result.Error
	}
	return &user, nil
}

func (r *Repository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Student").First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) UpsertStudentProfile(userID uint, company, district, province string) error {
	var student models.Student
	err := r.db.Where("user_id = ?", userID).First(&student).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		student = models.Student{UserID: userID}
	}
	student.Company = company
	student.District = district
	student.Province = province
	return r.db.Save(&student).Error
}
