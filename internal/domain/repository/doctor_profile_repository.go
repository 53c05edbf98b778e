package repository

import (
	"askadoc-server/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	Create(db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindAll(db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error)
	FindFirstBySpecialization(db *gorm.DB, specialization string) (*entity.DoctorProfile, error)
	// LockByUserID takes a row lock on the profile for the rest of the transaction
	LockByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	UpdateRating(db *gorm.DB, userID uuid.UUID, rating float64) error
}
