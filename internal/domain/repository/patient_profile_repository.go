package repository

import (
	"askadoc-server/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientProfileRepository interface {
	Create(db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	// LockByUserID reads the profile with a row lock so history updates serialize
	LockByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	UpdateMedicalHistory(db *gorm.DB, userID uuid.UUID, history entity.MedicalHistory) error
}
