package repository

import (
	"askadoc-server/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorReviewRepository interface {
	Create(db *gorm.DB, review *entity.DoctorReview) error
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorReview, error)
	AverageRating(db *gorm.DB, doctorID uuid.UUID) (float64, error)
}
