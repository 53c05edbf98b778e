package repository

import (
	"askadoc-server/internal/domain/entity"
	domainRepo "askadoc-server/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorReviewRepository struct{}

func NewDoctorReviewRepository() domainRepo.DoctorReviewRepository {
	return &doctorReviewRepository{}
}

func (r *doctorReviewRepository) Create(db *gorm.DB, review *entity.DoctorReview) error {
	return db.Create(review).Error
}

func (r *doctorReviewRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorReview, error) {
	var reviews []entity.DoctorReview
	err := db.Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *doctorReviewRepository) AverageRating(db *gorm.DB, doctorID uuid.UUID) (float64, error) {
	var avg float64
	err := db.Model(&entity.DoctorReview{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("doctor_id = ?", doctorID).
		Scan(&avg).Error
	return avg, err
}
