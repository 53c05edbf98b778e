package repository

import (
	"errors"

	"askadoc-server/internal/domain/entity"
	domainRepo "askadoc-server/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Preload("User").
		Where("user_id = ?", doctorID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) FindAll(db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	var profiles []entity.DoctorProfile

	query := db.Preload("User")
	if filter != nil {
		if filter.Specialization != "" {
			query = query.Where("specialization = ?", filter.Specialization)
		}
		if filter.MinFees != nil {
			query = query.Where("fees >= ?", *filter.MinFees)
		}
		if filter.MaxFees != nil {
			query = query.Where("fees <= ?", *filter.MaxFees)
		}
		if filter.MinExperience != nil {
			query = query.Where("experience >= ?", *filter.MinExperience)
		}
	}

	if filter != nil && filter.SortBy == entity.DoctorSortByRating {
		query = query.Order("rating DESC")
	} else {
		query = query.Order("fees ASC")
	}

	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindFirstBySpecialization returns the best rated doctor of a specialization
func (r *doctorProfileRepository) FindFirstBySpecialization(db *gorm.DB, specialization string) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Preload("User").
		Where("specialization = ?", specialization).
		Order("rating DESC").
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) LockByUserID(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", doctorID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) UpdateRating(db *gorm.DB, doctorID uuid.UUID, rating float64) error {
	return db.Model(&entity.DoctorProfile{}).
		Where("user_id = ?", doctorID).
		Update("rating", rating).Error
}
