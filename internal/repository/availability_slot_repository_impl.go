package repository

import (
	"errors"
	"time"

	"askadoc-server/internal/domain/entity"
	domainRepo "askadoc-server/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilitySlotRepository struct{}

func NewAvailabilitySlotRepository() domainRepo.AvailabilitySlotRepository {
	return &availabilitySlotRepository{}
}

func (r *availabilitySlotRepository) Create(db *gorm.DB, slot *entity.AvailabilitySlot) error {
	return db.Create(slot).Error
}

func (r *availabilitySlotRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.AvailabilitySlot, error) {
	var slot entity.AvailabilitySlot
	err := db.Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *availabilitySlotRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, onlyAvailable bool) ([]entity.AvailabilitySlot, error) {
	var slots []entity.AvailabilitySlot
	query := db.Where("doctor_id = ?", doctorID)
	if onlyAvailable {
		query = query.Where("is_booked = ?", false)
	}
	if err := query.Order("time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *availabilitySlotRepository) FindByDoctorAndTime(db *gorm.DB, doctorID uuid.UUID, at time.Time) (*entity.AvailabilitySlot, error) {
	var slot entity.AvailabilitySlot
	err := db.Where("doctor_id = ? AND time = ?", doctorID, at).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *availabilitySlotRepository) ExistsWithin(db *gorm.DB, doctorID uuid.UUID, at time.Time, window time.Duration) (bool, error) {
	var count int64
	err := db.Model(&entity.AvailabilitySlot{}).
		Where("doctor_id = ? AND time > ? AND time < ?", doctorID, at.Add(-window), at.Add(window)).
		Count(&count).Error
	return count > 0, err
}

// MarkBooked atomically books a slot ONLY if it's still free.
// Returns affected rows: 1 = booked by this call, 0 = already booked (prevents double booking).
func (r *availabilitySlotRepository) MarkBooked(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.AvailabilitySlot{}).
		Where("id = ? AND is_booked = ?", id, false).
		Update("is_booked", true)
	return result.RowsAffected, result.Error
}

// DeleteUnbooked deletes a slot ONLY if no booking consumed it in the meantime.
func (r *availabilitySlotRepository) DeleteUnbooked(db *gorm.DB, doctorID, id uuid.UUID) (int64, error) {
	result := db.Where("id = ? AND doctor_id = ? AND is_booked = ?", id, doctorID, false).
		Delete(&entity.AvailabilitySlot{})
	return result.RowsAffected, result.Error
}
