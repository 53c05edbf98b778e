package repository

import (
	"time"

	"askadoc-server/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilitySlotRepository interface {
	Create(db *gorm.DB, slot *entity.AvailabilitySlot) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.AvailabilitySlot, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, onlyAvailable bool) ([]entity.AvailabilitySlot, error)
	FindByDoctorAndTime(db *gorm.DB, doctorID uuid.UUID, at time.Time) (*entity.AvailabilitySlot, error)
	// ExistsWithin reports whether the doctor has a slot strictly closer than window to at
	ExistsWithin(db *gorm.DB, doctorID uuid.UUID, at time.Time, window time.Duration) (bool, error)
	// MarkBooked flips is_booked only if it is still false. Returns affected rows.
	MarkBooked(db *gorm.DB, id uuid.UUID) (int64, error)
	// DeleteUnbooked removes the slot only while it is unbooked. Returns affected rows.
	DeleteUnbooked(db *gorm.DB, doctorID, id uuid.UUID) (int64, error)
}
