package entity

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot is a bookable time published by a doctor.
// IsBooked goes from false to true exactly once, when an appointment consumes it.
type AvailabilitySlot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Time      time.Time `gorm:"type:timestamptz;not null" json:"time"`
	IsBooked  bool      `gorm:"not null;default:false" json:"is_booked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AvailabilitySlot) TableName() string {
	return "availability_slots"
}
