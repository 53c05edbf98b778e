package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID string `json:"doctorId" validate:"required,uuid"`
	Time     string `json:"time" validate:"required"` // must equal the slot time exactly
	Reason   string `json:"reason" validate:"omitempty,max=1000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID        uuid.UUID            `json:"id"`
	DoctorID  uuid.UUID            `json:"doctor_id"`
	PatientID uuid.UUID            `json:"patient_id"`
	SlotID    *uuid.UUID           `json:"slot_id,omitempty"`
	Time      time.Time            `json:"time"`
	Status    string               `json:"status"`
	Reason    string               `json:"reason,omitempty"`
	Doctor    *ParticipantResponse `json:"doctor,omitempty"`
	Patient   *ParticipantResponse `json:"patient,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
