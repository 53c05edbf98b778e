package dto

import (
	"time"

	"askadoc-server/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type AddConditionsRequest struct {
	Conditions []string `json:"conditions" validate:"required,min=1,dive,required,max=200"`
}

type AddAllergiesRequest struct {
	Allergies []string `json:"allergies" validate:"required,min=1,dive,required,max=200"`
}

type AddPrescriptionRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Dosage    string `json:"dosage" validate:"omitempty,max=100"`
	Frequency string `json:"frequency" validate:"omitempty,max=100"`
	StartDate string `json:"start_date" validate:"omitempty"` // Format: YYYY-MM-DD
	EndDate   string `json:"end_date" validate:"omitempty"`   // Format: YYYY-MM-DD
}

type AddDocumentRequest struct {
	FileName string `json:"file_name" validate:"required,max=255"`
	FileURL  string `json:"file_url" validate:"required,url"`
}

// Response DTOs

type MedicalHistoryResponse struct {
	PatientID     uuid.UUID                `json:"patient_id"`
	Conditions    []string                 `json:"conditions"`
	Allergies     []string                 `json:"allergies"`
	Prescriptions []entity.Prescription    `json:"prescriptions"`
	Documents     []entity.MedicalDocument `json:"documents"`
	UpdatedAt     time.Time                `json:"updated_at"`
}
