package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// Response DTOs

type DoctorResponse struct {
	ID             uuid.UUID       `json:"id"`
	Username       string          `json:"username,omitempty"`
	FullName       string          `json:"full_name,omitempty"`
	Email          string          `json:"email,omitempty"`
	Specialization string          `json:"specialization"`
	Experience     int             `json:"experience"`
	Fees           decimal.Decimal `json:"fees"`
	Education      string          `json:"education,omitempty"`
	Languages      []string        `json:"languages"`
	Rating         float64         `json:"rating"`
}

type DoctorDetailResponse struct {
	DoctorResponse
	Reviews []ReviewResponse `json:"reviews"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type ReviewResponse struct {
	ID          uuid.UUID `json:"id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
