package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=doctor patient"`
	FullName string `json:"full_name" validate:"omitempty,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`

	// Doctor-only fields, ignored for patients
	Specialization string           `json:"specialization" validate:"omitempty,max=100"`
	Experience     int              `json:"experience" validate:"gte=0"`
	Fees           *decimal.Decimal `json:"fees"`
	Education      string           `json:"education" validate:"omitempty,max=1000"`
	Languages      []string         `json:"languages" validate:"omitempty,dive,required,max=50"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID            uuid.UUID       `json:"id"`
	Username      string          `json:"username"`
	Role          string          `json:"role"`
	FullName      string          `json:"full_name,omitempty"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	DoctorProfile *DoctorResponse `json:"doctor_profile,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ParticipantResponse is the short form of a user embedded in appointments and chats
type ParticipantResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name,omitempty"`
	Role           string    `json:"role"`
	Specialization string    `json:"specialization,omitempty"`
}
