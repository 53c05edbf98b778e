package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateChatRequest struct {
	DoctorID string `json:"doctor_id" validate:"required,uuid"`
}

type SendChatMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// Response DTOs

type ChatMessageResponse struct {
	ID        int64     `json:"id"`
	ChatID    uuid.UUID `json:"chat_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatResponse struct {
	ID               uuid.UUID             `json:"id"`
	Status           string                `json:"status"`
	DoctorID         uuid.UUID             `json:"doctor_id"`
	PatientID        uuid.UUID             `json:"patient_id"`
	Doctor           *ParticipantResponse  `json:"doctor,omitempty"`
	Patient          *ParticipantResponse  `json:"patient,omitempty"`
	OtherParticipant *ParticipantResponse  `json:"other_participant,omitempty"`
	LastMessageAt    *time.Time            `json:"last_message_at,omitempty"`
	Messages         []ChatMessageResponse `json:"messages,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

type ChatListResponse struct {
	Chats []ChatResponse `json:"chats"`
	Total int            `json:"total"`
}
