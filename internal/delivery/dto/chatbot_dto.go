package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type ChatbotMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// Response DTOs

type ChatbotReplyResponse struct {
	SessionID      uuid.UUID  `json:"sessionId"`
	Message        string     `json:"message"`
	IsEmergency    bool       `json:"isEmergency"`
	Severity       string     `json:"severity,omitempty"`
	EmergencyType  string     `json:"emergencyType,omitempty"`
	ReferToDoctor  bool       `json:"referToDoctor"`
	DoctorID       *uuid.UUID `json:"doctorId,omitempty"`
	DoctorName     string     `json:"doctorName,omitempty"`
	Specialization string     `json:"specialization,omitempty"`
}

type ChatbotMessageResponse struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatbotHistoryResponse struct {
	SessionID  *uuid.UUID               `json:"sessionId,omitempty"`
	Status     string                   `json:"status,omitempty"`
	ReferredTo *uuid.UUID               `json:"referredTo,omitempty"`
	Messages   []ChatbotMessageResponse `json:"messages"`
}
