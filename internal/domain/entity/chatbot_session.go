package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatbotSessionStatus string

const (
	ChatbotSessionActive    ChatbotSessionStatus = "active"
	ChatbotSessionReferred  ChatbotSessionStatus = "referred"
	ChatbotSessionCompleted ChatbotSessionStatus = "completed"
)

type ChatbotSender string

const (
	ChatbotSenderUser ChatbotSender = "user"
	ChatbotSenderBot  ChatbotSender = "bot"
)

// ChatbotSession holds one user's conversation with the triage bot.
// At most one session per user is active at a time.
type ChatbotSession struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	Status        ChatbotSessionStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ReferredTo    *uuid.UUID           `gorm:"type:uuid" json:"referred_to,omitempty"`
	LastMessageAt time.Time            `json:"last_message_at"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Messages []ChatbotMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

func (ChatbotSession) TableName() string {
	return "chatbot_sessions"
}

// Refer marks the session as handed over to a doctor
func (s *ChatbotSession) Refer(doctorID uuid.UUID) {
	s.Status = ChatbotSessionReferred
	s.ReferredTo = &doctorID
}

type ChatbotMessage struct {
	ID        int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID uuid.UUID     `gorm:"type:uuid;not null;index" json:"session_id"`
	Sender    ChatbotSender `gorm:"type:varchar(10);not null" json:"sender"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}

func (ChatbotMessage) TableName() string {
	return "chatbot_messages"
}
