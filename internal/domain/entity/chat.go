package entity

import (
	"time"

	"github.com/google/uuid"
)

const ChatStatusActive = "active"

// Chat is the single conversation between one doctor and one patient
type Chat struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_chats_pair" json:"doctor_id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_chats_pair" json:"patient_id"`
	Status        string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor   *User         `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient  *User         `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Messages []ChatMessage `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
}

func (Chat) TableName() string {
	return "chats"
}

func (c *Chat) IsParticipant(userID uuid.UUID) bool {
	return c.DoctorID == userID || c.PatientID == userID
}

// ChatMessage rows are append only
type ChatMessage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID    uuid.UUID `gorm:"type:uuid;not null;index" json:"chat_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
