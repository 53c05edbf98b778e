package repository

import (
	"time"

	"askadoc-server/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	// CreateIfAbsent inserts the chat unless the doctor/patient pair already has one.
	// Returns true when a row was inserted.
	CreateIfAbsent(db *gorm.DB, chat *entity.Chat) (bool, error)
	FindByPair(db *gorm.DB, doctorID, patientID uuid.UUID) (*entity.Chat, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Chat, error)
	// FindParticipants loads only the chat row, without participants' profiles or messages
	FindParticipants(db *gorm.DB, id uuid.UUID) (*entity.Chat, error)
	FindByParticipant(db *gorm.DB, userID uuid.UUID) ([]entity.Chat, error)
	AppendMessage(db *gorm.DB, message *entity.ChatMessage) error
	TouchLastMessage(db *gorm.DB, chatID uuid.UUID, at time.Time) error
	ExistsBetween(db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error)
}
