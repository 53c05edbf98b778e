package repository

import (
	"askadoc-server/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatbotSessionRepository interface {
	// CreateIfNoActive inserts the session unless the user already has an active one.
	// Returns true when a row was inserted.
	CreateIfNoActive(db *gorm.DB, session *entity.ChatbotSession) (bool, error)
	FindActiveByUserID(db *gorm.DB, userID uuid.UUID) (*entity.ChatbotSession, error)
	FindLatestByUserID(db *gorm.DB, userID uuid.UUID) (*entity.ChatbotSession, error)
	Update(db *gorm.DB, session *entity.ChatbotSession) error
	AppendMessages(db *gorm.DB, messages []entity.ChatbotMessage) error
	FindMessages(db *gorm.DB, sessionID uuid.UUID) ([]entity.ChatbotMessage, error)
}
