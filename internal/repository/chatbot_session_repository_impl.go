package repository

import (
	"errors"

	"askadoc-server/internal/domain/entity"
	domainRepo "askadoc-server/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type chatbotSessionRepository struct{}

func NewChatbotSessionRepository() domainRepo.ChatbotSessionRepository {
	return &chatbotSessionRepository{}
}

// CreateIfNoActive relies on the partial unique index over active sessions:
// a concurrent insert for the same user is skipped instead of failing the transaction.
func (r *chatbotSessionRepository) CreateIfNoActive(db *gorm.DB, session *entity.ChatbotSession) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(session)
	return result.RowsAffected > 0, result.Error
}

func (r *chatbotSessionRepository) FindActiveByUserID(db *gorm.DB, userID uuid.UUID) (*entity.ChatbotSession, error) {
	return r.findOne(db.Where("user_id = ? AND status = ?", userID, entity.ChatbotSessionActive))
}

func (r *chatbotSessionRepository) FindLatestByUserID(db *gorm.DB, userID uuid.UUID) (*entity.ChatbotSession, error) {
	return r.findOne(db.Where("user_id = ?", userID).Order("created_at DESC"))
}

func (r *chatbotSessionRepository) findOne(query *gorm.DB) (*entity.ChatbotSession, error) {
	var session entity.ChatbotSession
	err := query.First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *chatbotSessionRepository) Update(db *gorm.DB, session *entity.ChatbotSession) error {
	return db.Save(session).Error
}

func (r *chatbotSessionRepository) AppendMessages(db *gorm.DB, messages []entity.ChatbotMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return db.Create(&messages).Error
}

func (r *chatbotSessionRepository) FindMessages(db *gorm.DB, sessionID uuid.UUID) ([]entity.ChatbotMessage, error) {
	var messages []entity.ChatbotMessage
	err := db.Where("session_id = ?", sessionID).Order("id ASC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
