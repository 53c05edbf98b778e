package repository

import (
	"errors"
	"time"

	"askadoc-server/internal/domain/entity"
	domainRepo "askadoc-server/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type chatRepository struct{}

func NewChatRepository() domainRepo.ChatRepository {
	return &chatRepository{}
}

func (r *chatRepository) CreateIfAbsent(db *gorm.DB, chat *entity.Chat) (bool, error) {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "patient_id"}},
		DoNothing: true,
	}).Create(chat)
	return result.RowsAffected > 0, result.Error
}

func (r *chatRepository) FindByPair(db *gorm.DB, doctorID, patientID uuid.UUID) (*entity.Chat, error) {
	var chat entity.Chat
	err := db.Preload("Doctor").Preload("Patient").
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Chat, error) {
	var chat entity.Chat
	err := db.Preload("Doctor").Preload("Patient").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", id).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindParticipants(db *gorm.DB, id uuid.UUID) (*entity.Chat, error) {
	var chat entity.Chat
	err := db.Select("id", "doctor_id", "patient_id", "status").
		Where("id = ?", id).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindByParticipant(db *gorm.DB, userID uuid.UUID) ([]entity.Chat, error) {
	var chats []entity.Chat
	err := db.Preload("Doctor").Preload("Patient").
		Where("doctor_id = ? OR patient_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Order("created_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *chatRepository) AppendMessage(db *gorm.DB, message *entity.ChatMessage) error {
	return db.Create(message).Error
}

func (r *chatRepository) TouchLastMessage(db *gorm.DB, chatID uuid.UUID, at time.Time) error {
	return db.Model(&entity.Chat{}).
		Where("id = ?", chatID).
		Update("last_message_at", at).Error
}

func (r *chatRepository) ExistsBetween(db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&entity.Chat{}).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count).Error
	return count > 0, err
}
