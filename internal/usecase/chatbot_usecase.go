package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"askadoc-server/internal/converter"
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
	"askadoc-server/internal/domain/repository"
	"askadoc-server/internal/observability/metrics"
	"askadoc-server/internal/triage"
	"askadoc-server/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrMessageRequired = apperror.Validation("message is required")

// Classifier turns one chatbot message into a reply
type Classifier interface {
	Classify(ctx context.Context, message string) triage.Result
}

type ChatbotUsecase interface {
	SendMessage(ctx context.Context, userID uuid.UUID, req *dto.ChatbotMessageRequest) (*dto.ChatbotReplyResponse, error)
	GetHistory(ctx context.Context, userID uuid.UUID) (*dto.ChatbotHistoryResponse, error)
}

type chatbotUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	sessionRepo repository.ChatbotSessionRepository
	classifier  Classifier
	metrics     *metrics.TriageMetrics
	now         func() time.Time
}

func NewChatbotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	sessionRepo repository.ChatbotSessionRepository,
	classifier Classifier,
	triageMetrics *metrics.TriageMetrics,
) ChatbotUsecase {
	return &chatbotUsecase{
		db:          db,
		log:         log,
		sessionRepo: sessionRepo,
		classifier:  classifier,
		metrics:     triageMetrics,
		now:         time.Now,
	}
}

// SendMessage classifies the message and records the exchange on the user's
// active session, creating one when none is active. A referral hands the
// session over to the referred doctor.
func (u *chatbotUsecase) SendMessage(ctx context.Context, userID uuid.UUID, req *dto.ChatbotMessageRequest) (*dto.ChatbotReplyResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrMessageRequired
	}

	result := u.classifier.Classify(ctx, message)
	u.metrics.ObserveClassification(string(result.Outcome), string(result.Severity))

	now := u.now().UTC()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	session, err := u.activeSession(tx, userID, now)
	if err != nil {
		return nil, err
	}

	exchange := []entity.ChatbotMessage{
		{SessionID: session.ID, Sender: entity.ChatbotSenderUser, Content: message, CreatedAt: now},
		{SessionID: session.ID, Sender: entity.ChatbotSenderBot, Content: result.Message, CreatedAt: now},
	}
	if err := u.sessionRepo.AppendMessages(tx, exchange); err != nil {
		u.log.Warnf("Failed to append chatbot messages to session %s: %+v", session.ID, err)
		return nil, err
	}

	if result.DoctorID != nil {
		session.Refer(*result.DoctorID)
	}
	session.LastMessageAt = now

	if err := u.sessionRepo.Update(tx, session); err != nil {
		u.log.Warnf("Failed to update chatbot session %s: %+v", session.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if result.IsEmergency {
		u.log.Infof("Chatbot emergency: session=%s, severity=%s, type=%s", session.ID, result.Severity, result.EmergencyType)
	}
	if result.DoctorID != nil {
		u.log.Infof("Chatbot session referred: session=%s, doctor=%s", session.ID, *result.DoctorID)
	}

	return converter.TriageResultToReply(session.ID, result), nil
}

// activeSession returns the user's active session or creates it. When a
// concurrent request created it first, the insert is skipped and re-read.
func (u *chatbotUsecase) activeSession(tx *gorm.DB, userID uuid.UUID, now time.Time) (*entity.ChatbotSession, error) {
	session, err := u.sessionRepo.FindActiveByUserID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find active chatbot session for %s: %+v", userID, err)
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = &entity.ChatbotSession{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        entity.ChatbotSessionActive,
		LastMessageAt: now,
	}
	created, err := u.sessionRepo.CreateIfNoActive(tx, session)
	if err != nil {
		u.log.Warnf("Failed to create chatbot session for %s: %+v", userID, err)
		return nil, err
	}
	if created {
		return session, nil
	}

	session, err = u.sessionRepo.FindActiveByUserID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to re-read active chatbot session for %s: %+v", userID, err)
		return nil, err
	}
	if session == nil {
		return nil, apperror.Internal(errors.New("active session vanished"), "failed to open chatbot session")
	}
	return session, nil
}

// GetHistory returns the messages of the active session, or of the most recent
// one when the last conversation ended in a referral.
func (u *chatbotUsecase) GetHistory(ctx context.Context, userID uuid.UUID) (*dto.ChatbotHistoryResponse, error) {
	db := u.db.WithContext(ctx)

	session, err := u.sessionRepo.FindActiveByUserID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find active chatbot session for %s: %+v", userID, err)
		return nil, err
	}
	if session == nil {
		session, err = u.sessionRepo.FindLatestByUserID(db, userID)
		if err != nil {
			u.log.Warnf("Failed to find latest chatbot session for %s: %+v", userID, err)
			return nil, err
		}
	}
	if session == nil {
		return converter.ChatbotHistoryToResponse(nil, nil), nil
	}

	messages, err := u.sessionRepo.FindMessages(db, session.ID)
	if err != nil {
		u.log.Warnf("Failed to find messages of chatbot session %s: %+v", session.ID, err)
		return nil, err
	}

	return converter.ChatbotHistoryToResponse(session, messages), nil
}
