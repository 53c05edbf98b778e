package usecase

import (
	"context"
	"strings"
	"time"

	"askadoc-server/internal/converter"
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
	"askadoc-server/internal/domain/repository"
	"askadoc-server/internal/service"
	"askadoc-server/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrChatNotFound        = apperror.NotFound("chat not found")
	ErrChatAccessDenied    = apperror.Forbidden("access denied")
	ErrChatContentRequired = apperror.Validation("content is required")
	ErrChatWithSelf        = apperror.Validation("cannot start a chat with yourself")
)

type ChatUsecase interface {
	// CreateChat returns the chat between the patient and the doctor, creating it
	// on first contact. The boolean reports whether it was created by this call.
	CreateChat(ctx context.Context, patientID uuid.UUID, req *dto.CreateChatRequest) (*dto.ChatResponse, bool, error)
	ListChats(ctx context.Context, userID uuid.UUID) (*dto.ChatListResponse, error)
	GetChat(ctx context.Context, chatID, userID uuid.UUID) (*dto.ChatResponse, error)
	AddMessage(ctx context.Context, chatID, userID uuid.UUID, req *dto.SendChatMessageRequest) (*dto.ChatMessageResponse, error)
	IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
}

type chatUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	chatRepo          repository.ChatRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	now               func() time.Time
}

func NewChatUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	chatRepo repository.ChatRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) ChatUsecase {
	return &chatUsecase{
		db:                db,
		log:               log,
		chatRepo:          chatRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		now:               time.Now,
	}
}

// CreateChat is idempotent: the insert skips an existing pair and the chat is
// read back afterwards, so every call for the pair returns the same id.
func (u *chatUsecase) CreateChat(ctx context.Context, patientID uuid.UUID, req *dto.CreateChatRequest) (*dto.ChatResponse, bool, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, false, ErrDoctorNotFound
	}
	if doctorID == patientID {
		return nil, false, ErrChatWithSelf
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorProfileRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, false, err
	}
	if doctor == nil {
		return nil, false, ErrDoctorNotFound
	}

	chat := &entity.Chat{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: patientID,
		Status:    entity.ChatStatusActive,
	}
	created, err := u.chatRepo.CreateIfAbsent(tx, chat)
	if err != nil {
		u.log.Warnf("Failed to create chat: %+v", err)
		return nil, false, err
	}

	if created {
		if err := u.auditService.LogCreate(ctx, tx, patientID, entity.AuditActionChatCreate, "chat", chat.ID.String(), chat); err != nil {
			return nil, false, err
		}
	}

	stored, err := u.chatRepo.FindByPair(tx, doctorID, patientID)
	if err != nil {
		u.log.Warnf("Failed to read chat %s/%s: %+v", doctorID, patientID, err)
		return nil, false, err
	}
	if stored == nil {
		return nil, false, ErrChatNotFound
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, false, err
	}

	if created {
		u.log.Infof("Chat created: id=%s, doctor=%s, patient=%s", stored.ID, doctorID, patientID)
	}
	return converter.ChatToResponse(stored, patientID), created, nil
}

// ListChats returns the caller's chats, most recently active first
func (u *chatUsecase) ListChats(ctx context.Context, userID uuid.UUID) (*dto.ChatListResponse, error) {
	chats, err := u.chatRepo.FindByParticipant(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find chats for %s: %+v", userID, err)
		return nil, err
	}
	return converter.ChatsToListResponse(chats, userID), nil
}

func (u *chatUsecase) GetChat(ctx context.Context, chatID, userID uuid.UUID) (*dto.ChatResponse, error) {
	chat, err := u.findForParticipant(u.db.WithContext(ctx), chatID, userID)
	if err != nil {
		return nil, err
	}
	return converter.ChatToResponse(chat, userID), nil
}

// AddMessage appends to the chat. Messages are never rewritten, so concurrent
// senders only race on ordering.
func (u *chatUsecase) AddMessage(ctx context.Context, chatID, userID uuid.UUID, req *dto.SendChatMessageRequest) (*dto.ChatMessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrChatContentRequired
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requireParticipant(tx, chatID, userID); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	message := &entity.ChatMessage{
		ChatID:    chatID,
		SenderID:  userID,
		Content:   content,
		CreatedAt: now,
	}
	if err := u.chatRepo.AppendMessage(tx, message); err != nil {
		u.log.Warnf("Failed to append message to chat %s: %+v", chatID, err)
		return nil, err
	}
	if err := u.chatRepo.TouchLastMessage(tx, chatID, now); err != nil {
		u.log.Warnf("Failed to update last message of chat %s: %+v", chatID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ChatMessageToResponse(message), nil
}

// IsParticipant reports whether the user may join the chat's push room
func (u *chatUsecase) IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	if err := u.requireParticipant(u.db.WithContext(ctx), chatID, userID); err != nil {
		if kind := apperror.KindOf(err); kind == apperror.KindNotFound || kind == apperror.KindForbidden {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// findForParticipant loads the chat with its full history
func (u *chatUsecase) findForParticipant(db *gorm.DB, chatID, userID uuid.UUID) (*entity.Chat, error) {
	chat, err := u.chatRepo.FindByID(db, chatID)
	return u.authorize(chat, err, chatID, userID)
}

// requireParticipant checks access without loading any messages
func (u *chatUsecase) requireParticipant(db *gorm.DB, chatID, userID uuid.UUID) error {
	chat, err := u.chatRepo.FindParticipants(db, chatID)
	_, err = u.authorize(chat, err, chatID, userID)
	return err
}

func (u *chatUsecase) authorize(chat *entity.Chat, err error, chatID, userID uuid.UUID) (*entity.Chat, error) {
	if err != nil {
		u.log.Warnf("Failed to find chat %s: %+v", chatID, err)
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if !chat.IsParticipant(userID) {
		return nil, ErrChatAccessDenied
	}
	return chat, nil
}
