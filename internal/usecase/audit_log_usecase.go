package usecase

import (
	"context"

	"askadoc-server/internal/converter"
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

type AuditLogUsecase interface {
	GetMyActivity(ctx context.Context, userID uuid.UUID, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// GetMyActivity returns the caller's own audit trail, newest first
func (u *auditLogUsecase) GetMyActivity(ctx context.Context, userID uuid.UUID, limit int) (*dto.AuditLogListResponse, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}

	logs, err := u.auditLogRepo.FindByUserID(u.db.WithContext(ctx), userID, limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs for %s: %+v", userID, err)
		return nil, err
	}

	return converter.AuditLogsToListResponse(logs), nil
}
