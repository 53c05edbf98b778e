package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"askadoc-server/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAuditLogRepo struct {
	logs      []entity.AuditLog
	lastLimit int
	err       error
}

func (f *fakeAuditLogRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeAuditLogRepo) FindByUserID(db *gorm.DB, userID uuid.UUID, limit int) ([]entity.AuditLog, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.AuditLog
	for i := len(f.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.logs[i].UserID != nil && *f.logs[i].UserID == userID {
			out = append(out, f.logs[i])
		}
	}
	return out, nil
}

func TestGetMyActivity(t *testing.T) {
	db, _ := newMockDB(t)
	userID, otherID := uuid.New(), uuid.New()
	repo := &fakeAuditLogRepo{}
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for i, action := range []string{entity.AuditActionUserRegister, entity.AuditActionSlotCreate, entity.AuditActionSlotDelete} {
		uid := userID
		repo.logs = append(repo.logs, entity.AuditLog{ID: int64(i + 1), UserID: &uid, Action: action, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	repo.logs = append(repo.logs, entity.AuditLog{ID: 4, UserID: &otherID, Action: entity.AuditActionChatCreate})

	uc := NewAuditLogUsecase(db, quietLogger(), repo)

	t.Run("newest first, only own entries", func(t *testing.T) {
		resp, err := uc.GetMyActivity(context.Background(), userID, 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultActivityLimit, repo.lastLimit)
		require.Equal(t, 3, resp.Total)
		assert.Equal(t, entity.AuditActionSlotDelete, resp.Logs[0].Action)
		assert.Equal(t, entity.AuditActionUserRegister, resp.Logs[2].Action)
	})

	t.Run("limit is capped", func(t *testing.T) {
		_, err := uc.GetMyActivity(context.Background(), userID, 10000)
		require.NoError(t, err)
		assert.Equal(t, MaxActivityLimit, repo.lastLimit)
	})

	t.Run("explicit limit", func(t *testing.T) {
		resp, err := uc.GetMyActivity(context.Background(), userID, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo.err = errors.New("connection reset")
		defer func() { repo.err = nil }()

		_, err := uc.GetMyActivity(context.Background(), userID, 0)
		assert.Error(t, err)
	})
}
