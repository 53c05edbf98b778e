package usecase

import (
	"context"
	"testing"
	"time"

	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
	"askadoc-server/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type availabilityFixture struct {
	uc       *availabilityUsecase
	slots    *fakeSlotRepo
	doctors  *fakeDoctorProfileRepo
	audit    *fakeAuditService
	doctorID uuid.UUID
}

func newAvailabilityFixture(db *gorm.DB) *availabilityFixture {
	doctorID := uuid.New()
	f := &availabilityFixture{
		slots:    newFakeSlotRepo(),
		doctors:  newFakeDoctorProfileRepo(&entity.DoctorProfile{UserID: doctorID, Specialization: "Cardiology"}),
		audit:    &fakeAuditService{},
		doctorID: doctorID,
	}
	f.uc = NewAvailabilityUsecase(db, quietLogger(), f.slots, f.doctors, f.audit).(*availabilityUsecase)
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

func slotRequest(at time.Time) *dto.CreateSlotRequest {
	return &dto.CreateSlotRequest{Time: at.Format(time.RFC3339)}
}

func TestAddSlot_Created(t *testing.T) {
	db, mock := newMockDB(t)
	f := newAvailabilityFixture(db)
	at := fixedNow.Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectCommit()

	slot, err := f.uc.AddSlot(context.Background(), f.doctorID, slotRequest(at))
	require.NoError(t, err)
	assert.Equal(t, f.doctorID, slot.DoctorID)
	assert.True(t, slot.Time.Equal(at))
	assert.False(t, slot.IsBooked)
	assert.Equal(t, []string{entity.AuditActionSlotCreate}, f.audit.Actions())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSlot_RejectsInvalidAndPastTimes(t *testing.T) {
	db, _ := newMockDB(t)
	f := newAvailabilityFixture(db)

	_, err := f.uc.AddSlot(context.Background(), f.doctorID, &dto.CreateSlotRequest{Time: "tomorrow at noon"})
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = f.uc.AddSlot(context.Background(), f.doctorID, slotRequest(fixedNow.Add(-time.Hour)))
	assert.ErrorIs(t, err, ErrSlotNotInFuture)

	_, err = f.uc.AddSlot(context.Background(), f.doctorID, slotRequest(fixedNow))
	assert.ErrorIs(t, err, ErrSlotNotInFuture)
}

func TestAddSlot_UnknownDoctor(t *testing.T) {
	db, mock := newMockDB(t)
	f := newAvailabilityFixture(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.uc.AddSlot(context.Background(), uuid.New(), slotRequest(fixedNow.Add(time.Hour)))
	assert.ErrorIs(t, err, ErrDoctorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSlot_EnforcesMinimumSpacing(t *testing.T) {
	db, mock := newMockDB(t)
	f := newAvailabilityFixture(db)
	base := fixedNow.Add(48 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := f.uc.AddSlot(context.Background(), f.doctorID, slotRequest(base))
	require.NoError(t, err)

	// Slots closer than the spacing window conflict, not just exact duplicates.
	// Loosening this to duplicates only changes the "29 minutes later" and
	// "10 minutes earlier" rows.
	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "same time", at: base, wantErr: ErrSlotOverlap},
		{name: "29 minutes later", at: base.Add(29 * time.Minute), wantErr: ErrSlotOverlap},
		{name: "10 minutes earlier", at: base.Add(-10 * time.Minute), wantErr: ErrSlotOverlap},
		{name: "exactly 30 minutes later", at: base.Add(30 * time.Minute)},
		{name: "exactly 30 minutes earlier", at: base.Add(-30 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectBegin()
			if tt.wantErr != nil {
				mock.ExpectRollback()
			} else {
				mock.ExpectCommit()
			}

			_, err := f.uc.AddSlot(context.Background(), f.doctorID, slotRequest(tt.at))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotOverlapMessageMatchesSpacing(t *testing.T) {
	assert.Equal(t, 30*time.Minute, MinSlotSpacing)
	assert.Equal(t, "an availability slot already exists within 30 minutes of this time", apperror.MessageOf(ErrSlotOverlap))
}

func TestAddSlot_SpacingIsPerDoctor(t *testing.T) {
	db, mock := newMockDB(t)
	f := newAvailabilityFixture(db)
	other := uuid.New()
	f.doctors.profiles[other] = &entity.DoctorProfile{UserID: other, Specialization: "Dermatology"}
	at := fixedNow.Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := f.uc.AddSlot(context.Background(), f.doctorID, slotRequest(at))
	require.NoError(t, err)
	_, err = f.uc.AddSlot(context.Background(), other, slotRequest(at))
	assert.NoError(t, err)
}

func TestAddSlot_StorageConstraintMapsToOverlap(t *testing.T) {
	db, mock := newMockDB(t)
	f := newAvailabilityFixture(db)
	f.slots.createErr = &pgconn.PgError{Code: "23P01", ConstraintName: "ex_availability_slots_spacing"}

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.uc.AddSlot(context.Background(), f.doctorID, slotRequest(fixedNow.Add(time.Hour)))
	assert.ErrorIs(t, err, ErrSlotOverlap)
	assert.Empty(t, f.audit.Actions())
}

func TestDeleteSlot(t *testing.T) {
	db, mock := newMockDB(t)
	f := newAvailabilityFixture(db)

	open := &entity.AvailabilitySlot{ID: uuid.New(), DoctorID: f.doctorID, Time: fixedNow.Add(time.Hour)}
	booked := &entity.AvailabilitySlot{ID: uuid.New(), DoctorID: f.doctorID, Time: fixedNow.Add(2 * time.Hour), IsBooked: true}
	f.slots.slots[open.ID] = open
	f.slots.slots[booked.ID] = booked

	t.Run("booked slot is kept", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()
		err := f.uc.DeleteSlot(context.Background(), f.doctorID, booked.ID)
		assert.ErrorIs(t, err, ErrSlotBooked)
		assert.Contains(t, f.slots.slots, booked.ID)
	})

	t.Run("another doctor's slot is not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()
		err := f.uc.DeleteSlot(context.Background(), uuid.New(), open.ID)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("unknown slot", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()
		err := f.uc.DeleteSlot(context.Background(), f.doctorID, uuid.New())
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("unbooked slot is removed", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()
		err := f.uc.DeleteSlot(context.Background(), f.doctorID, open.ID)
		require.NoError(t, err)
		assert.NotContains(t, f.slots.slots, open.ID)
		assert.Contains(t, f.slots.slots, booked.ID)
	})

	assert.Equal(t, []string{entity.AuditActionSlotDelete}, f.audit.Actions())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSlots(t *testing.T) {
	db, _ := newMockDB(t)
	f := newAvailabilityFixture(db)

	later := &entity.AvailabilitySlot{ID: uuid.New(), DoctorID: f.doctorID, Time: fixedNow.Add(3 * time.Hour)}
	earlier := &entity.AvailabilitySlot{ID: uuid.New(), DoctorID: f.doctorID, Time: fixedNow.Add(time.Hour)}
	booked := &entity.AvailabilitySlot{ID: uuid.New(), DoctorID: f.doctorID, Time: fixedNow.Add(2 * time.Hour), IsBooked: true}
	for _, s := range []*entity.AvailabilitySlot{later, earlier, booked} {
		f.slots.slots[s.ID] = s
	}

	available, err := f.uc.ListAvailable(context.Background(), f.doctorID)
	require.NoError(t, err)
	require.Equal(t, 2, available.Total)
	assert.Equal(t, earlier.ID, available.Slots[0].ID)
	assert.Equal(t, later.ID, available.Slots[1].ID)

	mine, err := f.uc.ListMine(context.Background(), f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, 3, mine.Total)

	_, err = f.uc.ListAvailable(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}
