package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
	"askadoc-server/internal/observability/metrics"
	"askadoc-server/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type bookingFixture struct {
	availability *availabilityUsecase
	appointments AppointmentUsecase
	slots        *fakeSlotRepo
	appts        *fakeAppointmentRepo
	audit        *fakeAuditService
	doctorID     uuid.UUID
	patientID    uuid.UUID
}

func newBookingFixture(db *gorm.DB) *bookingFixture {
	af := newAvailabilityFixture(db)
	appts := newFakeAppointmentRepo()
	return &bookingFixture{
		availability: af.uc,
		appointments: NewAppointmentUsecase(db, quietLogger(), appts, af.slots, af.doctors, af.audit, nil),
		slots:        af.slots,
		appts:        appts,
		audit:        af.audit,
		doctorID:     af.doctorID,
		patientID:    uuid.New(),
	}
}

func (f *bookingFixture) seedSlot(at time.Time, booked bool) *entity.AvailabilitySlot {
	slot := &entity.AvailabilitySlot{ID: uuid.New(), DoctorID: f.doctorID, Time: at, IsBooked: booked}
	f.slots.slots[slot.ID] = slot
	return slot
}

func (f *bookingFixture) seedAppointment(status entity.AppointmentStatus) *entity.Appointment {
	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  f.doctorID,
		PatientID: f.patientID,
		Time:      fixedNow.Add(time.Hour),
		Status:    status,
	}
	f.appts.appointments[appointment.ID] = appointment
	return appointment
}

func (f *bookingFixture) bookRequest(at time.Time) *dto.BookAppointmentRequest {
	return &dto.BookAppointmentRequest{DoctorID: f.doctorID.String(), Time: at.Format(time.RFC3339), Reason: "check-up"}
}

func TestBook_SlotLifecycle(t *testing.T) {
	db, mock := newMockDB(t)
	f := newBookingFixture(db)
	ctx := context.Background()
	at := fixedNow.Add(26 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectCommit()
	slot, err := f.availability.AddSlot(ctx, f.doctorID, slotRequest(at))
	require.NoError(t, err)

	available, err := f.availability.ListAvailable(ctx, f.doctorID)
	require.NoError(t, err)
	require.Len(t, available.Slots, 1)
	assert.Equal(t, slot.ID, available.Slots[0].ID)

	mock.ExpectBegin()
	mock.ExpectCommit()
	appointment, err := f.appointments.Book(ctx, f.patientID, f.bookRequest(at))
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusScheduled), appointment.Status)
	assert.Equal(t, f.patientID, appointment.PatientID)
	require.NotNil(t, appointment.SlotID)
	assert.Equal(t, slot.ID, *appointment.SlotID)
	assert.True(t, appointment.Time.Equal(at))

	available, err = f.availability.ListAvailable(ctx, f.doctorID)
	require.NoError(t, err)
	assert.Empty(t, available.Slots)

	mine, err := f.availability.ListMine(ctx, f.doctorID)
	require.NoError(t, err)
	require.Len(t, mine.Slots, 1)
	assert.True(t, mine.Slots[0].IsBooked)

	patientList, err := f.appointments.ListMine(ctx, f.patientID, entity.RolePatient)
	require.NoError(t, err)
	assert.Equal(t, 1, patientList.Total)

	doctorList, err := f.appointments.ListMine(ctx, f.doctorID, entity.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, 1, doctorList.Total)

	assert.Equal(t, []string{entity.AuditActionSlotCreate, entity.AuditActionAppointmentBook}, f.audit.Actions())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_SecondBookingConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	f := newBookingFixture(db)
	at := fixedNow.Add(5 * time.Hour)
	f.seedSlot(at, false)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := f.appointments.Book(context.Background(), f.patientID, f.bookRequest(at))
	require.NoError(t, err)

	_, err = f.appointments.Book(context.Background(), uuid.New(), f.bookRequest(at))
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Len(t, f.appts.appointments, 1)
}

func TestBook_ConcurrentRequestsBookOnce(t *testing.T) {
	const attempts = 8

	db, mock := newMockDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < attempts; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}
	mock.ExpectCommit()

	f := newBookingFixture(db)
	at := fixedNow.Add(6 * time.Hour)
	f.seedSlot(at, false)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		booked    int
		conflicts int
		others    []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.appointments.Book(context.Background(), uuid.New(), f.bookRequest(at))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, ErrSlotAlreadyBooked):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, booked)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, f.appts.appointments, 1)
}

func TestBook_RequiresExactSlotTime(t *testing.T) {
	db, _ := newMockDB(t)
	f := newBookingFixture(db)
	at := fixedNow.Add(3 * time.Hour)
	f.seedSlot(at, false)

	_, err := f.appointments.Book(context.Background(), f.patientID, f.bookRequest(at.Add(time.Minute)))
	assert.ErrorIs(t, err, ErrSlotNotFound)

	req := f.bookRequest(at)
	req.DoctorID = uuid.New().String()
	_, err = f.appointments.Book(context.Background(), f.patientID, req)
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	req = f.bookRequest(at)
	req.Time = "03/02/2026 11:00"
	_, err = f.appointments.Book(context.Background(), f.patientID, req)
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestBook_AppointmentFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	f := newBookingFixture(db)
	at := fixedNow.Add(4 * time.Hour)
	f.seedSlot(at, false)
	f.appts.createErr = errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.appointments.Book(context.Background(), f.patientID, f.bookRequest(at))
	assert.Error(t, err)
	assert.Empty(t, f.audit.Actions())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplete(t *testing.T) {
	db, mock := newMockDB(t)
	f := newBookingFixture(db)
	ctx := context.Background()

	scheduled := f.seedAppointment(entity.AppointmentStatusScheduled)

	_, err := f.appointments.Complete(ctx, scheduled.ID, f.patientID)
	assert.ErrorIs(t, err, ErrNotAppointmentDoctor)

	_, err = f.appointments.Complete(ctx, uuid.New(), f.doctorID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := f.appointments.Complete(ctx, scheduled.ID, f.doctorID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCompleted), resp.Status)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = f.appointments.Complete(ctx, scheduled.ID, f.doctorID)
	assert.ErrorIs(t, err, ErrAppointmentNotScheduled)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel(t *testing.T) {
	db, mock := newMockDB(t)
	f := newBookingFixture(db)
	ctx := context.Background()

	t.Run("outsider is forbidden", func(t *testing.T) {
		appointment := f.seedAppointment(entity.AppointmentStatusScheduled)
		_, err := f.appointments.Cancel(ctx, appointment.ID, uuid.New())
		assert.ErrorIs(t, err, ErrNotAppointmentMember)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	for _, by := range []struct {
		name string
		id   uuid.UUID
	}{
		{name: "patient", id: f.patientID},
		{name: "doctor", id: f.doctorID},
	} {
		t.Run(by.name+" cancels", func(t *testing.T) {
			appointment := f.seedAppointment(entity.AppointmentStatusScheduled)
			mock.ExpectBegin()
			mock.ExpectCommit()
			resp, err := f.appointments.Cancel(ctx, appointment.ID, by.id)
			require.NoError(t, err)
			assert.Equal(t, string(entity.AppointmentStatusCancelled), resp.Status)
		})
	}

	t.Run("completed cannot be cancelled", func(t *testing.T) {
		appointment := f.seedAppointment(entity.AppointmentStatusCompleted)
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := f.appointments.Cancel(ctx, appointment.ID, f.patientID)
		assert.ErrorIs(t, err, ErrAppointmentNotScheduled)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_KeepsSlotBooked(t *testing.T) {
	db, mock := newMockDB(t)
	f := newBookingFixture(db)
	at := fixedNow.Add(7 * time.Hour)
	slot := f.seedSlot(at, false)

	mock.ExpectBegin()
	mock.ExpectCommit()
	appointment, err := f.appointments.Book(context.Background(), f.patientID, f.bookRequest(at))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = f.appointments.Cancel(context.Background(), appointment.ID, f.patientID)
	require.NoError(t, err)

	assert.True(t, f.slots.slots[slot.ID].IsBooked)
}

func TestBookingResult(t *testing.T) {
	assert.Equal(t, metrics.BookingResultBooked, bookingResult(nil))
	assert.Equal(t, metrics.BookingResultConflict, bookingResult(ErrSlotAlreadyBooked))
	assert.Equal(t, metrics.BookingResultNotFound, bookingResult(ErrSlotNotFound))
	assert.Equal(t, metrics.BookingResultInvalid, bookingResult(ErrInvalidTime))
	assert.Equal(t, metrics.BookingResultError, bookingResult(errors.New("boom")))
}
