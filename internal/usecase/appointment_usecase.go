package usecase

import (
	"context"
	"time"

	"askadoc-server/internal/converter"
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
	"askadoc-server/internal/domain/repository"
	"askadoc-server/internal/observability/metrics"
	"askadoc-server/internal/service"
	"askadoc-server/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotAlreadyBooked       = apperror.Conflict("slot is already booked")
	ErrAppointmentNotFound     = apperror.NotFound("appointment not found")
	ErrAppointmentNotScheduled = apperror.Conflict("appointment is not scheduled")
	ErrNotAppointmentDoctor    = apperror.Forbidden("only the appointment's doctor can complete it")
	ErrNotAppointmentMember    = apperror.Forbidden("appointment does not belong to you")
)

type AppointmentUsecase interface {
	Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, role entity.Role) (*dto.AppointmentListResponse, error)
	Complete(ctx context.Context, appointmentID, userID uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, appointmentID, userID uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	appointmentRepo   repository.AppointmentRepository
	slotRepo          repository.AvailabilitySlotRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	metrics           *metrics.BookingMetrics
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	slotRepo repository.AvailabilitySlotRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	bookingMetrics *metrics.BookingMetrics,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                db,
		log:               log,
		appointmentRepo:   appointmentRepo,
		slotRepo:          slotRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		metrics:           bookingMetrics,
	}
}

// Book consumes the doctor's slot at exactly req.Time and creates the appointment.
//
// Flow:
// 1. Resolve doctor and the slot at that exact time
// 2. Conditionally flip is_booked (storage-checked, 0 rows = someone else won)
// 3. Insert the appointment in the same transaction
//
// Any failure rolls back both writes.
func (u *appointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.book(ctx, patientID, req)
	u.metrics.ObserveAttempt(bookingResult(err))
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*entity.Appointment, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	at, err := parseTimestamp(req.Time)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)

	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	slot, err := u.slotRepo.FindByDoctorAndTime(db, doctorID, at)
	if err != nil {
		u.log.Warnf("Failed to find slot for doctor %s at %s: %+v", doctorID, at, err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.IsBooked {
		return nil, ErrSlotAlreadyBooked
	}

	tx := db.Begin()
	defer tx.Rollback()

	rows, err := u.slotRepo.MarkBooked(tx, slot.ID)
	if err != nil {
		u.log.Warnf("Failed to mark slot %s booked: %+v", slot.ID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrSlotAlreadyBooked
	}

	slotID := slot.ID
	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: patientID,
		SlotID:    &slotID,
		Time:      slot.Time,
		Status:    entity.AppointmentStatusScheduled,
		Reason:    req.Reason,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, patientID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), appointment); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, patient=%s, slot=%s", appointment.ID, doctorID, patientID, slotID)
	return appointment, nil
}

func bookingResult(err error) string {
	if err == nil {
		return metrics.BookingResultBooked
	}
	switch apperror.KindOf(err) {
	case apperror.KindConflict:
		return metrics.BookingResultConflict
	case apperror.KindNotFound:
		return metrics.BookingResultNotFound
	case apperror.KindValidation:
		return metrics.BookingResultInvalid
	default:
		return metrics.BookingResultError
	}
}

// ListMine returns the caller's appointments, newest first
func (u *appointmentUsecase) ListMine(ctx context.Context, userID uuid.UUID, role entity.Role) (*dto.AppointmentListResponse, error) {
	var (
		appointments []entity.Appointment
		err          error
	)

	db := u.db.WithContext(ctx)
	if role == entity.RoleDoctor {
		appointments, err = u.appointmentRepo.FindByDoctorID(db, userID)
	} else {
		appointments, err = u.appointmentRepo.FindByPatientID(db, userID)
	}
	if err != nil {
		u.log.Warnf("Failed to find appointments for %s %s: %+v", role, userID, err)
		return nil, err
	}

	return converter.AppointmentsToListResponse(appointments), nil
}

// Complete is allowed for the appointment's doctor only
func (u *appointmentUsecase) Complete(ctx context.Context, appointmentID, userID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != userID {
		return nil, ErrNotAppointmentDoctor
	}
	return u.transition(ctx, appointment, userID, entity.AppointmentStatusCompleted, entity.AuditActionAppointmentComplete)
}

// Cancel is allowed for either participant. The originating slot stays booked.
func (u *appointmentUsecase) Cancel(ctx context.Context, appointmentID, userID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsParticipant(userID) {
		return nil, ErrNotAppointmentMember
	}
	return u.transition(ctx, appointment, userID, entity.AppointmentStatusCancelled, entity.AuditActionAppointmentCancel)
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, appointmentID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// transition moves a scheduled appointment to a terminal status. The update is
// conditional on the current status so concurrent transitions cannot both succeed.
func (u *appointmentUsecase) transition(ctx context.Context, appointment *entity.Appointment, userID uuid.UUID, to entity.AppointmentStatus, action string) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.appointmentRepo.UpdateStatusFrom(tx, appointment.ID, entity.AppointmentStatusScheduled, to)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s to %s: %+v", appointment.ID, to, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAppointmentNotScheduled
	}

	oldStatus := appointment.Status
	if err := u.auditService.LogUpdate(ctx, tx, userID, action, "appointment", appointment.ID.String(),
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": to},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Status = to
	appointment.UpdatedAt = time.Now()
	u.log.Infof("Appointment %s: id=%s, by=%s", to, appointment.ID, userID)
	return converter.AppointmentToResponse(appointment), nil
}
