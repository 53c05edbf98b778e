package usecase

import (
	"context"
	"fmt"
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

// MinSlotSpacing is the minimum distance between two slots of one doctor. The
// slot_claim exclusion constraint in the schema enforces the same window.
const MinSlotSpacing = 30 * time.Minute

var (
	ErrSlotNotInFuture = apperror.Validation("availability slot must be in the future")
	ErrSlotOverlap     = apperror.Conflict(fmt.Sprintf("an availability slot already exists within %d minutes of this time", int(MinSlotSpacing/time.Minute)))
	ErrSlotNotFound    = apperror.NotFound("slot not found")
	ErrSlotBooked      = apperror.Conflict("cannot delete a booked slot")
)

type AvailabilityUsecase interface {
	AddSlot(ctx context.Context, doctorID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, error)
	DeleteSlot(ctx context.Context, doctorID, slotID uuid.UUID) error
	ListMine(ctx context.Context, doctorID uuid.UUID) (*dto.SlotListResponse, error)
	ListAvailable(ctx context.Context, doctorID uuid.UUID) (*dto.SlotListResponse, error)
}

type availabilityUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	slotRepo          repository.AvailabilitySlotRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	now               func() time.Time
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	slotRepo repository.AvailabilitySlotRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:                db,
		log:               log,
		slotRepo:          slotRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		now:               time.Now,
	}
}

// AddSlot publishes a new bookable time for the doctor.
//
// The doctor profile row is locked for the rest of the transaction so two
// concurrent inserts for the same doctor cannot both pass the spacing check.
// The exclusion constraint on availability_slots backs this up at the storage level.
func (u *availabilityUsecase) AddSlot(ctx context.Context, doctorID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, error) {
	at, err := parseTimestamp(req.Time)
	if err != nil {
		return nil, err
	}
	if !at.After(u.now()) {
		return nil, ErrSlotNotInFuture
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorProfileRepo.LockByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to lock doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	taken, err := u.slotRepo.ExistsWithin(tx, doctorID, at, MinSlotSpacing)
	if err != nil {
		u.log.Warnf("Failed to check slot spacing for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if taken {
		return nil, ErrSlotOverlap
	}

	slot := &entity.AvailabilitySlot{
		ID:       uuid.New(),
		DoctorID: doctorID,
		Time:     at,
		IsBooked: false,
	}

	if err := u.slotRepo.Create(tx, slot); err != nil {
		if isExclusionViolation(err, "availability_slots_spacing") || isDuplicateKeyError(err, "availability_slots_doctor_time") {
			return nil, ErrSlotOverlap
		}
		u.log.Warnf("Failed to create slot: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, doctorID, entity.AuditActionSlotCreate, "availability_slot", slot.ID.String(), slot); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Slot created: id=%s, doctor=%s, time=%s", slot.ID, doctorID, at.Format(time.RFC3339))
	return converter.SlotToResponse(slot), nil
}

// DeleteSlot removes an unbooked slot. The delete itself is conditional on
// is_booked = false so a booking that lands after the read still wins.
func (u *availabilityUsecase) DeleteSlot(ctx context.Context, doctorID, slotID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	slot, err := u.slotRepo.FindByID(tx, slotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %s: %+v", slotID, err)
		return err
	}
	if slot == nil || slot.DoctorID != doctorID {
		return ErrSlotNotFound
	}
	if slot.IsBooked {
		return ErrSlotBooked
	}

	rows, err := u.slotRepo.DeleteUnbooked(tx, doctorID, slotID)
	if err != nil {
		u.log.Warnf("Failed to delete slot %s: %+v", slotID, err)
		return err
	}
	if rows == 0 {
		return ErrSlotBooked
	}

	if err := u.auditService.LogDelete(ctx, tx, doctorID, entity.AuditActionSlotDelete, "availability_slot", slotID.String(), slot); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Slot deleted: id=%s, doctor=%s", slotID, doctorID)
	return nil
}

// ListMine returns every slot of the doctor, booked or not, time ascending
func (u *availabilityUsecase) ListMine(ctx context.Context, doctorID uuid.UUID) (*dto.SlotListResponse, error) {
	slots, err := u.slotRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID, false)
	if err != nil {
		u.log.Warnf("Failed to find slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return converter.SlotsToListResponse(slots), nil
}

// ListAvailable returns the doctor's unbooked slots, time ascending
func (u *availabilityUsecase) ListAvailable(ctx context.Context, doctorID uuid.UUID) (*dto.SlotListResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	slots, err := u.slotRepo.FindByDoctorID(db, doctorID, true)
	if err != nil {
		u.log.Warnf("Failed to find available slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return converter.SlotsToListResponse(slots), nil
}
