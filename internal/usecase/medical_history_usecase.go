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
	ErrNoPatientRelation   = apperror.Forbidden("you have no appointment or chat with this patient")
	ErrPrescriptionDates   = apperror.Validation("end_date must not be before start_date")
	ErrHistoryEntryMissing = apperror.Validation("at least one non-empty entry is required")
)

type MedicalHistoryUsecase interface {
	GetMine(ctx context.Context, patientID uuid.UUID) (*dto.MedicalHistoryResponse, error)
	GetForDoctor(ctx context.Context, doctorID, patientID uuid.UUID) (*dto.MedicalHistoryResponse, error)
	AddConditions(ctx context.Context, patientID uuid.UUID, req *dto.AddConditionsRequest) (*dto.MedicalHistoryResponse, error)
	AddAllergies(ctx context.Context, patientID uuid.UUID, req *dto.AddAllergiesRequest) (*dto.MedicalHistoryResponse, error)
	AddPrescription(ctx context.Context, patientID uuid.UUID, req *dto.AddPrescriptionRequest) (*dto.MedicalHistoryResponse, error)
	AddDocument(ctx context.Context, patientID uuid.UUID, req *dto.AddDocumentRequest) (*dto.MedicalHistoryResponse, error)
}

type medicalHistoryUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	patientProfileRepo repository.PatientProfileRepository
	appointmentRepo    repository.AppointmentRepository
	chatRepo           repository.ChatRepository
	auditService       service.AuditService
	now                func() time.Time
}

func NewMedicalHistoryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientProfileRepo repository.PatientProfileRepository,
	appointmentRepo repository.AppointmentRepository,
	chatRepo repository.ChatRepository,
	auditService service.AuditService,
) MedicalHistoryUsecase {
	return &medicalHistoryUsecase{
		db:                 db,
		log:                log,
		patientProfileRepo: patientProfileRepo,
		appointmentRepo:    appointmentRepo,
		chatRepo:           chatRepo,
		auditService:       auditService,
		now:                time.Now,
	}
}

func (u *medicalHistoryUsecase) GetMine(ctx context.Context, patientID uuid.UUID) (*dto.MedicalHistoryResponse, error) {
	profile, err := u.findProfile(u.db.WithContext(ctx), patientID)
	if err != nil {
		return nil, err
	}
	return converter.MedicalHistoryToResponse(profile), nil
}

// GetForDoctor lets a doctor read the history of a patient they have an
// appointment or a chat with.
func (u *medicalHistoryUsecase) GetForDoctor(ctx context.Context, doctorID, patientID uuid.UUID) (*dto.MedicalHistoryResponse, error) {
	db := u.db.WithContext(ctx)

	profile, err := u.findProfile(db, patientID)
	if err != nil {
		return nil, err
	}

	related, err := u.appointmentRepo.ExistsBetween(db, doctorID, patientID)
	if err != nil {
		u.log.Warnf("Failed to check appointments between %s and %s: %+v", doctorID, patientID, err)
		return nil, err
	}
	if !related {
		related, err = u.chatRepo.ExistsBetween(db, doctorID, patientID)
		if err != nil {
			u.log.Warnf("Failed to check chats between %s and %s: %+v", doctorID, patientID, err)
			return nil, err
		}
	}
	if !related {
		return nil, ErrNoPatientRelation
	}

	return converter.MedicalHistoryToResponse(profile), nil
}

// AddConditions records conditions not already present
func (u *medicalHistoryUsecase) AddConditions(ctx context.Context, patientID uuid.UUID, req *dto.AddConditionsRequest) (*dto.MedicalHistoryResponse, error) {
	entries := cleanEntries(req.Conditions)
	if len(entries) == 0 {
		return nil, ErrHistoryEntryMissing
	}
	return u.update(ctx, patientID, "conditions", func(history *entity.MedicalHistory) {
		for _, condition := range entries {
			history.AddCondition(condition)
		}
	})
}

// AddAllergies records allergies not already present
func (u *medicalHistoryUsecase) AddAllergies(ctx context.Context, patientID uuid.UUID, req *dto.AddAllergiesRequest) (*dto.MedicalHistoryResponse, error) {
	entries := cleanEntries(req.Allergies)
	if len(entries) == 0 {
		return nil, ErrHistoryEntryMissing
	}
	return u.update(ctx, patientID, "allergies", func(history *entity.MedicalHistory) {
		for _, allergy := range entries {
			history.AddAllergy(allergy)
		}
	})
}

func (u *medicalHistoryUsecase) AddPrescription(ctx context.Context, patientID uuid.UUID, req *dto.AddPrescriptionRequest) (*dto.MedicalHistoryResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, ErrPrescriptionDates
	}

	prescription := entity.Prescription{
		Name:      strings.TrimSpace(req.Name),
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		StartDate: start,
		EndDate:   end,
	}
	return u.update(ctx, patientID, "prescriptions", func(history *entity.MedicalHistory) {
		history.AddPrescription(prescription)
	})
}

func (u *medicalHistoryUsecase) AddDocument(ctx context.Context, patientID uuid.UUID, req *dto.AddDocumentRequest) (*dto.MedicalHistoryResponse, error) {
	document := entity.MedicalDocument{
		FileName:   strings.TrimSpace(req.FileName),
		FileURL:    req.FileURL,
		UploadedAt: u.now().UTC(),
	}
	return u.update(ctx, patientID, "documents", func(history *entity.MedicalHistory) {
		history.AddDocument(document)
	})
}

// update applies mutate to the locked history document and writes it back
func (u *medicalHistoryUsecase) update(ctx context.Context, patientID uuid.UUID, section string, mutate func(*entity.MedicalHistory)) (*dto.MedicalHistoryResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.patientProfileRepo.LockByUserID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to lock patient profile %s: %+v", patientID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}

	history := profile.MedicalHistory.Normalized()
	mutate(&history)

	if err := u.patientProfileRepo.UpdateMedicalHistory(tx, patientID, history); err != nil {
		u.log.Warnf("Failed to update medical history of %s: %+v", patientID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, patientID, entity.AuditActionHistoryUpdate, "patient_profile", patientID.String(),
		nil, map[string]interface{}{"section": section},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	profile.MedicalHistory = history
	profile.UpdatedAt = u.now()
	return converter.MedicalHistoryToResponse(profile), nil
}

func (u *medicalHistoryUsecase) findProfile(db *gorm.DB, patientID uuid.UUID) (*entity.PatientProfile, error) {
	profile, err := u.patientProfileRepo.FindByUserID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile %s: %+v", patientID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	return profile, nil
}

func cleanEntries(values []string) []string {
	entries := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	return entries
}
