package usecase

import (
	"context"

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

var ErrReviewOwnProfile = apperror.Validation("you cannot review yourself")

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, filter *entity.DoctorFilter) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDetailResponse, error)
	AddReview(ctx context.Context, doctorID, patientID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
}

type doctorUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	reviewRepo        repository.DoctorReviewRepository
	auditService      service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	reviewRepo repository.DoctorReviewRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:                db,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		reviewRepo:        reviewRepo,
		auditService:      auditService,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, filter *entity.DoctorFilter) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorProfileRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDetailResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	reviews, err := u.reviewRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find reviews of doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.DoctorDetailResponse{
		DoctorResponse: *converter.DoctorToResponse(doctor),
		Reviews:        converter.ReviewsToResponses(reviews),
	}, nil
}

// AddReview stores the review and recomputes the doctor's rating as the
// average of all reviews. The profile row is locked so concurrent reviews
// do not overwrite each other's average.
func (u *doctorUsecase) AddReview(ctx context.Context, doctorID, patientID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if doctorID == patientID {
		return nil, ErrReviewOwnProfile
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

	review := &entity.DoctorReview{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: patientID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := u.reviewRepo.Create(tx, review); err != nil {
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	rating, err := u.reviewRepo.AverageRating(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to compute rating of doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if err := u.doctorProfileRepo.UpdateRating(tx, doctorID, rating); err != nil {
		u.log.Warnf("Failed to update rating of doctor %s: %+v", doctorID, err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, patientID, entity.AuditActionReviewCreate, "doctor_review", review.ID.String(), review); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Review created: doctor=%s, rating=%d, new average=%.2f", doctorID, req.Rating, rating)
	return converter.ReviewToResponse(review), nil
}
