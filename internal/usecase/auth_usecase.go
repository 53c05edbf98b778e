package usecase

import (
	"context"

	"askadoc-server/internal/converter"
	"askadoc-server/internal/delivery/dto"
	"askadoc-server/internal/domain/entity"
	"askadoc-server/internal/domain/repository"
	"askadoc-server/internal/service"
	"askadoc-server/pkg/apperror"
	"askadoc-server/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultSpecialization is assigned to doctors who register without one
const DefaultSpecialization = "General Practitioner"

var (
	ErrUsernameAlreadyExists = apperror.Validation("username already exists")
	ErrInvalidCredentials    = apperror.Unauthorized("invalid credentials")
	ErrInvalidToken          = apperror.Unauthorized("invalid or expired token")
	ErrTokenRevoked          = apperror.Unauthorized("token has been revoked")
	ErrInvalidSpecialization = apperror.Validation("unknown specialization")
	ErrNegativeFees          = apperror.Validation("fees must not be negative")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	jwtService         *jwt.JWTService
	redisClient        *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		jwtService:         jwtService,
		redisClient:        redisClient,
	}
}

// Register creates the user with the profile matching its role and signs it in
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	role := entity.Role(req.Role)
	if !role.Valid() {
		return nil, apperror.Validation(`invalid role, must be either "doctor" or "patient"`)
	}

	var doctorProfile *entity.DoctorProfile
	if role == entity.RoleDoctor {
		profile, err := newDoctorProfile(req)
		if err != nil {
			return nil, err
		}
		doctorProfile = profile
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	fullName := req.FullName
	if fullName == "" {
		fullName = req.Username
	}

	user := &entity.User{
		ID:       uuid.New(),
		Username: req.Username,
		Password: string(hashedPassword),
		Role:     role,
		FullName: fullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "username") {
			return nil, ErrUsernameAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if doctorProfile != nil {
		doctorProfile.UserID = user.ID
		if err := u.doctorProfileRepo.Create(tx, doctorProfile); err != nil {
			u.log.Warnf("Failed to create doctor profile: %+v", err)
			return nil, err
		}
		user.DoctorProfile = doctorProfile
	} else {
		patientProfile := &entity.PatientProfile{
			UserID:         user.ID,
			MedicalHistory: entity.MedicalHistory{}.Normalized(),
		}
		if err := u.patientProfileRepo.Create(tx, patientProfile); err != nil {
			u.log.Warnf("Failed to create patient profile: %+v", err)
			return nil, err
		}
	}

	if err := u.auditService.LogCreate(ctx, tx, user.ID, entity.AuditActionUserRegister, "user", user.ID.String(),
		map[string]interface{}{"username": user.Username, "role": role},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("User registered: id=%s, role=%s", user.ID, role)
	return u.issueTokens(ctx, user)
}

func newDoctorProfile(req *dto.RegisterRequest) (*entity.DoctorProfile, error) {
	specialization := req.Specialization
	if specialization == "" {
		specialization = DefaultSpecialization
	}
	if !entity.IsValidSpecialization(specialization) {
		return nil, ErrInvalidSpecialization
	}

	fees := decimal.Zero
	if req.Fees != nil {
		if req.Fees.IsNegative() {
			return nil, ErrNegativeFees
		}
		fees = *req.Fees
	}

	languages := entity.StringList(req.Languages)
	if languages == nil {
		languages = entity.StringList{}
	}

	return &entity.DoctorProfile{
		Specialization: specialization,
		Experience:     req.Experience,
		Fees:           fees,
		Education:      req.Education,
		Languages:      languages,
	}, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByUsername(u.db.WithContext(ctx), req.Username)
	if err != nil {
		u.log.Warnf("Failed to find user by username: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user)
}

// issueTokens signs a token pair and registers both in the Redis allowlist
func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Role.String())
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Role.String())
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, jwt.AccessTokenKey(user.ID, accessTokenID), "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, jwt.RefreshTokenKey(user.ID, refreshTokenID), "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		User:         converter.UserToResponse(user),
	}, nil
}

// Logout revokes the access token and, when given, the refresh token of the same user
func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	keys := []string{jwt.AccessTokenKey(userID, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, jwt.RefreshTokenKey(userID, refreshTokenID))
	}

	if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
		u.log.Warnf("Failed to delete tokens: %+v", err)
		return err
	}

	return nil
}

// RefreshToken rotates the pair: the presented refresh token is revoked before
// a new pair is issued, so it can be used only once.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := jwt.RefreshTokenKey(claims.UserID, claims.TokenID)
	deleted, err := u.redisClient.Del(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return nil, err
	}
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}
