package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"askadoc-server/internal/domain/repository"
	"askadoc-server/internal/triage"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const RedisReferralKeyPrefix = "referral:specialization:"

// cachedDoctor is the Redis representation of a referral candidate
type cachedDoctor struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
}

// ReferralService resolves a specialization to a doctor for the triage engine.
// Hits are cached in Redis for ttl, misses always go to the database so a
// newly registered doctor is picked up immediately.
type ReferralService struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	redisClient       *redis.Client
	ttl               time.Duration
	lookups           singleflight.Group
}

func NewReferralService(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	redisClient *redis.Client,
	ttl time.Duration,
) *ReferralService {
	return &ReferralService{
		db:                db,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		redisClient:       redisClient,
		ttl:               ttl,
	}
}

var _ triage.DoctorFinder = (*ReferralService)(nil)

func (s *ReferralService) FindBySpecialization(ctx context.Context, specialization string) (*triage.Doctor, error) {
	key := fmt.Sprintf("%s%s", RedisReferralKeyPrefix, specialization)

	if doctor, ok := s.readCache(ctx, key); ok {
		return doctor, nil
	}

	// concurrent misses for one specialization share a single database lookup
	result, err, _ := s.lookups.Do(key, func() (interface{}, error) {
		profile, err := s.doctorProfileRepo.FindFirstBySpecialization(s.db.WithContext(ctx), specialization)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return (*triage.Doctor)(nil), nil
		}

		doctor := &triage.Doctor{
			ID:             profile.UserID,
			Name:           profile.User.DisplayName(),
			Specialization: profile.Specialization,
		}
		s.writeCache(ctx, key, doctor)
		return doctor, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*triage.Doctor), nil
}

func (s *ReferralService) readCache(ctx context.Context, key string) (*triage.Doctor, bool) {
	raw, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warnf("Failed to read referral cache %s: %+v", key, err)
		}
		return nil, false
	}

	var cached cachedDoctor
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.log.Warnf("Discarding malformed referral cache entry %s: %+v", key, err)
		return nil, false
	}

	return &triage.Doctor{
		ID:             cached.ID,
		Name:           cached.Name,
		Specialization: cached.Specialization,
	}, true
}

func (s *ReferralService) writeCache(ctx context.Context, key string, doctor *triage.Doctor) {
	raw, err := json.Marshal(cachedDoctor{
		ID:             doctor.ID,
		Name:           doctor.Name,
		Specialization: doctor.Specialization,
	})
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.log.Warnf("Failed to write referral cache %s: %+v", key, err)
	}
}
