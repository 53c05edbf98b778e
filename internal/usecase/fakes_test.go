package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"askadoc-server/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
	err     error
}

func (f *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return f.record(action)
}

func (f *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return f.record(action)
}

func (f *fakeAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return f.record(action)
}

func (f *fakeAuditService) record(action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAuditService) Actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.actions...)
}

// fakeSlotRepo applies the conditional updates under a mutex, the way the
// database applies them under a row lock.
type fakeSlotRepo struct {
	mu        sync.Mutex
	slots     map[uuid.UUID]*entity.AvailabilitySlot
	createErr error
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]*entity.AvailabilitySlot)}
}

func (f *fakeSlotRepo) Create(db *gorm.DB, slot *entity.AvailabilitySlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	slot.CreatedAt = time.Now()
	stored := *slot
	f.slots[slot.ID] = &stored
	return nil
}

func (f *fakeSlotRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	found := *slot
	return &found, nil
}

func (f *fakeSlotRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, onlyAvailable bool) ([]entity.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var slots []entity.AvailabilitySlot
	for _, slot := range f.slots {
		if slot.DoctorID != doctorID || (onlyAvailable && slot.IsBooked) {
			continue
		}
		slots = append(slots, *slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Time.Before(slots[j].Time) })
	return slots, nil
}

func (f *fakeSlotRepo) FindByDoctorAndTime(db *gorm.DB, doctorID uuid.UUID, at time.Time) (*entity.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slot := range f.slots {
		if slot.DoctorID == doctorID && slot.Time.Equal(at) {
			found := *slot
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeSlotRepo) ExistsWithin(db *gorm.DB, doctorID uuid.UUID, at time.Time, window time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slot := range f.slots {
		if slot.DoctorID != doctorID {
			continue
		}
		diff := slot.Time.Sub(at)
		if diff < 0 {
			diff = -diff
		}
		if diff < window {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSlotRepo) MarkBooked(db *gorm.DB, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok || slot.IsBooked {
		return 0, nil
	}
	slot.IsBooked = true
	return 1, nil
}

func (f *fakeSlotRepo) DeleteUnbooked(db *gorm.DB, doctorID, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok || slot.DoctorID != doctorID || slot.IsBooked {
		return 0, nil
	}
	delete(f.slots, id)
	return 1, nil
}

type fakeDoctorProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*entity.DoctorProfile
}

func newFakeDoctorProfileRepo(doctors ...*entity.DoctorProfile) *fakeDoctorProfileRepo {
	f := &fakeDoctorProfileRepo{profiles: make(map[uuid.UUID]*entity.DoctorProfile)}
	for _, d := range doctors {
		f.profiles[d.UserID] = d
	}
	return f
}

func (f *fakeDoctorProfileRepo) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *profile
	f.profiles[profile.UserID] = &stored
	return nil
}

func (f *fakeDoctorProfileRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	found := *profile
	return &found, nil
}

func (f *fakeDoctorProfileRepo) FindAll(db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var profiles []entity.DoctorProfile
	for _, p := range f.profiles {
		if filter != nil && filter.Specialization != "" && p.Specialization != filter.Specialization {
			continue
		}
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

func (f *fakeDoctorProfileRepo) FindFirstBySpecialization(db *gorm.DB, specialization string) (*entity.DoctorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.Specialization == specialization {
			found := *p
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorProfileRepo) LockByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	return f.FindByUserID(db, userID)
}

func (f *fakeDoctorProfileRepo) UpdateRating(db *gorm.DB, userID uuid.UUID, rating float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		p.Rating = rating
	}
	return nil
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (f *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	stored := *appointment
	f.appointments[appointment.ID] = &stored
	return nil
}

func (f *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[id]
	if !ok {
		return nil, nil
	}
	found := *appointment
	return &found, nil
}

func (f *fakeAppointmentRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	return f.filter(func(a *entity.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (f *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	return f.filter(func(a *entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (f *fakeAppointmentRepo) filter(keep func(*entity.Appointment) bool) []entity.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var appointments []entity.Appointment
	for _, a := range f.appointments {
		if keep(a) {
			appointments = append(appointments, *a)
		}
	}
	sort.Slice(appointments, func(i, j int) bool { return appointments[i].Time.After(appointments[j].Time) })
	return appointments
}

func (f *fakeAppointmentRepo) UpdateStatusFrom(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[id]
	if !ok || appointment.Status != from {
		return 0, nil
	}
	appointment.Status = to
	return 1, nil
}

func (f *fakeAppointmentRepo) ExistsBetween(db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error) {
	return len(f.filter(func(a *entity.Appointment) bool {
		return a.DoctorID == doctorID && a.PatientID == patientID
	})) > 0, nil
}

type fakeChatRepo struct {
	mu            sync.Mutex
	chats         map[uuid.UUID]*entity.Chat
	messages      []entity.ChatMessage
	nextMessageID int64
	historyLoads  int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[uuid.UUID]*entity.Chat)}
}

func (f *fakeChatRepo) CreateIfAbsent(db *gorm.DB, chat *entity.Chat) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.chats {
		if c.DoctorID == chat.DoctorID && c.PatientID == chat.PatientID {
			return false, nil
		}
	}
	chat.CreatedAt = time.Now()
	stored := *chat
	f.chats[chat.ID] = &stored
	return true, nil
}

func (f *fakeChatRepo) FindByPair(db *gorm.DB, doctorID, patientID uuid.UUID) (*entity.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.chats {
		if c.DoctorID == doctorID && c.PatientID == patientID {
			found := *c
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepo) FindParticipants(db *gorm.DB, id uuid.UUID) (*entity.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[id]
	if !ok {
		return nil, nil
	}
	return &entity.Chat{ID: c.ID, DoctorID: c.DoctorID, PatientID: c.PatientID, Status: c.Status}, nil
}

func (f *fakeChatRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyLoads++
	c, ok := f.chats[id]
	if !ok {
		return nil, nil
	}
	found := *c
	found.Messages = nil
	for _, m := range f.messages {
		if m.ChatID == id {
			found.Messages = append(found.Messages, m)
		}
	}
	return &found, nil
}

func (f *fakeChatRepo) FindByParticipant(db *gorm.DB, userID uuid.UUID) ([]entity.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var chats []entity.Chat
	for _, c := range f.chats {
		if c.IsParticipant(userID) {
			chats = append(chats, *c)
		}
	}
	return chats, nil
}

func (f *fakeChatRepo) AppendMessage(db *gorm.DB, message *entity.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMessageID++
	message.ID = f.nextMessageID
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeChatRepo) TouchLastMessage(db *gorm.DB, chatID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.chats[chatID]; ok {
		c.LastMessageAt = &at
	}
	return nil
}

func (f *fakeChatRepo) ExistsBetween(db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error) {
	chat, err := f.FindByPair(db, doctorID, patientID)
	return chat != nil, err
}

type fakeChatbotSessionRepo struct {
	mu       sync.Mutex
	sessions []*entity.ChatbotSession
	messages []entity.ChatbotMessage
	nextID   int64

	// raceOnCreate simulates another request opening the session first
	raceOnCreate bool
}

func (f *fakeChatbotSessionRepo) CreateIfNoActive(db *gorm.DB, session *entity.ChatbotSession) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.raceOnCreate {
		f.raceOnCreate = false
		f.sessions = append(f.sessions, &entity.ChatbotSession{
			ID:     uuid.New(),
			UserID: session.UserID,
			Status: entity.ChatbotSessionActive,
		})
		return false, nil
	}
	for _, s := range f.sessions {
		if s.UserID == session.UserID && s.Status == entity.ChatbotSessionActive {
			return false, nil
		}
	}
	stored := *session
	f.sessions = append(f.sessions, &stored)
	return true, nil
}

func (f *fakeChatbotSessionRepo) FindActiveByUserID(db *gorm.DB, userID uuid.UUID) (*entity.ChatbotSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.UserID == userID && s.Status == entity.ChatbotSessionActive {
			found := *s
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeChatbotSessionRepo) FindLatestByUserID(db *gorm.DB, userID uuid.UUID) (*entity.ChatbotSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sessions) - 1; i >= 0; i-- {
		if f.sessions[i].UserID == userID {
			found := *f.sessions[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeChatbotSessionRepo) Update(db *gorm.DB, session *entity.ChatbotSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.sessions {
		if s.ID == session.ID {
			stored := *session
			f.sessions[i] = &stored
		}
	}
	return nil
}

func (f *fakeChatbotSessionRepo) AppendMessages(db *gorm.DB, messages []entity.ChatbotMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range messages {
		f.nextID++
		m.ID = f.nextID
		f.messages = append(f.messages, m)
	}
	return nil
}

func (f *fakeChatbotSessionRepo) FindMessages(db *gorm.DB, sessionID uuid.UUID) ([]entity.ChatbotMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var messages []entity.ChatbotMessage
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByUsername(db *gorm.DB, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	found := *u
	return &found, nil
}

type fakePatientProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*entity.PatientProfile
}

func newFakePatientProfileRepo(profiles ...*entity.PatientProfile) *fakePatientProfileRepo {
	f := &fakePatientProfileRepo{profiles: make(map[uuid.UUID]*entity.PatientProfile)}
	for _, p := range profiles {
		f.profiles[p.UserID] = p
	}
	return f
}

func (f *fakePatientProfileRepo) Create(db *gorm.DB, profile *entity.PatientProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *profile
	f.profiles[profile.UserID] = &stored
	return nil
}

func (f *fakePatientProfileRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	found := *p
	return &found, nil
}

func (f *fakePatientProfileRepo) LockByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	return f.FindByUserID(db, userID)
}

func (f *fakePatientProfileRepo) UpdateMedicalHistory(db *gorm.DB, userID uuid.UUID, history entity.MedicalHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		p.MedicalHistory = history
	}
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []entity.DoctorReview
}

func (f *fakeReviewRepo) Create(db *gorm.DB, review *entity.DoctorReview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeReviewRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorReview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var reviews []entity.DoctorReview
	for _, r := range f.reviews {
		if r.DoctorID == doctorID {
			reviews = append(reviews, r)
		}
	}
	return reviews, nil
}

func (f *fakeReviewRepo) AverageRating(db *gorm.DB, doctorID uuid.UUID) (float64, error) {
	reviews, _ := f.FindByDoctorID(db, doctorID)
	if len(reviews) == 0 {
		return 0, nil
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews)), nil
}
