package service

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/model"
	"github.com/facultydesk/consultation-core/internal/repository"
)

// newTestDB opens an in-memory sqlite DB with a minimal schema
// for the query/update logic (sqlite-friendly).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// У sqlite ":memory:" база живёт в соединении: пул ужимается до одного,
	// конкурентные горутины сериализуются на нём.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL,
			role TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE subjects (
			id TEXT PRIMARY KEY,
			faculty_id TEXT NOT NULL,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE schedule_slots (
			id TEXT PRIMARY KEY,
			faculty_id TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			weekday INTEGER NOT NULL,
			start_minute INTEGER NOT NULL,
			end_minute INTEGER NOT NULL,
			location TEXT,
			max_seats INTEGER NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE bookings (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			faculty_id TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			slot_id TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			purpose TEXT,
			status TEXT NOT NULL,
			approved_at DATETIME,
			completed_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			audience TEXT NOT NULL,
			recipient_id TEXT NOT NULL,
			booking_id TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT,
			is_read BOOLEAN NOT NULL DEFAULT 0,
			metadata TEXT,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}

type testEnv struct {
	db       *gorm.DB
	schedule *ScheduleService
	bookings *BookingService
	notices  *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	log := zap.NewNop()

	slotRepo := repository.NewGormSlotRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)
	subjectRepo := repository.NewGormSubjectRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	notices := NewNotificationService(db, notificationRepo, log)
	return &testEnv{
		db:       db,
		schedule: NewScheduleService(slotRepo, subjectRepo, bookingRepo, userRepo, log),
		bookings: NewBookingService(db, bookingRepo, slotRepo, userRepo, notices, log),
		notices:  notices,
	}
}

func (e *testEnv) seedUser(t *testing.T, role consult.UserRole, name string) uuid.UUID {
	t.Helper()

	u := &model.User{
		ID:       uuid.New(),
		FullName: name,
		Email:    uuid.NewString() + "@example.edu",
		Role:     role,
		Status:   consult.UserStatusActive,
	}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func (e *testEnv) seedSubject(t *testing.T, facultyID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	s := &model.Subject{
		ID:        uuid.New(),
		FacultyID: facultyID,
		Code:      "CS-101",
		Name:      name,
		IsActive:  true,
	}
	if err := e.db.Create(s).Error; err != nil {
		t.Fatalf("seed subject: %v", err)
	}
	return s.ID
}

func (e *testEnv) seedSlot(t *testing.T, facultyID, subjectID uuid.UUID, maxSeats int) uuid.UUID {
	t.Helper()

	slot := &model.ScheduleSlot{
		ID:          uuid.New(),
		FacultyID:   facultyID,
		SubjectID:   subjectID,
		Weekday:     2, // Tuesday
		StartMinute: 10 * 60,
		EndMinute:   11 * 60,
		Location:    "Room 214",
		MaxSeats:    maxSeats,
	}
	if err := e.db.Create(slot).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return slot.ID
}
