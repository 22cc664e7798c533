package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/consult"
)

// bookings — заявки студентов на консультацию.
// Ordinal — номер места внутри слота (1..max_seats); пара (slot, ordinal)
// может быть занята максимум одной заявкой в статусе pending/approved.
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	FacultyID uuid.UUID `gorm:"type:uuid;not null;index" json:"faculty_id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"subject_id"`
	SlotID    uuid.UUID `gorm:"type:uuid;not null;index" json:"slot_id"`

	Ordinal int `gorm:"not null" json:"ordinal"`

	// Цель консультации; редактируется студентом только в статусе approved.
	Purpose string `gorm:"type:text" json:"purpose"`

	Status consult.BookingStatus `gorm:"type:varchar(32);not null;index" json:"status"`

	ApprovedAt  *time.Time `gorm:"type:timestamp with time zone" json:"approved_at,omitempty"`
	CompletedAt *time.Time `gorm:"type:timestamp with time zone" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Student *User         `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"student,omitempty"`
	Faculty *User         `gorm:"foreignKey:FacultyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"faculty,omitempty"`
	Subject *Subject      `gorm:"foreignKey:SubjectID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"subject,omitempty"`
	Slot    *ScheduleSlot `gorm:"foreignKey:SlotID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"slot,omitempty"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
