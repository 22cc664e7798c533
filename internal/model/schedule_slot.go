package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/consult"
)

// DefaultMaxSeats — вместимость слота по умолчанию.
const DefaultMaxSeats = 2

// schedule_slots — еженедельные окна консультаций преподавателя по дисциплине.
// Время хранится как минуты от полуночи, день недели — понедельник..пятница.
type ScheduleSlot struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	FacultyID uuid.UUID `gorm:"type:uuid;not null;index" json:"faculty_id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"subject_id"`

	Weekday     time.Weekday        `gorm:"type:smallint;not null" json:"weekday"`
	StartMinute consult.MinuteOfDay `gorm:"type:smallint;not null" json:"start_minute"`
	EndMinute   consult.MinuteOfDay `gorm:"type:smallint;not null" json:"end_minute"`

	Location string `gorm:"type:varchar(255)" json:"location"`

	// Максимум одновременных заявок (мест) в слоте.
	MaxSeats int `gorm:"not null;default:2" json:"max_seats"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Faculty *User    `gorm:"foreignKey:FacultyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"faculty,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subject,omitempty"`
}

func (s *ScheduleSlot) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Window возвращает недельное окно слота для доменных проверок.
func (s *ScheduleSlot) Window() consult.WeeklyWindow {
	return consult.WeeklyWindow{
		Weekday: s.Weekday,
		Start:   s.StartMinute,
		End:     s.EndMinute,
	}
}
