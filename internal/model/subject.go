package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// subjects — дисциплины, по которым преподаватель ведёт консультации.
type Subject struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	FacultyID uuid.UUID `gorm:"type:uuid;not null;index" json:"faculty_id"`

	Code        string `gorm:"type:varchar(32);not null" json:"code"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	IsActive bool `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	// Навигационные поля (опционально, но удобно для Preload).
	Faculty *User `gorm:"foreignKey:FacultyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"faculty,omitempty"`
}

func (s *Subject) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
