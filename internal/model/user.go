package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/consult"
)

// users — студенты, преподаватели и администраторы.
// Политика одной роли: роль хранится колонкой, без join-таблицы.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	FullName string `gorm:"type:varchar(255);not null" json:"full_name"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`

	Role   consult.UserRole   `gorm:"type:varchar(32);not null;index" json:"role"`
	Status consult.UserStatus `gorm:"type:varchar(32);not null;default:'active'" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

// BeforeCreate генерирует ID на стороне приложения:
// sqlite в тестах не умеет gen_random_uuid().
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
