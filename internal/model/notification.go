package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Аудитория уведомления: чья лента его показывает.
type NotificationAudience string

const (
	AudienceFaculty NotificationAudience = "faculty"
	AudienceStudent NotificationAudience = "student"
)

// notifications — производные записи о событиях заявок.
// Живут столько же, сколько заявка; флаг is_read независим по получателю.
type Notification struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Audience    NotificationAudience `gorm:"type:varchar(16);not null;index:idx_notifications_recipient" json:"audience"`
	RecipientID uuid.UUID            `gorm:"type:uuid;not null;index:idx_notifications_recipient" json:"recipient_id"`

	BookingID uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`

	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	IsRead bool `gorm:"not null;default:false" json:"is_read"`

	// Денормализованные атрибуты для отображения (имена, статус).
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"booking,omitempty"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
