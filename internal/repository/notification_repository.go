package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/model"
)

type NotificationRepository interface {
	// Создать уведомление.
	Create(ctx context.Context, n *model.Notification) error
	// Лента получателя, новые сверху, с пагинацией.
	ListByRecipient(ctx context.Context, audience model.NotificationAudience, recipientID string, limit, offset int) ([]model.Notification, int64, error)
	// Отметить все уведомления получателя прочитанными. Идемпотентно.
	MarkAllRead(ctx context.Context, audience model.NotificationAudience, recipientID string) error
	// Количество непрочитанных; всегда считается, никогда не хранится.
	CountUnread(ctx context.Context, audience model.NotificationAudience, recipientID string) (int64, error)
	// Есть ли уведомление данной аудитории по заявке.
	ExistsForBooking(ctx context.Context, audience model.NotificationAudience, bookingID string) (bool, error)
}

// Реализация на GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *GormNotificationRepository) ListByRecipient(
	ctx context.Context,
	audience model.NotificationAudience,
	recipientID string,
	limit, offset int,
) ([]model.Notification, int64, error) {
	var (
		items []model.Notification
		total int64
	)

	q := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("audience = ? AND recipient_id = ?", audience, recipientID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *GormNotificationRepository) MarkAllRead(
	ctx context.Context,
	audience model.NotificationAudience,
	recipientID string,
) error {
	// Обновляются только непрочитанные; повторный вызов ничего не меняет.
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("audience = ? AND recipient_id = ? AND is_read = ?", audience, recipientID, false).
		Update("is_read", true).
		Error
}

func (r *GormNotificationRepository) CountUnread(
	ctx context.Context,
	audience model.NotificationAudience,
	recipientID string,
) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("audience = ? AND recipient_id = ? AND is_read = ?", audience, recipientID, false).
		Count(&total).Error
	return total, err
}

func (r *GormNotificationRepository) ExistsForBooking(
	ctx context.Context,
	audience model.NotificationAudience,
	bookingID string,
) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("audience = ? AND booking_id = ?", audience, bookingID).
		Count(&total).Error
	return total > 0, err
}
