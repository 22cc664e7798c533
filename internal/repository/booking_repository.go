package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/model"
)

type BookingRepository interface {
	// Получить заявку по ID.
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	// Получить заявку вместе с отображаемыми атрибутами ссылок.
	GetDetailed(ctx context.Context, id string) (*model.Booking, error)
	// Количество занимающих заявок в слоте (pending + approved).
	CountOccupying(ctx context.Context, slotID string) (int64, error)
	// Количество занимающих заявок на конкретном месте слота.
	CountOccupyingOrdinal(ctx context.Context, slotID string, ordinal int) (int64, error)
	// Условное обновление статуса: применяется только если заявка всё ещё
	// в статусе from. Возвращает количество затронутых строк.
	UpdateStatusFrom(ctx context.Context, id string, from, to consult.BookingStatus, extra map[string]any) (int64, error)
	// Условное обновление цели: только пока заявка approved.
	UpdatePurposeWhileApproved(ctx context.Context, id, purpose string) (int64, error)
	// Списки заявок с отображаемыми атрибутами.
	ListByStudent(ctx context.Context, studentID string) ([]model.Booking, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]model.Booking, error)
	// Полный список с фильтром по статусу и пагинацией (админский отчёт).
	ListAll(ctx context.Context, status consult.BookingStatus, limit, offset int) ([]model.Booking, int64, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) GetDetailed(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Faculty").
		Preload("Subject").
		Preload("Slot").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CountOccupying считает заявки, занимающие места в слоте.
func (r *GormBookingRepository) CountOccupying(ctx context.Context, slotID string) (int64, error) {
	return CountOccupyingTx(r.db.WithContext(ctx), slotID, 0)
}

func (r *GormBookingRepository) CountOccupyingOrdinal(ctx context.Context, slotID string, ordinal int) (int64, error) {
	return CountOccupyingTx(r.db.WithContext(ctx), slotID, ordinal)
}

// CountOccupyingTx — общая часть проверки вместимости; вызывается и внутри
// транзакции резервирования (см. BookingService). ordinal = 0 — весь слот.
func CountOccupyingTx(db *gorm.DB, slotID string, ordinal int) (int64, error) {
	q := db.Model(&model.Booking{}).
		Where("slot_id = ?", slotID).
		Where("status IN ?", consult.OccupyingStatuses())
	if ordinal > 0 {
		q = q.Where("ordinal = ?", ordinal)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormBookingRepository) UpdateStatusFrom(
	ctx context.Context,
	id string,
	from, to consult.BookingStatus,
	extra map[string]any,
) (int64, error) {
	update := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range extra {
		update[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(update)
	return res.RowsAffected, res.Error
}

func (r *GormBookingRepository) UpdatePurposeWhileApproved(ctx context.Context, id, purpose string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, consult.StatusApproved).
		Updates(map[string]any{
			"purpose":    purpose,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *GormBookingRepository) ListByStudent(ctx context.Context, studentID string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Faculty").
		Preload("Subject").
		Preload("Slot").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListByFaculty(ctx context.Context, facultyID string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Subject").
		Preload("Slot").
		Where("faculty_id = ?", facultyID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListAll(
	ctx context.Context,
	status consult.BookingStatus,
	limit, offset int,
) ([]model.Booking, int64, error) {
	var (
		bookings []model.Booking
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&model.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	err := q.
		Preload("Student").
		Preload("Faculty").
		Preload("Subject").
		Preload("Slot").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}
