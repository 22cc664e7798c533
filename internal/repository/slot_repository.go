package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/model"
)

type SlotRepository interface {
	// Создать слот.
	Create(ctx context.Context, slot *model.ScheduleSlot) error
	// Найти слот по ID.
	GetByID(ctx context.Context, id string) (*model.ScheduleSlot, error)
	// Обновить изменяемые поля слота.
	Update(ctx context.Context, slot *model.ScheduleSlot) error
	// Удалить слот.
	Delete(ctx context.Context, id string) error
	// Слоты преподавателя.
	ListByFaculty(ctx context.Context, facultyID string) ([]model.ScheduleSlot, error)
	// Слоты по дисциплине.
	ListBySubject(ctx context.Context, subjectID string) ([]model.ScheduleSlot, error)
}

// Реализация на GORM.
type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

func (r *GormSlotRepository) Create(ctx context.Context, slot *model.ScheduleSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *GormSlotRepository) GetByID(ctx context.Context, id string) (*model.ScheduleSlot, error) {
	var slot model.ScheduleSlot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *GormSlotRepository) Update(ctx context.Context, slot *model.ScheduleSlot) error {
	update := map[string]any{
		"weekday":      slot.Weekday,
		"start_minute": slot.StartMinute,
		"end_minute":   slot.EndMinute,
		"location":     slot.Location,
		"max_seats":    slot.MaxSeats,
	}
	return r.db.WithContext(ctx).
		Model(&model.ScheduleSlot{}).
		Where("id = ?", slot.ID).
		Updates(update).
		Error
}

func (r *GormSlotRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.ScheduleSlot{}, "id = ?", id).Error
}

func (r *GormSlotRepository) ListByFaculty(ctx context.Context, facultyID string) ([]model.ScheduleSlot, error) {
	var slots []model.ScheduleSlot
	err := r.db.WithContext(ctx).
		Where("faculty_id = ?", facultyID).
		Order("weekday ASC, start_minute ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormSlotRepository) ListBySubject(ctx context.Context, subjectID string) ([]model.ScheduleSlot, error) {
	var slots []model.ScheduleSlot
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("weekday ASC, start_minute ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}
