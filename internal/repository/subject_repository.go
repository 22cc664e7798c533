package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/model"
)

type SubjectRepository interface {
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	Create(ctx context.Context, subject *model.Subject) error
	// Активные дисциплины преподавателя.
	ListByFaculty(ctx context.Context, facultyID string) ([]model.Subject, error)
}

type GormSubjectRepository struct {
	db *gorm.DB
}

func NewGormSubjectRepository(db *gorm.DB) *GormSubjectRepository {
	return &GormSubjectRepository{db: db}
}

func (r *GormSubjectRepository) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var s model.Subject
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *GormSubjectRepository) ListByFaculty(ctx context.Context, facultyID string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Where("faculty_id = ? AND is_active = ?", facultyID, true).
		Order("name ASC").
		Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}
