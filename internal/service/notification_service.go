package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/model"
	"github.com/facultydesk/consultation-core/internal/repository"
)

// NotificationService переводит события журнала заявок в ленты уведомлений
// с независимым признаком прочитанности по получателю. Побочный канал:
// сбои логируются и никогда не блокируют переход статуса.
type NotificationService struct {
	db            *gorm.DB
	notifications repository.NotificationRepository
	log           *zap.Logger
}

func NewNotificationService(
	db *gorm.DB,
	notifications repository.NotificationRepository,
	log *zap.Logger,
) *NotificationService {
	return &NotificationService{
		db:            db,
		notifications: notifications,
		log:           log,
	}
}

// NotificationMeta — денормализованные атрибуты для отображения в ленте.
type NotificationMeta struct {
	StudentName string `json:"student_name,omitempty"`
	FacultyName string `json:"faculty_name,omitempty"`
	SubjectName string `json:"subject_name,omitempty"`
	Status      string `json:"status,omitempty"`
}

func bookingMeta(b *model.Booking) NotificationMeta {
	meta := NotificationMeta{Status: string(b.Status)}
	if b.Student != nil {
		meta.StudentName = b.Student.FullName
	}
	if b.Faculty != nil {
		meta.FacultyName = b.Faculty.FullName
	}
	if b.Subject != nil {
		meta.SubjectName = b.Subject.Name
	}
	return meta
}

func marshalMeta(meta NotificationMeta) datatypes.JSON {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// BookingCreated добавляет преподавателю уведомление о новой заявке.
func (s *NotificationService) BookingCreated(ctx context.Context, b *model.Booking) {
	meta := bookingMeta(b)

	subject := meta.SubjectName
	if subject == "" {
		subject = "a subject"
	}
	student := meta.StudentName
	if student == "" {
		student = "A student"
	}

	n := &model.Notification{
		Audience:    model.AudienceFaculty,
		RecipientID: b.FacultyID,
		BookingID:   b.ID,
		Title:       "New Consultation Request",
		Message:     fmt.Sprintf("%s requested a consultation in %s.", student, subject),
		Metadata:    marshalMeta(meta),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.Warn("faculty notice not recorded",
			zap.String("booking_id", b.ID.String()),
			zap.Error(err),
		)
	}
}

var studentNoticeTitles = map[consult.BookingStatus]string{
	consult.StatusApproved:  "Consultation Approved",
	consult.StatusRejected:  "Consultation Rejected",
	consult.StatusCompleted: "Consultation Completed",
}

// StatusChanged добавляет студенту уведомление о решении по заявке.
// Переходы в approved, rejected и completed порождают запись; прочие — нет.
func (s *NotificationService) StatusChanged(ctx context.Context, b *model.Booking, from, to consult.BookingStatus) {
	title, ok := studentNoticeTitles[to]
	if !ok {
		return
	}

	meta := bookingMeta(b)
	meta.Status = string(to)

	subject := meta.SubjectName
	if subject == "" {
		subject = "a subject"
	}
	faculty := meta.FacultyName
	if faculty == "" {
		faculty = "the faculty member"
	}

	n := &model.Notification{
		Audience:    model.AudienceStudent,
		RecipientID: b.StudentID,
		BookingID:   b.ID,
		Title:       title,
		Message:     fmt.Sprintf("Your consultation request in %s with %s is now %s.", subject, faculty, to),
		Metadata:    marshalMeta(meta),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.Warn("student notice not recorded",
			zap.String("booking_id", b.ID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(err),
		)
	}
}

// ListFor возвращает ленту получателя, новые сверху.
func (s *NotificationService) ListFor(
	ctx context.Context,
	audience model.NotificationAudience,
	recipientID uuid.UUID,
	page, pageSize int,
) (consult.Page[model.Notification], error) {
	params := consult.NormalizePage(page, pageSize)
	items, total, err := s.notifications.ListByRecipient(ctx, audience, recipientID.String(), params.PageSize, params.Offset())
	if err != nil {
		return consult.Page[model.Notification]{}, err
	}
	return consult.NewPage(items, params, total), nil
}

// MarkAllRead отмечает прочитанными все уведомления получателя. Идемпотентно.
func (s *NotificationService) MarkAllRead(ctx context.Context, audience model.NotificationAudience, recipientID uuid.UUID) error {
	return s.notifications.MarkAllRead(ctx, audience, recipientID.String())
}

// UnreadCount всегда вычисляется из хранилища, отдельно не хранится.
func (s *NotificationService) UnreadCount(ctx context.Context, audience model.NotificationAudience, recipientID uuid.UUID) (int64, error) {
	return s.notifications.CountUnread(ctx, audience, recipientID.String())
}

// Reconcile дописывает уведомления, отсутствующие для текущего состояния
// заявок: запись преподавателю по каждой заявке и запись студенту по каждой
// заявке в статусе approved/rejected/completed. Идемпотентна, запускается
// периодически как рекомендация, а не источник истины.
func (s *NotificationService) Reconcile(ctx context.Context) error {
	var missingFaculty []model.Booking
	err := s.db.WithContext(ctx).
		Model(&model.Booking{}).
		Joins("LEFT JOIN notifications n ON n.booking_id = bookings.id AND n.audience = ?", model.AudienceFaculty).
		Where("n.id IS NULL").
		Preload("Student").
		Preload("Faculty").
		Preload("Subject").
		Find(&missingFaculty).Error
	if err != nil {
		return fmt.Errorf("reconcile faculty notices: %w", err)
	}
	for i := range missingFaculty {
		b := &missingFaculty[i]
		// Между выборкой и дозаписью уведомление могло появиться штатным путём.
		if exists, eerr := s.notifications.ExistsForBooking(ctx, model.AudienceFaculty, b.ID.String()); eerr == nil && exists {
			continue
		}
		s.BookingCreated(ctx, b)
	}

	var missingStudent []model.Booking
	err = s.db.WithContext(ctx).
		Model(&model.Booking{}).
		Joins("LEFT JOIN notifications n ON n.booking_id = bookings.id AND n.audience = ?", model.AudienceStudent).
		Where("n.id IS NULL").
		Where("bookings.status IN ?", []consult.BookingStatus{
			consult.StatusApproved, consult.StatusRejected, consult.StatusCompleted,
		}).
		Preload("Student").
		Preload("Faculty").
		Preload("Subject").
		Find(&missingStudent).Error
	if err != nil {
		return fmt.Errorf("reconcile student notices: %w", err)
	}
	for i := range missingStudent {
		b := &missingStudent[i]
		if exists, eerr := s.notifications.ExistsForBooking(ctx, model.AudienceStudent, b.ID.String()); eerr == nil && exists {
			continue
		}
		s.StatusChanged(ctx, b, consult.StatusPending, b.Status)
	}

	if len(missingFaculty) > 0 || len(missingStudent) > 0 {
		s.log.Info("notification backlog reconciled",
			zap.Int("faculty", len(missingFaculty)),
			zap.Int("student", len(missingStudent)),
		)
	}
	return nil
}
