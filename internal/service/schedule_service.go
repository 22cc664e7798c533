package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/model"
	"github.com/facultydesk/consultation-core/internal/repository"
)

// ScheduleService владеет каталогом еженедельных окон консультаций.
type ScheduleService struct {
	slots    repository.SlotRepository
	subjects repository.SubjectRepository
	bookings repository.BookingRepository
	users    repository.UserRepository
	log      *zap.Logger
}

func NewScheduleService(
	slots repository.SlotRepository,
	subjects repository.SubjectRepository,
	bookings repository.BookingRepository,
	users repository.UserRepository,
	log *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		slots:    slots,
		subjects: subjects,
		bookings: bookings,
		users:    users,
		log:      log,
	}
}

type CreateSlotInput struct {
	SubjectID uuid.UUID
	Weekday   time.Weekday
	Start     consult.MinuteOfDay
	End       consult.MinuteOfDay
	Location  string
	MaxSeats  int
}

// UpdateSlotPatch — частичное обновление слота; nil-поля не трогаются.
type UpdateSlotPatch struct {
	Weekday  *time.Weekday
	Start    *consult.MinuteOfDay
	End      *consult.MinuteOfDay
	Location *string
	MaxSeats *int
}

// CreateSlot создаёт окно консультаций. Вызывающий должен быть активным
// преподавателем и владельцем дисциплины.
func (s *ScheduleService) CreateSlot(ctx context.Context, actorID uuid.UUID, in CreateSlotInput) (*model.ScheduleSlot, error) {
	actor, err := consult.ValidateActor(ctx, s.users, actorID, consult.RoleFaculty)
	if err != nil {
		return nil, err
	}

	subject, err := s.subjects.GetByID(ctx, in.SubjectID.String())
	if err != nil {
		return nil, notFound(err, "subject")
	}
	if subject.FacultyID != actor.ID {
		return nil, fmt.Errorf("subject owner mismatch: %w", consult.ErrNotAllowed)
	}

	if in.MaxSeats == 0 {
		in.MaxSeats = model.DefaultMaxSeats
	}
	if in.MaxSeats < 1 {
		return nil, fmt.Errorf("%w: max seats must be at least 1", consult.ErrValidation)
	}

	window := consult.WeeklyWindow{Weekday: in.Weekday, Start: in.Start, End: in.End}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	slot := &model.ScheduleSlot{
		FacultyID:   actor.ID,
		SubjectID:   subject.ID,
		Weekday:     in.Weekday,
		StartMinute: in.Start,
		EndMinute:   in.End,
		Location:    in.Location,
		MaxSeats:    in.MaxSeats,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.log.Info("consultation slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("faculty_id", actor.ID.String()),
		zap.String("subject_id", subject.ID.String()),
	)
	return slot, nil
}

// UpdateSlot меняет день, время, аудиторию или вместимость слота.
// Разрешено только владеющему преподавателю.
func (s *ScheduleService) UpdateSlot(ctx context.Context, actorID, slotID uuid.UUID, patch UpdateSlotPatch) (*model.ScheduleSlot, error) {
	actor, err := consult.ValidateActor(ctx, s.users, actorID, consult.RoleFaculty)
	if err != nil {
		return nil, err
	}

	slot, err := s.slots.GetByID(ctx, slotID.String())
	if err != nil {
		return nil, notFound(err, "slot")
	}
	if slot.FacultyID != actor.ID {
		return nil, fmt.Errorf("slot owner mismatch: %w", consult.ErrNotAllowed)
	}

	if patch.Weekday != nil {
		slot.Weekday = *patch.Weekday
	}
	if patch.Start != nil {
		slot.StartMinute = *patch.Start
	}
	if patch.End != nil {
		slot.EndMinute = *patch.End
	}
	if patch.Location != nil {
		slot.Location = *patch.Location
	}
	if patch.MaxSeats != nil {
		if *patch.MaxSeats < 1 {
			return nil, fmt.Errorf("%w: max seats must be at least 1", consult.ErrValidation)
		}
		slot.MaxSeats = *patch.MaxSeats
	}

	if err := slot.Window().Validate(); err != nil {
		return nil, err
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// DeleteSlot удаляет слот. Пока на слот ссылаются занимающие заявки
// (pending/approved), удаление отклоняется, чтобы не осиротить записи.
func (s *ScheduleService) DeleteSlot(ctx context.Context, actorID, slotID uuid.UUID) error {
	actor, err := consult.ValidateActor(ctx, s.users, actorID, consult.RoleFaculty)
	if err != nil {
		return err
	}

	slot, err := s.slots.GetByID(ctx, slotID.String())
	if err != nil {
		return notFound(err, "slot")
	}
	if slot.FacultyID != actor.ID {
		return fmt.Errorf("slot owner mismatch: %w", consult.ErrNotAllowed)
	}

	occupying, err := s.bookings.CountOccupying(ctx, slotID.String())
	if err != nil {
		return err
	}
	if occupying > 0 {
		return fmt.Errorf("%w: slot has %d occupying bookings", consult.ErrConflict, occupying)
	}

	return s.slots.Delete(ctx, slotID.String())
}

func (s *ScheduleService) GetSlot(ctx context.Context, slotID uuid.UUID) (*model.ScheduleSlot, error) {
	slot, err := s.slots.GetByID(ctx, slotID.String())
	if err != nil {
		return nil, notFound(err, "slot")
	}
	return slot, nil
}

func (s *ScheduleService) ListForFaculty(ctx context.Context, facultyID uuid.UUID) ([]model.ScheduleSlot, error) {
	return s.slots.ListByFaculty(ctx, facultyID.String())
}

func (s *ScheduleService) ListForSubject(ctx context.Context, subjectID uuid.UUID) ([]model.ScheduleSlot, error) {
	return s.slots.ListBySubject(ctx, subjectID.String())
}

// UpcomingOccurrences разворачивает еженедельный слот в конкретные даты
// внутри окна [from, to) — для витрины доступности.
func (s *ScheduleService) UpcomingOccurrences(ctx context.Context, slotID uuid.UUID, from, to time.Time) ([]consult.TimeRange, error) {
	slot, err := s.slots.GetByID(ctx, slotID.String())
	if err != nil {
		return nil, notFound(err, "slot")
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: window end must be after start", consult.ErrValidation)
	}
	return slot.Window().Occurrences(from, to), nil
}
