package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/model"
	"github.com/facultydesk/consultation-core/internal/repository"
)

// BookingService — авторитетный журнал заявок на консультации.
// Владеет конечным автоматом статусов и проверкой вместимости слотов.
type BookingService struct {
	db       *gorm.DB
	bookings repository.BookingRepository
	slots    repository.SlotRepository
	users    repository.UserRepository
	notifier *NotificationService
	log      *zap.Logger
}

func NewBookingService(
	db *gorm.DB,
	bookings repository.BookingRepository,
	slots repository.SlotRepository,
	users repository.UserRepository,
	notifier *NotificationService,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		db:       db,
		bookings: bookings,
		slots:    slots,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

type CreateBookingInput struct {
	FacultyID uuid.UUID
	SubjectID uuid.UUID
	SlotID    uuid.UUID
	Ordinal   int
	Purpose   string
}

// Occupancy — текущая заполненность слота.
type Occupancy struct {
	Current   int  `json:"current"`
	Max       int  `json:"max"`
	Remaining int  `json:"remaining"`
	IsFull    bool `json:"is_full"`
}

// GetOccupancy отвечает, сколько мест в слоте занято и осталось.
func (s *BookingService) GetOccupancy(ctx context.Context, slotID uuid.UUID) (*Occupancy, error) {
	slot, err := s.slots.GetByID(ctx, slotID.String())
	if err != nil {
		return nil, notFound(err, "slot")
	}

	current, err := s.bookings.CountOccupying(ctx, slotID.String())
	if err != nil {
		return nil, err
	}

	remaining := slot.MaxSeats - int(current)
	if remaining < 0 {
		remaining = 0
	}
	return &Occupancy{
		Current:   int(current),
		Max:       slot.MaxSeats,
		Remaining: remaining,
		IsFull:    int(current) >= slot.MaxSeats,
	}, nil
}

// validateSlotForBooking проверяет соответствие слота параметрам заявки.
// Возвращает (false, причина) при несоответствии.
func validateSlotForBooking(slot *model.ScheduleSlot, facultyID, subjectID uuid.UUID) (bool, string) {
	if slot == nil {
		return false, "slot not found"
	}
	if facultyID != uuid.Nil && slot.FacultyID != facultyID {
		return false, "slot faculty mismatch"
	}
	if subjectID != uuid.Nil && slot.SubjectID != subjectID {
		return false, "slot subject mismatch"
	}
	return true, ""
}

// CreateBooking создаёт заявку студента. Резервирование места и вставка
// записи выполняются одной транзакцией: два конкурентных запроса на
// последнее место дают ровно один успех и один ErrCapacityExceeded.
func (s *BookingService) CreateBooking(ctx context.Context, studentID uuid.UUID, in CreateBookingInput) (*model.Booking, error) {
	student, err := consult.ValidateActor(ctx, s.users, studentID, consult.RoleStudent)
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		StudentID: student.ID,
		FacultyID: in.FacultyID,
		SubjectID: in.SubjectID,
		SlotID:    in.SlotID,
		Ordinal:   in.Ordinal,
		Purpose:   in.Purpose,
		Status:    consult.StatusPending,
	}

	reserve := func(tx *gorm.DB) error {
		// Касание строки слота берёт блокировку: конкурентные резервирования
		// одного слота сериализуются на этой строке.
		touch := tx.Model(&model.ScheduleSlot{}).
			Where("id = ?", in.SlotID.String()).
			Update("updated_at", time.Now().UTC())
		if touch.Error != nil {
			return touch.Error
		}
		if touch.RowsAffected == 0 {
			return fmt.Errorf("slot: %w", consult.ErrNotFound)
		}

		var slot model.ScheduleSlot
		if err := tx.First(&slot, "id = ?", in.SlotID.String()).Error; err != nil {
			return notFound(err, "slot")
		}
		if ok, reason := validateSlotForBooking(&slot, in.FacultyID, in.SubjectID); !ok {
			return fmt.Errorf("%w: %s", consult.ErrValidation, reason)
		}
		if in.Ordinal < 1 || in.Ordinal > slot.MaxSeats {
			return fmt.Errorf("%w: ordinal %d out of range 1..%d", consult.ErrValidation, in.Ordinal, slot.MaxSeats)
		}

		// Обе проверки вместимости: агрегатная и по конкретному месту.
		total, err := repository.CountOccupyingTx(tx, in.SlotID.String(), 0)
		if err != nil {
			return err
		}
		if total >= int64(slot.MaxSeats) {
			return fmt.Errorf("%w: slot is full", consult.ErrCapacityExceeded)
		}
		taken, err := repository.CountOccupyingTx(tx, in.SlotID.String(), in.Ordinal)
		if err != nil {
			return err
		}
		if taken >= 1 {
			return fmt.Errorf("%w: ordinal %d is already occupied", consult.ErrCapacityExceeded, in.Ordinal)
		}

		return tx.Create(booking).Error
	}

	err = retryOnce(s.log, "booking reservation", func() error {
		// Сброс ID перед каждой попыткой: хук BeforeCreate мог заполнить его
		// в откатившейся транзакции.
		booking.ID = uuid.Nil
		return s.db.WithContext(ctx).Transaction(reserve)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("slot_id", in.SlotID.String()),
		zap.Int("ordinal", in.Ordinal),
	)

	// Уведомление — побочный канал: его сбой не влияет на заявку.
	if detailed, derr := s.bookings.GetDetailed(ctx, booking.ID.String()); derr == nil {
		s.notifier.BookingCreated(ctx, detailed)
	} else {
		s.log.Warn("skip creation notice", zap.Error(derr))
	}

	return booking, nil
}

// SetStatus применяет переход конечного автомата к заявке.
// Переход выполняется условным обновлением по текущему статусу: из двух
// конкурентных вызовов применится ровно один, второй получит ErrConflict.
func (s *BookingService) SetStatus(ctx context.Context, actorID, bookingID uuid.UUID, target consult.BookingStatus) (*model.Booking, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", consult.ErrValidation, target)
	}

	actor, err := consult.ValidateActor(ctx, s.users, actorID, consult.RoleFaculty)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID.String())
	if err != nil {
		return nil, notFound(err, "booking")
	}
	if booking.FacultyID != actor.ID {
		return nil, fmt.Errorf("booking owner mismatch: %w", consult.ErrNotAllowed)
	}

	from := booking.Status
	if !consult.CanTransition(from, target) {
		return nil, fmt.Errorf("%w: %s -> %s", consult.ErrInvalidTransition, from, target)
	}

	now := time.Now().UTC()
	extra := map[string]any{}
	switch target {
	case consult.StatusApproved:
		extra["approved_at"] = now
	case consult.StatusCompleted:
		extra["completed_at"] = now
	case consult.StatusRejected:
		// Цель заявки принудительно заменяется фиксированным значением.
		extra["purpose"] = consult.RejectedPurpose
	}

	var rows int64
	err = retryOnce(s.log, "booking status update", func() error {
		var uerr error
		rows, uerr = s.bookings.UpdateStatusFrom(ctx, bookingID.String(), from, target, extra)
		return uerr
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Статус успели поменять конкурентно; проигравший получает конфликт.
		return nil, fmt.Errorf("%w: booking status changed concurrently", consult.ErrConflict)
	}

	s.log.Info("booking status changed",
		zap.String("booking_id", bookingID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)

	detailed, err := s.bookings.GetDetailed(ctx, bookingID.String())
	if err != nil {
		return nil, notFound(err, "booking")
	}

	s.notifier.StatusChanged(ctx, detailed, from, target)
	return detailed, nil
}

// SetPurpose обновляет цель консультации. Разрешено владеющему студенту
// и только пока заявка в статусе approved.
func (s *BookingService) SetPurpose(ctx context.Context, studentID, bookingID uuid.UUID, purpose string) (*model.Booking, error) {
	student, err := consult.ValidateActor(ctx, s.users, studentID, consult.RoleStudent)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID.String())
	if err != nil {
		return nil, notFound(err, "booking")
	}
	if booking.StudentID != student.ID {
		return nil, fmt.Errorf("booking owner mismatch: %w", consult.ErrNotAllowed)
	}
	if booking.Status != consult.StatusApproved {
		return nil, fmt.Errorf("%w: purpose is editable only while approved", consult.ErrInvalidState)
	}

	var rows int64
	err = retryOnce(s.log, "booking purpose update", func() error {
		var uerr error
		rows, uerr = s.bookings.UpdatePurposeWhileApproved(ctx, bookingID.String(), purpose)
		return uerr
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: booking left approved state", consult.ErrInvalidState)
	}

	booking.Purpose = purpose
	return booking, nil
}

func (s *BookingService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]model.Booking, error) {
	return s.bookings.ListByStudent(ctx, studentID.String())
}

func (s *BookingService) ListForFaculty(ctx context.Context, facultyID uuid.UUID) ([]model.Booking, error) {
	return s.bookings.ListByFaculty(ctx, facultyID.String())
}

// Статусы, доступные админскому отчёту.
var reportStatuses = map[consult.BookingStatus]bool{
	consult.StatusApproved:  true,
	consult.StatusRejected:  true,
	consult.StatusCompleted: true,
}

// ListAll — админский срез заявок с фильтром по статусу и пагинацией.
func (s *BookingService) ListAll(ctx context.Context, actorID uuid.UUID, status consult.BookingStatus, page, pageSize int) (consult.Page[model.Booking], error) {
	var zero consult.Page[model.Booking]

	if _, err := consult.ValidateActor(ctx, s.users, actorID, consult.RoleAdmin); err != nil {
		return zero, err
	}
	if status != "" && !reportStatuses[status] {
		return zero, fmt.Errorf("%w: report filter accepts approved, rejected or completed", consult.ErrValidation)
	}

	params := consult.NormalizePage(page, pageSize)
	items, total, err := s.bookings.ListAll(ctx, status, params.PageSize, params.Offset())
	if err != nil {
		return zero, err
	}
	return consult.NewPage(items, params, total), nil
}
