package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/model"
)

func TestCreateSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := env.seedUser(t, consult.RoleFaculty, "Dr. Reyes")
	other := env.seedUser(t, consult.RoleFaculty, "Dr. Osei")
	subject := env.seedSubject(t, faculty, "Algorithms")

	in := CreateSlotInput{
		SubjectID: subject,
		Weekday:   time.Wednesday,
		Start:     14 * 60,
		End:       15 * 60,
		Location:  "Room 310",
	}

	slot, err := env.schedule.CreateSlot(ctx, faculty, in)
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}
	if slot.MaxSeats != model.DefaultMaxSeats {
		t.Fatalf("max seats = %d, want default %d", slot.MaxSeats, model.DefaultMaxSeats)
	}

	// Дисциплина принадлежит другому преподавателю.
	if _, err := env.schedule.CreateSlot(ctx, other, in); !errors.Is(err, consult.ErrNotAllowed) {
		t.Fatalf("foreign subject err = %v, want ErrNotAllowed", err)
	}

	// Выходной день.
	in.Weekday = time.Saturday
	if _, err := env.schedule.CreateSlot(ctx, faculty, in); !errors.Is(err, consult.ErrValidation) {
		t.Fatalf("saturday err = %v, want ErrValidation", err)
	}

	// Начало после конца.
	in.Weekday = time.Wednesday
	in.Start, in.End = in.End, in.Start
	if _, err := env.schedule.CreateSlot(ctx, faculty, in); !errors.Is(err, consult.ErrValidation) {
		t.Fatalf("inverted window err = %v, want ErrValidation", err)
	}

	// Студенту создавать слоты нельзя.
	student := env.seedUser(t, consult.RoleStudent, "Alice")
	in.Start, in.End = in.End, in.Start
	if _, err := env.schedule.CreateSlot(ctx, student, in); !errors.Is(err, consult.ErrNotAllowed) {
		t.Fatalf("student create err = %v, want ErrNotAllowed", err)
	}
}

func TestUpdateSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := env.seedUser(t, consult.RoleFaculty, "Dr. Reyes")
	intruder := env.seedUser(t, consult.RoleFaculty, "Dr. Osei")
	subject := env.seedSubject(t, faculty, "Algorithms")
	slotID := env.seedSlot(t, faculty, subject, 2)

	day := time.Friday
	loc := "Room 101"
	seats := 4
	updated, err := env.schedule.UpdateSlot(ctx, faculty, slotID, UpdateSlotPatch{
		Weekday:  &day,
		Location: &loc,
		MaxSeats: &seats,
	})
	if err != nil {
		t.Fatalf("update slot: %v", err)
	}
	if updated.Weekday != time.Friday || updated.Location != "Room 101" || updated.MaxSeats != 4 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	// Нетронутые поля сохраняются.
	if updated.StartMinute != 10*60 || updated.EndMinute != 11*60 {
		t.Fatalf("window changed unexpectedly: %s-%s", updated.StartMinute, updated.EndMinute)
	}

	// Патч, ломающий окно, отклоняется целиком.
	badStart := consult.MinuteOfDay(12 * 60)
	if _, err := env.schedule.UpdateSlot(ctx, faculty, slotID, UpdateSlotPatch{Start: &badStart}); !errors.Is(err, consult.ErrValidation) {
		t.Fatalf("inverted patch err = %v, want ErrValidation", err)
	}

	if _, err := env.schedule.UpdateSlot(ctx, intruder, slotID, UpdateSlotPatch{Location: &loc}); !errors.Is(err, consult.ErrNotAllowed) {
		t.Fatalf("foreign faculty err = %v, want ErrNotAllowed", err)
	}
}

func TestDeleteSlot_OccupiedConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := env.seedUser(t, consult.RoleFaculty, "Dr. Reyes")
	subject := env.seedSubject(t, faculty, "Algorithms")
	slotID := env.seedSlot(t, faculty, subject, 2)
	student := env.seedUser(t, consult.RoleStudent, "Alice")

	b, err := env.bookings.CreateBooking(ctx, student, CreateBookingInput{
		FacultyID: faculty, SubjectID: subject, SlotID: slotID, Ordinal: 1,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if err := env.schedule.DeleteSlot(ctx, faculty, slotID); !errors.Is(err, consult.ErrConflict) {
		t.Fatalf("delete occupied err = %v, want ErrConflict", err)
	}

	// После отклонения заявки слот свободен и удаляется.
	if _, err := env.bookings.SetStatus(ctx, faculty, b.ID, consult.StatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := env.schedule.DeleteSlot(ctx, faculty, slotID); err != nil {
		t.Fatalf("delete freed slot: %v", err)
	}
	if _, err := env.schedule.GetSlot(ctx, slotID); !errors.Is(err, consult.ErrNotFound) {
		t.Fatalf("get deleted err = %v, want ErrNotFound", err)
	}
}

func TestUpcomingOccurrences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := env.seedUser(t, consult.RoleFaculty, "Dr. Reyes")
	subject := env.seedSubject(t, faculty, "Algorithms")
	slotID := env.seedSlot(t, faculty, subject, 2) // вторник, 10:00-11:00

	// Две недели начиная с понедельника.
	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 14)

	ranges, err := env.schedule.UpcomingOccurrences(ctx, slotID, from, to)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(ranges) != 2 {
		t.Fatalf("occurrences = %d, want 2", len(ranges))
	}
	first := ranges[0]
	if first.Start.Weekday() != time.Tuesday || first.Start.Hour() != 10 || first.End.Hour() != 11 {
		t.Fatalf("first occurrence = %v .. %v", first.Start, first.End)
	}
}
