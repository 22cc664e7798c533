package service

import (
	"context"
	"testing"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/model"
	"github.com/facultydesk/consultation-core/internal/repository"
)

func TestNotificationFeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := env.seedUser(t, consult.RoleFaculty, "Dr. Reyes")
	subject := env.seedSubject(t, faculty, "Algorithms")
	slot := env.seedSlot(t, faculty, subject, 2)
	student := env.seedUser(t, consult.RoleStudent, "Alice")

	b, err := env.bookings.CreateBooking(ctx, student, CreateBookingInput{
		FacultyID: faculty, SubjectID: subject, SlotID: slot, Ordinal: 1,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// Заявка породила уведомление преподавателю.
	page, err := env.notices.ListFor(ctx, model.AudienceFaculty, faculty, 1, 10)
	if err != nil {
		t.Fatalf("faculty feed: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("faculty feed total = %d, want 1", page.Total)
	}
	notice := page.Items[0]
	if notice.Title != "New Consultation Request" || notice.BookingID != b.ID || notice.IsRead {
		t.Fatalf("faculty notice = %+v", notice)
	}

	if _, err := env.bookings.SetStatus(ctx, faculty, b.ID, consult.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	stPage, err := env.notices.ListFor(ctx, model.AudienceStudent, student, 1, 10)
	if err != nil {
		t.Fatalf("student feed: %v", err)
	}
	if stPage.Total != 1 || stPage.Items[0].Title != "Consultation Approved" {
		t.Fatalf("student feed = %+v", stPage.Items)
	}

	// Ленты получателей не пересекаются.
	cross, err := env.notices.ListFor(ctx, model.AudienceStudent, faculty, 1, 10)
	if err != nil {
		t.Fatalf("cross feed: %v", err)
	}
	if cross.Total != 0 {
		t.Fatalf("cross feed total = %d, want 0", cross.Total)
	}
}

func TestMarkAllRead_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := env.seedUser(t, consult.RoleFaculty, "Dr. Reyes")
	subject := env.seedSubject(t, faculty, "Algorithms")
	slot := env.seedSlot(t, faculty, subject, 3)

	for i := 1; i <= 2; i++ {
		student := env.seedUser(t, consult.RoleStudent, "Student")
		if _, err := env.bookings.CreateBooking(ctx, student, CreateBookingInput{
			FacultyID: faculty, SubjectID: subject, SlotID: slot, Ordinal: i,
		}); err != nil {
			t.Fatalf("create booking %d: %v", i, err)
		}
	}

	count, err := env.notices.UnreadCount(ctx, model.AudienceFaculty, faculty)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if count != 2 {
		t.Fatalf("unread = %d, want 2", count)
	}

	for i := 0; i < 2; i++ {
		if err := env.notices.MarkAllRead(ctx, model.AudienceFaculty, faculty); err != nil {
			t.Fatalf("mark all read (pass %d): %v", i+1, err)
		}
	}

	count, err = env.notices.UnreadCount(ctx, model.AudienceFaculty, faculty)
	if err != nil {
		t.Fatalf("unread after: %v", err)
	}
	if count != 0 {
		t.Fatalf("unread after = %d, want 0", count)
	}
}

func TestReconcile_BackfillsMissingNotices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	faculty := env.seedUser(t, consult.RoleFaculty, "Dr. Reyes")
	subject := env.seedSubject(t, faculty, "Algorithms")
	slot := env.seedSlot(t, faculty, subject, 2)
	student := env.seedUser(t, consult.RoleStudent, "Alice")

	b, err := env.bookings.CreateBooking(ctx, student, CreateBookingInput{
		FacultyID: faculty, SubjectID: subject, SlotID: slot, Ordinal: 1,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := env.bookings.SetStatus(ctx, faculty, b.ID, consult.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Симулируем потерю обеих записей ленты.
	if err := env.db.Exec(`DELETE FROM notifications`).Error; err != nil {
		t.Fatalf("drop notices: %v", err)
	}

	if err := env.notices.Reconcile(ctx); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	fc, err := env.notices.UnreadCount(ctx, model.AudienceFaculty, faculty)
	if err != nil {
		t.Fatalf("faculty unread: %v", err)
	}
	sc, err := env.notices.UnreadCount(ctx, model.AudienceStudent, student)
	if err != nil {
		t.Fatalf("student unread: %v", err)
	}
	if fc != 1 || sc != 1 {
		t.Fatalf("backfilled unread = %d/%d, want 1/1", fc, sc)
	}

	// Повторный запуск ничего не добавляет.
	if err := env.notices.Reconcile(ctx); err != nil {
		t.Fatalf("reconcile again: %v", err)
	}
	fc, _ = env.notices.UnreadCount(ctx, model.AudienceFaculty, faculty)
	sc, _ = env.notices.UnreadCount(ctx, model.AudienceStudent, student)
	if fc != 1 || sc != 1 {
		t.Fatalf("reconcile not idempotent: %d/%d", fc, sc)
	}

	// Дозаписанные ленты видны и контрольной проверке по заявке.
	repo := repository.NewGormNotificationRepository(env.db)
	for _, audience := range []model.NotificationAudience{model.AudienceFaculty, model.AudienceStudent} {
		exists, err := repo.ExistsForBooking(ctx, audience, b.ID.String())
		if err != nil {
			t.Fatalf("exists for %s: %v", audience, err)
		}
		if !exists {
			t.Fatalf("no %s notice recorded for booking", audience)
		}
	}
}
