package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/facultydesk/consultation-core/internal/handler/middleware"
	"github.com/facultydesk/consultation-core/internal/handler/response"
)

var validate = validator.New()

// Register подключает все маршруты ядра под /api/v1.
// Чтение каталога слотов открыто, остальное — за Bearer-токеном.
func Register(
	app *fiber.App,
	auth *middleware.AuthMiddleware,
	schedule *ScheduleHandler,
	bookings *BookingHandler,
	notifications *NotificationHandler,
) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return response.Success(c, fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	// Открытая витрина доступности.
	v1.Get("/slots/:id", schedule.GetSlot)
	v1.Get("/slots/:id/upcoming", schedule.UpcomingOccurrences)
	v1.Get("/slots/:id/occupancy", bookings.GetOccupancy)
	v1.Get("/faculty/:id/slots", schedule.ListFacultySlots)
	v1.Get("/subjects/:id/slots", schedule.ListSubjectSlots)

	authed := v1.Group("", auth.Required())

	authed.Post("/slots", schedule.CreateSlot)
	authed.Patch("/slots/:id", schedule.UpdateSlot)
	authed.Delete("/slots/:id", schedule.DeleteSlot)

	authed.Post("/bookings", bookings.CreateBooking)
	authed.Post("/bookings/:id/status", bookings.SetStatus)
	authed.Patch("/bookings/:id/purpose", bookings.SetPurpose)
	authed.Get("/bookings/mine", bookings.ListMine)
	authed.Get("/bookings", bookings.ListAll)

	authed.Get("/notifications", notifications.List)
	authed.Get("/notifications/unread-count", notifications.UnreadCount)
	authed.Post("/notifications/read-all", notifications.MarkAllRead)
}
