package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/handler/middleware"
	"github.com/facultydesk/consultation-core/internal/handler/response"
	"github.com/facultydesk/consultation-core/internal/model"
	"github.com/facultydesk/consultation-core/internal/service"
)

// NotificationHandler обслуживает ленты уведомлений получателей.
type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// audienceForRole выбирает ленту по роли инициатора.
func audienceForRole(role consult.UserRole) (model.NotificationAudience, bool) {
	switch role {
	case consult.RoleFaculty:
		return model.AudienceFaculty, true
	case consult.RoleStudent:
		return model.AudienceStudent, true
	default:
		return "", false
	}
}

// List — GET /notifications?page=&page_size=, новые сверху.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	role, _ := middleware.ActorRole(c)
	audience, ok := audienceForRole(role)
	if !ok {
		return response.BadRequest(c, "Role has no notification feed")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	feed, err := h.notifications.ListFor(c.UserContext(), audience, actorID, page, pageSize)
	if err != nil {
		return response.DomainError(c, err)
	}

	unread, err := h.notifications.UnreadCount(c.UserContext(), audience, actorID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, fiber.Map{
		"notifications": feed.Items,
		"page":          feed.Page,
		"page_size":     feed.PageSize,
		"total":         feed.Total,
		"has_next":      feed.HasNext,
		"unread_count":  unread,
	})
}

// UnreadCount — GET /notifications/unread-count.
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	role, _ := middleware.ActorRole(c)
	audience, ok := audienceForRole(role)
	if !ok {
		return response.BadRequest(c, "Role has no notification feed")
	}

	unread, err := h.notifications.UnreadCount(c.UserContext(), audience, actorID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"unread_count": unread})
}

// MarkAllRead — POST /notifications/read-all. Идемпотентен.
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	role, _ := middleware.ActorRole(c)
	audience, ok := audienceForRole(role)
	if !ok {
		return response.BadRequest(c, "Role has no notification feed")
	}

	if err := h.notifications.MarkAllRead(c.UserContext(), audience, actorID); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "All notifications marked as read"})
}
