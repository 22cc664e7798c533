package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/handler/middleware"
	"github.com/facultydesk/consultation-core/internal/handler/response"
	"github.com/facultydesk/consultation-core/internal/service"
)

// ScheduleHandler обслуживает каталог окон консультаций.
type ScheduleHandler struct {
	schedule *service.ScheduleService
}

func NewScheduleHandler(schedule *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

type createSlotRequest struct {
	SubjectID string `json:"subject_id" validate:"required,uuid"`
	Weekday   string `json:"weekday" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Location  string `json:"location"`
	MaxSeats  int    `json:"max_seats" validate:"omitempty,min=1"`
}

type updateSlotRequest struct {
	Weekday   *string `json:"weekday"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Location  *string `json:"location"`
	MaxSeats  *int    `json:"max_seats" validate:"omitempty,min=1"`
}

// CreateSlot — POST /slots (преподаватель).
func (h *ScheduleHandler) CreateSlot(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req createSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return response.BadRequest(c, "Invalid subject id")
	}
	weekday, err := consult.ParseWeekday(req.Weekday)
	if err != nil {
		return response.DomainError(c, err)
	}
	start, err := consult.ParseMinuteOfDay(req.StartTime)
	if err != nil {
		return response.DomainError(c, err)
	}
	end, err := consult.ParseMinuteOfDay(req.EndTime)
	if err != nil {
		return response.DomainError(c, err)
	}

	slot, err := h.schedule.CreateSlot(c.UserContext(), actorID, service.CreateSlotInput{
		SubjectID: subjectID,
		Weekday:   weekday,
		Start:     start,
		End:       end,
		Location:  req.Location,
		MaxSeats:  req.MaxSeats,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, slot)
}

// UpdateSlot — PATCH /slots/:id (владеющий преподаватель).
func (h *ScheduleHandler) UpdateSlot(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	slotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid slot id")
	}

	var req updateSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	patch := service.UpdateSlotPatch{
		Location: req.Location,
		MaxSeats: req.MaxSeats,
	}
	if req.Weekday != nil {
		weekday, err := consult.ParseWeekday(*req.Weekday)
		if err != nil {
			return response.DomainError(c, err)
		}
		patch.Weekday = &weekday
	}
	if req.StartTime != nil {
		start, err := consult.ParseMinuteOfDay(*req.StartTime)
		if err != nil {
			return response.DomainError(c, err)
		}
		patch.Start = &start
	}
	if req.EndTime != nil {
		end, err := consult.ParseMinuteOfDay(*req.EndTime)
		if err != nil {
			return response.DomainError(c, err)
		}
		patch.End = &end
	}

	slot, err := h.schedule.UpdateSlot(c.UserContext(), actorID, slotID, patch)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, slot)
}

// DeleteSlot — DELETE /slots/:id (владеющий преподаватель).
func (h *ScheduleHandler) DeleteSlot(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	slotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid slot id")
	}

	if err := h.schedule.DeleteSlot(c.UserContext(), actorID, slotID); err != nil {
		return response.DomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSlot — GET /slots/:id.
func (h *ScheduleHandler) GetSlot(c *fiber.Ctx) error {
	slotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid slot id")
	}

	slot, err := h.schedule.GetSlot(c.UserContext(), slotID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, slot)
}

// ListFacultySlots — GET /faculty/:id/slots.
func (h *ScheduleHandler) ListFacultySlots(c *fiber.Ctx) error {
	facultyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid faculty id")
	}

	slots, err := h.schedule.ListForFaculty(c.UserContext(), facultyID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, slots)
}

// ListSubjectSlots — GET /subjects/:id/slots.
func (h *ScheduleHandler) ListSubjectSlots(c *fiber.Ctx) error {
	subjectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid subject id")
	}

	slots, err := h.schedule.ListForSubject(c.UserContext(), subjectID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, slots)
}

// UpcomingOccurrences — GET /slots/:id/upcoming?from=&to= (RFC3339).
// По умолчанию — ближайшие четыре недели.
func (h *ScheduleHandler) UpcomingOccurrences(c *fiber.Ctx) error {
	slotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid slot id")
	}

	from := time.Now().UTC()
	to := from.AddDate(0, 0, 28)
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			return response.BadRequest(c, "Invalid 'from' timestamp")
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			return response.BadRequest(c, "Invalid 'to' timestamp")
		}
	}

	occurrences, err := h.schedule.UpcomingOccurrences(c.UserContext(), slotID, from, to)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, occurrences)
}
