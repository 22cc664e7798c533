package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/handler/middleware"
	"github.com/facultydesk/consultation-core/internal/handler/response"
	"github.com/facultydesk/consultation-core/internal/service"
)

// BookingHandler обслуживает журнал заявок и заполненность слотов.
type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	FacultyID string `json:"faculty_id" validate:"required,uuid"`
	SubjectID string `json:"subject_id" validate:"required,uuid"`
	SlotID    string `json:"slot_id" validate:"required,uuid"`
	Ordinal   int    `json:"ordinal" validate:"required,min=1"`
	Purpose   string `json:"purpose"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type setPurposeRequest struct {
	Purpose string `json:"purpose" validate:"required"`
}

// CreateBooking — POST /bookings (студент).
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	facultyID, _ := uuid.Parse(req.FacultyID)
	subjectID, _ := uuid.Parse(req.SubjectID)
	slotID, _ := uuid.Parse(req.SlotID)

	booking, err := h.bookings.CreateBooking(c.UserContext(), actorID, service.CreateBookingInput{
		FacultyID: facultyID,
		SubjectID: subjectID,
		SlotID:    slotID,
		Ordinal:   req.Ordinal,
		Purpose:   req.Purpose,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, booking)
}

// SetStatus — POST /bookings/:id/status (владеющий преподаватель).
func (h *BookingHandler) SetStatus(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid booking id")
	}

	var req setStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	booking, err := h.bookings.SetStatus(c.UserContext(), actorID, bookingID, consult.BookingStatus(req.Status))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, booking)
}

// SetPurpose — PATCH /bookings/:id/purpose (владеющий студент, только approved).
func (h *BookingHandler) SetPurpose(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid booking id")
	}

	var req setPurposeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	booking, err := h.bookings.SetPurpose(c.UserContext(), actorID, bookingID, req.Purpose)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, booking)
}

// ListMine — GET /bookings/mine: лента инициатора в зависимости от роли.
func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	role, _ := middleware.ActorRole(c)

	var (
		bookings interface{}
		err      error
	)
	switch role {
	case consult.RoleFaculty:
		bookings, err = h.bookings.ListForFaculty(c.UserContext(), actorID)
	default:
		bookings, err = h.bookings.ListForStudent(c.UserContext(), actorID)
	}
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, bookings)
}

// ListAll — GET /bookings?status=&page=&page_size= (админский отчёт).
func (h *BookingHandler) ListAll(c *fiber.Ctx) error {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	status := consult.BookingStatus(c.Query("status"))

	result, err := h.bookings.ListAll(c.UserContext(), actorID, status, page, pageSize)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, result)
}

// GetOccupancy — GET /slots/:id/occupancy.
func (h *BookingHandler) GetOccupancy(c *fiber.Ctx) error {
	slotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid slot id")
	}

	occupancy, err := h.bookings.GetOccupancy(c.UserContext(), slotID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, occupancy)
}
