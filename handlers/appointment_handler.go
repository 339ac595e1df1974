package handlers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ncastellanos/telesalud/services"
)

var validate = validator.New()

// AppointmentHandler exposes the booking subsystem over HTTP. The booking
// service and store are injected at startup rather than reached through
// package globals.
type AppointmentHandler struct {
	service *services.BookingService
	store   services.AppointmentStore
}

func NewAppointmentHandler(service *services.BookingService, store services.AppointmentStore) *AppointmentHandler {
	return &AppointmentHandler{service: service, store: store}
}

type BookAppointmentRequest struct {
	DoctorID string  `json:"doctor_id" validate:"required,uuid"`
	Date     string  `json:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Type     string  `json:"type" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Notes    string  `json:"notes"`
}

func (h *AppointmentHandler) BookAppointment(c *fiber.Ctx) error {
	patientID, _, err := claimsUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var req BookAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	doctorID, _ := uuid.Parse(req.DoctorID)
	date, _ := time.Parse(time.RFC3339, req.Date)

	appointment, err := h.service.Book(c.UserContext(), services.BookingInput{
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		Price:     req.Price,
		Type:      req.Type,
		Notes:     req.Notes,
	}, time.Now())
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": appointment})
}

// GetDoctorAvailability returns the doctor (with weekly schedule) and the
// non-cancelled appointments in the requested range, which is everything a
// caller needs to compute or display availability.
func (h *AppointmentHandler) GetDoctorAvailability(c *fiber.Ctx) error {
	doctorID, err := uuid.Parse(c.Params("doctorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid doctor id"})
	}

	start := time.Now()
	end := start.AddDate(0, 0, 7)
	if raw := c.Query("start"); raw != "" {
		start, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid start timestamp"})
		}
		end = start.AddDate(0, 0, 7)
	}
	if raw := c.Query("end"); raw != "" {
		end, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid end timestamp"})
		}
	}
	if !start.Before(end) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Range start must be before end"})
	}

	doctor, err := h.store.GetDoctor(c.UserContext(), doctorID)
	if err != nil {
		return serviceError(c, err)
	}

	appointments, err := h.store.FindInRange(c.UserContext(), doctorID, start, end)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"doctor":       doctor,
			"appointments": appointments,
		},
	})
}

// GetDoctorSlots returns the bookable start times for one date, produced
// by the shared slot generator.
func (h *AppointmentHandler) GetDoctorSlots(c *fiber.Ctx) error {
	doctorID, err := uuid.Parse(c.Params("doctorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid doctor id"})
	}

	doctor, err := h.store.GetDoctor(c.UserContext(), doctorID)
	if err != nil {
		return serviceError(c, err)
	}

	loc := services.DoctorLocation(doctor)
	day, err := time.ParseInLocation("2006-01-02", c.Query("date"), loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid or missing date, expected YYYY-MM-DD"})
	}

	taken, err := h.store.FindInRange(c.UserContext(), doctorID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return serviceError(c, err)
	}

	slots, err := services.GenerateSlots(doctor, day, taken, time.Now())
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"doctor_id": doctorID,
			"date":      day.Format("2006-01-02"),
			"slots":     slots,
		},
	})
}

func (h *AppointmentHandler) GetMyAppointments(c *fiber.Ctx) error {
	patientID, _, err := claimsUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	appointments, err := h.store.ListForPatient(c.UserContext(), patientID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": appointments})
}

func (h *AppointmentHandler) GetDoctorAppointments(c *fiber.Ctx) error {
	doctorID, _, err := claimsUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	appointments, err := h.store.ListForDoctor(c.UserContext(), doctorID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": appointments})
}

func (h *AppointmentHandler) CancelAppointment(c *fiber.Ctx) error {
	actorID, _, err := claimsUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	appointmentID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid appointment id"})
	}

	appointment, err := h.service.Cancel(c.UserContext(), appointmentID, actorID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": appointment})
}

func (h *AppointmentHandler) CompleteAppointment(c *fiber.Ctx) error {
	doctorID, _, err := claimsUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	appointmentID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid appointment id"})
	}

	appointment, err := h.service.Complete(c.UserContext(), appointmentID, doctorID, time.Now())
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": appointment})
}

// serviceError maps the booking error taxonomy onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrAppointmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrSlotUnavailable),
		errors.Is(err, services.ErrInvalidSchedule),
		errors.Is(err, services.ErrInvalidSlotDuration),
		errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Internal server error"})
	}
}
