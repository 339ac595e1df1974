package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ncastellanos/telesalud/handlers"
	"github.com/ncastellanos/telesalud/middleware"
)

func AppointmentRoutes(app *fiber.App, h *handlers.AppointmentHandler) {
	api := app.Group("/api/v1")

	// Availability is public so a patient can browse before signing in.
	api.Get("/appointments/doctor/:doctorId", h.GetDoctorAvailability)
	api.Get("/appointments/doctor/:doctorId/slots", h.GetDoctorSlots)

	booking := api.Group("/appointments", middleware.Protected())
	booking.Post("/book", middleware.PatientRequired(), h.BookAppointment)
	booking.Get("/me", middleware.PatientRequired(), h.GetMyAppointments)
	booking.Post("/:appointmentId/cancel", h.CancelAppointment)
}
