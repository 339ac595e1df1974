package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ncastellanos/telesalud/handlers"
	"github.com/ncastellanos/telesalud/middleware"
)

func DoctorRoutes(app *fiber.App, h *handlers.AppointmentHandler) {
	api := app.Group("/api/v1")

	doctor := api.Group("/doctor", middleware.Protected(), middleware.DoctorRequired())
	doctor.Get("/schedule", handlers.GetMySchedule)
	doctor.Put("/schedule", handlers.UpdateMySchedule)
	doctor.Get("/appointments", h.GetDoctorAppointments)
	doctor.Post("/appointments/:appointmentId/complete", h.CompleteAppointment)
}
