package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ncastellanos/telesalud/handlers"
	"github.com/ncastellanos/telesalud/middleware"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("/me", handlers.GetProfile)
	profile.Post("/patient", handlers.CreatePatientProfile)
	profile.Post("/doctor", handlers.CreateDoctorProfile)
}
