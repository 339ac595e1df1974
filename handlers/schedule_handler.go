package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ncastellanos/telesalud/database"
	"github.com/ncastellanos/telesalud/models"
	"github.com/ncastellanos/telesalud/services"
	"gorm.io/gorm"
)

func GetMySchedule(c *fiber.Ctx) error {
	doctorID, _, err := claimsUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var doctor models.Doctor
	if err := database.DB.Preload("Schedule").Where("user_id = ?", doctorID).First(&doctor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Doctor profile not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"slot_duration_minutes": doctor.SlotDurationMinutes,
			"schedule":              doctor.Schedule,
		},
	})
}

type WeeklySlotRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	IsActive  bool   `json:"is_active"`
}

type UpdateScheduleRequest struct {
	SlotDurationMinutes int                 `json:"slot_duration_minutes" validate:"required"`
	Slots               []WeeklySlotRequest `json:"slots" validate:"required,max=7,dive"`
}

// UpdateMySchedule replaces the doctor's weekly schedule wholesale. The
// schedule is validated up front so a bad slot duration can never reach
// the slot generator.
func UpdateMySchedule(c *fiber.Ctx) error {
	doctorID, _, err := claimsUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var req UpdateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var doctor models.Doctor
	if err := database.DB.Where("user_id = ?", doctorID).First(&doctor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Doctor profile not found"})
	}

	slots := make([]models.ScheduleSlot, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, models.ScheduleSlot{
			DoctorID:  doctorID,
			DayOfWeek: s.DayOfWeek,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			IsActive:  s.IsActive,
		})
	}

	if err := services.ValidateSchedule(slots, req.SlotDurationMinutes); err != nil {
		if errors.Is(err, services.ErrInvalidSchedule) || errors.Is(err, services.ErrInvalidSlotDuration) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to validate schedule"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.ScheduleSlot{}).Error; err != nil {
			return err
		}
		if len(slots) > 0 {
			if err := tx.Create(&slots).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Doctor{}).
			Where("user_id = ?", doctorID).
			Update("slot_duration_minutes", req.SlotDurationMinutes).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to update schedule"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"slot_duration_minutes": req.SlotDurationMinutes,
			"schedule":              slots,
		},
	})
}
