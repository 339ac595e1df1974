package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/ncastellanos/telesalud/database"
	"github.com/ncastellanos/telesalud/models"
	"github.com/ncastellanos/telesalud/services"
	"gorm.io/gorm"
)

// Identity comes from the external auth provider's token; these handlers
// only materialize the marketplace profile rows the booking engine needs.

// claimsUser extracts the authenticated user id from the verified token.
// A signed token can still be missing or carrying a malformed user_id
// claim, so every lookup is checked instead of asserted.
func claimsUser(c *fiber.Ctx) (uuid.UUID, jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, nil, errors.New("missing token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, nil, errors.New("unexpected claims format")
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, nil, errors.New("token has no user_id claim")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, nil, errors.New("user_id claim is not a valid id")
	}
	return userID, claims, nil
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": err.Error()})
}

func upsertUser(tx *gorm.DB, userID uuid.UUID, claims jwt.MapClaims, role string) error {
	fullName, _ := claims["full_name"].(string)
	email, _ := claims["email"].(string)

	user := models.User{
		ID:       userID,
		FullName: fullName,
		Email:    email,
		Role:     role,
	}
	return tx.Where("id = ?", userID).FirstOrCreate(&user).Error
}

type CreatePatientProfileRequest struct {
	PhoneNumber *string `json:"phone_number,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BloodType   *string `json:"blood_type,omitempty"`
	Allergies   *string `json:"allergies,omitempty"`
}

func CreatePatientProfile(c *fiber.Ctx) error {
	userID, claims, err := claimsUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var req CreatePatientProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var existing models.Patient
	err = database.DB.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "error": "Patient profile already exists"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Database error"})
	}

	patient := models.Patient{
		UserID:      userID,
		PhoneNumber: req.PhoneNumber,
		BloodType:   req.BloodType,
		Allergies:   req.Allergies,
	}
	if req.DateOfBirth != nil {
		dob, _ := time.Parse("2006-01-02", *req.DateOfBirth)
		patient.DateOfBirth = &dob
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := upsertUser(tx, userID, claims, "patient"); err != nil {
			return err
		}
		return tx.Create(&patient).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to create patient profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": patient})
}

type CreateDoctorProfileRequest struct {
	Specialty         string  `json:"specialty" validate:"required"`
	LicenseNumber     *string `json:"license_number,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	ConsultationPrice float64 `json:"consultation_price" validate:"gte=0"`
	TimeZone          string  `json:"time_zone,omitempty"`
}

// CreateDoctorProfile registers the doctor and seeds the default weekly
// schedule: Monday-Friday 08:00-17:00, weekends closed, 30-minute slots.
func CreateDoctorProfile(c *fiber.Ctx) error {
	userID, claims, err := claimsUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var req CreateDoctorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	timeZone := req.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}
	if _, err := time.LoadLocation(timeZone); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Unknown time zone"})
	}

	var existing models.Doctor
	err = database.DB.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "error": "Doctor profile already exists"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Database error"})
	}

	doctor := models.Doctor{
		UserID:              userID,
		Specialty:           req.Specialty,
		LicenseNumber:       req.LicenseNumber,
		Bio:                 req.Bio,
		ConsultationPrice:   req.ConsultationPrice,
		TimeZone:            timeZone,
		SlotDurationMinutes: services.DefaultSlotDurationMinutes,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := upsertUser(tx, userID, claims, "doctor"); err != nil {
			return err
		}
		if err := tx.Create(&doctor).Error; err != nil {
			return err
		}
		slots := services.DefaultSchedule(userID)
		return tx.Create(&slots).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to create doctor profile"})
	}

	database.DB.Preload("Schedule").First(&doctor, "user_id = ?", userID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": doctor})
}

func GetProfile(c *fiber.Ctx) error {
	userID, _, err := claimsUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	data := fiber.Map{"user": user}

	switch user.Role {
	case "patient":
		var patient models.Patient
		if err := database.DB.Where("user_id = ?", userID).First(&patient).Error; err == nil {
			data["patient"] = patient
		}
	case "doctor":
		var doctor models.Doctor
		if err := database.DB.Preload("Schedule").Where("user_id = ?", userID).First(&doctor).Error; err == nil {
			data["doctor"] = doctor
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}
