package models

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	UserID            uuid.UUID `gorm:"primary_key" json:"user_id"`
	Specialty         string    `gorm:"size:100" json:"specialty"`
	LicenseNumber     *string   `gorm:"size:50" json:"license_number"`
	Bio               *string   `gorm:"type:text" json:"bio"`
	ConsultationPrice float64   `gorm:"type:numeric(10,2);default:0.00" json:"consultation_price"`
	Status            string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	// IANA zone name; schedule wall-clock times are interpreted in this zone.
	TimeZone string `gorm:"size:100;not null;default:'UTC'" json:"time_zone"`

	SlotDurationMinutes int            `gorm:"not null;default:30" json:"slot_duration_minutes"`
	Schedule            []ScheduleSlot `gorm:"foreignkey:DoctorID" json:"schedule"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
