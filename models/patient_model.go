package models

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	UserID      uuid.UUID  `gorm:"primary_key" json:"user_id"`
	PhoneNumber *string    `gorm:"size:30" json:"phone_number"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	BloodType   *string    `gorm:"size:5" json:"blood_type"`
	Allergies   *string    `gorm:"type:text" json:"allergies"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
