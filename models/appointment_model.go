package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AppointmentUpcoming  = "upcoming"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is one booked consultation. Date is the exact start
// timestamp and, together with DoctorID, is immutable after creation.
// A partial unique index on (doctor_id, date) for non-cancelled rows
// (see database.Migrate) is what actually prevents double-booking.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	Date      time.Time `gorm:"not null" json:"date"`
	Status    string    `gorm:"size:20;not null;default:'upcoming'" json:"status"`
	Price     float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Type      string    `gorm:"size:50" json:"type"`
	Notes     string    `gorm:"type:text" json:"notes"`

	Doctor  Doctor  `gorm:"foreignkey:DoctorID;references:UserID" json:"doctor,omitempty"`
	Patient Patient `gorm:"foreignkey:PatientID;references:UserID" json:"patient,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
