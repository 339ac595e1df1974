package models

import (
	"github.com/google/uuid"
)

// ScheduleSlot is one weekday's working window in a doctor's recurring
// weekly schedule. At most one row per (doctor, weekday).
type ScheduleSlot struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID `gorm:"not null;uniqueIndex:idx_schedule_slots_doctor_day" json:"-"`
	DayOfWeek int       `gorm:"not null;uniqueIndex:idx_schedule_slots_doctor_day" json:"day_of_week"` // 0 = Sunday
	StartTime string    `gorm:"size:5;not null" json:"start_time"`                                     // "HH:MM"
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`                                       // "HH:MM"
	IsActive  bool      `gorm:"not null;default:false" json:"is_active"`
}
