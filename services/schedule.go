package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ncastellanos/telesalud/models"
)

const DefaultSlotDurationMinutes = 30

// parseClock parses a strict "HH:MM" wall-clock string into minutes
// since midnight.
func parseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	return h*60 + m, nil
}

// ValidateSchedule checks a full weekly schedule before it is saved.
// Inactive days are not validated beyond parseability of what they carry;
// a missing weekday simply means the doctor is closed that day.
func ValidateSchedule(slots []models.ScheduleSlot, slotDurationMinutes int) error {
	if slotDurationMinutes <= 0 {
		return ErrInvalidSlotDuration
	}

	seen := make(map[int]bool, len(slots))
	for _, slot := range slots {
		if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
			return fmt.Errorf("%w: day_of_week %d out of range", ErrInvalidSchedule, slot.DayOfWeek)
		}
		if seen[slot.DayOfWeek] {
			return fmt.Errorf("%w: duplicate entry for day_of_week %d", ErrInvalidSchedule, slot.DayOfWeek)
		}
		seen[slot.DayOfWeek] = true

		if !slot.IsActive {
			continue
		}

		start, err := parseClock(slot.StartTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		end, err := parseClock(slot.EndTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		if start >= end {
			return fmt.Errorf("%w: start %s is not before end %s on day %d",
				ErrInvalidSchedule, slot.StartTime, slot.EndTime, slot.DayOfWeek)
		}
	}
	return nil
}

// ActiveWindow returns the working window for a weekday, or ok=false when
// the day is missing or inactive.
func ActiveWindow(slots []models.ScheduleSlot, dayOfWeek int) (start, end string, ok bool) {
	for _, slot := range slots {
		if slot.DayOfWeek == dayOfWeek && slot.IsActive {
			return slot.StartTime, slot.EndTime, true
		}
	}
	return "", "", false
}

// DefaultSchedule is what a newly registered doctor starts with:
// Monday to Friday 08:00-17:00, weekends closed.
func DefaultSchedule(doctorID uuid.UUID) []models.ScheduleSlot {
	slots := make([]models.ScheduleSlot, 0, 7)
	for day := 0; day <= 6; day++ {
		slot := models.ScheduleSlot{
			DoctorID:  doctorID,
			DayOfWeek: day,
			StartTime: "08:00",
			EndTime:   "17:00",
			IsActive:  day >= 1 && day <= 5,
		}
		slots = append(slots, slot)
	}
	return slots
}

// DoctorLocation resolves the doctor's declared IANA time zone. Schedule
// wall-clock times are always interpreted in this zone, never in the host
// process's local zone. Unset or unloadable zones fall back to UTC.
func DoctorLocation(doctor *models.Doctor) *time.Location {
	if doctor.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(doctor.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
