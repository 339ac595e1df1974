package services

import (
	"time"

	"github.com/ncastellanos/telesalud/models"
)

// GenerateSlots computes the bookable start times for one doctor on one
// day. It is pure: the same schedule, day, appointments and "now" always
// produce the same ascending sequence, and nothing is cached between
// calls. Every caller that shows or validates availability goes through
// this one function so the UI and the server can never disagree.
//
// A candidate is kept while its start is strictly before the window's end,
// so a slot may run past the end of the working window (08:00-09:00 with
// 30-minute slots yields 08:00 and 08:30, never 09:00). Candidates at or
// before now are dropped, as is any candidate whose timestamp exactly
// equals a non-cancelled appointment.
func GenerateSlots(doctor *models.Doctor, day time.Time, taken []models.Appointment, now time.Time) ([]time.Time, error) {
	if doctor.SlotDurationMinutes <= 0 {
		return nil, ErrInvalidSlotDuration
	}

	loc := DoctorLocation(doctor)
	day = day.In(loc)

	startClock, endClock, ok := ActiveWindow(doctor.Schedule, int(day.Weekday()))
	if !ok {
		return []time.Time{}, nil
	}

	startMinutes, err := parseClock(startClock)
	if err != nil {
		return nil, ErrInvalidSchedule
	}
	endMinutes, err := parseClock(endClock)
	if err != nil {
		return nil, ErrInvalidSchedule
	}
	if startMinutes >= endMinutes {
		return []time.Time{}, nil
	}

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	windowStart := midnight.Add(time.Duration(startMinutes) * time.Minute)
	windowEnd := midnight.Add(time.Duration(endMinutes) * time.Minute)

	busy := make(map[int64]bool, len(taken))
	for _, appointment := range taken {
		if appointment.Status == models.AppointmentCancelled {
			continue
		}
		busy[appointment.Date.Unix()] = true
	}

	step := time.Duration(doctor.SlotDurationMinutes) * time.Minute
	slots := make([]time.Time, 0)
	for current := windowStart; current.Before(windowEnd); current = current.Add(step) {
		if !current.After(now) {
			continue
		}
		if busy[current.Unix()] {
			continue
		}
		slots = append(slots, current)
	}

	return slots, nil
}
