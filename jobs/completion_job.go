package jobs

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/ncastellanos/telesalud/database"
	"github.com/ncastellanos/telesalud/models"
)

// Appointments are auto-completed once they have been over for this long,
// in case the doctor never marks them manually.
const completionGrace = 10 * time.Minute

type upcomingRow struct {
	ID                  uuid.UUID
	Date                time.Time
	SlotDurationMinutes int
}

// pastDue reports whether an appointment that started at date with the
// given slot duration ended more than completionGrace before now.
func pastDue(date time.Time, slotDurationMinutes int, now time.Time) bool {
	end := date.Add(time.Duration(slotDurationMinutes) * time.Minute)
	return end.Before(now.Add(-completionGrace))
}

func CompletePastAppointments() {
	log.Println("Running job: CompletePastAppointments...")

	now := time.Now()

	var upcoming []upcomingRow
	err := database.DB.
		Model(&models.Appointment{}).
		Select("appointments.id, appointments.date, doctors.slot_duration_minutes").
		Joins("JOIN doctors ON doctors.user_id = appointments.doctor_id").
		Where("appointments.status = ?", models.AppointmentUpcoming).
		Scan(&upcoming).Error
	if err != nil {
		log.Printf("Error looking for past appointments: %v", err)
		return
	}

	completed := 0
	for _, row := range upcoming {
		if !pastDue(row.Date, row.SlotDurationMinutes, now) {
			continue
		}
		err := database.DB.
			Model(&models.Appointment{}).
			Where("id = ? AND status = ?", row.ID, models.AppointmentUpcoming).
			Update("status", models.AppointmentCompleted).Error
		if err != nil {
			log.Printf("Error completing appointment %s: %v", row.ID, err)
			continue
		}
		completed++
	}

	if completed == 0 {
		log.Println("No past appointments to complete.")
		return
	}
	log.Printf("Marked %d appointment(s) as completed.", completed)
}
