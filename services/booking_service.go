package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ncastellanos/telesalud/models"
)

// BookingService is the single authority that turns a booking request into
// a committed appointment or a typed rejection. The store is injected so
// nothing in here depends on a global database handle.
type BookingService struct {
	store AppointmentStore
}

func NewBookingService(store AppointmentStore) *BookingService {
	return &BookingService{store: store}
}

type BookingInput struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Date      time.Time
	Price     float64
	Type      string
	Notes     string
}

// Book validates and commits one appointment with status "upcoming".
//
// The requested timestamp must be one of the slots the generator would
// offer for that day, so the server accepts exactly what availability
// callers are shown: on-boundary, on an active day, in the future, and
// not already taken. The conflict pre-check is an early exit only; the
// real no-double-booking guarantee is the store's uniqueness constraint,
// so a concurrent request that slips past the pre-check still fails at
// Create and is reported the same way.
func (s *BookingService) Book(ctx context.Context, in BookingInput, now time.Time) (*models.Appointment, error) {
	if _, err := s.store.GetPatient(ctx, in.PatientID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	doctor, err := s.store.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	existing, err := s.store.FindConflicting(ctx, in.DoctorID, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing != nil {
		return nil, ErrSlotUnavailable
	}

	if err := s.checkSlotOffered(ctx, doctor, in.Date, now); err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		DoctorID:  in.DoctorID,
		PatientID: in.PatientID,
		Date:      in.Date,
		Status:    models.AppointmentUpcoming,
		Price:     in.Price,
		Type:      in.Type,
		Notes:     in.Notes,
	}
	if err := s.store.Create(ctx, appointment); err != nil {
		if errors.Is(err, ErrDuplicateAppointment) {
			// Lost the race to a concurrent booking.
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return appointment, nil
}

// checkSlotOffered rejects any timestamp the slot generator would not
// offer for that day: off-boundary times, inactive days, and times that
// are already in the past all come back as ErrSlotUnavailable.
func (s *BookingService) checkSlotOffered(ctx context.Context, doctor *models.Doctor, date, now time.Time) error {
	loc := DoctorLocation(doctor)
	local := date.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	taken, err := s.store.FindInRange(ctx, doctor.UserID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	slots, err := GenerateSlots(doctor, local, taken, now)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		if slot.Equal(date) {
			return nil
		}
	}
	return ErrSlotUnavailable
}

// Complete transitions upcoming -> completed. Only the appointment's
// doctor may complete it, and only once the consultation has ended.
func (s *BookingService) Complete(ctx context.Context, appointmentID, doctorID uuid.UUID, now time.Time) (*models.Appointment, error) {
	appointment, err := s.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotOwner
	}
	if appointment.Status != models.AppointmentUpcoming {
		return nil, ErrInvalidTransition
	}

	doctor, err := s.store.GetDoctor(ctx, appointment.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	end := appointment.Date.Add(time.Duration(doctor.SlotDurationMinutes) * time.Minute)
	if end.After(now) {
		return nil, fmt.Errorf("%w: consultation has not ended yet", ErrInvalidTransition)
	}

	return s.updateStatus(ctx, appointmentID, models.AppointmentCompleted)
}

// Cancel transitions upcoming -> cancelled. Either side of the
// appointment may cancel; the freed slot becomes bookable again because
// cancelled rows are excluded from conflict checks.
func (s *BookingService) Cancel(ctx context.Context, appointmentID, actorID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if appointment.PatientID != actorID && appointment.DoctorID != actorID {
		return nil, ErrNotOwner
	}
	if appointment.Status != models.AppointmentUpcoming {
		return nil, ErrInvalidTransition
	}

	return s.updateStatus(ctx, appointmentID, models.AppointmentCancelled)
}

func (s *BookingService) updateStatus(ctx context.Context, appointmentID uuid.UUID, to string) (*models.Appointment, error) {
	updated, err := s.store.UpdateStatus(ctx, appointmentID, models.AppointmentUpcoming, to)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return updated, nil
}
