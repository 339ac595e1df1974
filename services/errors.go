package services

import "errors"

// Booking and schedule errors. All are returned synchronously to the
// immediate caller; nothing here is retried automatically.
var (
	// ErrInvalidSchedule means a weekly schedule is malformed (an active day
	// with start >= end, a duplicate weekday, or an unparseable time).
	ErrInvalidSchedule = errors.New("invalid weekly schedule")

	// ErrInvalidSlotDuration means the configured slot duration is not a
	// positive number of minutes. Rejected at schedule-save time so slot
	// generation never has to deal with it.
	ErrInvalidSlotDuration = errors.New("slot duration must be a positive number of minutes")

	// ErrProfileNotFound means the referenced patient or doctor profile
	// does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrSlotUnavailable means another non-cancelled appointment already
	// occupies the requested timestamp. The message is what the booking UI
	// shows to the patient.
	ErrSlotUnavailable = errors.New("este horario ya no está disponible")

	// ErrDuplicateAppointment is returned by the appointment store when the
	// storage-level uniqueness constraint rejects a create. The booking
	// service translates it to ErrSlotUnavailable.
	ErrDuplicateAppointment = errors.New("appointment already exists for this doctor and time")

	// ErrPersistence wraps store failures unrelated to a slot conflict.
	ErrPersistence = errors.New("persistence failure")

	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidTransition means a status change other than
	// upcoming -> completed or upcoming -> cancelled was attempted.
	ErrInvalidTransition = errors.New("invalid appointment status transition")

	// ErrNotOwner means the acting user is neither side of the appointment.
	ErrNotOwner = errors.New("appointment does not belong to this user")
)
