package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ncastellanos/telesalud/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-06-03 is a Monday.
var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func mondayMorningDoctor(duration int) *models.Doctor {
	return &models.Doctor{
		UserID:              uuid.New(),
		TimeZone:            "UTC",
		SlotDurationMinutes: duration,
		Schedule: []models.ScheduleSlot{
			weeklySlot(1, "08:00", "09:00", true),
		},
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 3, hour, minute, 0, 0, time.UTC)
}

func TestGenerateSlots_Boundary(t *testing.T) {
	doctor := mondayMorningDoctor(30)

	slots, err := GenerateSlots(doctor, monday, nil, at(7, 0))
	require.NoError(t, err)

	// A slot is kept while its start is before the window's end, so the
	// would-be 09:00 slot never appears.
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Equal(at(8, 0)))
	assert.True(t, slots[1].Equal(at(8, 30)))
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	doctor := &models.Doctor{
		UserID:              uuid.New(),
		TimeZone:            "UTC",
		SlotDurationMinutes: 20,
		Schedule: []models.ScheduleSlot{
			weeklySlot(1, "08:00", "12:00", true),
		},
	}
	taken := []models.Appointment{
		{DoctorID: doctor.UserID, Date: at(8, 40), Status: models.AppointmentUpcoming},
	}

	first, err := GenerateSlots(doctor, monday, taken, at(6, 0))
	require.NoError(t, err)
	second, err := GenerateSlots(doctor, monday, taken, at(6, 0))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Before(first[i]), "slots must be ascending")
	}
}

func TestGenerateSlots_PastSlotsExcluded(t *testing.T) {
	doctor := mondayMorningDoctor(30)

	slots, err := GenerateSlots(doctor, monday, nil, at(8, 15))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Equal(at(8, 30)))

	// A slot starting exactly at now is not bookable either.
	slots, err = GenerateSlots(doctor, monday, nil, at(8, 30))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_InactiveDayIsEmpty(t *testing.T) {
	doctor := mondayMorningDoctor(30)

	sunday := monday.AddDate(0, 0, -1)
	slots, err := GenerateSlots(doctor, sunday, nil, at(0, 0).AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_TakenSlotExcluded(t *testing.T) {
	doctor := mondayMorningDoctor(30)
	taken := []models.Appointment{
		{DoctorID: doctor.UserID, Date: at(8, 0), Status: models.AppointmentUpcoming},
	}

	slots, err := GenerateSlots(doctor, monday, taken, at(7, 0))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Equal(at(8, 30)))
}

func TestGenerateSlots_CancelledAppointmentFreesSlot(t *testing.T) {
	doctor := mondayMorningDoctor(30)
	taken := []models.Appointment{
		{DoctorID: doctor.UserID, Date: at(8, 0), Status: models.AppointmentCancelled},
	}

	slots, err := GenerateSlots(doctor, monday, taken, at(7, 0))
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestGenerateSlots_InvalidDurationFailsFast(t *testing.T) {
	_, err := GenerateSlots(mondayMorningDoctor(0), monday, nil, at(7, 0))
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)

	_, err = GenerateSlots(mondayMorningDoctor(-30), monday, nil, at(7, 0))
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)
}

func TestGenerateSlots_FullDefaultDay(t *testing.T) {
	doctor := &models.Doctor{
		UserID:              uuid.New(),
		TimeZone:            "UTC",
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		Schedule:            DefaultSchedule(uuid.New()),
	}

	slots, err := GenerateSlots(doctor, monday, nil, at(0, 0))
	require.NoError(t, err)

	// 08:00-17:00 at 30 minutes is 18 slots.
	require.Len(t, slots, 18)
	assert.True(t, slots[0].Equal(at(8, 0)))
	assert.True(t, slots[17].Equal(at(16, 30)))
}

func TestGenerateSlots_UsesDoctorTimeZone(t *testing.T) {
	doctor := &models.Doctor{
		UserID:              uuid.New(),
		TimeZone:            "America/Mexico_City",
		SlotDurationMinutes: 30,
		Schedule: []models.ScheduleSlot{
			weeklySlot(1, "08:00", "09:00", true),
		},
	}

	loc := DoctorLocation(doctor)
	localMidnight := time.Date(2024, 6, 3, 0, 0, 0, 0, loc)

	slots, err := GenerateSlots(doctor, localMidnight, nil, localMidnight)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// 08:00 in Mexico City is 14:00 UTC.
	assert.Equal(t, 14, slots[0].UTC().Hour())
}

func TestGenerateSlots_ExactTimestampMatchOnly(t *testing.T) {
	doctor := mondayMorningDoctor(30)

	// One minute off the slot boundary does not block the slot.
	taken := []models.Appointment{
		{DoctorID: doctor.UserID, Date: at(8, 1), Status: models.AppointmentUpcoming},
	}

	slots, err := GenerateSlots(doctor, monday, taken, at(7, 0))
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}
