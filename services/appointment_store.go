package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ncastellanos/telesalud/models"
	"gorm.io/gorm"
)

// AppointmentStore is the persistence boundary for the booking core. The
// booking service never touches the database directly; it is handed one of
// these instead. The implementation must guarantee that Create fails with
// ErrDuplicateAppointment when another non-cancelled appointment already
// holds the same (doctor, date) pair, even under concurrent calls — the
// application-level conflict pre-check is only an early exit.
type AppointmentStore interface {
	GetPatient(ctx context.Context, userID uuid.UUID) (*models.Patient, error)
	GetDoctor(ctx context.Context, userID uuid.UUID) (*models.Doctor, error)

	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	FindConflicting(ctx context.Context, doctorID uuid.UUID, date time.Time) (*models.Appointment, error)
	FindInRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]models.Appointment, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]models.Appointment, error)

	Create(ctx context.Context, appointment *models.Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Appointment, error)
}

type gormAppointmentStore struct {
	db *gorm.DB
}

// NewAppointmentStore returns the Postgres-backed store. Conflict
// atomicity comes from the partial unique index on (doctor_id, date)
// created in database.Migrate; gorm's error translation turns the
// violation into gorm.ErrDuplicatedKey, which is mapped here.
func NewAppointmentStore(db *gorm.DB) AppointmentStore {
	return &gormAppointmentStore{db: db}
}

func (s *gormAppointmentStore) GetPatient(ctx context.Context, userID uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	err := s.db.WithContext(ctx).Preload("User").First(&patient, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &patient, nil
}

func (s *gormAppointmentStore) GetDoctor(ctx context.Context, userID uuid.UUID) (*models.Doctor, error) {
	var doctor models.Doctor
	err := s.db.WithContext(ctx).Preload("User").Preload("Schedule").First(&doctor, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

func (s *gormAppointmentStore) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func (s *gormAppointmentStore) FindConflicting(ctx context.Context, doctorID uuid.UUID, date time.Time) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date, models.AppointmentCancelled).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (s *gormAppointmentStore) FindInRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date >= ? AND date < ? AND status <> ?",
			doctorID, start, end, models.AppointmentCancelled).
		Order("date asc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *gormAppointmentStore) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("date desc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *gormAppointmentStore) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Patient.User").
		Where("doctor_id = ?", doctorID).
		Order("date desc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *gormAppointmentStore) Create(ctx context.Context, appointment *models.Appointment) error {
	err := s.db.WithContext(ctx).Create(appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateAppointment
		}
		return err
	}
	return nil
}

func (s *gormAppointmentStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", to)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Either the appointment is gone or it already left `from`.
			var exists int64
			if err := tx.Model(&models.Appointment{}).Where("id = ?", id).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return ErrAppointmentNotFound
			}
			return ErrInvalidTransition
		}
		return tx.First(&appointment, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}
