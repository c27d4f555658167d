package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/medreminder/internal/common"
	"github.com/dmitrijs2005/medreminder/internal/dbx"
	"github.com/dmitrijs2005/medreminder/internal/logging"
	"github.com/dmitrijs2005/medreminder/internal/server/archive"
	"github.com/dmitrijs2005/medreminder/internal/server/config"
	"github.com/dmitrijs2005/medreminder/internal/server/metrics"
	"github.com/dmitrijs2005/medreminder/internal/server/models"
	"github.com/dmitrijs2005/medreminder/internal/server/repositories/repomanager"
)

// CreateMedicineInput is the create-medicine payload. Pointers distinguish a
// missing number from zero pills.
type CreateMedicineInput struct {
	Name        string   `json:"name" validate:"min=3"`
	Compartment *int     `json:"compartment" validate:"required,gte=1"`
	Number      *int     `json:"number" validate:"required,gte=0,lte=30"`
	Time        []string `json:"time" validate:"min=1,max=3"`
}

// DecreaseInput is the decrease-medicine payload sent by the dispenser.
type DecreaseInput struct {
	UserID      string `json:"userID" validate:"min=10"`
	Compartment *int   `json:"compartment" validate:"required,gte=1,lte=3"`
}

// MedicineService manages compartments, pill counts and reminders.
type MedicineService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archiver    archive.Archiver
	metrics     *metrics.Metrics
	logger      logging.Logger
	floorAtZero bool
}

func NewMedicineService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	a archive.Archiver, mt *metrics.Metrics, l logging.Logger) *MedicineService {
	return &MedicineService{
		db:          db,
		repomanager: m,
		archiver:    a,
		metrics:     mt,
		logger:      l.With("module", "medicines"),
		floorAtZero: cfg.DecreasePolicy == config.PolicyFloorZero,
	}
}

// Create puts a new medicine owned by user into a compartment, replacing
// whatever was there before, whoever owned it.
func (s *MedicineService) Create(ctx context.Context, user *models.User, in CreateMedicineInput) (*models.Medicine, error) {
	if user == nil {
		return nil, common.ErrUnauthorized
	}
	if err := check(in); err != nil {
		return nil, err
	}

	m, err := s.repomanager.Medicines(s.db).Replace(ctx, &models.Medicine{
		Name:        in.Name,
		Compartment: *in.Compartment,
		Number:      *in.Number,
		Time:        in.Time,
		UserID:      user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	s.metrics.MedicinesCreated.Inc()
	s.logger.Info(ctx, "medicine placed", "compartment", m.Compartment, "user_id", m.UserID)
	return m, nil
}

// Decrease records one dispensed dose: the count drops by one and a reminder
// is written, both in one transaction. An unknown user/compartment pair is
// reported as invalid input.
func (s *MedicineService) Decrease(ctx context.Context, in DecreaseInput) error {
	if err := check(in); err != nil {
		return err
	}

	var reminder *models.Reminder
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		m, err := s.repomanager.Medicines(tx).Decrement(ctx, in.UserID, *in.Compartment, s.floorAtZero)
		if err != nil {
			return err
		}
		reminder, err = s.repomanager.Reminders(tx).Create(ctx, m.Compartment)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: no medicine in compartment %d", common.ErrInvalidInput, *in.Compartment)
		}
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	s.metrics.DosesDispensed.WithLabelValues(strconv.Itoa(reminder.Compartment)).Inc()

	if err := s.archiver.Archive(ctx, reminder); err != nil {
		s.metrics.ArchiveFailures.Inc()
		s.logger.Warn(ctx, "reminder not archived", "reminder_id", reminder.ID, "error", err)
	}
	return nil
}

// GetMedicine returns the dispensing schedule of a user's medicines.
func (s *MedicineService) GetMedicine(ctx context.Context, userID string) ([]models.Schedule, error) {
	list, err := s.GetUserMedicine(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.Schedule, 0, len(list))
	for _, m := range list {
		result = append(result, models.Schedule{Compartment: m.Compartment, Time: m.Time})
	}
	return result, nil
}

// GetUserMedicine returns a user's medicines; common.ErrNotFound for an
// unknown user.
func (s *MedicineService) GetUserMedicine(ctx context.Context, userID string) ([]*models.Medicine, error) {
	if _, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	list, err := s.repomanager.Medicines(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return list, nil
}

func (s *MedicineService) GetReminders(ctx context.Context) ([]*models.Reminder, error) {
	list, err := s.repomanager.Reminders(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return list, nil
}

// Delete empties a compartment regardless of owner. Deleting an empty
// compartment succeeds.
func (s *MedicineService) Delete(ctx context.Context, compartment int) error {
	n, err := s.repomanager.Medicines(s.db).DeleteByCompartment(ctx, compartment)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	s.logger.Info(ctx, "compartment emptied", "compartment", compartment, "deleted", n)
	return nil
}
