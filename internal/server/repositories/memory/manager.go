// Package memory keeps users, medicines and reminders in process memory. It
// satisfies repomanager.RepositoryManager and backs tests that need the real
// services without PostgreSQL.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/medreminder/internal/common"
	"github.com/dmitrijs2005/medreminder/internal/dbx"
	"github.com/dmitrijs2005/medreminder/internal/server/models"
	"github.com/dmitrijs2005/medreminder/internal/server/repositories/medicines"
	"github.com/dmitrijs2005/medreminder/internal/server/repositories/reminders"
	"github.com/dmitrijs2005/medreminder/internal/server/repositories/users"
	"github.com/google/uuid"
)

// Store holds the rows. The *Err fields, when set, are returned by every call
// on the matching repository.
type Store struct {
	mu        sync.Mutex
	Users     map[string]*models.User
	Medicines map[int]*models.Medicine
	Reminders []*models.Reminder

	UsersErr     error
	MedicinesErr error
	RemindersErr error
}

func NewStore() *Store {
	return &Store{
		Users:     map[string]*models.User{},
		Medicines: map[int]*models.Medicine{},
	}
}

// RepositoryManager hands out repositories over one Store. The DBTX argument
// is ignored, so writes made inside dbx.WithTx are not rolled back.
type RepositoryManager struct {
	store *Store
}

func NewRepositoryManager(s *Store) *RepositoryManager {
	return &RepositoryManager{store: s}
}

func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *RepositoryManager) Users(dbx.DBTX) users.Repository { return (*userRepo)(m.store) }

func (m *RepositoryManager) Medicines(dbx.DBTX) medicines.Repository {
	return (*medicineRepo)(m.store)
}

func (m *RepositoryManager) Reminders(dbx.DBTX) reminders.Repository {
	return (*reminderRepo)(m.store)
}

type userRepo Store

func (r *userRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UsersErr != nil {
		return nil, r.UsersErr
	}
	for _, x := range r.Users {
		if x.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	c := *u
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	r.Users[c.ID] = &c
	out := c
	return &out, nil
}

func (r *userRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UsersErr != nil {
		return nil, r.UsersErr
	}
	for _, x := range r.Users {
		if x.Email == email {
			c := *x
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *userRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UsersErr != nil {
		return nil, r.UsersErr
	}
	x, ok := r.Users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *x
	return &c, nil
}

type medicineRepo Store

// Replace evicts whatever occupies the compartment.
func (r *medicineRepo) Replace(_ context.Context, m *models.Medicine) (*models.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.MedicinesErr != nil {
		return nil, r.MedicinesErr
	}
	c := *m
	c.ID = uuid.NewString()
	r.Medicines[c.Compartment] = &c
	out := c
	return &out, nil
}

func (r *medicineRepo) ListByUser(_ context.Context, userID string) ([]*models.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.MedicinesErr != nil {
		return nil, r.MedicinesErr
	}
	out := []*models.Medicine{}
	for _, m := range r.Medicines {
		if m.UserID == userID {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compartment < out[j].Compartment })
	return out, nil
}

func (r *medicineRepo) Decrement(_ context.Context, userID string, compartment int, floorAtZero bool) (*models.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.MedicinesErr != nil {
		return nil, r.MedicinesErr
	}
	m, ok := r.Medicines[compartment]
	if !ok || m.UserID != userID {
		return nil, common.ErrNotFound
	}
	if !floorAtZero || m.Number > 0 {
		m.Number--
	}
	c := *m
	return &c, nil
}

func (r *medicineRepo) DeleteByCompartment(_ context.Context, compartment int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.MedicinesErr != nil {
		return 0, r.MedicinesErr
	}
	if _, ok := r.Medicines[compartment]; !ok {
		return 0, nil
	}
	delete(r.Medicines, compartment)
	return 1, nil
}

type reminderRepo Store

func (r *reminderRepo) Create(_ context.Context, compartment int) (*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.RemindersErr != nil {
		return nil, r.RemindersErr
	}
	rem := &models.Reminder{ID: uuid.NewString(), Compartment: compartment, CreatedAt: time.Now()}
	r.Reminders = append(r.Reminders, rem)
	c := *rem
	return &c, nil
}

// List returns reminders in insertion order, which is created_at order.
func (r *reminderRepo) List(context.Context) ([]*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.RemindersErr != nil {
		return nil, r.RemindersErr
	}
	out := make([]*models.Reminder, 0, len(r.Reminders))
	for _, rem := range r.Reminders {
		c := *rem
		out = append(out, &c)
	}
	return out, nil
}
