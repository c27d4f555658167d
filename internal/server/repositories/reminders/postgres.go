// Package reminders provides the PostgreSQL-backed reminder repository.
package reminders

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medreminder/internal/dbx"
	"github.com/dmitrijs2005/medreminder/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, compartment int) (*models.Reminder, error) {
	rem := &models.Reminder{ID: uuid.NewString(), Compartment: compartment}

	query :=
		`INSERT INTO reminders (id, compartment)
		 VALUES ($1, $2)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, rem.ID, rem.Compartment).Scan(&rem.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rem, nil
}

// List returns every reminder, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, compartment, created_at FROM reminders ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select reminders: %w", err)
	}
	defer rows.Close()

	result := []*models.Reminder{}
	for rows.Next() {
		var item models.Reminder
		if err := rows.Scan(&item.ID, &item.Compartment, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
