// Package medicines provides the PostgreSQL-backed medicine repository.
// Dosing times are kept in a JSONB column.
package medicines

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/medreminder/internal/common"
	"github.com/dmitrijs2005/medreminder/internal/dbx"
	"github.com/dmitrijs2005/medreminder/internal/server/models"
	"github.com/google/uuid"
)

const columns = `id, name, compartment, number, times, user_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Replace upserts on the compartment key, so a concurrent Replace for the
// same compartment can never leave two rows behind.
func (r *PostgresRepository) Replace(ctx context.Context, m *models.Medicine) (*models.Medicine, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	times, err := json.Marshal(m.Time)
	if err != nil {
		return nil, fmt.Errorf("encode times: %w", err)
	}

	query := `
		INSERT INTO medicines (id, name, compartment, number, times, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (compartment)
		DO UPDATE SET
			id = EXCLUDED.id,
			name = EXCLUDED.name,
			number = EXCLUDED.number,
			times = EXCLUDED.times,
			user_id = EXCLUDED.user_id
		RETURNING ` + columns

	row := r.db.QueryRowContext(ctx, query, m.ID, m.Name, m.Compartment, m.Number, string(times), m.UserID)
	saved, err := scanMedicine(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}

// ListByUser returns the user's medicines ordered by compartment.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Medicine, error) {
	query := `SELECT ` + columns + ` FROM medicines
		WHERE user_id = $1
		ORDER BY compartment`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select medicines: %w", err)
	}
	defer rows.Close()

	result := []*models.Medicine{}
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Decrement(ctx context.Context, userID string, compartment int, floorAtZero bool) (*models.Medicine, error) {
	set := `number = number - 1`
	if floorAtZero {
		set = `number = CASE WHEN number > 0 THEN number - 1 ELSE number END`
	}

	query := `UPDATE medicines SET ` + set + `
		WHERE user_id = $1 AND compartment = $2
		RETURNING ` + columns

	m, err := scanMedicine(r.db.QueryRowContext(ctx, query, userID, compartment))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// DeleteByCompartment removes every medicine in the compartment, whoever owns
// it, and reports how many rows went away.
func (r *PostgresRepository) DeleteByCompartment(ctx context.Context, compartment int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE compartment = $1`, compartment)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMedicine(s scanner) (*models.Medicine, error) {
	var (
		m     models.Medicine
		times []byte
	)
	if err := s.Scan(&m.ID, &m.Name, &m.Compartment, &m.Number, &times, &m.UserID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(times, &m.Time); err != nil {
		return nil, fmt.Errorf("decode times: %w", err)
	}
	return &m, nil
}
