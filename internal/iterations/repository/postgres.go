package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/owenjoycecoughlan/Offsets/internal/iterations/domain"
)

// IterationRepository provides Postgres persistence for iterations.
type IterationRepository struct {
	db *sql.DB
}

func NewIterationRepository(db *sql.DB) *IterationRepository {
	return &IterationRepository{db: db}
}

const iterationColumns = `id, name, description, start_date, end_date, is_active`

func scanIteration(row interface{ Scan(...any) error }) (*domain.Iteration, error) {
	var (
		it          domain.Iteration
		description sql.NullString
		endDate     sql.NullTime
	)
	err := row.Scan(&it.ID, &it.Name, &description, &it.StartDate, &endDate, &it.IsActive)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		it.Description = &description.String
	}
	if endDate.Valid {
		t := endDate.Time
		it.EndDate = &t
	}
	return &it, nil
}

// Active returns the single active iteration. Its absence is a bootstrap
// condition callers treat as fatal in steady state.
func (r *IterationRepository) Active(ctx context.Context) (*domain.Iteration, error) {
	q := `SELECT ` + iterationColumns + ` FROM iterations WHERE is_active ORDER BY start_date DESC LIMIT 1;`
	it, err := scanIteration(r.db.QueryRowContext(ctx, q))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIterationNotFound
		}
		return nil, err
	}
	return it, nil
}

func (r *IterationRepository) Get(ctx context.Context, id string) (*domain.Iteration, error) {
	q := `SELECT ` + iterationColumns + ` FROM iterations WHERE id = $1;`
	it, err := scanIteration(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIterationNotFound
		}
		return nil, err
	}
	return it, nil
}

// List returns all iterations, newest start first, annotated with their
// node counts.
func (r *IterationRepository) List(ctx context.Context) ([]domain.Iteration, error) {
	const q = `
SELECT i.id, i.name, i.description, i.start_date, i.end_date, i.is_active,
       count(n.id) AS node_count
FROM iterations i
LEFT JOIN nodes n ON n.iteration_id = i.id
GROUP BY i.id
ORDER BY i.start_date DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Iteration, 0, 8)
	for rows.Next() {
		var (
			it          domain.Iteration
			description sql.NullString
			endDate     sql.NullTime
		)
		err := rows.Scan(&it.ID, &it.Name, &description, &it.StartDate, &endDate,
			&it.IsActive, &it.NodeCount)
		if err != nil {
			return nil, err
		}
		if description.Valid {
			it.Description = &description.String
		}
		if endDate.Valid {
			t := endDate.Time
			it.EndDate = &t
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// StartNew deactivates the current active iteration (tolerating none on
// first call) and inserts the new active one, all in one transaction.
func (r *IterationRepository) StartNew(ctx context.Context, name string, description *string, now time.Time) (*domain.Iteration, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const deactivate = `UPDATE iterations SET is_active = false, end_date = $1 WHERE is_active;`
	if _, err := tx.ExecContext(ctx, deactivate, now); err != nil {
		return nil, fmt.Errorf("failed to deactivate current iteration: %w", err)
	}

	insert := `
INSERT INTO iterations (id, name, description, start_date, is_active)
VALUES ($1, $2, $3, $4, true)
RETURNING ` + iterationColumns + `;`
	it, err := scanIteration(tx.QueryRowContext(ctx, insert, uuid.New().String(), name, description, now))
	if err != nil {
		return nil, fmt.Errorf("failed to insert iteration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return it, nil
}
