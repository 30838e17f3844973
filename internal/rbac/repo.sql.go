package rbac

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore provides PostgreSQL backed persistence for role assignments.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PGStore.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// FindByPrincipal returns the assignment for a principal. Duplicate rows for
// one principal are a data anomaly; the oldest row wins.
func (s *PGStore) FindByPrincipal(ctx context.Context, principalID string) (Assignment, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, principal_id, role, created_at, updated_at FROM role_assignments WHERE principal_id = $1 ORDER BY created_at ASC LIMIT 1`, principalID)
	var a Assignment
	if err := row.Scan(&a.ID, &a.PrincipalID, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, err
	}
	return a, nil
}

// Insert stores a new assignment.
func (s *PGStore) Insert(ctx context.Context, a Assignment) (Assignment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `INSERT INTO role_assignments (id, principal_id, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id, principal_id, role, created_at, updated_at`,
		a.ID, a.PrincipalID, a.Role, a.CreatedAt, a.UpdatedAt)
	var stored Assignment
	if err := row.Scan(&stored.ID, &stored.PrincipalID, &stored.Role, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
		return Assignment{}, err
	}
	return stored, nil
}

// Update rewrites the role of an existing assignment.
func (s *PGStore) Update(ctx context.Context, id string, role Role, updatedAt time.Time) (Assignment, error) {
	row := s.pool.QueryRow(ctx, `UPDATE role_assignments SET role = $2, updated_at = $3 WHERE id = $1 RETURNING id, principal_id, role, created_at, updated_at`, id, string(role), updatedAt)
	var stored Assignment
	if err := row.Scan(&stored.ID, &stored.PrincipalID, &stored.Role, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, err
	}
	return stored, nil
}

// List returns all assignments ordered by creation time.
func (s *PGStore) List(ctx context.Context) ([]Assignment, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, principal_id, role, created_at, updated_at FROM role_assignments ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.PrincipalID, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ AssignmentStore = (*PGStore)(nil)
