package tags

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-press/inkwell/internal/shared"
)

// Repository defines persistence operations for tags.
type Repository interface {
	List(ctx context.Context) ([]Tag, error)
	GetBySlug(ctx context.Context, slug string) (*Tag, error)
	Create(ctx context.Context, t Tag) (*Tag, error)
	Update(ctx context.Context, t Tag) (*Tag, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const tagSelect = `
SELECT t.id, t.name, t.slug, t.color,
       (SELECT COUNT(*) FROM post_tags pt WHERE pt.tag_id = t.id) AS usage_count,
       t.created_at, t.updated_at
FROM tags t`

func scanTag(row pgx.Row) (*Tag, error) {
	var t Tag
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &t.UsageCount, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) List(ctx context.Context) ([]Tag, error) {
	rows, err := r.pool.Query(ctx, tagSelect+` ORDER BY usage_count DESC, t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *PGRepository) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	return scanTag(r.pool.QueryRow(ctx, tagSelect+` WHERE t.slug = $1`, slug))
}

func (r *PGRepository) Create(ctx context.Context, t Tag) (*Tag, error) {
	if _, err := r.pool.Exec(ctx, `INSERT INTO tags (id, name, slug, color, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, t.Slug, t.Color, t.CreatedAt, t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) Update(ctx context.Context, t Tag) (*Tag, error) {
	if _, err := r.pool.Exec(ctx, `UPDATE tags SET name = $2, slug = $3, color = $4, updated_at = $5 WHERE id = $1`,
		t.ID, t.Name, t.Slug, t.Color, t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
