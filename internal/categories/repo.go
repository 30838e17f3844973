package categories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-press/inkwell/internal/shared"
)

// Repository defines persistence operations for categories.
type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Create(ctx context.Context, c Category) (*Category, error)
	Update(ctx context.Context, c Category) (*Category, error)
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

const categoryColumns = `id, name, slug, description, color, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) List(ctx context.Context, activeOnly bool) ([]Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PGRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug))
}

func (r *PGRepository) Create(ctx context.Context, c Category) (*Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `INSERT INTO categories (id, name, slug, description, color, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+categoryColumns,
		c.ID, c.Name, c.Slug, c.Description, c.Color, c.IsActive, c.CreatedAt, c.UpdatedAt))
}

func (r *PGRepository) Update(ctx context.Context, c Category) (*Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `UPDATE categories SET name = $2, slug = $3, description = $4, color = $5, is_active = $6, updated_at = $7 WHERE id = $1 RETURNING `+categoryColumns,
		c.ID, c.Name, c.Slug, c.Description, c.Color, c.IsActive, c.UpdatedAt))
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
