package comments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-press/inkwell/internal/shared"
)

// Repository defines persistence operations for comments.
type Repository interface {
	ListByPost(ctx context.Context, postID string) ([]Comment, error)
	GetByID(ctx context.Context, id string) (*Comment, error)
	Create(ctx context.Context, c Comment) (*Comment, error)
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

const commentColumns = `id, post_id, author_id, content, created_at`

func scanComment(row pgx.Row) (*Comment, error) {
	var c Comment
	if err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) ListByPost(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY created_at ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *PGRepository) Create(ctx context.Context, c Comment) (*Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `INSERT INTO comments (id, post_id, author_id, content, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING `+commentColumns,
		c.ID, c.PostID, c.AuthorID, c.Content, c.CreatedAt))
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
