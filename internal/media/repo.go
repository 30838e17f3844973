package media

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-press/inkwell/internal/shared"
)

// Repository defines persistence operations for media metadata.
type Repository interface {
	Get(ctx context.Context, id string) (*File, error)
	Create(ctx context.Context, f File) (*File, error)
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

const fileColumns = `id, owner_id, file_name, content_type, size_bytes, storage_key, created_at`

func scanFile(row pgx.Row) (*File, error) {
	var f File
	if err := row.Scan(&f.ID, &f.OwnerID, &f.FileName, &f.ContentType, &f.SizeBytes, &f.StorageKey, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGRepository) Get(ctx context.Context, id string) (*File, error) {
	return scanFile(r.pool.QueryRow(ctx, `SELECT `+fileColumns+` FROM media_files WHERE id = $1`, id))
}

func (r *PGRepository) Create(ctx context.Context, f File) (*File, error) {
	return scanFile(r.pool.QueryRow(ctx, `INSERT INTO media_files (id, owner_id, file_name, content_type, size_bytes, storage_key, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+fileColumns,
		f.ID, f.OwnerID, f.FileName, f.ContentType, f.SizeBytes, f.StorageKey, f.CreatedAt))
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM media_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
