package profiles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-press/inkwell/internal/shared"
)

// Repository defines persistence operations for profiles.
type Repository interface {
	Get(ctx context.Context, principalID string) (*Profile, error)
	Upsert(ctx context.Context, p Profile) (*Profile, error)
	Delete(ctx context.Context, principalID string) error
}

// PGRepository implements Repository using PostgreSQL. Social links live in
// a jsonb column.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const profileColumns = `principal_id, display_name, bio, COALESCE(avatar_media_id::text, ''), website, location, social_links, is_public, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.PrincipalID, &p.DisplayName, &p.Bio, &p.AvatarMediaID, &p.Website, &p.Location, &p.SocialLinks, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) Get(ctx context.Context, principalID string) (*Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE principal_id = $1`, principalID))
}

func (r *PGRepository) Upsert(ctx context.Context, p Profile) (*Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `
INSERT INTO profiles (principal_id, display_name, bio, avatar_media_id, website, location, social_links, is_public, created_at, updated_at)
VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, $10)
ON CONFLICT (principal_id) DO UPDATE SET
  display_name = EXCLUDED.display_name,
  bio = EXCLUDED.bio,
  avatar_media_id = EXCLUDED.avatar_media_id,
  website = EXCLUDED.website,
  location = EXCLUDED.location,
  social_links = EXCLUDED.social_links,
  is_public = EXCLUDED.is_public,
  updated_at = EXCLUDED.updated_at
RETURNING `+profileColumns,
		p.PrincipalID, p.DisplayName, p.Bio, p.AvatarMediaID, p.Website, p.Location, p.SocialLinks, p.IsPublic, p.CreatedAt, p.UpdatedAt))
}

func (r *PGRepository) Delete(ctx context.Context, principalID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE principal_id = $1`, principalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
