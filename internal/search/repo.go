// Package search implements post search with request collapsing and a
// short-lived Redis cache in front of postgres.
package search

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Result is one search hit.
type Result struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Slug     string    `json:"slug"`
	Excerpt  string    `json:"excerpt,omitempty"`
	AuthorID string    `json:"author_id"`
	Posted   time.Time `json:"posted"`
}

// Store runs the underlying search query.
type Store interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// PGStore implements Store with websearch_to_tsquery over active posts,
// falling back to substring match for single terms.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PGStore.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, title, slug, excerpt, author_id, created_at
FROM posts
WHERE status = 'active'
  AND (to_tsvector('english', title || ' ' || content) @@ websearch_to_tsquery('english', $1)
       OR title ILIKE '%' || $1 || '%')
ORDER BY created_at DESC
LIMIT $2`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Title, &r.Slug, &r.Excerpt, &r.AuthorID, &r.Posted); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ Store = (*PGStore)(nil)
