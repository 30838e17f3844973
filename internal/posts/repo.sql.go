package posts

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-press/inkwell/internal/platform/db"
	"github.com/inkwell-press/inkwell/internal/shared"
)

// PGRepository implements Repository using PostgreSQL. Tags are kept in a
// post_tags join table against the tags table.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const postColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.status, p.author_id,
       COALESCE(p.category_id::text, ''), COALESCE(p.featured_media_id::text, ''),
       COALESCE((SELECT ARRAY_AGG(t.slug ORDER BY t.slug) FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id = p.id), '{}'),
       p.created_at, p.updated_at`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Status, &p.AuthorID,
		&p.CategoryID, &p.FeaturedMediaID, &p.Tags, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List builds the filtered query dynamically; every filter is optional.
func (r *PGRepository) List(ctx context.Context, f Filter) ([]Post, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	n := 0

	if f.Status != "" {
		n++
		where += ` AND p.status = $` + strconv.Itoa(n)
		args = append(args, string(f.Status))
	}
	if f.AuthorID != "" {
		n++
		where += ` AND p.author_id = $` + strconv.Itoa(n)
		args = append(args, f.AuthorID)
	}
	if f.CategorySlug != "" {
		n++
		where += ` AND p.category_id = (SELECT id FROM categories WHERE slug = $` + strconv.Itoa(n) + `)`
		args = append(args, f.CategorySlug)
	}
	if f.TagSlug != "" {
		n++
		where += ` AND EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id = p.id AND t.slug = $` + strconv.Itoa(n) + `)`
		args = append(args, f.TagSlug)
	}
	if f.Search != "" {
		n++
		where += ` AND (p.title ILIKE $` + strconv.Itoa(n) + ` OR p.content ILIKE $` + strconv.Itoa(n) + `)`
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + postColumns + ` FROM posts p` + where + ` ORDER BY p.created_at DESC`
	page := shared.NewPagination(f.Page, f.PerPage, total)
	n++
	query += ` LIMIT $` + strconv.Itoa(n)
	args = append(args, page.PerPage)
	n++
	query += ` OFFSET $` + strconv.Itoa(n)
	args = append(args, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *PGRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.slug = $1`, slug))
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
}

func (r *PGRepository) Create(ctx context.Context, p Post) (*Post, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO posts (id, title, slug, content, excerpt, status, author_id, category_id, featured_media_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::uuid, NULLIF($9, '')::uuid, $10, $11)`,
			p.ID, p.Title, p.Slug, p.Content, p.Excerpt, string(p.Status), p.AuthorID, p.CategoryID, p.FeaturedMediaID, p.CreatedAt, p.UpdatedAt); err != nil {
			return err
		}
		return r.syncTags(ctx, tx, p.ID, p.Tags)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, p.ID)
}

func (r *PGRepository) Update(ctx context.Context, p Post) (*Post, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE posts SET title = $2, slug = $3, content = $4, excerpt = $5, status = $6, category_id = NULLIF($7, '')::uuid, featured_media_id = NULLIF($8, '')::uuid, updated_at = $9 WHERE id = $1`,
			p.ID, p.Title, p.Slug, p.Content, p.Excerpt, string(p.Status), p.CategoryID, p.FeaturedMediaID, p.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return r.syncTags(ctx, tx, p.ID, p.Tags)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, p.ID)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// syncTags replaces the post's tag links with the given tag slugs. Unknown
// slugs are ignored rather than failing the write.
func (r *PGRepository) syncTags(ctx context.Context, tx pgx.Tx, postID string, tagSlugs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return err
	}
	if len(tagSlugs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `INSERT INTO post_tags (post_id, tag_id) SELECT $1, id FROM tags WHERE slug = ANY($2)`, postID, tagSlugs)
	return err
}

var _ Repository = (*PGRepository)(nil)
