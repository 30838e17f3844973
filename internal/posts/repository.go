package posts

import "context"

// Repository defines persistence operations for posts.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Post, int, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, p Post) (*Post, error)
	Update(ctx context.Context, p Post) (*Post, error)
	Delete(ctx context.Context, id string) error
}
