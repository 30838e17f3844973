package posts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/inkwell-press/inkwell/internal/platform/db"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

var (
	// ErrSlugTaken indicates a post with the same slug already exists.
	ErrSlugTaken = errors.New("posts: slug already in use")
	// ErrNotAuthor indicates the actor may not modify someone else's post.
	ErrNotAuthor = errors.New("posts: not the author")
	// ErrInvalidStatus indicates a status outside active/draft.
	ErrInvalidStatus = errors.New("posts: invalid status")
)

// TaskEnqueuer enqueues background tasks. Satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service wraps post business rules.
type Service struct {
	repo    Repository
	tasks   TaskEnqueuer
	reindex func() *asynq.Task
	logger  *slog.Logger
}

// NewService constructs a Service. tasks may be nil in tests; reindex builds
// the cache-warm task enqueued after every publish-visible write.
func NewService(repo Repository, tasks TaskEnqueuer, reindex func() *asynq.Task, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tasks: tasks, reindex: reindex, logger: logger}
}

// Input carries the writable post fields.
type Input struct {
	Title           string
	Content         string
	Excerpt         string
	Status          Status
	CategoryID      string
	FeaturedMediaID string
	Tags            []string
}

// ListPublic returns active posts only, with optional taxonomy filters.
func (s *Service) ListPublic(ctx context.Context, f Filter) ([]Post, shared.Pagination, error) {
	f.Status = StatusActive
	return s.list(ctx, f)
}

// ListMine returns the actor's own posts in any status.
func (s *Service) ListMine(ctx context.Context, authorID string, f Filter) ([]Post, shared.Pagination, error) {
	f.AuthorID = authorID
	return s.list(ctx, f)
}

func (s *Service) list(ctx context.Context, f Filter) ([]Post, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	if items == nil {
		items = []Post{}
	}
	return items, shared.NewPagination(f.Page, f.PerPage, total), nil
}

// GetBySlug returns a post if the actor may see it. Active posts are public;
// drafts are visible to their author and to holders of the moderation
// permission.
func (s *Service) GetBySlug(ctx context.Context, actor rbac.Identity, slug string) (*Post, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.Status == StatusActive {
		return p, nil
	}
	if actor.Authenticated && actor.Principal != nil && actor.Principal.ID == p.AuthorID {
		return p, nil
	}
	if rbac.HasPermission(actor.Permissions, rbac.PermPostDelete) {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (s *Service) Create(ctx context.Context, authorID string, in Input) (*Post, error) {
	if in.Status == "" {
		in.Status = StatusDraft
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	now := time.Now().UTC()
	p, err := s.repo.Create(ctx, Post{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(in.Title),
		Slug:            shared.Slugify(in.Title),
		Content:         in.Content,
		Excerpt:         strings.TrimSpace(in.Excerpt),
		Status:          in.Status,
		AuthorID:        authorID,
		CategoryID:      in.CategoryID,
		FeaturedMediaID: in.FeaturedMediaID,
		Tags:            in.Tags,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.enqueueReindex()
	return p, nil
}

// Update applies in to the post behind slug. Authors update their own posts;
// anyone holding the moderation permission may update any post.
func (s *Service) Update(ctx context.Context, actor rbac.Identity, slug string, in Input) (*Post, error) {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !s.canModerate(actor, existing) {
		return nil, ErrNotAuthor
	}
	if in.Status == "" {
		in.Status = existing.Status
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	existing.Title = strings.TrimSpace(in.Title)
	existing.Slug = shared.Slugify(in.Title)
	existing.Content = in.Content
	existing.Excerpt = strings.TrimSpace(in.Excerpt)
	existing.Status = in.Status
	existing.CategoryID = in.CategoryID
	existing.FeaturedMediaID = in.FeaturedMediaID
	existing.Tags = in.Tags
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, *existing)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.enqueueReindex()
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor rbac.Identity, slug string) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !s.canModerate(actor, existing) {
		return ErrNotAuthor
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		return err
	}
	s.enqueueReindex()
	return nil
}

// canModerate allows the author, and otherwise requires the moderation
// permission on top of the route gate.
func (s *Service) canModerate(actor rbac.Identity, p *Post) bool {
	if actor.Principal != nil && actor.Principal.ID == p.AuthorID {
		return true
	}
	return rbac.HasPermission(actor.Permissions, rbac.PermPostDelete)
}

func (s *Service) enqueueReindex() {
	if s.tasks == nil || s.reindex == nil {
		return
	}
	if _, err := s.tasks.Enqueue(s.reindex()); err != nil {
		s.logger.Warn("enqueue search reindex", slog.Any("error", err))
	}
}
