package comments

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/inkwell-press/inkwell/internal/posts"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

// ErrNotOwner indicates the actor may not delete someone else's comment.
var ErrNotOwner = errors.New("comments: not the comment owner")

// TaskEnqueuer enqueues background tasks. Satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PostFinder resolves the post a comment attaches to. Satisfied by the posts
// repository.
type PostFinder interface {
	GetBySlug(ctx context.Context, slug string) (*posts.Post, error)
}

// NotifyTaskFunc builds the task delivered to the post author when a new
// comment lands.
type NotifyTaskFunc func(postID, postAuthorID, commentID, commentAuthorID string) *asynq.Task

// Service wraps comment business rules.
type Service struct {
	repo   Repository
	posts  PostFinder
	tasks  TaskEnqueuer
	notify NotifyTaskFunc
	logger *slog.Logger
}

// NewService constructs a Service. tasks and notify may be nil in tests.
func NewService(repo Repository, finder PostFinder, tasks TaskEnqueuer, notify NotifyTaskFunc, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, posts: finder, tasks: tasks, notify: notify, logger: logger}
}

// ListByPost returns the comments on an active post in posting order.
func (s *Service) ListByPost(ctx context.Context, postSlug string) ([]Comment, error) {
	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if post.Status != posts.StatusActive {
		return nil, shared.ErrNotFound
	}
	out, err := s.repo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Comment{}
	}
	return out, nil
}

// Create stores the comment and queues a notification for the post author.
// Self-comments do not notify.
func (s *Service) Create(ctx context.Context, authorID, postSlug, content string) (*Comment, error) {
	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if post.Status != posts.StatusActive {
		return nil, shared.ErrNotFound
	}

	c, err := s.repo.Create(ctx, Comment{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		AuthorID:  authorID,
		Content:   strings.TrimSpace(content),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if s.tasks != nil && s.notify != nil && post.AuthorID != authorID {
		if _, err := s.tasks.Enqueue(s.notify(post.ID, post.AuthorID, c.ID, authorID)); err != nil {
			s.logger.Warn("enqueue comment notification", slog.Any("error", err))
		}
	}
	return c, nil
}

// Delete removes a comment. The owner may delete their own; otherwise the
// moderation permission is required.
func (s *Service) Delete(ctx context.Context, actor rbac.Identity, commentID string) error {
	c, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	owner := actor.Principal != nil && actor.Principal.ID == c.AuthorID
	if !owner && !rbac.HasPermission(actor.Permissions, rbac.PermPostDelete) {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, commentID)
}
