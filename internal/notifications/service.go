package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service wraps notification business rules. Creation is driven by the
// background task handlers, reads by the HTTP surface.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	out, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Notification{}
	}
	return out, nil
}

func (s *Service) Notify(ctx context.Context, userID, kind, message string, meta map[string]any) (*Notification, error) {
	return s.repo.Create(ctx, Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		Meta:      meta,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}
