package tags

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-press/inkwell/internal/platform/db"
	"github.com/inkwell-press/inkwell/internal/shared"
)

// ErrSlugTaken indicates a tag with the same slug already exists.
var ErrSlugTaken = errors.New("tags: slug already in use")

// Service wraps tag business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Tag, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) Create(ctx context.Context, name, color string) (*Tag, error) {
	now := time.Now().UTC()
	t, err := s.repo.Create(ctx, Tag{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Slug:      shared.Slugify(name),
		Color:     strings.TrimSpace(color),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, slug, name, color string) (*Tag, error) {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	existing.Name = strings.TrimSpace(name)
	existing.Slug = shared.Slugify(name)
	existing.Color = strings.TrimSpace(color)
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, *existing)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, slug string) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID)
}
