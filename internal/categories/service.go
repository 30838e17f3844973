package categories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-press/inkwell/internal/platform/db"
	"github.com/inkwell-press/inkwell/internal/shared"
)

// ErrSlugTaken indicates a category with the same slug already exists.
var ErrSlugTaken = errors.New("categories: slug already in use")

// Service wraps category business rules.
type Service struct {
	repo  Repository
	audit *shared.AuditLogger
}

// NewService constructs a Service.
func NewService(repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// CreateInput carries the fields accepted when creating or updating a category.
type CreateInput struct {
	Name        string
	Description string
	Color       string
	IsActive    *bool
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]Category, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) Create(ctx context.Context, actorID string, in CreateInput) (*Category, error) {
	now := time.Now().UTC()
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	c, err := s.repo.Create(ctx, Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Slug:        shared.Slugify(in.Name),
		Description: strings.TrimSpace(in.Description),
		Color:       strings.TrimSpace(in.Color),
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.record(ctx, actorID, "category.create", c.ID, c.Name)
	return c, nil
}

func (s *Service) Update(ctx context.Context, actorID, slug string, in CreateInput) (*Category, error) {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	existing.Name = strings.TrimSpace(in.Name)
	existing.Slug = shared.Slugify(in.Name)
	existing.Description = strings.TrimSpace(in.Description)
	existing.Color = strings.TrimSpace(in.Color)
	if in.IsActive != nil {
		existing.IsActive = *in.IsActive
	}
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, *existing)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.record(ctx, actorID, "category.update", updated.ID, updated.Name)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actorID, slug string) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		return err
	}
	s.record(ctx, actorID, "category.delete", existing.ID, existing.Name)
	return nil
}

func (s *Service) record(ctx context.Context, actorID, action, entityID, name string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "category",
		EntityID: entityID,
		Meta:     map[string]any{"name": name},
	})
}
