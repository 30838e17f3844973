package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

// ErrPrivate indicates the profile exists but is not publicly visible.
var ErrPrivate = errors.New("profiles: profile is private")

// Service wraps profile business rules.
type Service struct {
	repo  Repository
	audit *shared.AuditLogger
}

// NewService constructs a Service.
func NewService(repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// Input carries the writable profile fields.
type Input struct {
	DisplayName   string
	Bio           string
	AvatarMediaID string
	Website       string
	Location      string
	SocialLinks   map[string]string
	IsPublic      bool
}

// Get returns the profile if the actor may see it. Owners always see their
// own; private profiles are hidden from everyone else except user admins.
func (s *Service) Get(ctx context.Context, actor rbac.Identity, principalID string) (*Profile, error) {
	p, err := s.repo.Get(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if p.IsPublic {
		return p, nil
	}
	if actor.Principal != nil && actor.Principal.ID == principalID {
		return p, nil
	}
	if rbac.HasPermission(actor.Permissions, rbac.PermUserRead) {
		return p, nil
	}
	return nil, ErrPrivate
}

// UpdateSelf upserts the actor's own profile.
func (s *Service) UpdateSelf(ctx context.Context, principalID string, in Input) (*Profile, error) {
	now := time.Now().UTC()
	createdAt := now
	if existing, err := s.repo.Get(ctx, principalID); err == nil {
		createdAt = existing.CreatedAt
	}
	return s.repo.Upsert(ctx, Profile{
		PrincipalID:   principalID,
		DisplayName:   strings.TrimSpace(in.DisplayName),
		Bio:           strings.TrimSpace(in.Bio),
		AvatarMediaID: in.AvatarMediaID,
		Website:       strings.TrimSpace(in.Website),
		Location:      strings.TrimSpace(in.Location),
		SocialLinks:   in.SocialLinks,
		IsPublic:      in.IsPublic,
		CreatedAt:     createdAt,
		UpdatedAt:     now,
	})
}

// Delete removes a profile. Reserved for holders of profile.delete.
func (s *Service) Delete(ctx context.Context, actorID, principalID string) error {
	if err := s.repo.Delete(ctx, principalID); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "profile.delete",
			Entity:   "profile",
			EntityID: principalID,
		})
	}
	return nil
}
