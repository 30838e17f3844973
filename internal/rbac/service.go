package rbac

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/inkwell-press/inkwell/internal/shared"
)

// Service resolves and assigns principal roles against the backing store.
type Service struct {
	store  AssignmentStore
	audit  *shared.AuditLogger
	logger *slog.Logger
	notify func(ctx context.Context, actorID, principalID string, role Role)
}

// NewService constructs a Service.
func NewService(store AssignmentStore, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, audit: audit, logger: logger}
}

// WithNotifier installs a hook invoked after every successful assignment,
// used to queue the role-change notification.
func (s *Service) WithNotifier(fn func(ctx context.Context, actorID, principalID string, role Role)) *Service {
	s.notify = fn
	return s
}

// Resolve returns the principal's grant. It never fails: any lookup error,
// missing assignment, or stored role name outside the catalog degrades to
// DefaultGrant. The resolver sits on the read path of every request, so a
// backing-store outage must reduce privileges, not block rendering.
func (s *Service) Resolve(ctx context.Context, principalID string) Grant {
	assignment, err := s.store.FindByPrincipal(ctx, principalID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("rbac resolve fallback", slog.String("principal", principalID), slog.Any("error", err))
		}
		return DefaultGrant()
	}
	role, err := ParseRole(assignment.Role)
	if err != nil {
		s.logger.Warn("rbac stored role not in catalog", slog.String("principal", principalID), slog.String("role", assignment.Role))
		return DefaultGrant()
	}
	return Grant{Role: role, Permissions: role.Permissions()}
}

// Assign validates roleName against the catalog and upserts the principal's
// assignment. Unlike Resolve this is a write path: an unknown role name is
// rejected with ErrInvalidRole and nothing is written.
func (s *Service) Assign(ctx context.Context, actorID, principalID, roleName string) (Grant, error) {
	role, err := ParseRole(roleName)
	if err != nil {
		return Grant{}, err
	}

	now := time.Now().UTC()
	existing, err := s.store.FindByPrincipal(ctx, principalID)
	switch {
	case err == nil:
		if _, err := s.store.Update(ctx, existing.ID, role, now); err != nil {
			return Grant{}, err
		}
	case errors.Is(err, ErrNotFound):
		if _, err := s.store.Insert(ctx, Assignment{
			PrincipalID: principalID,
			Role:        string(role),
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			return Grant{}, err
		}
	default:
		return Grant{}, err
	}

	if s.audit != nil {
		if err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "role.assign",
			Entity:   "role_assignment",
			EntityID: principalID,
			Meta:     map[string]any{"role": string(role)},
		}); err != nil {
			s.logger.Warn("rbac audit record", slog.Any("error", err))
		}
	}

	if s.notify != nil {
		s.notify(ctx, actorID, principalID, role)
	}

	// Permissions answered from the catalog at call time; they are never
	// persisted alongside the assignment.
	return Grant{Role: role, Permissions: role.Permissions()}, nil
}

// ListAssignments returns every assignment decorated with catalog data for
// the admin roles screen. Stored roles outside the catalog degrade to the
// default display and grant instead of failing the listing.
func (s *Service) ListAssignments(ctx context.Context) ([]AssignmentView, error) {
	assignments, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		view := AssignmentView{
			PrincipalID: a.PrincipalID,
			Role:        a.Role,
			CreatedAt:   a.CreatedAt,
			UpdatedAt:   a.UpdatedAt,
		}
		if role, err := ParseRole(a.Role); err == nil {
			view.RoleDisplay = role.DisplayName()
			view.Permissions = role.Permissions()
		} else {
			view.RoleDisplay = DefaultRole.DisplayName()
			view.Permissions = DefaultGrant().Permissions
		}
		views = append(views, view)
	}
	return views, nil
}
