package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/inkwell-press/inkwell/internal/shared"
)

// PrincipalSource is the external auth collaborator.
type PrincipalSource interface {
	CurrentPrincipal(ctx context.Context, principalID string) (*Principal, error)
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity bundle in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity bundle from context, degrading to
// the unauthenticated bundle when none was attached.
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityContextKey{}).(Identity); ok {
		return id
	}
	return Unauthenticated()
}

// Bridge combines the auth collaborator with the role resolver to produce
// the identity bundle consumed by every permission gate.
type Bridge struct {
	Principals PrincipalSource
	Resolver   *Service
	Cache      *IdentityCache
	Logger     *slog.Logger
}

// CurrentIdentity resolves the identity for the request session. It never
// returns an error: an absent session, a failed principal lookup, or a failed
// role resolution all degrade to the unauthenticated or least-privileged
// bundle so the request can still render something.
func (b *Bridge) CurrentIdentity(ctx context.Context, sess *shared.Session) Identity {
	if sess == nil || sess.User() == "" {
		return Unauthenticated()
	}
	if b.Cache != nil {
		if id, ok := b.Cache.Get(sess.ID); ok {
			return id
		}
	}
	principal, err := b.Principals.CurrentPrincipal(ctx, sess.User())
	if err != nil || principal == nil {
		if err != nil && b.Logger != nil {
			b.Logger.Warn("identity bridge principal lookup", slog.Any("error", err))
		}
		return Unauthenticated()
	}
	grant := b.Resolver.Resolve(ctx, principal.ID)
	id := Identity{
		Authenticated: true,
		Principal:     principal,
		Role:          grant.Role,
		Permissions:   grant.Permissions,
	}
	if b.Cache != nil {
		id = b.Cache.Login(sess.ID, id)
	}
	return id
}

// Middleware resolves the identity once per request, before any gate runs,
// and attaches it to the request context.
func (b *Bridge) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		id := b.CurrentIdentity(r.Context(), sess)
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
	})
}
