package rbac

import (
	"net/http"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
)

// Gate guards a protected route. Either RequiredPermission (single) or
// RequiredPermissions (set, any-of unless RequireAll) may be configured;
// the single form takes precedence when both are set. A gate with no
// requirement only demands authentication.
type Gate struct {
	RequiredPermission  string
	RequiredPermissions []string
	RequireAll          bool

	// RedirectTo receives denied authenticated requests; LoginURL receives
	// unauthenticated ones. Fallback, when set, is rendered instead of
	// either redirect.
	RedirectTo string
	LoginURL   string
	Fallback   http.Handler
}

// Middleware evaluates the gate against the request identity on every call;
// nothing is cached beyond the identity snapshot itself.
func (g Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())

		if !id.Authenticated {
			if g.Fallback != nil {
				g.Fallback.ServeHTTP(w, r)
				return
			}
			login := g.LoginURL
			if login == "" {
				login = "/auth/login"
			}
			http.Redirect(w, r, login, http.StatusSeeOther)
			return
		}

		if g.RequiredPermission == "" && len(g.RequiredPermissions) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		var hasAccess bool
		if g.RequiredPermission != "" {
			hasAccess = HasPermission(id.Permissions, g.RequiredPermission)
		} else if g.RequireAll {
			hasAccess = HasAllPermissions(id.Permissions, g.RequiredPermissions)
		} else {
			hasAccess = HasAnyPermission(id.Permissions, g.RequiredPermissions)
		}

		if hasAccess {
			next.ServeHTTP(w, r)
			return
		}
		if g.Fallback != nil {
			g.Fallback.ServeHTTP(w, r)
			return
		}
		redirect := g.RedirectTo
		if redirect == "" {
			redirect = "/"
		}
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	})
}

// Deny is a Fallback that answers with an RFC7807 problem instead of
// redirecting; JSON API routes use it.
func Deny() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if !id.Authenticated {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing required permission")
	})
}

// Require gates on a single permission, answering problems for API callers.
func Require(perm string) func(http.Handler) http.Handler {
	return Gate{RequiredPermission: perm, Fallback: Deny()}.Middleware
}

// RequireAny gates on holding at least one of the permissions.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return Gate{RequiredPermissions: perms, Fallback: Deny()}.Middleware
}

// RequireEvery gates on holding all of the permissions.
func RequireEvery(perms ...string) func(http.Handler) http.Handler {
	return Gate{RequiredPermissions: perms, RequireAll: true, Fallback: Deny()}.Middleware
}

// RequireAuth gates on authentication only.
func RequireAuth() func(http.Handler) http.Handler {
	return Gate{Fallback: Deny()}.Middleware
}
