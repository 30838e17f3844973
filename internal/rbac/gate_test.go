package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/rbac"
)

func serveGate(t *testing.T, gate rbac.Gate, id rbac.Identity) *httptest.ResponseRecorder {
	t.Helper()
	allowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("protected"))
	})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(rbac.ContextWithIdentity(req.Context(), id))
	res := httptest.NewRecorder()
	gate.Middleware(allowed).ServeHTTP(res, req)
	return res
}

func authenticated(role rbac.Role, perms []string) rbac.Identity {
	return rbac.Identity{
		Authenticated: true,
		Principal:     &rbac.Principal{ID: "u1"},
		Role:          role,
		Permissions:   perms,
	}
}

func TestGateUnauthenticatedRedirectsToLogin(t *testing.T) {
	res := serveGate(t, rbac.Gate{RequiredPermission: rbac.PermPostRead}, rbac.Unauthenticated())

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/auth/login", res.Header().Get("Location"))
}

func TestGateUnauthenticatedPrefersFallback(t *testing.T) {
	fallback := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	res := serveGate(t, rbac.Gate{RequiredPermission: rbac.PermPostRead, Fallback: fallback}, rbac.Unauthenticated())

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestGateWithoutRequirementAllowsAuthenticated(t *testing.T) {
	res := serveGate(t, rbac.Gate{}, authenticated(rbac.RoleUser, []string{rbac.PermPostRead}))

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "protected", res.Body.String())
}

func TestGateSinglePermission(t *testing.T) {
	gate := rbac.Gate{RequiredPermission: rbac.PermAdminAccess}

	denied := serveGate(t, gate, authenticated(rbac.RoleUser, []string{rbac.PermPostRead}))
	require.Equal(t, http.StatusSeeOther, denied.Code)
	require.Equal(t, "/", denied.Header().Get("Location"))

	allowed := serveGate(t, gate, authenticated(rbac.RoleEditor, rbac.RoleEditor.Permissions()))
	require.Equal(t, http.StatusOK, allowed.Code)
}

func TestGateAnyOfVersusAllOf(t *testing.T) {
	id := authenticated(rbac.RoleUser, []string{rbac.PermPostRead})
	required := []string{rbac.PermPostRead, rbac.PermPostDelete}

	anyOf := serveGate(t, rbac.Gate{RequiredPermissions: required}, id)
	require.Equal(t, http.StatusOK, anyOf.Code, "any-of must pass with one permission held")

	allOf := serveGate(t, rbac.Gate{RequiredPermissions: required, RequireAll: true}, id)
	require.Equal(t, http.StatusSeeOther, allOf.Code, "all-of must deny with one permission missing")
}

func TestGateSinglePermissionTakesPrecedence(t *testing.T) {
	gate := rbac.Gate{
		RequiredPermission:  rbac.PermSettingsManage,
		RequiredPermissions: []string{rbac.PermPostRead},
	}
	res := serveGate(t, gate, authenticated(rbac.RoleUser, []string{rbac.PermPostRead}))

	require.Equal(t, http.StatusSeeOther, res.Code)
}

func TestGateDeniedRedirectsToConfiguredTarget(t *testing.T) {
	gate := rbac.Gate{RequiredPermission: rbac.PermAdminAccess, RedirectTo: "/posts"}
	res := serveGate(t, gate, authenticated(rbac.RoleUser, []string{rbac.PermPostRead}))

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/posts", res.Header().Get("Location"))
}

func TestRequireAnswersProblems(t *testing.T) {
	handler := rbac.Require(rbac.PermAdminAccess)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(rbac.ContextWithIdentity(req.Context(), rbac.Unauthenticated()))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(rbac.ContextWithIdentity(req.Context(), authenticated(rbac.RoleUser, []string{rbac.PermPostRead})))
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusForbidden, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(rbac.ContextWithIdentity(req.Context(), authenticated(rbac.RoleModerator, rbac.RoleModerator.Permissions())))
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
}

// End-to-end promotion scenario: an unassigned principal is denied admin
// access, gains it after being assigned super_admin, and passes the same gate.
func TestPromotionScenario(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx := t.Context()

	grant := svc.Resolve(ctx, "u1")
	require.Equal(t, rbac.DefaultGrant(), grant)

	gate := rbac.Gate{RequiredPermission: rbac.PermAdminAccess}
	denied := serveGate(t, gate, rbac.Identity{
		Authenticated: true,
		Principal:     &rbac.Principal{ID: "u1"},
		Role:          grant.Role,
		Permissions:   grant.Permissions,
	})
	require.Equal(t, http.StatusSeeOther, denied.Code)

	_, err := svc.Assign(ctx, "admin-0", "u1", "super_admin")
	require.NoError(t, err)

	grant = svc.Resolve(ctx, "u1")
	require.Equal(t, rbac.RoleSuperAdmin, grant.Role)
	require.True(t, rbac.HasPermission(grant.Permissions, rbac.PermAdminAccess))

	allowed := serveGate(t, gate, rbac.Identity{
		Authenticated: true,
		Principal:     &rbac.Principal{ID: "u1"},
		Role:          grant.Role,
		Permissions:   grant.Permissions,
	})
	require.Equal(t, http.StatusOK, allowed.Code)
}
