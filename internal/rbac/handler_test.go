package rbac_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/rbac"
)

func newRolesRouter(t *testing.T, svc *rbac.Service, actor rbac.Identity) http.Handler {
	t.Helper()
	handler := rbac.NewHandler(nil, svc, rbac.NewIdentityCache())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(rbac.ContextWithIdentity(req.Context(), actor)))
		})
	})
	r.Route("/roles", handler.MountRoutes)
	return r
}

func superAdminActor() rbac.Identity {
	return rbac.Identity{
		Authenticated: true,
		Principal:     &rbac.Principal{ID: "root", Email: "root@inkwell.test"},
		Role:          rbac.RoleSuperAdmin,
		Permissions:   rbac.RoleSuperAdmin.Permissions(),
	}
}

func TestListRolesReturnsCatalog(t *testing.T) {
	router := newRolesRouter(t, newService(newMemStore()), superAdminActor())

	req := httptest.NewRequest(http.MethodGet, "/roles/", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var roles []struct {
		Name        string   `json:"name"`
		DisplayName string   `json:"display_name"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &roles))
	require.Len(t, roles, 5)
	require.Equal(t, "super_admin", roles[0].Name)
	require.Equal(t, "Super Admin", roles[0].DisplayName)
	require.Len(t, roles[0].Permissions, 26)
}

func TestAssignRoleEndpoint(t *testing.T) {
	svc := newService(newMemStore())
	router := newRolesRouter(t, svc, superAdminActor())

	req := httptest.NewRequest(http.MethodPut, "/roles/assignments/u1", strings.NewReader(`{"role":"Admin"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body struct {
		PrincipalID string   `json:"principal_id"`
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Equal(t, "u1", body.PrincipalID)
	require.Equal(t, "admin", body.Role)
	require.Equal(t, rbac.RoleAdmin.Permissions(), body.Permissions)
}

func TestAssignRoleRejectsUnknownRole(t *testing.T) {
	svc := newService(newMemStore())
	router := newRolesRouter(t, svc, superAdminActor())

	req := httptest.NewRequest(http.MethodPut, "/roles/assignments/u1", strings.NewReader(`{"role":"superuser"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
}

func TestRoleEndpointsGated(t *testing.T) {
	svc := newService(newMemStore())
	reader := rbac.Identity{
		Authenticated: true,
		Principal:     &rbac.Principal{ID: "u2"},
		Role:          rbac.RoleUser,
		Permissions:   rbac.RoleUser.Permissions(),
	}
	router := newRolesRouter(t, svc, reader)

	req := httptest.NewRequest(http.MethodGet, "/roles/", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusForbidden, res.Code)

	req = httptest.NewRequest(http.MethodPut, "/roles/assignments/u1", strings.NewReader(`{"role":"admin"}`))
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusForbidden, res.Code)
}
