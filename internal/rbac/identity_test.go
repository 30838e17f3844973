package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/rbac"
)

func TestIdentityCacheLoginDefaultsRole(t *testing.T) {
	cache := rbac.NewIdentityCache()

	id := cache.Login("sess-1", rbac.Identity{
		Principal: &rbac.Principal{ID: "u1", Email: "u1@inkwell.test"},
	})

	require.True(t, id.Authenticated)
	require.Equal(t, rbac.RoleUser, id.Role)
	require.Equal(t, []string{rbac.PermPostRead}, id.Permissions)

	stored, ok := cache.Get("sess-1")
	require.True(t, ok)
	require.Equal(t, id, stored)
}

func TestIdentityCacheLogoutIdempotent(t *testing.T) {
	cache := rbac.NewIdentityCache()
	cache.Login("sess-1", rbac.Identity{Principal: &rbac.Principal{ID: "u1"}})

	cache.Logout("sess-1")
	first, okFirst := cache.Get("sess-1")
	cache.Logout("sess-1")
	second, okSecond := cache.Get("sess-1")

	require.False(t, okFirst)
	require.False(t, okSecond)
	require.Equal(t, first, second)
	require.Equal(t, rbac.Unauthenticated(), second)
}

func TestIdentityCacheUpdateRoleMutatesOnlyGrant(t *testing.T) {
	cache := rbac.NewIdentityCache()
	principal := &rbac.Principal{ID: "u1", Email: "u1@inkwell.test"}
	cache.Login("sess-1", rbac.Identity{Principal: principal})

	cache.UpdateRole("sess-1", rbac.Grant{Role: rbac.RoleAdmin, Permissions: rbac.RoleAdmin.Permissions()})

	id, ok := cache.Get("sess-1")
	require.True(t, ok)
	require.True(t, id.Authenticated)
	require.Same(t, principal, id.Principal)
	require.Equal(t, rbac.RoleAdmin, id.Role)
	require.Equal(t, rbac.RoleAdmin.Permissions(), id.Permissions)
}

func TestIdentityCacheUpdateRoleIgnoresUnknownSession(t *testing.T) {
	cache := rbac.NewIdentityCache()

	cache.UpdateRole("missing", rbac.Grant{Role: rbac.RoleAdmin})

	id, ok := cache.Get("missing")
	require.False(t, ok)
	require.False(t, id.Authenticated)
}

func TestUnauthenticatedInvariant(t *testing.T) {
	id := rbac.Unauthenticated()
	require.False(t, id.Authenticated)
	require.Nil(t, id.Principal)
	require.Empty(t, id.Role)
	require.Empty(t, id.Permissions)
}
