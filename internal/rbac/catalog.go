// Package rbac implements the role-based access control core: the static
// role catalog, role resolution and assignment against the backing store,
// the authorization predicates, and the permission gate used by routes.
package rbac

import (
	"fmt"
	"strings"
)

// Platform permissions. Each one is an opaque "resource.action" token
// compared for equality only; there are no wildcard or hierarchy semantics.
const (
	PermUserCreate = "user.create"
	PermUserRead   = "user.read"
	PermUserUpdate = "user.update"
	PermUserDelete = "user.delete"

	PermPostCreate = "post.create"
	PermPostRead   = "post.read"
	PermPostUpdate = "post.update"
	PermPostDelete = "post.delete"

	PermRoleCreate = "role.create"
	PermRoleRead   = "role.read"
	PermRoleUpdate = "role.update"
	PermRoleDelete = "role.delete"

	PermCategoryCreate = "category.create"
	PermCategoryRead   = "category.read"
	PermCategoryUpdate = "category.update"
	PermCategoryDelete = "category.delete"

	PermTagCreate = "tag.create"
	PermTagRead   = "tag.read"
	PermTagUpdate = "tag.update"
	PermTagDelete = "tag.delete"

	PermProfileRead   = "profile.read"
	PermProfileUpdate = "profile.update"
	PermProfileDelete = "profile.delete"

	PermAdminAccess    = "admin.access"
	PermAnalyticsView  = "analytics.view"
	PermSettingsManage = "settings.manage"
)

// Role identifies one of the five catalog roles. The set is closed and
// immutable at runtime; any other value is rejected at the ParseRole boundary.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleModerator  Role = "moderator"
	RoleEditor     Role = "editor"
	RoleUser       Role = "user"
)

// DefaultRole is the least-privileged role every unresolved principal
// degrades to.
const DefaultRole = RoleUser

// AllRoles returns the catalog in privilege order, most privileged first.
func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleModerator, RoleEditor, RoleUser}
}

// ParseRole normalises a user-supplied role name into a catalog Role.
// This is the single case-insensitive boundary; everywhere else roles are
// typed values.
func ParseRole(name string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(name))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleModerator:
		return RoleModerator, nil
	case RoleEditor:
		return RoleEditor, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, name)
	}
}

// Valid reports whether r is a catalog role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleModerator, RoleEditor, RoleUser:
		return true
	}
	return false
}

// DisplayName returns the human readable label for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleAdmin:
		return "Admin"
	case RoleModerator:
		return "Moderator"
	case RoleEditor:
		return "Editor"
	default:
		return "User"
	}
}

// Permissions returns the ordered permission set granted by the role.
// The catalog here is the single source of truth; no other component may
// hold its own permission lists.
func (r Role) Permissions() []string {
	switch r {
	case RoleSuperAdmin:
		return []string{
			PermUserCreate, PermUserRead, PermUserUpdate, PermUserDelete,
			PermPostCreate, PermPostRead, PermPostUpdate, PermPostDelete,
			PermRoleCreate, PermRoleRead, PermRoleUpdate, PermRoleDelete,
			PermCategoryCreate, PermCategoryRead, PermCategoryUpdate, PermCategoryDelete,
			PermTagCreate, PermTagRead, PermTagUpdate, PermTagDelete,
			PermProfileRead, PermProfileUpdate, PermProfileDelete,
			PermAdminAccess, PermAnalyticsView, PermSettingsManage,
		}
	case RoleAdmin:
		return []string{
			PermUserRead, PermUserUpdate,
			PermPostCreate, PermPostRead, PermPostUpdate, PermPostDelete,
			PermCategoryCreate, PermCategoryRead, PermCategoryUpdate, PermCategoryDelete,
			PermTagRead, PermTagUpdate, PermTagDelete,
			PermProfileRead, PermProfileUpdate,
			PermAdminAccess, PermAnalyticsView,
		}
	case RoleModerator:
		return []string{
			PermPostRead, PermPostUpdate, PermPostDelete,
			PermCategoryRead, PermTagRead, PermTagUpdate,
			PermUserRead, PermProfileRead,
			PermAdminAccess,
		}
	case RoleEditor:
		return []string{
			PermPostCreate, PermPostRead, PermPostUpdate,
			PermCategoryRead, PermTagCreate, PermTagRead, PermTagUpdate,
			PermProfileRead, PermProfileUpdate,
			PermAdminAccess,
		}
	case RoleUser:
		return []string{PermPostRead, PermProfileRead, PermProfileUpdate}
	}
	return nil
}

// DefaultGrant is the minimal fail-open bundle handed out when a principal
// cannot be resolved. Note it is narrower than RoleUser's full catalog set.
func DefaultGrant() Grant {
	return Grant{Role: DefaultRole, Permissions: []string{PermPostRead}}
}
