package rbac

import (
	"errors"
	"time"
)

var (
	// ErrInvalidRole rejects role names outside the catalog on the write path.
	ErrInvalidRole = errors.New("rbac: invalid role name")
	// ErrNotFound indicates no assignment exists for the principal.
	ErrNotFound = errors.New("rbac: assignment not found")
)

// Assignment is the persisted link between a principal and a role name.
// At most one assignment exists per principal; permissions are never stored,
// they are re-derived from the catalog on every read.
type Assignment struct {
	ID          string
	PrincipalID string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Grant pairs a resolved role with its catalog permission set.
type Grant struct {
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

// Principal is the minimal identity record obtained from the auth collaborator.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Identity is the in-memory snapshot of a principal's authentication state.
// Invariant: Authenticated == false implies Role == "" and empty Permissions.
type Identity struct {
	Authenticated bool       `json:"authenticated"`
	Principal     *Principal `json:"principal,omitempty"`
	Role          Role       `json:"role,omitempty"`
	Permissions   []string   `json:"permissions"`
}

// Unauthenticated returns the initial anonymous identity bundle.
func Unauthenticated() Identity {
	return Identity{Permissions: []string{}}
}

// AssignmentView decorates an assignment with catalog data for admin listings.
type AssignmentView struct {
	PrincipalID string    `json:"principal_id"`
	Role        string    `json:"role"`
	RoleDisplay string    `json:"role_display"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
