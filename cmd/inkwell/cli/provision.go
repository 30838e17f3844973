// Package cli contains operational helpers invoked from the inkwell binary.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/inkwell-press/inkwell/internal/auth"
	"github.com/inkwell-press/inkwell/internal/rbac"
)

// ProvisionCLI bootstraps the first privileged account. It registers the
// user and assigns the requested role in one pass, so a fresh deployment
// has a super admin before the HTTP surface is exposed.
type ProvisionCLI struct {
	users *auth.Service
	roles *rbac.Service
}

// ProvisionResult reports what was created.
type ProvisionResult struct {
	PrincipalID string
	Email       string
	Role        string
}

// NewProvisionCLI constructs the helper.
func NewProvisionCLI(users *auth.Service, roles *rbac.Service) *ProvisionCLI {
	return &ProvisionCLI{users: users, roles: roles}
}

// Run parses flags and provisions the account. An already registered email
// is an error; provisioning never mutates existing accounts.
func (c *ProvisionCLI) Run(ctx context.Context, args []string) (*ProvisionResult, error) {
	if c == nil || c.users == nil || c.roles == nil {
		return nil, errors.New("provision: not configured")
	}

	fs := flag.NewFlagSet("provision", flag.ContinueOnError)
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "account password (required)")
	name := fs.String("name", "Administrator", "display name")
	role := fs.String("role", string(rbac.RoleSuperAdmin), "role to assign")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *email == "" || *password == "" {
		return nil, errors.New("provision: -email and -password are required")
	}
	if _, err := rbac.ParseRole(*role); err != nil {
		return nil, fmt.Errorf("provision: %w", err)
	}

	user, err := c.users.Register(ctx, *email, *password, *name)
	if err != nil {
		return nil, fmt.Errorf("provision: register account: %w", err)
	}

	grant, err := c.roles.Assign(ctx, "system", user.ID, *role)
	if err != nil {
		return nil, fmt.Errorf("provision: assign role: %w", err)
	}

	return &ProvisionResult{
		PrincipalID: user.ID,
		Email:       user.Email,
		Role:        string(grant.Role),
	}, nil
}
