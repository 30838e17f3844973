package rbac

import "sync"

// IdentityCache holds resolved identity bundles keyed by session ID. It is
// the only mutable authorization state in the process; writes happen on
// login, logout, and role-change events, never from background polling.
// Last write wins. Entries for other principals' sessions may go stale after
// an admin reassignment until those sessions resolve again.
type IdentityCache struct {
	mu      sync.RWMutex
	entries map[string]Identity
}

// NewIdentityCache constructs an empty cache. Instances are independent so
// tests can run against isolated state.
func NewIdentityCache() *IdentityCache {
	return &IdentityCache{entries: make(map[string]Identity)}
}

// Login stores the identity bundle for the session, marking it
// authenticated. A bundle without a role falls back to the default grant so
// callers that authenticate without resolving a role stay least-privileged.
func (c *IdentityCache) Login(sessionID string, id Identity) Identity {
	id.Authenticated = true
	if id.Role == "" {
		def := DefaultGrant()
		id.Role = def.Role
		id.Permissions = def.Permissions
	}
	if id.Permissions == nil {
		id.Permissions = []string{}
	}
	c.mu.Lock()
	c.entries[sessionID] = id
	c.mu.Unlock()
	return id
}

// Logout resets the session to the unauthenticated bundle. Idempotent.
func (c *IdentityCache) Logout(sessionID string) {
	c.mu.Lock()
	delete(c.entries, sessionID)
	c.mu.Unlock()
}

// UpdateRole mutates only the role and permissions of an authenticated
// session, leaving the principal untouched. Used after an in-session role
// change without forcing a re-login. Unknown sessions are ignored.
func (c *IdentityCache) UpdateRole(sessionID string, grant Grant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.entries[sessionID]
	if !ok || !id.Authenticated {
		return
	}
	id.Role = grant.Role
	id.Permissions = grant.Permissions
	c.entries[sessionID] = id
}

// Get returns the cached identity for the session. Missing sessions yield
// the unauthenticated bundle.
func (c *IdentityCache) Get(sessionID string) (Identity, bool) {
	c.mu.RLock()
	id, ok := c.entries[sessionID]
	c.mu.RUnlock()
	if !ok {
		return Unauthenticated(), false
	}
	return id, true
}
