// Package notifications implements the per-user notification center.
package notifications

import "time"

// Kind of notification.
const (
	KindComment    = "comment"
	KindRoleChange = "role_change"
)

// Notification is one entry in a user's notification feed.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Kind      string         `json:"kind"`
	Message   string         `json:"message"`
	Meta      map[string]any `json:"meta,omitempty"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
