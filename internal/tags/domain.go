// Package tags manages the free-form post tag taxonomy.
package tags

import "time"

// Tag labels posts; UsageCount is derived from the post association table.
type Tag struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Color      string    `json:"color,omitempty"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
