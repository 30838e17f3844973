// Package posts implements authoring: drafts, publication, taxonomy links
// and the public read surface.
package posts

import "time"

// Status of a post. Drafts are visible to their author and moderators only.
type Status string

const (
	StatusActive Status = "active"
	StatusDraft  Status = "draft"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDraft
}

// Post is an authored article. Content is sanitized HTML produced by the
// client-side editor; the server treats it as an opaque string.
type Post struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	Excerpt         string    `json:"excerpt,omitempty"`
	Status          Status    `json:"status"`
	AuthorID        string    `json:"author_id"`
	CategoryID      string    `json:"category_id,omitempty"`
	FeaturedMediaID string    `json:"featured_media_id,omitempty"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Filter narrows post listings.
type Filter struct {
	Status       Status
	CategorySlug string
	TagSlug      string
	AuthorID     string
	Search       string
	Page         int
	PerPage      int
}
