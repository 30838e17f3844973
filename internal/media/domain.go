// Package media implements blob uploads for featured images and avatars,
// with S3-compatible storage behind a postgres metadata table.
package media

import "time"

// File is the stored metadata for one uploaded blob.
type File struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `json:"-"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}
