// Package profiles implements per-user public profiles.
package profiles

import "time"

// Profile is the public face of a principal.
type Profile struct {
	PrincipalID   string            `json:"principal_id"`
	DisplayName   string            `json:"display_name"`
	Bio           string            `json:"bio,omitempty"`
	AvatarMediaID string            `json:"avatar_media_id,omitempty"`
	Website       string            `json:"website,omitempty"`
	Location      string            `json:"location,omitempty"`
	SocialLinks   map[string]string `json:"social_links,omitempty"`
	IsPublic      bool              `json:"is_public"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
