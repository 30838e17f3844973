package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-press/inkwell/internal/rbac"
)

const maxUploadBytes = 10 << 20

var (
	// ErrTooLarge indicates the upload exceeds the size cap.
	ErrTooLarge = errors.New("media: file too large")
	// ErrUnsupportedType indicates a content type outside the allow-list.
	ErrUnsupportedType = errors.New("media: unsupported content type")
	// ErrNotOwner indicates the actor may not delete someone else's file.
	ErrNotOwner = errors.New("media: not the file owner")
)

var allowedTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// Service wraps media business rules: sniffed content types, an image
// allow-list and paired blob+metadata writes.
type Service struct {
	repo  Repository
	blobs BlobStore
}

// NewService constructs a Service.
func NewService(repo Repository, blobs BlobStore) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// Upload stores content under a fresh uuid key. The content type is sniffed
// from the first bytes, never trusted from the client.
func (s *Service) Upload(ctx context.Context, ownerID, fileName string, content io.Reader) (*File, error) {
	data, err := io.ReadAll(io.LimitReader(content, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadBytes {
		return nil, ErrTooLarge
	}

	contentType := sniffType(fileName, data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	id := uuid.NewString()
	key := id + ext
	if err := s.blobs.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, err
	}

	f, err := s.repo.Create(ctx, File{
		ID:          id,
		OwnerID:     ownerID,
		FileName:    path.Base(fileName),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		StorageKey:  key,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		// Metadata write failed; drop the orphaned blob.
		_ = s.blobs.Delete(ctx, key)
		return nil, err
	}
	f.URL = s.blobs.URL(key)
	return f, nil
}

// Get returns the metadata with a resolved preview URL.
func (s *Service) Get(ctx context.Context, id string) (*File, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f.URL = s.blobs.URL(f.StorageKey)
	return f, nil
}

// Delete removes blob and metadata. Owners delete their own files; the
// moderation permission covers the rest.
func (s *Service) Delete(ctx context.Context, actor rbac.Identity, id string) error {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	owner := actor.Principal != nil && actor.Principal.ID == f.OwnerID
	if !owner && !rbac.HasPermission(actor.Permissions, rbac.PermPostDelete) {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.blobs.Delete(ctx, f.StorageKey)
}

// sniffType prefers content sniffing; SVG is special-cased because
// http.DetectContentType reports generic XML for it.
func sniffType(fileName string, data []byte) string {
	detected := http.DetectContentType(data)
	if strings.HasSuffix(strings.ToLower(fileName), ".svg") &&
		(strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "text/plain")) {
		return "image/svg+xml"
	}
	if i := strings.IndexByte(detected, ';'); i > 0 {
		detected = detected[:i]
	}
	return detected
}
