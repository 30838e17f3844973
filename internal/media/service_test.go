package media_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/media"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

type memRepo struct {
	byID map[string]media.File
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]media.File)}
}

func (m *memRepo) Get(_ context.Context, id string) (*media.File, error) {
	f, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &f, nil
}

func (m *memRepo) Create(_ context.Context, f media.File) (*media.File, error) {
	m.byID[f.ID] = f
	return &f, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memBlobs struct {
	objects map[string][]byte
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: make(map[string][]byte)}
}

func (b *memBlobs) Put(_ context.Context, key string, content io.Reader, _ string) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	b.objects[key] = data
	return nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	delete(b.objects, key)
	return nil
}

func (b *memBlobs) URL(key string) string {
	return "https://cdn.inkwell.test/" + key
}

// pngHeader is the magic prefix http.DetectContentType recognises as image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13}

func identityFor(principalID string, role rbac.Role) rbac.Identity {
	return rbac.Identity{
		Authenticated: true,
		Principal:     &rbac.Principal{ID: principalID},
		Role:          role,
		Permissions:   role.Permissions(),
	}
}

func TestUploadSniffsContentType(t *testing.T) {
	repo := newMemRepo()
	blobs := newMemBlobs()
	svc := media.NewService(repo, blobs)

	f, err := svc.Upload(t.Context(), "u1", "cover.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	require.Equal(t, "image/png", f.ContentType)
	require.Equal(t, "cover.png", f.FileName)
	require.Contains(t, blobs.objects, f.ID+".png")
	require.Equal(t, "https://cdn.inkwell.test/"+f.ID+".png", f.URL)
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc := media.NewService(newMemRepo(), newMemBlobs())

	_, err := svc.Upload(t.Context(), "u1", "notes.txt", bytes.NewReader([]byte("plain text")))
	require.ErrorIs(t, err, media.ErrUnsupportedType)
}

func TestUploadRejectsOversized(t *testing.T) {
	svc := media.NewService(newMemRepo(), newMemBlobs())

	big := append(append([]byte{}, pngHeader...), make([]byte, 11<<20)...)
	_, err := svc.Upload(t.Context(), "u1", "huge.png", bytes.NewReader(big))
	require.ErrorIs(t, err, media.ErrTooLarge)
}

func TestDeleteOwnership(t *testing.T) {
	repo := newMemRepo()
	blobs := newMemBlobs()
	svc := media.NewService(repo, blobs)

	f, err := svc.Upload(t.Context(), "u1", "cover.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	err = svc.Delete(t.Context(), identityFor("u2", rbac.RoleEditor), f.ID)
	require.ErrorIs(t, err, media.ErrNotOwner)

	require.NoError(t, svc.Delete(t.Context(), identityFor("u1", rbac.RoleEditor), f.ID))
	require.Empty(t, repo.byID)
	require.Empty(t, blobs.objects)
}
