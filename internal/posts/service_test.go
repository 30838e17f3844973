package posts_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/posts"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

type memRepo struct {
	byID   map[string]posts.Post
	bySlug map[string]string
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]posts.Post), bySlug: make(map[string]string)}
}

func (m *memRepo) List(_ context.Context, f posts.Filter) ([]posts.Post, int, error) {
	var out []posts.Post
	for _, p := range m.byID {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memRepo) GetBySlug(_ context.Context, slug string) (*posts.Post, error) {
	id, ok := m.bySlug[slug]
	if !ok {
		return nil, shared.ErrNotFound
	}
	p := m.byID[id]
	return &p, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*posts.Post, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (m *memRepo) Create(_ context.Context, p posts.Post) (*posts.Post, error) {
	if _, exists := m.bySlug[p.Slug]; exists {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	m.byID[p.ID] = p
	m.bySlug[p.Slug] = p.ID
	return &p, nil
}

func (m *memRepo) Update(_ context.Context, p posts.Post) (*posts.Post, error) {
	old, ok := m.byID[p.ID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	delete(m.bySlug, old.Slug)
	m.byID[p.ID] = p
	m.bySlug[p.Slug] = p.ID
	return &p, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	p, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.bySlug, p.Slug)
	delete(m.byID, id)
	return nil
}

func identityFor(principalID string, role rbac.Role) rbac.Identity {
	return rbac.Identity{
		Authenticated: true,
		Principal:     &rbac.Principal{ID: principalID},
		Role:          role,
		Permissions:   role.Permissions(),
	}
}

func newService(repo posts.Repository) *posts.Service {
	return posts.NewService(repo, nil, nil, nil)
}

func TestCreatePostSlugAndDefaultStatus(t *testing.T) {
	svc := newService(newMemRepo())

	p, err := svc.Create(t.Context(), "author-1", posts.Input{Title: "Hello, Go World!", Content: "<p>hi</p>"})
	require.NoError(t, err)
	require.Equal(t, "hello-go-world", p.Slug)
	require.Equal(t, posts.StatusDraft, p.Status)
	require.Equal(t, "author-1", p.AuthorID)
}

func TestCreatePostRejectsUnknownStatus(t *testing.T) {
	svc := newService(newMemRepo())

	_, err := svc.Create(t.Context(), "author-1", posts.Input{Title: "x", Content: "y", Status: "archived"})
	require.ErrorIs(t, err, posts.ErrInvalidStatus)
}

func TestDraftVisibility(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)

	draft, err := svc.Create(t.Context(), "author-1", posts.Input{Title: "Draft", Content: "x", Status: posts.StatusDraft})
	require.NoError(t, err)

	// The author sees their own draft.
	_, err = svc.GetBySlug(t.Context(), identityFor("author-1", rbac.RoleEditor), draft.Slug)
	require.NoError(t, err)

	// A moderator sees it through the moderation permission.
	_, err = svc.GetBySlug(t.Context(), identityFor("mod-1", rbac.RoleModerator), draft.Slug)
	require.NoError(t, err)

	// Everyone else gets not-found, indistinguishable from absence.
	_, err = svc.GetBySlug(t.Context(), identityFor("reader-1", rbac.RoleUser), draft.Slug)
	require.ErrorIs(t, err, shared.ErrNotFound)
	_, err = svc.GetBySlug(t.Context(), rbac.Unauthenticated(), draft.Slug)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPublicListOnlyActive(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)

	_, err := svc.Create(t.Context(), "author-1", posts.Input{Title: "Live", Content: "x", Status: posts.StatusActive})
	require.NoError(t, err)
	_, err = svc.Create(t.Context(), "author-1", posts.Input{Title: "Hidden", Content: "x", Status: posts.StatusDraft})
	require.NoError(t, err)

	items, page, err := svc.ListPublic(t.Context(), posts.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "live", items[0].Slug)
	require.Equal(t, 1, page.Total)
}

func TestUpdateOwnership(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)

	p, err := svc.Create(t.Context(), "author-1", posts.Input{Title: "Mine", Content: "x", Status: posts.StatusActive})
	require.NoError(t, err)

	in := posts.Input{Title: "Mine Edited", Content: "y"}

	// Another editor holds post.update but is not the author.
	_, err = svc.Update(t.Context(), identityFor("author-2", rbac.RoleEditor), p.Slug, in)
	require.ErrorIs(t, err, posts.ErrNotAuthor)

	// A moderator may edit anyone's post.
	updated, err := svc.Update(t.Context(), identityFor("mod-1", rbac.RoleModerator), p.Slug, in)
	require.NoError(t, err)
	require.Equal(t, "mine-edited", updated.Slug)
	// Status carries over when the request omits it.
	require.Equal(t, posts.StatusActive, updated.Status)

	// The author may edit their own.
	_, err = svc.Update(t.Context(), identityFor("author-1", rbac.RoleEditor), "mine-edited", posts.Input{Title: "Mine Again", Content: "z"})
	require.NoError(t, err)
}

func TestDeleteRequiresOwnershipOrModeration(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)

	p, err := svc.Create(t.Context(), "author-1", posts.Input{Title: "Gone Soon", Content: "x", Status: posts.StatusActive})
	require.NoError(t, err)

	err = svc.Delete(t.Context(), identityFor("author-2", rbac.RoleEditor), p.Slug)
	require.ErrorIs(t, err, posts.ErrNotAuthor)

	require.NoError(t, svc.Delete(t.Context(), identityFor("mod-1", rbac.RoleModerator), p.Slug))
	require.Empty(t, repo.byID)
}
