package tags_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/shared"
	"github.com/inkwell-press/inkwell/internal/tags"
)

type memRepo struct {
	byID   map[string]tags.Tag
	bySlug map[string]string
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]tags.Tag), bySlug: make(map[string]string)}
}

func (m *memRepo) List(_ context.Context) ([]tags.Tag, error) {
	var out []tags.Tag
	for _, t := range m.byID {
		out = append(out, t)
	}
	return out, nil
}

func (m *memRepo) GetBySlug(_ context.Context, slug string) (*tags.Tag, error) {
	id, ok := m.bySlug[slug]
	if !ok {
		return nil, shared.ErrNotFound
	}
	t := m.byID[id]
	return &t, nil
}

func (m *memRepo) Create(_ context.Context, t tags.Tag) (*tags.Tag, error) {
	if _, exists := m.bySlug[t.Slug]; exists {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	m.byID[t.ID] = t
	m.bySlug[t.Slug] = t.ID
	return &t, nil
}

func (m *memRepo) Update(_ context.Context, t tags.Tag) (*tags.Tag, error) {
	old := m.byID[t.ID]
	delete(m.bySlug, old.Slug)
	m.byID[t.ID] = t
	m.bySlug[t.Slug] = t.ID
	return &t, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	t, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.bySlug, t.Slug)
	delete(m.byID, id)
	return nil
}

func TestCreateTagSlugifies(t *testing.T) {
	svc := tags.NewService(newMemRepo())

	tag, err := svc.Create(t.Context(), "  Café Culture ", "#aabbcc")
	require.NoError(t, err)
	require.Equal(t, "Café Culture", tag.Name)
	require.Equal(t, "cafe-culture", tag.Slug)
}

func TestCreateTagDuplicateSlug(t *testing.T) {
	svc := tags.NewService(newMemRepo())

	_, err := svc.Create(t.Context(), "Go", "")
	require.NoError(t, err)

	_, err = svc.Create(t.Context(), "go", "")
	require.ErrorIs(t, err, tags.ErrSlugTaken)
}

func TestUpdateTagReslugs(t *testing.T) {
	repo := newMemRepo()
	svc := tags.NewService(repo)

	created, err := svc.Create(t.Context(), "Golang", "")
	require.NoError(t, err)

	updated, err := svc.Update(t.Context(), created.Slug, "Go", "#00add8")
	require.NoError(t, err)
	require.Equal(t, "go", updated.Slug)

	_, err = svc.GetBySlug(t.Context(), "golang")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteMissingTag(t *testing.T) {
	svc := tags.NewService(newMemRepo())
	require.ErrorIs(t, svc.Delete(t.Context(), "missing"), shared.ErrNotFound)
}
