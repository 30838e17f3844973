package comments_test

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/comments"
	"github.com/inkwell-press/inkwell/internal/posts"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

type memRepo struct {
	byID map[string]comments.Comment
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]comments.Comment)}
}

func (m *memRepo) ListByPost(_ context.Context, postID string) ([]comments.Comment, error) {
	var out []comments.Comment
	for _, c := range m.byID {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*comments.Comment, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (m *memRepo) Create(_ context.Context, c comments.Comment) (*comments.Comment, error) {
	m.byID[c.ID] = c
	return &c, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type stubPosts struct {
	post *posts.Post
}

func (s *stubPosts) GetBySlug(_ context.Context, slug string) (*posts.Post, error) {
	if s.post == nil || s.post.Slug != slug {
		return nil, shared.ErrNotFound
	}
	return s.post, nil
}

type captureEnqueuer struct {
	tasks []*asynq.Task
}

func (c *captureEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	c.tasks = append(c.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func notifyTask(postID, postAuthorID, commentID, commentAuthorID string) *asynq.Task {
	return asynq.NewTask("notify:comment", nil)
}

func identityFor(principalID string, role rbac.Role) rbac.Identity {
	return rbac.Identity{
		Authenticated: true,
		Principal:     &rbac.Principal{ID: principalID},
		Role:          role,
		Permissions:   role.Permissions(),
	}
}

func TestCreateCommentNotifiesPostAuthor(t *testing.T) {
	finder := &stubPosts{post: &posts.Post{ID: "p1", Slug: "p1", AuthorID: "author-1", Status: posts.StatusActive}}
	queue := &captureEnqueuer{}
	svc := comments.NewService(newMemRepo(), finder, queue, notifyTask, nil)

	c, err := svc.Create(t.Context(), "reader-1", "p1", "  great post  ")
	require.NoError(t, err)
	require.Equal(t, "great post", c.Content)
	require.Len(t, queue.tasks, 1)
	require.Equal(t, "notify:comment", queue.tasks[0].Type())
}

func TestCreateCommentSelfDoesNotNotify(t *testing.T) {
	finder := &stubPosts{post: &posts.Post{ID: "p1", Slug: "p1", AuthorID: "author-1", Status: posts.StatusActive}}
	queue := &captureEnqueuer{}
	svc := comments.NewService(newMemRepo(), finder, queue, notifyTask, nil)

	_, err := svc.Create(t.Context(), "author-1", "p1", "replying to myself")
	require.NoError(t, err)
	require.Empty(t, queue.tasks)
}

func TestCreateCommentOnDraftIsNotFound(t *testing.T) {
	finder := &stubPosts{post: &posts.Post{ID: "p1", Slug: "p1", AuthorID: "author-1", Status: posts.StatusDraft}}
	svc := comments.NewService(newMemRepo(), finder, nil, nil, nil)

	_, err := svc.Create(t.Context(), "reader-1", "p1", "hello")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteCommentOwnership(t *testing.T) {
	finder := &stubPosts{post: &posts.Post{ID: "p1", Slug: "p1", AuthorID: "author-1", Status: posts.StatusActive}}
	repo := newMemRepo()
	svc := comments.NewService(repo, finder, nil, nil, nil)

	c, err := svc.Create(t.Context(), "reader-1", "p1", "hot take")
	require.NoError(t, err)

	// A plain user who is not the owner cannot delete.
	err = svc.Delete(t.Context(), identityFor("reader-2", rbac.RoleUser), c.ID)
	require.ErrorIs(t, err, comments.ErrNotOwner)

	// A moderator can.
	require.NoError(t, svc.Delete(t.Context(), identityFor("mod-1", rbac.RoleModerator), c.ID))

	// The owner can delete their own.
	c2, err := svc.Create(t.Context(), "reader-1", "p1", "second take")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(t.Context(), identityFor("reader-1", rbac.RoleUser), c2.ID))
	require.Empty(t, repo.byID)
}
