package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/notifications"
)

type memNotifications struct {
	created []notifications.Notification
}

func (m *memNotifications) ListByUser(context.Context, string, bool, int) ([]notifications.Notification, error) {
	return m.created, nil
}

func (m *memNotifications) Create(_ context.Context, n notifications.Notification) (*notifications.Notification, error) {
	m.created = append(m.created, n)
	return &n, nil
}

func (m *memNotifications) MarkRead(context.Context, string, string) error { return nil }

func (m *memNotifications) MarkAllRead(context.Context, string) error { return nil }

func (m *memNotifications) UnreadCount(context.Context, string) (int, error) {
	return len(m.created), nil
}

func testNotifyJob(repo *memNotifications) *NotifyJob {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNotifyJob(notifications.NewService(repo), logger, nil)
}

func TestHandleCommentCreatesNotification(t *testing.T) {
	repo := &memNotifications{}
	job := testNotifyJob(repo)

	task := NewCommentNotifyTask(CommentNotifyPayload{
		PostID:          "p1",
		PostAuthorID:    "author-1",
		CommentID:       "c1",
		CommentAuthorID: "reader-1",
	})
	require.NoError(t, job.HandleComment(t.Context(), task))

	require.Len(t, repo.created, 1)
	n := repo.created[0]
	require.Equal(t, "author-1", n.UserID)
	require.Equal(t, notifications.KindComment, n.Kind)
	require.Equal(t, "p1", n.Meta["post_id"])
}

func TestHandleRoleChangeUsesDisplayName(t *testing.T) {
	repo := &memNotifications{}
	job := testNotifyJob(repo)

	task := NewRoleChangeNotifyTask(RoleChangeNotifyPayload{
		PrincipalID: "u1",
		Role:        "super_admin",
		ActorID:     "admin-1",
	})
	require.NoError(t, job.HandleRoleChange(t.Context(), task))

	require.Len(t, repo.created, 1)
	require.Equal(t, "Your role is now Super Admin", repo.created[0].Message)
	require.Equal(t, notifications.KindRoleChange, repo.created[0].Kind)
}

func TestHandleCommentSkipsRetryOnBadPayload(t *testing.T) {
	job := testNotifyJob(&memNotifications{})

	task := asynq.NewTask(TaskTypeCommentNotify, []byte("{not json"))
	require.ErrorIs(t, job.HandleComment(t.Context(), task), asynq.SkipRetry)
}
