package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/inkwell-press/inkwell/internal/jobs"
	"github.com/inkwell-press/inkwell/internal/notifications"
	"github.com/inkwell-press/inkwell/internal/rbac"
)

// NotifyJob materialises queued notification tasks into the per-user feed.
type NotifyJob struct {
	Notifications *notifications.Service
	Logger        *slog.Logger
	Metrics       *jobmetrics.Metrics
}

// NewNotifyJob wires dependencies for the notification handlers.
func NewNotifyJob(svc *notifications.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *NotifyJob {
	return &NotifyJob{Notifications: svc, Logger: logger, Metrics: metrics}
}

// HandleComment processes TaskTypeCommentNotify tasks.
func (j *NotifyJob) HandleComment(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Notifications == nil {
		return errors.New("notify: handler not configured")
	}
	var payload CommentNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskTypeCommentNotify)
	_, err := j.Notifications.Notify(ctx, payload.PostAuthorID, notifications.KindComment,
		"Someone commented on your post", map[string]any{
			"post_id":    payload.PostID,
			"comment_id": payload.CommentID,
			"author_id":  payload.CommentAuthorID,
		})
	if err != nil {
		j.logger().Error("comment notification", slog.Any("error", err))
	}
	return tracker.End(err)
}

// HandleRoleChange processes TaskTypeRoleChangeNotify tasks.
func (j *NotifyJob) HandleRoleChange(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Notifications == nil {
		return errors.New("notify: handler not configured")
	}
	var payload RoleChangeNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	display := payload.Role
	if role, err := rbac.ParseRole(payload.Role); err == nil {
		display = role.DisplayName()
	}

	tracker := j.metrics().Track(TaskTypeRoleChangeNotify)
	_, err := j.Notifications.Notify(ctx, payload.PrincipalID, notifications.KindRoleChange,
		"Your role is now "+display, map[string]any{
			"role":     payload.Role,
			"actor_id": payload.ActorID,
		})
	if err != nil {
		j.logger().Error("role change notification", slog.Any("error", err))
	}
	return tracker.End(err)
}

func (j *NotifyJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *NotifyJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}
