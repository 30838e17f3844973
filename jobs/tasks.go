package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskTypeSendEmail sends transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeCommentNotify notifies a post author about a new comment.
	TaskTypeCommentNotify = "notify:comment"
	// TaskTypeRoleChangeNotify notifies a principal their role changed.
	TaskTypeRoleChangeNotify = "notify:role_change"
	// TaskTypeSearchReindex drops the cached search results after content
	// changes.
	TaskTypeSearchReindex = "search:reindex"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with SMTP/Mailpit in phase 2.
	fmt.Printf("[jobs] send email to %s subject=%s\n", payload.To, payload.Subject)
	return nil
}

// CommentNotifyPayload carries the comment notification data.
type CommentNotifyPayload struct {
	PostID          string `json:"post_id"`
	PostAuthorID    string `json:"post_author_id"`
	CommentID       string `json:"comment_id"`
	CommentAuthorID string `json:"comment_author_id"`
}

// NewCommentNotifyTask constructs an Asynq task.
func NewCommentNotifyTask(payload CommentNotifyPayload) *asynq.Task {
	data, _ := json.Marshal(payload)
	return asynq.NewTask(TaskTypeCommentNotify, data)
}

// RoleChangeNotifyPayload carries the role-change notification data.
type RoleChangeNotifyPayload struct {
	PrincipalID string `json:"principal_id"`
	Role        string `json:"role"`
	ActorID     string `json:"actor_id"`
}

// NewRoleChangeNotifyTask constructs an Asynq task.
func NewRoleChangeNotifyTask(payload RoleChangeNotifyPayload) *asynq.Task {
	data, _ := json.Marshal(payload)
	return asynq.NewTask(TaskTypeRoleChangeNotify, data)
}

// NewSearchReindexTask constructs an Asynq task. The payload is empty; the
// handler invalidates the whole cache.
func NewSearchReindexTask() *asynq.Task {
	return asynq.NewTask(TaskTypeSearchReindex, nil)
}
