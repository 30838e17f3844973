package rbac

import (
	"context"
	"time"
)

// AssignmentStore is the document-store collaborator holding role assignments.
// Implementations must return ErrNotFound when no assignment exists for the
// principal and, when the store holds duplicates for one principal (a data
// anomaly), resolve to the oldest record.
type AssignmentStore interface {
	FindByPrincipal(ctx context.Context, principalID string) (Assignment, error)
	Insert(ctx context.Context, a Assignment) (Assignment, error)
	Update(ctx context.Context, id string, role Role, updatedAt time.Time) (Assignment, error)
	List(ctx context.Context) ([]Assignment, error)
}
