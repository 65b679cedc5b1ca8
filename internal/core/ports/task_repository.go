package ports

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// TaskWithAssignee is a task row joined with the assigned user's identity
// fields. The pointers are nil when the stored reference does not resolve
// to a known user (or when the task is unassigned).
type TaskWithAssignee struct {
	Task          domain.Task
	AssigneeName  *string
	AssigneeEmail *string
}

// TaskRepository defines persistence operations for tasks. Every read and
// write that targets a single row is scoped to (id, ownerID); a row owned
// by someone else is indistinguishable from a missing row.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id, ownerID string) (*domain.Task, error)
	// ListByOwner returns the owner's tasks newest-created first, each
	// joined against the users table to resolve the assignee.
	ListByOwner(ctx context.Context, ownerID string) ([]TaskWithAssignee, error)
	// Update writes exactly the columns present in changes, scoped to
	// (id, ownerID). It returns domain.ErrTaskNotFound when no row matched.
	Update(ctx context.Context, id, ownerID string, changes map[string]any) error
	// Delete removes the row scoped to (id, ownerID) and returns
	// domain.ErrTaskNotFound when no row matched.
	Delete(ctx context.Context, id, ownerID string) error
}
