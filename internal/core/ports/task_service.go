package ports

import (
	"context"
	"time"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// CreateTaskInput carries all data needed to create a task. Status and
// Priority arrive pre-validated from the boundary; empty values fall back
// to the documented defaults.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AssignedTo  *string
	DueDate     *time.Time
	Tags        []string
	OwnerID     string
}

// TaskSummary is the list-view projection: the assignee is flattened to a
// display string (name, falling back to email, then the raw stored id,
// then "unassigned").
type TaskSummary struct {
	Task            domain.Task
	AssignedDisplay string
}

// AssigneeRef is the structured assignee view returned by Get. Name is
// empty when the stored reference does not resolve to a known user.
type AssigneeRef struct {
	ID   string
	Name string
}

// TaskDetail is the single-task view. AssignedTo is nil when unassigned.
type TaskDetail struct {
	Task       domain.Task
	AssignedTo *AssigneeRef
}

// TaskService defines the use-case operations for the task board. Every
// operation takes the caller's user id explicitly; there is no ambient
// session state.
type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, ownerID string) ([]TaskSummary, error)
	Get(ctx context.Context, id, ownerID string) (*TaskDetail, error)
	Update(ctx context.Context, id, ownerID string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
}
