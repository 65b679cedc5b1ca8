package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, logger: logger}
}

// Create persists a new task owned by the caller. A non-nil AssignedTo must
// resolve to an existing user; tags default to an empty list and the
// description to an empty string.
func (s *TaskService) Create(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	status := in.Status
	if status == "" {
		status = domain.StatusTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, priority)
	}

	if in.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *in.AssignedTo); err != nil {
			return nil, err
		}
	}

	description := ""
	if in.Description != nil {
		description = *in.Description
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: description,
		Status:      status,
		Priority:    priority,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
		Tags:        tags,
		UserID:      in.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("owner_id", in.OwnerID).Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().Str("task_id", task.ID).Str("owner_id", in.OwnerID).Msg("task created")
	return task, nil
}

// List returns the caller's tasks newest-created first. The assignee is
// flattened to a display string: user name, then email, then the raw stored
// reference, then "unassigned".
func (s *TaskService) List(ctx context.Context, ownerID string) ([]ports.TaskSummary, error) {
	rows, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to list tasks")
		return nil, err
	}

	out := make([]ports.TaskSummary, len(rows))
	for i, row := range rows {
		out[i] = ports.TaskSummary{
			Task:            row.Task,
			AssignedDisplay: assignedDisplay(row),
		}
	}
	return out, nil
}

func assignedDisplay(row ports.TaskWithAssignee) string {
	switch {
	case row.AssigneeName != nil && *row.AssigneeName != "":
		return *row.AssigneeName
	case row.AssigneeEmail != nil && *row.AssigneeEmail != "":
		return *row.AssigneeEmail
	case row.Task.AssignedTo != nil:
		return *row.Task.AssignedTo
	default:
		return "unassigned"
	}
}

// Get returns a single task scoped to the caller. An existing task owned by
// someone else surfaces as not-found. The assignee resolves to {id, name}
// when the user exists, {id} alone for a dangling reference, nil when
// unassigned.
func (s *TaskService) Get(ctx context.Context, id, ownerID string) (*ports.TaskDetail, error) {
	task, err := s.tasks.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	detail := &ports.TaskDetail{Task: *task}
	if task.AssignedTo != nil {
		detail.AssignedTo = &ports.AssigneeRef{ID: *task.AssignedTo}
		user, err := s.users.FindByID(ctx, *task.AssignedTo)
		switch {
		case err == nil:
			name := user.Name
			if name == "" {
				name = user.Email
			}
			detail.AssignedTo.Name = name
		case err != domain.ErrUserNotFound:
			return nil, err
		}
	}
	return detail, nil
}

// Update reconciles a partial patch against the stored task. Each optional
// field has three states that map to three outcomes:
//
//	absent  → column untouched
//	null    → column cleared (tags → empty list, assignee → unassigned)
//	value   → column set verbatim (tags replace the whole list)
//
// The updated-at timestamp is stamped on every call, including an empty
// patch. The write is scoped to (id, ownerID) a second time so a row that
// changed owners between read and write still comes back as not-found.
func (s *TaskService) Update(ctx context.Context, id, ownerID string, patch domain.TaskPatch) (*domain.Task, error) {
	if _, err := s.tasks.FindByID(ctx, id, ownerID); err != nil {
		return nil, err
	}

	changes, err := s.reconcile(ctx, patch)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, id, ownerID, changes); err != nil {
		if err == domain.ErrTaskNotFound {
			return nil, err
		}
		s.logger.Error().Err(err).Str("task_id", id).Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().Str("task_id", id).Int("fields", len(changes)-1).Msg("task updated")
	return s.tasks.FindByID(ctx, id, ownerID)
}

// reconcile validates the patch and computes the write payload, keyed by
// column name. Presence, not truthiness, decides whether a field is
// included: an explicit empty string and an absent field take different
// branches.
func (s *TaskService) reconcile(ctx context.Context, patch domain.TaskPatch) (map[string]any, error) {
	changes := map[string]any{
		"updated_at": time.Now().UTC(),
	}

	if patch.Title.Set {
		if patch.Title.Null || strings.TrimSpace(patch.Title.Value) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		changes["title"] = patch.Title.Value
	}

	if patch.Status.Set {
		if patch.Status.Null || !patch.Status.Value.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, patch.Status.Value)
		}
		changes["status"] = patch.Status.Value
	}

	if patch.Priority.Set {
		if patch.Priority.Null || !patch.Priority.Value.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, patch.Priority.Value)
		}
		changes["priority"] = patch.Priority.Value
	}

	if patch.Description.Set {
		// An explicit null or "" clears the description.
		desc := ""
		if !patch.Description.Null {
			desc = patch.Description.Value
		}
		changes["description"] = desc
	}

	if patch.DueDate.Set {
		if patch.DueDate.Null {
			changes["due_date"] = (*time.Time)(nil)
		} else {
			changes["due_date"] = patch.DueDate.Value
		}
	}

	if patch.Tags.Set {
		// null clears the list; a list (empty included) replaces it wholesale.
		tags := patch.Tags.Value
		if patch.Tags.Null || tags == nil {
			tags = []string{}
		}
		changes["tags"] = tags
	}

	if patch.AssignedTo.Set {
		if patch.AssignedTo.Null {
			changes["assigned_to"] = (*string)(nil)
		} else {
			if err := s.checkAssignee(ctx, patch.AssignedTo.Value); err != nil {
				return nil, err
			}
			changes["assigned_to"] = patch.AssignedTo.Value
		}
	}

	return changes, nil
}

func (s *TaskService) checkAssignee(ctx context.Context, userID string) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrBadReference, userID)
	}
	return nil
}

// Delete removes the task scoped to the caller. A no-match outcome surfaces
// as not-found; callers may treat that as success since the row is gone
// either way.
func (s *TaskService) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.tasks.Delete(ctx, id, ownerID); err != nil {
		if err != domain.ErrTaskNotFound {
			s.logger.Error().Err(err).Str("task_id", id).Msg("failed to delete task")
		}
		return err
	}
	s.logger.Info().Str("task_id", id).Str("owner_id", ownerID).Msg("task deleted")
	return nil
}
