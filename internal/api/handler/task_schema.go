package handler

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createTaskRequest struct {
	Title       string     `json:"title"       validate:"required"`
	Description *string    `json:"description"`
	Status      string     `json:"status"      validate:"omitempty,oneof=todo in-progress done"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	AssignedTo  *string    `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
}

// taskFieldsPatch carries the patchable task fields with three-state
// presence semantics. Validation of the decoded values happens in the
// service; the wire layer only decodes.
type taskFieldsPatch struct {
	Title       domain.Opt[string]    `json:"title"`
	Description domain.Opt[string]    `json:"description"`
	Status      domain.Opt[string]    `json:"status"`
	Priority    domain.Opt[string]    `json:"priority"`
	AssignedTo  domain.Opt[string]    `json:"assignedTo"`
	DueDate     domain.Opt[time.Time] `json:"dueDate"`
	Tags        domain.Opt[[]string]  `json:"tags"`
}

// updateTaskRequest accepts the canonical flat partial payload plus the
// legacy nested "updates" wrapper. When both set the same field the nested
// value wins; the merge happens at this boundary and nothing downstream
// ever sees the wrapper.
type updateTaskRequest struct {
	taskFieldsPatch
	Updates *taskFieldsPatch `json:"updates"`
}

// --- Response types ---
//
// Response-only types owned by the transport layer, kept separate from
// domain types so the JSON contract is not coupled to internal changes.

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  *string    `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
	UserID      string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// taskListItemResponse flattens the assignee to a display string for the
// board view.
type taskListItemResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type assigneeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// taskDetailResponse is the single-task view with a structured assignee
// reference (null when unassigned).
type taskDetailResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	AssignedTo  *assigneeResponse `json:"assignedTo"`
	DueDate     *time.Time        `json:"dueDate"`
	Tags        []string          `json:"tags"`
	UserID      string            `json:"userId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
