package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the board column a task lives in.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

var ErrTaskNotFound = errors.New("task not found")
var ErrBadReference = errors.New("referenced user does not exist")
var ErrValidation = errors.New("validation failed")

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the core aggregate. Every task belongs to exactly one owner
// (UserID); all reads and writes are scoped to that owner.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	// AssignedTo holds the id of the assigned user, nil when unassigned.
	// It is validated against the users table at write time, not enforced
	// by a foreign-key constraint.
	AssignedTo *string    `json:"assignedTo"`
	DueDate    *time.Time `json:"dueDate"`
	// Tags is an ordered list; duplicates are kept and updates replace the
	// whole list rather than merging.
	Tags      []string  `json:"tags"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
