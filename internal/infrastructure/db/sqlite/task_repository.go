package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// taskRecord is the storage shape of a task. Tags persist as a JSON-encoded
// TEXT column so ordering and duplicates survive round-trips.
type taskRecord struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Title       string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	Status      string  `gorm:"type:varchar(20);not null"`
	Priority    string  `gorm:"type:varchar(10);not null"`
	AssignedTo  *string `gorm:"index"`
	DueDate     *time.Time
	Tags        string    `gorm:"not null"`
	UserID      string    `gorm:"index;not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (taskRecord) TableName() string { return "tasks" }

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task row.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	rec, err := toTaskRecord(t)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// FindByID retrieves a task scoped to its owner. A row owned by another
// user comes back as domain.ErrTaskNotFound.
func (r *TaskRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	var rec taskRecord
	err := r.db.WithContext(ctx).
		First(&rec, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return toDomainTask(&rec)
}

// taskJoinRow is the scan target for ListByOwner's LEFT JOIN against users.
type taskJoinRow struct {
	ID            string
	Title         string
	Description   string
	Status        string
	Priority      string
	AssignedTo    *string
	DueDate       *time.Time
	Tags          string
	UserID        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	AssigneeName  *string
	AssigneeEmail *string
}

// ListByOwner returns the owner's tasks newest-created first, joined with
// the assigned user's name and email when the reference resolves.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]ports.TaskWithAssignee, error) {
	var rows []taskJoinRow
	err := r.db.WithContext(ctx).
		Table("tasks").
		Select("tasks.*, users.name AS assignee_name, users.email AS assignee_email").
		Joins("LEFT JOIN users ON users.id = tasks.assigned_to").
		Where("tasks.user_id = ?", ownerID).
		Order("tasks.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := make([]ports.TaskWithAssignee, len(rows))
	for i, row := range rows {
		tags, err := decodeTags(row.Tags)
		if err != nil {
			return nil, err
		}
		out[i] = ports.TaskWithAssignee{
			Task: domain.Task{
				ID:          row.ID,
				Title:       row.Title,
				Description: row.Description,
				Status:      domain.TaskStatus(row.Status),
				Priority:    domain.TaskPriority(row.Priority),
				AssignedTo:  row.AssignedTo,
				DueDate:     row.DueDate,
				Tags:        tags,
				UserID:      row.UserID,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			},
			AssigneeName:  row.AssigneeName,
			AssigneeEmail: row.AssigneeEmail,
		}
	}
	return out, nil
}

// Update writes exactly the columns present in changes, scoped a second
// time to (id, ownerID). RowsAffected 0 means the row is gone or not owned
// by the caller.
func (r *TaskRepository) Update(ctx context.Context, id, ownerID string, changes map[string]any) error {
	if tags, ok := changes["tags"].([]string); ok {
		encoded, err := encodeTags(tags)
		if err != nil {
			return err
		}
		changes["tags"] = encoded
	}

	res := r.db.WithContext(ctx).Model(&taskRecord{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(changes)
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Delete removes the row scoped to (id, ownerID).
func (r *TaskRepository) Delete(ctx context.Context, id, ownerID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&taskRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func toTaskRecord(t *domain.Task) (*taskRecord, error) {
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return nil, err
	}
	return &taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AssignedTo:  t.AssignedTo,
		DueDate:     t.DueDate,
		Tags:        tags,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}, nil
}

func toDomainTask(rec *taskRecord) (*domain.Task, error) {
	tags, err := decodeTags(rec.Tags)
	if err != nil {
		return nil, err
	}
	return &domain.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Status:      domain.TaskStatus(rec.Status),
		Priority:    domain.TaskPriority(rec.Priority),
		AssignedTo:  rec.AssignedTo,
		DueDate:     rec.DueDate,
		Tags:        tags,
		UserID:      rec.UserID,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
