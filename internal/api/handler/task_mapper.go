package handler

import (
	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createTaskRequest, ownerID string) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		OwnerID:     ownerID,
	}
}

// mergePatch collapses the legacy nested "updates" wrapper into a single
// flat patch. The merge is per field and last-merge-wins: a field present
// in the wrapper shadows the same field at the top level; fields only
// present at the top level survive.
func mergePatch(req updateTaskRequest) domain.TaskPatch {
	fields := req.taskFieldsPatch
	if req.Updates != nil {
		if req.Updates.Title.Set {
			fields.Title = req.Updates.Title
		}
		if req.Updates.Description.Set {
			fields.Description = req.Updates.Description
		}
		if req.Updates.Status.Set {
			fields.Status = req.Updates.Status
		}
		if req.Updates.Priority.Set {
			fields.Priority = req.Updates.Priority
		}
		if req.Updates.AssignedTo.Set {
			fields.AssignedTo = req.Updates.AssignedTo
		}
		if req.Updates.DueDate.Set {
			fields.DueDate = req.Updates.DueDate
		}
		if req.Updates.Tags.Set {
			fields.Tags = req.Updates.Tags
		}
	}

	return domain.TaskPatch{
		Title:       fields.Title,
		Description: fields.Description,
		Status:      convertOpt[domain.TaskStatus](fields.Status),
		Priority:    convertOpt[domain.TaskPriority](fields.Priority),
		AssignedTo:  fields.AssignedTo,
		DueDate:     fields.DueDate,
		Tags:        fields.Tags,
	}
}

func convertOpt[T ~string](o domain.Opt[string]) domain.Opt[T] {
	return domain.Opt[T]{Set: o.Set, Null: o.Null, Value: T(o.Value)}
}

// --- Service result → HTTP response ---

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AssignedTo:  t.AssignedTo,
		DueDate:     t.DueDate,
		Tags:        t.Tags,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func toListResponse(items []ports.TaskSummary) []taskListItemResponse {
	out := make([]taskListItemResponse, len(items))
	for i, item := range items {
		out[i] = taskListItemResponse{
			ID:          item.Task.ID,
			Title:       item.Task.Title,
			Description: item.Task.Description,
			Status:      string(item.Task.Status),
			Priority:    string(item.Task.Priority),
			AssignedTo:  item.AssignedDisplay,
			DueDate:     item.Task.DueDate,
			Tags:        item.Task.Tags,
			CreatedAt:   item.Task.CreatedAt.UTC(),
			UpdatedAt:   item.Task.UpdatedAt.UTC(),
		}
	}
	return out
}

func toDetailResponse(d *ports.TaskDetail) taskDetailResponse {
	resp := taskDetailResponse{
		ID:          d.Task.ID,
		Title:       d.Task.Title,
		Description: d.Task.Description,
		Status:      string(d.Task.Status),
		Priority:    string(d.Task.Priority),
		DueDate:     d.Task.DueDate,
		Tags:        d.Task.Tags,
		UserID:      d.Task.UserID,
		CreatedAt:   d.Task.CreatedAt.UTC(),
		UpdatedAt:   d.Task.UpdatedAt.UTC(),
	}
	if d.AssignedTo != nil {
		resp.AssignedTo = &assigneeResponse{ID: d.AssignedTo.ID, Name: d.AssignedTo.Name}
	}
	return resp
}
