package task

import (
	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/task"
	"github.com/example/task-board/domain/user"
)

// Every request carries the authenticated principal. Replies carry either
// the result or a domain error.

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Principal user.Principal     `json:"principal"`
	Input     domain.CreateInput `json:"input"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	Principal user.Principal `json:"principal"`
	TaskID    string         `json:"task_id"`
}

// ListTasksRequest is the request for a filtered page of tasks.
type ListTasksRequest struct {
	Principal user.Principal   `json:"principal"`
	Query     domain.ListQuery `json:"query"`
}

// KanbanRequest is the request for the kanban board.
type KanbanRequest struct {
	Principal user.Principal     `json:"principal"`
	Query     domain.KanbanQuery `json:"query"`
}

// UpdateTaskRequest is the request for a partial update.
type UpdateTaskRequest struct {
	Principal user.Principal `json:"principal"`
	TaskID    string         `json:"task_id"`
	Patch     domain.Patch   `json:"patch"`
}

// UpdateStatusRequest is the request for moving a task between columns.
type UpdateStatusRequest struct {
	Principal user.Principal `json:"principal"`
	TaskID    string         `json:"task_id"`
	Status    domain.Status  `json:"status"`
	Order     *int           `json:"order,omitempty"`
}

// ReorderTaskRequest is the request for repositioning a task in its column.
type ReorderTaskRequest struct {
	Principal user.Principal `json:"principal"`
	TaskID    string         `json:"task_id"`
	Order     int            `json:"order"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	Principal user.Principal `json:"principal"`
	TaskID    string         `json:"task_id"`
}

// TaskReply carries a single task.
type TaskReply struct {
	Task  *domain.Task    `json:"task,omitempty"`
	Error *apperror.Error `json:"error,omitempty"`
}

// PageReply carries a page of tasks.
type PageReply struct {
	Page  *domain.Page    `json:"page,omitempty"`
	Error *apperror.Error `json:"error,omitempty"`
}

// KanbanReply carries the board.
type KanbanReply struct {
	Board *domain.KanbanBoard `json:"board,omitempty"`
	Error *apperror.Error     `json:"error,omitempty"`
}

// DeleteTaskReply reports a deletion.
type DeleteTaskReply struct {
	Deleted bool            `json:"deleted"`
	Error   *apperror.Error `json:"error,omitempty"`
}
