package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-board/domain/task"
	"github.com/example/task-board/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the task operations available to driving adapters such
// as the HTTP API. Domain failures are returned as *apperror.Error.
type TaskPort interface {
	CreateTask(ctx context.Context, p user.Principal, in domain.CreateInput) (*domain.Task, error)
	GetTask(ctx context.Context, p user.Principal, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, p user.Principal, q domain.ListQuery) (*domain.Page, error)
	KanbanBoard(ctx context.Context, p user.Principal, q domain.KanbanQuery) (*domain.KanbanBoard, error)
	UpdateTask(ctx context.Context, p user.Principal, taskID string, patch domain.Patch) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, p user.Principal, taskID string, status domain.Status, order *int) (*domain.Task, error)
	ReorderTask(ctx context.Context, p user.Principal, taskID string, order int) (*domain.Task, error)
	DeleteTask(ctx context.Context, p user.Principal, taskID string) error
}

// TaskAdapter implements TaskPort over the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

var _ TaskPort = (*TaskAdapter)(nil)

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{container: container}
}

// CreateTask creates a task owned by p.
func (a *TaskAdapter) CreateTask(ctx context.Context, p user.Principal, in domain.CreateInput) (*domain.Task, error) {
	req := CreateTaskRequest{Principal: p, Input: in}
	var resp TaskReply
	if err := helper.CallRequestReplyService(ctx, a.container, "create-task", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return nil, fmt.Errorf("create-task request failed: %w", err)
	}
	return taskResult(resp)
}

// GetTask fetches a task visible to p.
func (a *TaskAdapter) GetTask(ctx context.Context, p user.Principal, taskID string) (*domain.Task, error) {
	req := GetTaskRequest{Principal: p, TaskID: taskID}
	var resp TaskReply
	if err := helper.CallRequestReplyService(ctx, a.container, "get-task", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return nil, fmt.Errorf("get-task request failed: %w", err)
	}
	return taskResult(resp)
}

// ListTasks fetches a filtered page of tasks.
func (a *TaskAdapter) ListTasks(ctx context.Context, p user.Principal, q domain.ListQuery) (*domain.Page, error) {
	req := ListTasksRequest{Principal: p, Query: q}
	var resp PageReply
	if err := helper.CallRequestReplyService(ctx, a.container, "list-tasks", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return nil, fmt.Errorf("list-tasks request failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Page, nil
}

// KanbanBoard fetches the board.
func (a *TaskAdapter) KanbanBoard(ctx context.Context, p user.Principal, q domain.KanbanQuery) (*domain.KanbanBoard, error) {
	req := KanbanRequest{Principal: p, Query: q}
	var resp KanbanReply
	if err := helper.CallRequestReplyService(ctx, a.container, "kanban-board", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return nil, fmt.Errorf("kanban-board request failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Board, nil
}

// UpdateTask applies a partial update.
func (a *TaskAdapter) UpdateTask(ctx context.Context, p user.Principal, taskID string, patch domain.Patch) (*domain.Task, error) {
	req := UpdateTaskRequest{Principal: p, TaskID: taskID, Patch: patch}
	var resp TaskReply
	if err := helper.CallRequestReplyService(ctx, a.container, "update-task", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return nil, fmt.Errorf("update-task request failed: %w", err)
	}
	return taskResult(resp)
}

// UpdateTaskStatus moves a task between columns.
func (a *TaskAdapter) UpdateTaskStatus(ctx context.Context, p user.Principal, taskID string, status domain.Status, order *int) (*domain.Task, error) {
	req := UpdateStatusRequest{Principal: p, TaskID: taskID, Status: status, Order: order}
	var resp TaskReply
	if err := helper.CallRequestReplyService(ctx, a.container, "update-task-status", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return nil, fmt.Errorf("update-task-status request failed: %w", err)
	}
	return taskResult(resp)
}

// ReorderTask repositions a task within its column.
func (a *TaskAdapter) ReorderTask(ctx context.Context, p user.Principal, taskID string, order int) (*domain.Task, error) {
	req := ReorderTaskRequest{Principal: p, TaskID: taskID, Order: order}
	var resp TaskReply
	if err := helper.CallRequestReplyService(ctx, a.container, "reorder-task", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return nil, fmt.Errorf("reorder-task request failed: %w", err)
	}
	return taskResult(resp)
}

// DeleteTask removes a task.
func (a *TaskAdapter) DeleteTask(ctx context.Context, p user.Principal, taskID string) error {
	req := DeleteTaskRequest{Principal: p, TaskID: taskID}
	var resp DeleteTaskReply
	if err := helper.CallRequestReplyService(ctx, a.container, "delete-task", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return fmt.Errorf("delete-task request failed: %w", err)
	}
	if resp.Error != nil {
		return resp.Error
	}
	return nil
}

func taskResult(resp TaskReply) (*domain.Task, error) {
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Task, nil
}
