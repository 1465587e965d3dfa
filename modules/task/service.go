package task

import (
	"context"
	"errors"

	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/task"
	"github.com/example/task-board/domain/user"
)

// Ownership messages, one per operation.
const (
	msgViewOwnership    = "you do not have permission to view this task"
	msgUpdateOwnership  = "you can only update your own tasks"
	msgStatusOwnership  = "you can only update the status of your own tasks"
	msgReorderOwnership = "you can only reorder your own tasks"
	msgDeleteOwnership  = "you can only delete your own tasks"
)

// TaskService applies the visibility and ownership rules around a TaskStore.
// Existence is always checked before ownership.
type TaskService struct {
	store TaskStore
}

// NewTaskService creates a new TaskService.
func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// Create stores a new task owned by the caller.
func (s *TaskService) Create(ctx context.Context, p user.Principal, in domain.CreateInput) (*domain.Task, error) {
	t, err := s.store.Create(ctx, in.WithDefaults(), p.ID)
	if err != nil {
		return nil, apperror.WrapValidation(apperror.CodeCreateTaskValidation, err)
	}
	return t, nil
}

// Get returns a task the caller may read. Admins may read any task.
func (s *TaskService) Get(ctx context.Context, p user.Principal, id string) (*domain.Task, error) {
	t, err := s.find(ctx, id, apperror.CodeGetTaskValidation)
	if err != nil {
		return nil, err
	}
	if !domain.CanRead(p, t) {
		return nil, apperror.TaskOwnership(msgViewOwnership)
	}
	return t, nil
}

// List returns one page of tasks within the caller's scope.
func (s *TaskService) List(ctx context.Context, p user.Principal, q domain.ListQuery) (*domain.Page, error) {
	scope, err := domain.ResolveListScope(p, q.UserID)
	if err != nil {
		return nil, err
	}
	if details := q.Validate(); len(details) > 0 {
		return nil, apperror.Validation(apperror.CodeListTasksValidation, "invalid list query", details...)
	}

	page, err := s.store.FindWithFilters(ctx, q.Normalize(), scope)
	if err != nil {
		return nil, apperror.WrapValidation(apperror.CodeListTasksValidation, err)
	}
	return page, nil
}

// Kanban returns the board within the caller's scope.
func (s *TaskService) Kanban(ctx context.Context, p user.Principal, q domain.KanbanQuery) (*domain.KanbanBoard, error) {
	scope, err := domain.ResolveListScope(p, q.UserID)
	if err != nil {
		return nil, err
	}
	if details := q.Validate(); len(details) > 0 {
		return nil, apperror.Validation(apperror.CodeKanbanValidation, "invalid kanban query", details...)
	}

	board, err := s.store.FindForKanban(ctx, q, scope)
	if err != nil {
		return nil, apperror.WrapValidation(apperror.CodeKanbanValidation, err)
	}
	return board, nil
}

// Update applies a partial update to a task the caller owns.
func (s *TaskService) Update(ctx context.Context, p user.Principal, id string, patch domain.Patch) (*domain.Task, error) {
	if _, err := s.owned(ctx, p, id, apperror.CodeUpdateTaskValidation, msgUpdateOwnership); err != nil {
		return nil, err
	}

	t, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, s.writeError(apperror.CodeUpdateTaskValidation, err)
	}
	return t, nil
}

// UpdateStatus moves a task the caller owns to status, optionally at a new
// position.
func (s *TaskService) UpdateStatus(ctx context.Context, p user.Principal, id string, status domain.Status, order *int) (*domain.Task, error) {
	if _, err := s.owned(ctx, p, id, apperror.CodeUpdateStatusTaskValidation, msgStatusOwnership); err != nil {
		return nil, err
	}

	t, err := s.store.UpdateStatus(ctx, id, status, order)
	if err != nil {
		return nil, s.writeError(apperror.CodeUpdateStatusTaskValidation, err)
	}
	return t, nil
}

// Reorder repositions a task the caller owns within its column.
func (s *TaskService) Reorder(ctx context.Context, p user.Principal, id string, order int) (*domain.Task, error) {
	if _, err := s.owned(ctx, p, id, apperror.CodeUpdateTaskValidation, msgReorderOwnership); err != nil {
		return nil, err
	}

	t, err := s.store.UpdateOrder(ctx, id, order)
	if err != nil {
		return nil, s.writeError(apperror.CodeUpdateTaskValidation, err)
	}
	return t, nil
}

// Delete permanently removes a task the caller owns and returns it as it
// was before deletion.
func (s *TaskService) Delete(ctx context.Context, p user.Principal, id string) (*domain.Task, error) {
	t, err := s.owned(ctx, p, id, apperror.CodeDeleteTaskValidation, msgDeleteOwnership)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return nil, s.writeError(apperror.CodeDeleteTaskValidation, err)
	}
	return t, nil
}

func (s *TaskService) find(ctx context.Context, id, code string) (*domain.Task, error) {
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.TaskNotFound()
		}
		return nil, apperror.WrapValidation(code, err)
	}
	return t, nil
}

func (s *TaskService) owned(ctx context.Context, p user.Principal, id, code, message string) (*domain.Task, error) {
	t, err := s.find(ctx, id, code)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutate(p, t) {
		return nil, apperror.TaskOwnership(message)
	}
	return t, nil
}

// writeError maps a write that lost a race with a delete to TaskNotFound.
func (s *TaskService) writeError(code string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperror.TaskNotFound()
	}
	return apperror.WrapValidation(code, err)
}
