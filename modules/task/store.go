package task

import (
	"context"
	"errors"

	domain "github.com/example/task-board/domain/task"
)

// ErrNotFound is returned by a TaskStore when no task has the given id.
var ErrNotFound = errors.New("task not found")

// TaskStore is the persistence contract of the task engine. An empty scope
// in the listing methods means tasks of every user. Constraint violations
// are reported as *apperror.StoreValidationError.
type TaskStore interface {
	Create(ctx context.Context, in domain.CreateInput, ownerID string) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// FindByUserID orders by status, then order, then newest first.
	FindByUserID(ctx context.Context, userID string) ([]domain.Task, error)
	FindWithFilters(ctx context.Context, q domain.ListQuery, scope string) (*domain.Page, error)
	FindForKanban(ctx context.Context, q domain.KanbanQuery, scope string) (*domain.KanbanBoard, error)
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.Task, error)
	// UpdateStatus writes status and, when given, order in one statement.
	UpdateStatus(ctx context.Context, id string, status domain.Status, order *int) (*domain.Task, error)
	UpdateOrder(ctx context.Context, id string, order int) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
