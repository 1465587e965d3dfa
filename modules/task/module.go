package task

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/task"
	"github.com/example/task-board/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule hosts the task engine and owns the tasks table.
type TaskModule struct {
	db       *gorm.DB
	service  *TaskService
	cache    TaskCache
	eventBus mono.EventBus
	dbPath   string
	logger   types.Logger
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule. A nil cache disables cached lookups.
func NewModule(cache TaskCache, logger types.Logger) *TaskModule {
	dbPath := os.Getenv("TASK_DB_PATH")
	if dbPath == "" {
		dbPath = "tasks.db"
	}
	return &TaskModule{
		cache:  cache,
		dbPath: dbPath,
		logger: logger.WithModule("task"),
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetEventBus receives the event bus from the framework.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskStatusChangedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// Start opens the task database and wires the engine.
func (m *TaskModule) Start(ctx context.Context) error {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewTaskRepository(db)
	if n, err := repo.BackfillSearchText(ctx); err != nil {
		return err
	} else if n > 0 {
		m.logger.Info("Indexed tasks for search", "count", n)
	}

	var store TaskStore = repo
	if m.cache != nil {
		store = NewCachedStore(store, m.cache, m.logger)
	}
	m.service = NewTaskService(store)

	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, events will not be published")
	}
	m.logger.Info("Module started", "database", m.dbPath, "cached", m.cache != nil)
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
			"cached":   m.cache != nil,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "kanban-board", json.Unmarshal, json.Marshal, m.kanbanBoard,
	); err != nil {
		return fmt.Errorf("failed to register kanban-board service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task-status", json.Unmarshal, json.Marshal, m.updateTaskStatus,
	); err != nil {
		return fmt.Errorf("failed to register update-task-status service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "reorder-task", json.Unmarshal, json.Marshal, m.reorderTask,
	); err != nil {
		return fmt.Errorf("failed to register reorder-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "create-task, get-task, list-tasks, kanban-board, update-task, update-task-status, reorder-task, delete-task")
	return nil
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	t, err := m.service.Create(ctx, req.Principal, req.Input)
	if err != nil {
		return m.taskFailure("create-task", err)
	}

	m.publish("TaskCreated", t.ID, func() error {
		return events.TaskCreatedV1.Publish(m.eventBus, events.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			UserID:    t.UserID,
			Status:    string(t.Status),
			Priority:  string(t.Priority),
			CreatedAt: t.CreatedAt,
		}, nil)
	})
	return TaskReply{Task: t}, nil
}

func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskReply, error) {
	t, err := m.service.Get(ctx, req.Principal, req.TaskID)
	if err != nil {
		return m.taskFailure("get-task", err)
	}
	return TaskReply{Task: t}, nil
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (PageReply, error) {
	page, err := m.service.List(ctx, req.Principal, req.Query)
	if err != nil {
		domainErr, err := apperror.Split(err)
		m.logFailure("list-tasks", err)
		return PageReply{Error: domainErr}, err
	}
	return PageReply{Page: page}, nil
}

func (m *TaskModule) kanbanBoard(ctx context.Context, req KanbanRequest, _ *mono.Msg) (KanbanReply, error) {
	board, err := m.service.Kanban(ctx, req.Principal, req.Query)
	if err != nil {
		domainErr, err := apperror.Split(err)
		m.logFailure("kanban-board", err)
		return KanbanReply{Error: domainErr}, err
	}
	return KanbanReply{Board: board}, nil
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	t, err := m.service.Update(ctx, req.Principal, req.TaskID, req.Patch)
	if err != nil {
		return m.taskFailure("update-task", err)
	}

	m.publishUpdated(t, req.Principal.ID, patchFields(req.Patch))
	if req.Patch.Status != nil {
		m.publishStatusChanged(t)
	}
	return TaskReply{Task: t}, nil
}

func (m *TaskModule) updateTaskStatus(ctx context.Context, req UpdateStatusRequest, _ *mono.Msg) (TaskReply, error) {
	t, err := m.service.UpdateStatus(ctx, req.Principal, req.TaskID, req.Status, req.Order)
	if err != nil {
		return m.taskFailure("update-task-status", err)
	}

	m.publishStatusChanged(t)
	return TaskReply{Task: t}, nil
}

func (m *TaskModule) reorderTask(ctx context.Context, req ReorderTaskRequest, _ *mono.Msg) (TaskReply, error) {
	t, err := m.service.Reorder(ctx, req.Principal, req.TaskID, req.Order)
	if err != nil {
		return m.taskFailure("reorder-task", err)
	}

	m.publishUpdated(t, req.Principal.ID, []string{"order"})
	return TaskReply{Task: t}, nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskReply, error) {
	t, err := m.service.Delete(ctx, req.Principal, req.TaskID)
	if err != nil {
		domainErr, err := apperror.Split(err)
		m.logFailure("delete-task", err)
		return DeleteTaskReply{Error: domainErr}, err
	}

	m.publish("TaskDeleted", t.ID, func() error {
		return events.TaskDeletedV1.Publish(m.eventBus, events.TaskDeletedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			UserID:    t.UserID,
			DeletedAt: time.Now().UTC(),
		}, nil)
	})
	return DeleteTaskReply{Deleted: true}, nil
}

func (m *TaskModule) taskFailure(service string, err error) (TaskReply, error) {
	domainErr, err := apperror.Split(err)
	m.logFailure(service, err)
	return TaskReply{Error: domainErr}, err
}

func (m *TaskModule) logFailure(service string, err error) {
	if err != nil {
		m.logger.Error("Service failed", "service", service, "error", err)
	}
}

func (m *TaskModule) publishUpdated(t *domain.Task, actorID string, fields []string) {
	m.publish("TaskUpdated", t.ID, func() error {
		return events.TaskUpdatedV1.Publish(m.eventBus, events.TaskUpdatedEvent{
			TaskID:    t.ID,
			UserID:    t.UserID,
			ActorID:   actorID,
			Fields:    fields,
			UpdatedAt: t.UpdatedAt,
		}, nil)
	})
}

func (m *TaskModule) publishStatusChanged(t *domain.Task) {
	m.publish("TaskStatusChanged", t.ID, func() error {
		return events.TaskStatusChangedV1.Publish(m.eventBus, events.TaskStatusChangedEvent{
			TaskID:    t.ID,
			UserID:    t.UserID,
			Status:    string(t.Status),
			Order:     t.Order,
			ChangedAt: t.UpdatedAt,
		}, nil)
	})
}

// publish is best-effort; a failed publish never fails the operation.
func (m *TaskModule) publish(event, taskID string, fn func() error) {
	if m.eventBus == nil {
		return
	}
	if err := fn(); err != nil {
		m.logger.Warn("Failed to publish event", "event", event, "task_id", taskID, "error", err)
	}
}

func patchFields(p domain.Patch) []string {
	p = p.Normalize()
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	if p.Priority != nil {
		fields = append(fields, "priority")
	}
	if p.DueDate != nil || p.ClearDueDate {
		fields = append(fields, "due_date")
	}
	if p.Order != nil {
		fields = append(fields, "order")
	}
	return fields
}
