// Package activity records task events into a bounded in-memory feed and
// serves the recent entries to authenticated callers.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/task"
	"github.com/example/task-board/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

const (
	DefaultCapacity = 200
	DefaultLimit    = 20
	MaxLimit        = 100
)

// ActivityModule consumes task events and keeps the most recent ones.
type ActivityModule struct {
	feed   *Feed
	logger types.Logger
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)
var _ mono.HealthCheckableModule = (*ActivityModule)(nil)

// NewModule creates an ActivityModule keeping at most capacity entries.
func NewModule(capacity int, logger types.Logger) *ActivityModule {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &ActivityModule{
		feed:   NewFeed(capacity),
		logger: logger.WithModule("activity"),
	}
}

// Name returns the module name.
func (m *ActivityModule) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to every task event.
func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskStatusChangedV1, m.handleTaskStatusChanged, m); err != nil {
		return fmt.Errorf("failed to register TaskStatusChanged consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", "TaskCreated, TaskUpdated, TaskStatusChanged, TaskDeleted")
	return nil
}

// RegisterServices registers request-reply services in the service container.
func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent-activity", json.Unmarshal, json.Marshal, m.recentActivity,
	); err != nil {
		return fmt.Errorf("failed to register recent-activity service: %w", err)
	}

	m.logger.Info("Registered services", "services", "recent-activity")
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:      TypeTaskCreated,
		TaskID:    event.TaskID,
		UserID:    event.UserID,
		ActorID:   event.UserID,
		Message:   fmt.Sprintf("Task '%s' created with priority %s", event.Title, event.Priority),
		Timestamp: event.CreatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	changed := "no fields"
	if len(event.Fields) > 0 {
		changed = strings.Join(event.Fields, ", ")
	}
	m.record(Entry{
		Type:      TypeTaskUpdated,
		TaskID:    event.TaskID,
		UserID:    event.UserID,
		ActorID:   event.ActorID,
		Message:   fmt.Sprintf("Task %s updated: %s", event.TaskID, changed),
		Timestamp: event.UpdatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskStatusChanged(_ context.Context, event events.TaskStatusChangedEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:      TypeTaskStatusChanged,
		TaskID:    event.TaskID,
		UserID:    event.UserID,
		ActorID:   event.UserID,
		Message:   fmt.Sprintf("Task %s moved to %s at position %d", event.TaskID, event.Status, event.Order),
		Timestamp: event.ChangedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:      TypeTaskDeleted,
		TaskID:    event.TaskID,
		UserID:    event.UserID,
		ActorID:   event.UserID,
		Message:   fmt.Sprintf("Task '%s' deleted", event.Title),
		Timestamp: event.DeletedAt,
	})
	return nil
}

func (m *ActivityModule) record(e Entry) {
	e.ID = uuid.New().String()
	m.feed.Append(e)
	m.logger.Debug("Recorded activity", "type", e.Type, "task_id", e.TaskID)
}

func (m *ActivityModule) recentActivity(_ context.Context, req RecentActivityRequest, _ *mono.Msg) (RecentActivityReply, error) {
	scope, err := domain.ResolveListScope(req.Principal, req.UserID)
	if err != nil {
		domainErr, err := apperror.Split(err)
		return RecentActivityReply{Error: domainErr}, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return RecentActivityReply{
			Error: apperror.Validation(apperror.CodeActivityValidation, "invalid activity query",
				fmt.Sprintf("limit must be between 1 and %d", MaxLimit)),
		}, nil
	}

	return RecentActivityReply{Entries: m.feed.Recent(scope, limit)}, nil
}

// Start starts the module.
func (m *ActivityModule) Start(_ context.Context) error {
	m.logger.Info("Module started", "capacity", m.feed.Capacity())
	return nil
}

// Stop stops the module.
func (m *ActivityModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped", "entries", m.feed.Len())
	return nil
}

// Health returns the health status of the module.
func (m *ActivityModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"entries":  m.feed.Len(),
			"capacity": m.feed.Capacity(),
		},
	}
}
