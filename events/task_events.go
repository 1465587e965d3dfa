package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is created.
type TaskCreatedEvent struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskUpdatedEvent is emitted when task fields are edited or the task is
// repositioned.
type TaskUpdatedEvent struct {
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	ActorID   string    `json:"actor_id"`
	Fields    []string  `json:"fields"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskUpdatedV1 is the typed event definition for task edits.
// Subject: events.task.v1.task-updated
var TaskUpdatedV1 = helper.EventDefinition[TaskUpdatedEvent](
	"task", "TaskUpdated", "v1",
)

// TaskStatusChangedEvent is emitted when a task moves between columns.
type TaskStatusChangedEvent struct {
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Order     int       `json:"order"`
	ChangedAt time.Time `json:"changed_at"`
}

// TaskStatusChangedV1 is the typed event definition for column moves.
// Subject: events.task.v1.task-status-changed
var TaskStatusChangedV1 = helper.EventDefinition[TaskStatusChangedEvent](
	"task", "TaskStatusChanged", "v1",
)

// TaskDeletedEvent is emitted when a task is deleted.
type TaskDeletedEvent struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)
