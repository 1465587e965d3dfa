package task

import (
	"time"
)

// Status is the kanban column a task belongs to.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a task entity. Order is a position within its status
// column and has no meaning across columns.
type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	Title       string     `gorm:"not null;type:text" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Status      Status     `gorm:"not null;type:text;index:idx_tasks_user_status,priority:2" json:"status"`
	Priority    Priority   `gorm:"not null;type:text" json:"priority"`
	DueDate     *time.Time `gorm:"index" json:"due_date"`
	Order       int        `gorm:"column:sort_order;not null" json:"order"`
	UserID      string     `gorm:"not null;type:text;index:idx_tasks_user_status,priority:1" json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// SearchText is the lowercased title and description. SQLite LOWER only
	// folds ASCII, so search matches against this column instead.
	SearchText string `gorm:"not null;type:text;default:''" json:"-"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// CreateInput holds the caller-supplied fields for a new task.
type CreateInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Order       *int       `json:"order,omitempty"`
}

// Patch is a partial update. Nil fields are left unchanged. ClearDueDate
// removes the due date and takes precedence over DueDate.
type Patch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Status       *Status    `json:"status,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
	Order        *int       `json:"order,omitempty"`
}

// Normalize drops an empty title, which never overwrites the stored one.
func (p Patch) Normalize() Patch {
	if p.Title != nil && *p.Title == "" {
		p.Title = nil
	}
	return p
}

// WithDefaults fills the optional fields of a new task: PENDING status,
// MEDIUM priority and position 0.
func (in CreateInput) WithDefaults() CreateInput {
	if in.Status == nil {
		s := StatusPending
		in.Status = &s
	}
	if in.Priority == nil {
		p := PriorityMedium
		in.Priority = &p
	}
	if in.Order == nil {
		o := 0
		in.Order = &o
	}
	return in
}
