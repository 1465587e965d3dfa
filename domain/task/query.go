package task

import (
	"fmt"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SortField names a sortable task column.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortTitle     SortField = "title"
	SortDueDate   SortField = "dueDate"
	SortPriority  SortField = "priority"
	SortStatus    SortField = "status"
)

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool {
	switch f {
	case SortCreatedAt, SortUpdatedAt, SortTitle, SortDueDate, SortPriority, SortStatus:
		return true
	}
	return false
}

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filters are the predicates shared by listing and the kanban board.
// Overdue narrows to dueDate < now and status != COMPLETED on top of the
// other predicates.
type Filters struct {
	Priority    *Priority  `json:"priority,omitempty"`
	Search      string     `json:"search,omitempty"`
	DueDateFrom *time.Time `json:"due_date_from,omitempty"`
	DueDateTo   *time.Time `json:"due_date_to,omitempty"`
	Overdue     bool       `json:"overdue,omitempty"`
}

func (f Filters) validate() []string {
	var details []string
	if f.Priority != nil && !f.Priority.Valid() {
		details = append(details, fmt.Sprintf("priority must be one of LOW, MEDIUM, HIGH, got %q", *f.Priority))
	}
	return details
}

// ListQuery is a filtered, paginated task listing request. UserID is the
// owner filter requested by the caller, subject to ResolveListScope.
type ListQuery struct {
	Filters
	Status    *Status   `json:"status,omitempty"`
	Page      int       `json:"page,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	SortBy    SortField `json:"sort_by,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
}

// Validate returns one message per invalid field. Zero page and limit mean
// "use the default" and are accepted.
func (q ListQuery) Validate() []string {
	details := q.Filters.validate()
	if q.Status != nil && !q.Status.Valid() {
		details = append(details, fmt.Sprintf("status must be one of PENDING, IN_PROGRESS, COMPLETED, got %q", *q.Status))
	}
	if q.Page < 0 {
		details = append(details, "page must be at least 1")
	}
	if q.Limit < 0 || q.Limit > MaxLimit {
		details = append(details, fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
	}
	if q.SortOrder != "" && q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		details = append(details, "sort_order must be asc or desc")
	}
	return details
}

// Normalize fills defaults. An unknown sort field falls back to createdAt desc.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if !q.SortBy.Valid() {
		q.SortBy = SortCreatedAt
		q.SortOrder = SortDesc
	}
	if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}
	return q
}

// Offset is the number of rows skipped before the current page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// KanbanQuery requests a board. MaxPerColumn caps the tasks returned per
// column without affecting the counts.
type KanbanQuery struct {
	Filters
	MaxPerColumn *int   `json:"max_per_column,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}

// Validate returns one message per invalid field.
func (q KanbanQuery) Validate() []string {
	details := q.Filters.validate()
	if q.MaxPerColumn != nil && *q.MaxPerColumn < 1 {
		details = append(details, "max_per_column must be at least 1")
	}
	return details
}

// PaginationMeta describes a page within a listing.
type PaginationMeta struct {
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// NewPaginationMeta computes page metadata for total matching rows.
func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginationMeta{
		Total:           total,
		Page:            page,
		Limit:           limit,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// Page is one page of a listing.
type Page struct {
	Data []Task         `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// KanbanColumn holds the tasks of one status. Count is the number of matching
// tasks in the column, which may exceed len(Tasks) when a WIP limit applies.
type KanbanColumn struct {
	Status   Status `json:"status"`
	Tasks    []Task `json:"tasks"`
	Count    int64  `json:"count"`
	WIPLimit *int   `json:"wip_limit,omitempty"`
}

// KanbanBoard is the full board with one column per status.
type KanbanBoard struct {
	Columns    []KanbanColumn `json:"columns"`
	TotalTasks int64          `json:"total_tasks"`
}

// NewKanbanBoard assembles a board and totals the column counts.
func NewKanbanBoard(columns []KanbanColumn) *KanbanBoard {
	board := &KanbanBoard{Columns: columns}
	for _, c := range columns {
		board.TotalTasks += c.Count
	}
	return board
}
