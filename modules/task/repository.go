package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/task"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

// Rank expressions so enum columns sort in declaration order.
const (
	statusRank   = "CASE status WHEN 'PENDING' THEN 0 WHEN 'IN_PROGRESS' THEN 1 ELSE 2 END"
	priorityRank = "CASE priority WHEN 'LOW' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END"
)

// TaskRepository handles task persistence using GORM.
type TaskRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ TaskStore = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a task owned by ownerID. Unset optional fields get the
// PENDING/MEDIUM/0 defaults.
func (r *TaskRepository) Create(ctx context.Context, in domain.CreateInput, ownerID string) (*domain.Task, error) {
	in = in.WithDefaults()

	now := r.now()
	t := &domain.Task{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      *in.Status,
		Priority:    *in.Priority,
		DueDate:     utc(in.DueDate),
		Order:       *in.Order,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.SearchText = searchText(t.Title, t.Description)

	if details := validateTask(t); len(details) > 0 {
		return nil, apperror.NewStoreValidation(details...)
	}

	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// FindByID returns the task with the given id or ErrNotFound.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, apperror.NewStoreValidation("id is required")
	}

	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, findError(err)
	}
	return &t, nil
}

// FindByUserID returns every task of a user grouped by column.
func (r *TaskRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(statusRank + " ASC").
		Order("sort_order ASC").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// FindWithFilters returns one page of matching tasks and the total count.
func (r *TaskRepository) FindWithFilters(ctx context.Context, q domain.ListQuery, scope string) (*domain.Page, error) {
	q = q.Normalize()
	now := r.now()

	query := func() *gorm.DB {
		db := r.filtered(ctx, q.Filters, scope, now)
		if q.Status != nil {
			db = db.Where("status = ?", *q.Status)
		}
		return db
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	tasks := make([]domain.Task, 0)
	err := query().
		Order(sortClause(q.SortBy, q.SortOrder)).
		Order("id ASC").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &domain.Page{
		Data: tasks,
		Meta: domain.NewPaginationMeta(q.Page, q.Limit, total),
	}, nil
}

// FindForKanban builds one column per status. Each column runs its own count
// and list queries with the shared filters plus its status.
func (r *TaskRepository) FindForKanban(ctx context.Context, q domain.KanbanQuery, scope string) (*domain.KanbanBoard, error) {
	now := r.now()
	columns := make([]domain.KanbanColumn, len(domain.Statuses))

	g, gctx := errgroup.WithContext(ctx)
	for i, status := range domain.Statuses {
		g.Go(func() error {
			column := domain.KanbanColumn{Status: status, Tasks: make([]domain.Task, 0)}

			if err := r.filtered(gctx, q.Filters, scope, now).
				Where("status = ?", status).
				Count(&column.Count).Error; err != nil {
				return fmt.Errorf("failed to count %s tasks: %w", status, err)
			}

			list := r.filtered(gctx, q.Filters, scope, now).
				Where("status = ?", status).
				Order("sort_order ASC").
				Order("created_at DESC")
			if q.MaxPerColumn != nil {
				limit := *q.MaxPerColumn
				column.WIPLimit = &limit
				list = list.Limit(limit)
			}
			if err := list.Find(&column.Tasks).Error; err != nil {
				return fmt.Errorf("failed to list %s tasks: %w", status, err)
			}

			columns[i] = column
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.NewKanbanBoard(columns), nil
}

// Update applies a partial update and returns the stored task.
func (r *TaskRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Task, error) {
	patch = patch.Normalize()
	if details := validatePatch(patch); len(details) > 0 {
		return nil, apperror.NewStoreValidation(details...)
	}

	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.ClearDueDate {
		updates["due_date"] = nil
	} else if patch.DueDate != nil {
		updates["due_date"] = patch.DueDate.UTC()
	}
	if patch.Order != nil {
		updates["sort_order"] = *patch.Order
	}

	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}
	return r.apply(ctx, id, updates)
}

// UpdateStatus moves a task to another column.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, order *int) (*domain.Task, error) {
	var details []string
	if !status.Valid() {
		details = append(details, fmt.Sprintf("status must be one of PENDING, IN_PROGRESS, COMPLETED, got %q", status))
	}
	if order != nil && *order < 0 {
		details = append(details, "order must not be negative")
	}
	if len(details) > 0 {
		return nil, apperror.NewStoreValidation(details...)
	}

	updates := map[string]any{"status": status}
	if order != nil {
		updates["sort_order"] = *order
	}
	return r.apply(ctx, id, updates)
}

// UpdateOrder repositions a task within its column.
func (r *TaskRepository) UpdateOrder(ctx context.Context, id string, order int) (*domain.Task, error) {
	if order < 0 {
		return nil, apperror.NewStoreValidation("order must not be negative")
	}
	return r.apply(ctx, id, map[string]any{"sort_order": order})
}

// Delete permanently removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NewStoreValidation("id is required")
	}

	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// apply writes updates in a single UPDATE statement and re-reads the row,
// both inside one transaction. A title or description change also rewrites
// the search column from the merged values.
func (r *TaskRepository) apply(ctx context.Context, id string, updates map[string]any) (*domain.Task, error) {
	if id == "" {
		return nil, apperror.NewStoreValidation("id is required")
	}

	updates["updated_at"] = r.now()

	var t domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		title, hasTitle := updates["title"].(string)
		description, hasDescription := updates["description"].(string)
		if hasTitle || hasDescription {
			var current domain.Task
			if err := tx.First(&current, "id = ?", id).Error; err != nil {
				return findError(err)
			}
			if hasTitle {
				current.Title = title
			}
			if hasDescription {
				current.Description = &description
			}
			updates["search_text"] = searchText(current.Title, current.Description)
		}

		result := tx.Model(&domain.Task{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.First(&t, "id = ?", id).Error; err != nil {
			return findError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// BackfillSearchText fills the search column of rows stored before it
// existed and returns how many rows were rewritten.
func (r *TaskRepository) BackfillSearchText(ctx context.Context) (int, error) {
	var tasks []domain.Task
	if err := r.db.WithContext(ctx).Where("search_text = ''").Find(&tasks).Error; err != nil {
		return 0, fmt.Errorf("failed to find unindexed tasks: %w", err)
	}
	for _, t := range tasks {
		err := r.db.WithContext(ctx).Model(&domain.Task{}).
			Where("id = ?", t.ID).
			UpdateColumn("search_text", searchText(t.Title, t.Description)).Error
		if err != nil {
			return 0, fmt.Errorf("failed to index task %s: %w", t.ID, err)
		}
	}
	return len(tasks), nil
}

func findError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to find task: %w", err)
}

// searchText folds title and description with full Unicode case mapping.
// The newline keeps a term from matching across the two fields.
func searchText(title string, description *string) string {
	text := strings.ToLower(title)
	if description != nil {
		text += "\n" + strings.ToLower(*description)
	}
	return text
}

// filtered returns a fresh query over tasks with the scope and shared
// filters applied.
func (r *TaskRepository) filtered(ctx context.Context, f domain.Filters, scope string, now time.Time) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&domain.Task{})

	if scope != "" {
		db = db.Where("user_id = ?", scope)
	}
	if f.Priority != nil {
		db = db.Where("priority = ?", *f.Priority)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		db = db.Where(`search_text LIKE ? ESCAPE '\'`, pattern)
	}
	if f.DueDateFrom != nil {
		db = db.Where("due_date >= ?", f.DueDateFrom.UTC())
	}
	if f.DueDateTo != nil {
		db = db.Where("due_date <= ?", f.DueDateTo.UTC())
	}
	if f.Overdue {
		db = db.Where("due_date < ? AND status <> ?", now, domain.StatusCompleted)
	}
	return db
}

func sortClause(field domain.SortField, order domain.SortOrder) string {
	dir := "DESC"
	if order == domain.SortAsc {
		dir = "ASC"
	}

	switch field {
	case domain.SortUpdatedAt:
		return "updated_at " + dir
	case domain.SortTitle:
		return "title " + dir
	case domain.SortDueDate:
		// Undated tasks sort last ascending and first descending.
		if dir == "ASC" {
			return "due_date IS NULL ASC, due_date ASC"
		}
		return "due_date IS NULL DESC, due_date DESC"
	case domain.SortPriority:
		return priorityRank + " " + dir
	case domain.SortStatus:
		return statusRank + " " + dir
	default:
		return "created_at " + dir
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func validateTask(t *domain.Task) []string {
	var details []string
	if t.Title == "" {
		details = append(details, "title is required")
	} else if utf8.RuneCountInString(t.Title) > maxTitleLength {
		details = append(details, fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if t.Description != nil && utf8.RuneCountInString(*t.Description) > maxDescriptionLength {
		details = append(details, fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	if !t.Status.Valid() {
		details = append(details, fmt.Sprintf("status must be one of PENDING, IN_PROGRESS, COMPLETED, got %q", t.Status))
	}
	if !t.Priority.Valid() {
		details = append(details, fmt.Sprintf("priority must be one of LOW, MEDIUM, HIGH, got %q", t.Priority))
	}
	if t.Order < 0 {
		details = append(details, "order must not be negative")
	}
	if t.UserID == "" {
		details = append(details, "owner is required")
	}
	return details
}

func validatePatch(p domain.Patch) []string {
	var details []string
	if p.Title != nil && utf8.RuneCountInString(strings.TrimSpace(*p.Title)) > maxTitleLength {
		details = append(details, fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		details = append(details, "title must not be blank")
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > maxDescriptionLength {
		details = append(details, fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	if p.Status != nil && !p.Status.Valid() {
		details = append(details, fmt.Sprintf("status must be one of PENDING, IN_PROGRESS, COMPLETED, got %q", *p.Status))
	}
	if p.Priority != nil && !p.Priority.Valid() {
		details = append(details, fmt.Sprintf("priority must be one of LOW, MEDIUM, HIGH, got %q", *p.Priority))
	}
	if p.Order != nil && *p.Order < 0 {
		details = append(details, "order must not be negative")
	}
	return details
}
