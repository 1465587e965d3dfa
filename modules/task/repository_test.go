package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// seedTask inserts a task directly so tests control timestamps.
func seedTask(t *testing.T, db *gorm.DB, tk domain.Task) domain.Task {
	t.Helper()
	if tk.Priority == "" {
		tk.Priority = domain.PriorityMedium
	}
	if tk.Status == "" {
		tk.Status = domain.StatusPending
	}
	if tk.CreatedAt.IsZero() {
		tk.CreatedAt = time.Now().UTC()
	}
	tk.UpdatedAt = tk.CreatedAt
	tk.SearchText = searchText(tk.Title, tk.Description)
	if err := db.Create(&tk).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return tk
}

func ptr[T any](v T) *T {
	return &v
}

func ids(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, tk := range tasks {
		out[i] = tk.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTaskRepository_CreateDefaults(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))

	tk, err := repo.Create(context.Background(), domain.CreateInput{Title: "Buy milk"}, "u1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if tk.Status != domain.StatusPending || tk.Priority != domain.PriorityMedium || tk.Order != 0 {
		t.Errorf("Create() = %s/%s/%d, want PENDING/MEDIUM/0", tk.Status, tk.Priority, tk.Order)
	}
	if tk.UserID != "u1" {
		t.Errorf("Create() UserID = %v, want u1", tk.UserID)
	}

	got, err := repo.FindByID(context.Background(), tk.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Title != "Buy milk" || got.Description != nil || got.DueDate != nil {
		t.Errorf("FindByID() = %+v", got)
	}
}

func TestTaskRepository_CreateValidation(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))
	bogus := domain.Status("DONE")

	tests := []struct {
		name  string
		input domain.CreateInput
	}{
		{"blank title", domain.CreateInput{Title: "   "}},
		{"unknown status", domain.CreateInput{Title: "x", Status: &bogus}},
		{"negative order", domain.CreateInput{Title: "x", Order: ptr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), tt.input, "u1")
			var sv *apperror.StoreValidationError
			if !errors.As(err, &sv) {
				t.Errorf("Create() error = %v, want StoreValidationError", err)
			}
		})
	}
}

func TestTaskRepository_FindByIDNotFound(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t))

	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID() error = %v, want %v", err, ErrNotFound)
	}
}

func TestTaskRepository_FindByUserIDOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	seedTask(t, db, domain.Task{ID: "done", Title: "a", Status: domain.StatusCompleted, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "p-1-old", Title: "b", Order: 1, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "p-1-new", Title: "c", Order: 1, UserID: "u1", CreatedAt: base.Add(time.Hour)})
	seedTask(t, db, domain.Task{ID: "p-0", Title: "d", Order: 0, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "wip", Title: "e", Status: domain.StatusInProgress, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "other", Title: "f", UserID: "u2", CreatedAt: base})

	tasks, err := repo.FindByUserID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindByUserID() error = %v", err)
	}

	want := []string{"p-0", "p-1-new", "p-1-old", "wip", "done"}
	if got := ids(tasks); !equalIDs(got, want) {
		t.Errorf("FindByUserID() = %v, want %v", got, want)
	}
}

func TestTaskRepository_FindWithFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)

	seedTask(t, db, domain.Task{ID: "t1", Title: "Write REPORT", Priority: domain.PriorityHigh, UserID: "u1", DueDate: &base, CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "t2", Title: "Groceries", Description: ptr("buy the report paper"), Priority: domain.PriorityLow, UserID: "u1", CreatedAt: base.Add(time.Minute)})
	seedTask(t, db, domain.Task{ID: "t3", Title: "Late item", UserID: "u1", DueDate: &past, CreatedAt: base.Add(2 * time.Minute)})
	seedTask(t, db, domain.Task{ID: "t4", Title: "Late but done", Status: domain.StatusCompleted, UserID: "u1", DueDate: &past, CreatedAt: base.Add(3 * time.Minute)})
	seedTask(t, db, domain.Task{ID: "t5", Title: "Future item", UserID: "u1", DueDate: &future, CreatedAt: base.Add(4 * time.Minute)})
	seedTask(t, db, domain.Task{ID: "t6", Title: "Someone else's report", UserID: "u2", CreatedAt: base.Add(5 * time.Minute)})

	day := base.Add(24 * time.Hour)
	completed := domain.StatusCompleted

	tests := []struct {
		name  string
		query domain.ListQuery
		scope string
		want  []string
	}{
		{"scope narrows to owner, newest first", domain.ListQuery{}, "u1", []string{"t5", "t4", "t3", "t2", "t1"}},
		{"empty scope spans users", domain.ListQuery{Limit: 2}, "", []string{"t6", "t5"}},
		{"search matches title or description case-insensitively", domain.ListQuery{Filters: domain.Filters{Search: "RePoRt"}}, "u1", []string{"t2", "t1"}},
		{"search treats wildcards literally", domain.ListQuery{Filters: domain.Filters{Search: "%"}}, "u1", []string{}},
		{"priority filter", domain.ListQuery{Filters: domain.Filters{Priority: ptr(domain.PriorityHigh)}}, "u1", []string{"t1"}},
		{"date range is inclusive", domain.ListQuery{Filters: domain.Filters{DueDateFrom: &base, DueDateTo: &day}}, "u1", []string{"t1"}},
		{"overdue excludes completed and future", domain.ListQuery{Filters: domain.Filters{Overdue: true}}, "u1", []string{"t3", "t1"}},
		{"overdue with completed status is empty", domain.ListQuery{Status: &completed, Filters: domain.Filters{Overdue: true}}, "u1", []string{}},
		{"sort by priority asc with id tiebreak", domain.ListQuery{SortBy: domain.SortPriority, SortOrder: domain.SortAsc}, "u1", []string{"t2", "t3", "t4", "t5", "t1"}},
		{"sort by due date asc puts undated last", domain.ListQuery{SortBy: domain.SortDueDate, SortOrder: domain.SortAsc}, "u1", []string{"t1", "t3", "t4", "t5", "t2"}},
		{"sort by due date desc puts undated first", domain.ListQuery{SortBy: domain.SortDueDate, SortOrder: domain.SortDesc}, "u1", []string{"t2", "t5", "t3", "t4", "t1"}},
		{"sort by title asc", domain.ListQuery{SortBy: domain.SortTitle, SortOrder: domain.SortAsc}, "u1", []string{"t5", "t2", "t4", "t3", "t1"}},
		{"unknown sort falls back to newest first", domain.ListQuery{SortBy: "owner", SortOrder: domain.SortAsc}, "u1", []string{"t5", "t4", "t3", "t2", "t1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.FindWithFilters(ctx, tt.query, tt.scope)
			if err != nil {
				t.Fatalf("FindWithFilters() error = %v", err)
			}
			if got := ids(page.Data); !equalIDs(got, tt.want) {
				t.Errorf("FindWithFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskRepository_SearchFoldsUnicode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.CreateInput{Title: "Ärzte anrufen"}, "u1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	seedTask(t, db, domain.Task{ID: "ecole", Title: "ÉCOLE", UserID: "u1"})
	seedTask(t, db, domain.Task{ID: "plain", Title: "Misc", Description: ptr("Straße reparieren"), UserID: "u1"})
	renamed := seedTask(t, db, domain.Task{ID: "renamed", Title: "Draft", Description: ptr("Notiz"), UserID: "u1"})

	if _, err := repo.Update(ctx, renamed.ID, domain.Patch{Title: ptr("Überweisung")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"ärzte", []string{created.ID}},
		{"Ärzte", []string{created.ID}},
		{"ÄRZTE", []string{created.ID}},
		{"école", []string{"ecole"}},
		{"straße", []string{"plain"}},
		{"überweisung", []string{"renamed"}},
		{"notiz", []string{"renamed"}},
		{"draft", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			page, err := repo.FindWithFilters(ctx, domain.ListQuery{Filters: domain.Filters{Search: tt.search}}, "u1")
			if err != nil {
				t.Fatalf("FindWithFilters() error = %v", err)
			}
			if got := ids(page.Data); !equalIDs(got, tt.want) {
				t.Errorf("FindWithFilters(%q) = %v, want %v", tt.search, got, tt.want)
			}
		})
	}
}

func TestTaskRepository_UpdateDescriptionKeepsTitleSearchable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	seedTask(t, db, domain.Task{ID: "t1", Title: "Öl wechseln", UserID: "u1"})

	if _, err := repo.Update(ctx, "t1", domain.Patch{Description: ptr("Werkstatt")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	for _, search := range []string{"öl", "werkstatt"} {
		page, err := repo.FindWithFilters(ctx, domain.ListQuery{Filters: domain.Filters{Search: search}}, "u1")
		if err != nil {
			t.Fatalf("FindWithFilters() error = %v", err)
		}
		if got := ids(page.Data); !equalIDs(got, []string{"t1"}) {
			t.Errorf("FindWithFilters(%q) = %v, want [t1]", search, got)
		}
	}
}

func TestTaskRepository_BackfillSearchText(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seedTask(t, db, domain.Task{ID: "t1", Title: "ÉCOLE", UserID: "u1"})
	if err := db.Model(&domain.Task{}).Where("id = ?", "t1").UpdateColumn("search_text", "").Error; err != nil {
		t.Fatalf("failed to clear search_text: %v", err)
	}

	n, err := repo.BackfillSearchText(ctx)
	if err != nil {
		t.Fatalf("BackfillSearchText() error = %v", err)
	}
	if n != 1 {
		t.Errorf("BackfillSearchText() = %d, want 1", n)
	}

	page, err := repo.FindWithFilters(ctx, domain.ListQuery{Filters: domain.Filters{Search: "école"}}, "u1")
	if err != nil {
		t.Fatalf("FindWithFilters() error = %v", err)
	}
	if got := ids(page.Data); !equalIDs(got, []string{"t1"}) {
		t.Errorf("FindWithFilters() = %v, want [t1]", got)
	}

	if n, _ := repo.BackfillSearchText(ctx); n != 0 {
		t.Errorf("second BackfillSearchText() = %d, want 0", n)
	}
}

func TestTaskRepository_FindWithFiltersPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c", "d", "e"} {
		seedTask(t, db, domain.Task{ID: id, Title: id, UserID: "u1", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	page, err := repo.FindWithFilters(context.Background(), domain.ListQuery{Page: 2, Limit: 2}, "u1")
	if err != nil {
		t.Fatalf("FindWithFilters() error = %v", err)
	}

	if got, want := ids(page.Data), []string{"c", "b"}; !equalIDs(got, want) {
		t.Errorf("page 2 = %v, want %v", got, want)
	}
	meta := page.Meta
	if meta.Total != 5 || meta.TotalPages != 3 || !meta.HasNextPage || !meta.HasPreviousPage {
		t.Errorf("Meta = %+v, want total 5, 3 pages, next and previous", meta)
	}
}

func TestTaskRepository_FindForKanban(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	seedTask(t, db, domain.Task{ID: "p2", Title: "p2", Order: 2, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "p0-old", Title: "p0 old", Order: 0, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "p0-new", Title: "p0 new", Order: 0, UserID: "u1", CreatedAt: base.Add(time.Hour)})
	seedTask(t, db, domain.Task{ID: "w1", Title: "w1", Status: domain.StatusInProgress, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "c1", Title: "c1", Status: domain.StatusCompleted, UserID: "u2", CreatedAt: base})

	t.Run("all users without cap", func(t *testing.T) {
		board, err := repo.FindForKanban(context.Background(), domain.KanbanQuery{}, "")
		if err != nil {
			t.Fatalf("FindForKanban() error = %v", err)
		}
		if len(board.Columns) != 3 {
			t.Fatalf("len(Columns) = %d, want 3", len(board.Columns))
		}
		for i, status := range domain.Statuses {
			if board.Columns[i].Status != status {
				t.Errorf("Columns[%d].Status = %v, want %v", i, board.Columns[i].Status, status)
			}
			if board.Columns[i].WIPLimit != nil {
				t.Errorf("Columns[%d].WIPLimit set without max_per_column", i)
			}
			if int64(len(board.Columns[i].Tasks)) != board.Columns[i].Count {
				t.Errorf("Columns[%d] has %d tasks, count %d", i, len(board.Columns[i].Tasks), board.Columns[i].Count)
			}
		}
		if got, want := ids(board.Columns[0].Tasks), []string{"p0-new", "p0-old", "p2"}; !equalIDs(got, want) {
			t.Errorf("PENDING column = %v, want %v", got, want)
		}
		if board.TotalTasks != 5 {
			t.Errorf("TotalTasks = %d, want 5", board.TotalTasks)
		}
	})

	t.Run("scoped with cap", func(t *testing.T) {
		board, err := repo.FindForKanban(context.Background(), domain.KanbanQuery{MaxPerColumn: ptr(1)}, "u1")
		if err != nil {
			t.Fatalf("FindForKanban() error = %v", err)
		}
		pending := board.Columns[0]
		if len(pending.Tasks) != 1 || pending.Count != 3 {
			t.Errorf("PENDING column has %d tasks, count %d, want 1 and 3", len(pending.Tasks), pending.Count)
		}
		if pending.WIPLimit == nil || *pending.WIPLimit != 1 {
			t.Errorf("PENDING WIPLimit = %v, want 1", pending.WIPLimit)
		}
		if board.Columns[2].Count != 0 {
			t.Errorf("COMPLETED count = %d, want 0 for u1", board.Columns[2].Count)
		}
		if board.TotalTasks != 4 {
			t.Errorf("TotalTasks = %d, want 4", board.TotalTasks)
		}
	})
}

func TestTaskRepository_FindForKanbanFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)
	now := time.Now().UTC()

	seedTask(t, db, domain.Task{ID: "late-p", Title: "Pay invoice", Priority: domain.PriorityHigh, DueDate: &past, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "late-w", Title: "Invoice review", Priority: domain.PriorityLow, Status: domain.StatusInProgress, DueDate: &past, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "late-c", Title: "Old invoice", Status: domain.StatusCompleted, DueDate: &past, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "future-p", Title: "Plan trip", DueDate: &future, UserID: "u1", CreatedAt: base})
	seedTask(t, db, domain.Task{ID: "nodate-p", Title: "Invoice template", UserID: "u1", CreatedAt: base.Add(time.Hour)})
	seedTask(t, db, domain.Task{ID: "other", Title: "Invoice for bob", DueDate: &past, UserID: "u2", CreatedAt: base})

	tests := []struct {
		name    string
		filters domain.Filters
		want    [3][]string
		total   int64
	}{
		{
			name:    "overdue leaves completed column empty",
			filters: domain.Filters{Overdue: true},
			want:    [3][]string{{"late-p"}, {"late-w"}, {}},
			total:   2,
		},
		{
			name:    "search across columns",
			filters: domain.Filters{Search: "INVOICE"},
			want:    [3][]string{{"nodate-p", "late-p"}, {"late-w"}, {"late-c"}},
			total:   4,
		},
		{
			name:    "priority with overdue",
			filters: domain.Filters{Priority: ptr(domain.PriorityHigh), Overdue: true},
			want:    [3][]string{{"late-p"}, {}, {}},
			total:   1,
		},
		{
			name:    "due date upper bound",
			filters: domain.Filters{DueDateTo: &now},
			want:    [3][]string{{"late-p"}, {"late-w"}, {"late-c"}},
			total:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := repo.FindForKanban(context.Background(), domain.KanbanQuery{Filters: tt.filters}, "u1")
			if err != nil {
				t.Fatalf("FindForKanban() error = %v", err)
			}

			var sum int64
			for i, column := range board.Columns {
				if got := ids(column.Tasks); !equalIDs(got, tt.want[i]) {
					t.Errorf("%s column = %v, want %v", column.Status, got, tt.want[i])
				}
				if column.Count != int64(len(tt.want[i])) {
					t.Errorf("%s count = %d, want %d", column.Status, column.Count, len(tt.want[i]))
				}
				sum += column.Count
			}
			if board.TotalTasks != tt.total || board.TotalTasks != sum {
				t.Errorf("TotalTasks = %d, want %d (sum of counts %d)", board.TotalTasks, tt.total, sum)
			}
		})
	}
}

func TestTaskRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	seedTask(t, db, domain.Task{ID: "t1", Title: "Original", Description: ptr("desc"), UserID: "u1", DueDate: &due, Order: 3})

	updated, err := repo.Update(ctx, "t1", domain.Patch{Title: ptr(""), Priority: ptr(domain.PriorityHigh)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Original" {
		t.Errorf("empty title overwrote stored title: %q", updated.Title)
	}
	if updated.Priority != domain.PriorityHigh {
		t.Errorf("Priority = %v, want HIGH", updated.Priority)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) || updated.Order != 3 {
		t.Errorf("unspecified fields changed: due %v order %d", updated.DueDate, updated.Order)
	}

	cleared, err := repo.Update(ctx, "t1", domain.Patch{ClearDueDate: true})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if cleared.DueDate != nil {
		t.Errorf("DueDate = %v, want nil after clear", cleared.DueDate)
	}

	if _, err := repo.Update(ctx, "missing", domain.Patch{Title: ptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() missing error = %v, want %v", err, ErrNotFound)
	}
}

func TestTaskRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seedTask(t, db, domain.Task{ID: "t1", Title: "Move me", UserID: "u1", Order: 4})

	first, err := repo.UpdateStatus(ctx, "t1", domain.StatusInProgress, ptr(1))
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	second, err := repo.UpdateStatus(ctx, "t1", domain.StatusInProgress, ptr(1))
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if first.Status != second.Status || first.Order != second.Order || second.Order != 1 {
		t.Errorf("repeated UpdateStatus() = %s/%d then %s/%d", first.Status, first.Order, second.Status, second.Order)
	}

	kept, err := repo.UpdateStatus(ctx, "t1", domain.StatusCompleted, nil)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if kept.Order != 1 {
		t.Errorf("Order = %d, want unchanged 1", kept.Order)
	}

	var sv *apperror.StoreValidationError
	if _, err := repo.UpdateStatus(ctx, "t1", "DONE", nil); !errors.As(err, &sv) {
		t.Errorf("UpdateStatus() invalid status error = %v, want StoreValidationError", err)
	}
}

func TestTaskRepository_UpdateOrderAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seedTask(t, db, domain.Task{ID: "t1", Title: "Reorder me", UserID: "u1"})

	moved, err := repo.UpdateOrder(ctx, "t1", 7)
	if err != nil {
		t.Fatalf("UpdateOrder() error = %v", err)
	}
	if moved.Order != 7 {
		t.Errorf("Order = %d, want 7", moved.Order)
	}

	if err := repo.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.FindByID(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID() after delete error = %v, want %v", err, ErrNotFound)
	}
	if err := repo.Delete(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}
