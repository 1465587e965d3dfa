package task

import (
	"testing"
)

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		total     int64
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"empty", 1, 10, 0, 0, false, false},
		{"single partial page", 1, 10, 3, 1, false, false},
		{"exact multiple", 1, 10, 20, 2, true, false},
		{"rounds up", 2, 10, 21, 3, true, true},
		{"last page", 3, 10, 21, 3, false, true},
		{"beyond last page", 5, 10, 21, 3, false, true},
		{"limit one", 1, 1, 1, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewPaginationMeta(tt.page, tt.limit, tt.total)
			if meta.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", meta.TotalPages, tt.wantPages)
			}
			if meta.HasNextPage != tt.wantNext {
				t.Errorf("HasNextPage = %v, want %v", meta.HasNextPage, tt.wantNext)
			}
			if meta.HasPreviousPage != tt.wantPrev {
				t.Errorf("HasPreviousPage = %v, want %v", meta.HasPreviousPage, tt.wantPrev)
			}
			if meta.Total != tt.total {
				t.Errorf("Total = %d, want %d", meta.Total, tt.total)
			}
		})
	}
}

func TestListQuery_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        ListQuery
		wantPage  int
		wantLimit int
		wantSort  SortField
		wantOrder SortOrder
	}{
		{"defaults", ListQuery{}, 1, 10, SortCreatedAt, SortDesc},
		{"limit capped", ListQuery{Limit: 500}, 1, 100, SortCreatedAt, SortDesc},
		{"known sort asc", ListQuery{Page: 2, Limit: 5, SortBy: SortTitle, SortOrder: SortAsc}, 2, 5, SortTitle, SortAsc},
		{"known sort without order", ListQuery{SortBy: SortPriority}, 1, 10, SortPriority, SortDesc},
		{"unknown sort falls back", ListQuery{SortBy: "owner", SortOrder: SortAsc}, 1, 10, SortCreatedAt, SortDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("Normalize() page/limit = %d/%d, want %d/%d", got.Page, got.Limit, tt.wantPage, tt.wantLimit)
			}
			if got.SortBy != tt.wantSort || got.SortOrder != tt.wantOrder {
				t.Errorf("Normalize() sort = %s %s, want %s %s", got.SortBy, got.SortOrder, tt.wantSort, tt.wantOrder)
			}
		})
	}
}

func TestListQuery_Validate(t *testing.T) {
	bogusStatus := Status("DONE")
	bogusPriority := Priority("URGENT")

	tests := []struct {
		name      string
		query     ListQuery
		wantCount int
	}{
		{"empty is valid", ListQuery{}, 0},
		{"negative page", ListQuery{Page: -1}, 1},
		{"limit too large", ListQuery{Limit: 101}, 1},
		{"bad status and priority", ListQuery{Status: &bogusStatus, Filters: Filters{Priority: &bogusPriority}}, 2},
		{"bad sort order", ListQuery{SortOrder: "sideways"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Validate(); len(got) != tt.wantCount {
				t.Errorf("Validate() = %v, want %d messages", got, tt.wantCount)
			}
		})
	}
}

func TestNewKanbanBoard(t *testing.T) {
	board := NewKanbanBoard([]KanbanColumn{
		{Status: StatusPending, Count: 4},
		{Status: StatusInProgress, Count: 2},
		{Status: StatusCompleted, Count: 7},
	})
	if board.TotalTasks != 13 {
		t.Errorf("TotalTasks = %d, want 13", board.TotalTasks)
	}
}

func TestPatch_Normalize(t *testing.T) {
	empty := ""
	title := "Write report"

	if p := (Patch{Title: &empty}).Normalize(); p.Title != nil {
		t.Error("Normalize() kept an empty title")
	}
	if p := (Patch{Title: &title}).Normalize(); p.Title == nil || *p.Title != title {
		t.Error("Normalize() dropped a non-empty title")
	}
}

func TestCreateInput_WithDefaults(t *testing.T) {
	in := CreateInput{Title: "Buy milk"}.WithDefaults()
	if *in.Status != StatusPending || *in.Priority != PriorityMedium || *in.Order != 0 {
		t.Errorf("WithDefaults() = %s/%s/%d, want PENDING/MEDIUM/0", *in.Status, *in.Priority, *in.Order)
	}

	high := PriorityHigh
	in = CreateInput{Title: "Ship", Priority: &high}.WithDefaults()
	if *in.Priority != PriorityHigh {
		t.Errorf("WithDefaults() priority = %s, want HIGH", *in.Priority)
	}
}
