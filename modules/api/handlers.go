package api

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/example/task-board/domain/apperror"
	domain "github.com/example/task-board/domain/task"
	"github.com/example/task-board/domain/user"
	"github.com/example/task-board/modules/activity"
	"github.com/example/task-board/modules/auth"
	"github.com/example/task-board/modules/task"
	"github.com/gofiber/fiber/v2"
)

const (
	minPasswordLength = 6
	minNameLength     = 3
	maxNameLength     = 100
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth     auth.AuthPort
	tasks    task.TaskPort
	activity activity.ActivityPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, activityPort activity.ActivityPort) *Handlers {
	return &Handlers{
		auth:     authPort,
		tasks:    taskPort,
		activity: activityPort,
	}
}

// SignUp handles POST /api/v1/auth/sign-up.
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(apperror.CodeSignUpValidation)
	}

	var details []string
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		details = append(details, "email must be a valid email address")
	}
	if len(req.Password) < minPasswordLength || len(req.Password) > auth.MaxPasswordBytes {
		details = append(details, fmt.Sprintf("password must be between %d and %d characters", minPasswordLength, auth.MaxPasswordBytes))
	}
	req.Name = strings.TrimSpace(req.Name)
	if n := len([]rune(req.Name)); n < minNameLength || n > maxNameLength {
		details = append(details, fmt.Sprintf("name must be between %d and %d characters", minNameLength, maxNameLength))
	}
	if req.Role != "" && !req.Role.Valid() {
		details = append(details, "role must be USER or ADMIN")
	}
	if len(details) > 0 {
		return apperror.Validation(apperror.CodeSignUpValidation, "invalid sign-up request", details...)
	}

	summary, err := h.auth.SignUp(c.UserContext(), &auth.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// SignIn handles POST /api/v1/auth/sign-in.
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(apperror.CodeSignInValidation)
	}

	var details []string
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		details = append(details, "email is required")
	}
	if req.Password == "" {
		details = append(details, "password is required")
	}
	if len(details) > 0 {
		return apperror.Validation(apperror.CodeSignInValidation, "invalid sign-in request", details...)
	}

	resp, err := h.auth.SignIn(c.UserContext(), &auth.SignInRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	out := TokenResponse{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresIn:   resp.ExpiresIn,
	}
	if resp.User != nil {
		out.User = *resp.User
	}
	return c.JSON(out)
}

// Me handles GET /api/v1/me.
func (h *Handlers) Me(c *fiber.Ctx) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	summary, err := h.auth.GetUser(c.UserContext(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// CreateTask handles POST /api/v1/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(apperror.CodeCreateTaskValidation)
	}

	var details []string
	if strings.TrimSpace(req.Title) == "" {
		details = append(details, "title is required")
	}
	in := domain.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if req.Status != nil {
		s := domain.Status(*req.Status)
		in.Status = &s
	}
	if req.Priority != nil {
		pr := domain.Priority(*req.Priority)
		in.Priority = &pr
	}
	if req.DueDate != nil {
		due, _, err := parseDate(*req.DueDate)
		if err != nil {
			details = append(details, "due_date must be an RFC 3339 timestamp or YYYY-MM-DD")
		} else {
			in.DueDate = &due
		}
	}
	if len(details) > 0 {
		return apperror.Validation(apperror.CodeCreateTaskValidation, "invalid task", details...)
	}

	t, err := h.tasks.CreateTask(c.UserContext(), p, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// GetTask handles GET /api/v1/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	t, err := h.tasks.GetTask(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(t)
}

// ListTasks handles GET /api/v1/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	qp := &queryParser{c: c}
	q := domain.ListQuery{
		Filters:   qp.filters(),
		Page:      qp.int("page"),
		Limit:     qp.int("limit"),
		SortBy:    domain.SortField(c.Query("sort_by")),
		SortOrder: domain.SortOrder(strings.ToLower(c.Query("sort_order"))),
		UserID:    c.Query("user_id"),
	}
	if s := c.Query("status"); s != "" {
		status := domain.Status(s)
		q.Status = &status
	}
	if len(qp.details) > 0 {
		return apperror.Validation(apperror.CodeListTasksValidation, "invalid list query", qp.details...)
	}

	page, err := h.tasks.ListTasks(c.UserContext(), p, q)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// KanbanBoard handles GET /api/v1/tasks/kanban.
func (h *Handlers) KanbanBoard(c *fiber.Ctx) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	qp := &queryParser{c: c}
	q := domain.KanbanQuery{
		Filters: qp.filters(),
		UserID:  c.Query("user_id"),
	}
	if c.Query("max_per_column") != "" {
		n := qp.int("max_per_column")
		q.MaxPerColumn = &n
	}
	if len(qp.details) > 0 {
		return apperror.Validation(apperror.CodeKanbanValidation, "invalid kanban query", qp.details...)
	}

	board, err := h.tasks.KanbanBoard(c.UserContext(), p, q)
	if err != nil {
		return err
	}
	return c.JSON(board)
}

// UpdateTask handles PATCH /api/v1/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(apperror.CodeUpdateTaskValidation)
	}

	patch := domain.Patch{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if req.Status != nil {
		s := domain.Status(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		pr := domain.Priority(*req.Priority)
		patch.Priority = &pr
	}
	switch {
	case req.DueDate.Null:
		patch.ClearDueDate = true
	case req.DueDate.Set:
		due, _, err := parseDate(req.DueDate.Value)
		if err != nil {
			return apperror.Validation(apperror.CodeUpdateTaskValidation, "invalid task",
				"due_date must be null, an RFC 3339 timestamp or YYYY-MM-DD")
		}
		patch.DueDate = &due
	}

	t, err := h.tasks.UpdateTask(c.UserContext(), p, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

// UpdateTaskStatus handles PATCH /api/v1/tasks/:id/status.
func (h *Handlers) UpdateTaskStatus(c *fiber.Ctx) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(apperror.CodeUpdateStatusTaskValidation)
	}
	if req.Status == "" {
		return apperror.Validation(apperror.CodeUpdateStatusTaskValidation, "invalid status change", "status is required")
	}

	t, err := h.tasks.UpdateTaskStatus(c.UserContext(), p, c.Params("id"), domain.Status(req.Status), req.Order)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

// ReorderTask handles PATCH /api/v1/tasks/:id/order.
func (h *Handlers) ReorderTask(c *fiber.Ctx) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(apperror.CodeUpdateTaskValidation)
	}
	if req.Order == nil {
		return apperror.Validation(apperror.CodeUpdateTaskValidation, "invalid reorder", "order is required")
	}

	t, err := h.tasks.ReorderTask(c.UserContext(), p, c.Params("id"), *req.Order)
	if err != nil {
		return err
	}
	return c.JSON(t)
}

// DeleteTask handles DELETE /api/v1/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.tasks.DeleteTask(c.UserContext(), p, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecentActivity handles GET /api/v1/activity.
func (h *Handlers) RecentActivity(c *fiber.Ctx) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	qp := &queryParser{c: c}
	limit := qp.int("limit")
	if len(qp.details) > 0 {
		return apperror.Validation(apperror.CodeActivityValidation, "invalid activity query", qp.details...)
	}

	entries, err := h.activity.RecentActivity(c.UserContext(), p, c.Query("user_id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}

func requirePrincipal(c *fiber.Ctx) (user.Principal, error) {
	p, ok := principalFrom(c)
	if !ok {
		return user.Principal{}, fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	return p, nil
}

func invalidBody(code string) error {
	return apperror.Validation(code, "invalid request body", "body must be a valid JSON object")
}

// queryParser reads typed query parameters and collects one message per
// malformed value.
type queryParser struct {
	c       *fiber.Ctx
	details []string
}

func (p *queryParser) int(name string) int {
	raw := p.c.Query(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.details = append(p.details, fmt.Sprintf("%s must be an integer", name))
		return 0
	}
	return n
}

func (p *queryParser) bool(name string) bool {
	raw := p.c.Query(name)
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.details = append(p.details, fmt.Sprintf("%s must be true or false", name))
		return false
	}
	return b
}

// date parses an inclusive bound. A date-only upper bound covers the whole day.
func (p *queryParser) date(name string, upper bool) *time.Time {
	raw := p.c.Query(name)
	if raw == "" {
		return nil
	}
	t, dateOnly, err := parseDate(raw)
	if err != nil {
		p.details = append(p.details, fmt.Sprintf("%s must be an RFC 3339 timestamp or YYYY-MM-DD", name))
		return nil
	}
	if dateOnly && upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

func (p *queryParser) filters() domain.Filters {
	f := domain.Filters{
		Search:      strings.TrimSpace(p.c.Query("search")),
		DueDateFrom: p.date("due_date_from", false),
		DueDateTo:   p.date("due_date_to", true),
		Overdue:     p.bool("overdue"),
	}
	if raw := p.c.Query("priority"); raw != "" {
		pr := domain.Priority(raw)
		f.Priority = &pr
	}
	return f
}

// parseDate accepts RFC 3339 timestamps and YYYY-MM-DD dates, returned in UTC.
func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
