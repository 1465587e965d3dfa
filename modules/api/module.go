package api

import (
	"context"
	"fmt"

	"github.com/example/task-board/modules/activity"
	"github.com/example/task-board/modules/auth"
	"github.com/example/task-board/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// HealthChecker is a module whose health is reported by GET /health.
type HealthChecker interface {
	Name() string
	Health(ctx context.Context) mono.HealthStatus
}

// APIModule is the HTTP API module.
type APIModule struct {
	app      *fiber.App
	port     int
	logger   types.Logger
	handlers *Handlers

	authAdapter     auth.AuthPort
	taskAdapter     task.TaskPort
	activityAdapter activity.ActivityPort

	authLimiter Limiter
	checks      []HealthChecker
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on port.
func NewModule(port int, logger types.Logger) *APIModule {
	return &APIModule{
		port:   port,
		logger: logger.WithModule("api"),
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authAdapter = auth.NewAuthAdapter(container)
	case "task":
		m.taskAdapter = task.NewTaskAdapter(container)
	case "activity":
		m.activityAdapter = activity.NewActivityAdapter(container)
	}
}

// SetAuthLimiter enables per-IP rate limiting of the sign-in and sign-up
// endpoints. Must be called before Start.
func (m *APIModule) SetAuthLimiter(limiter Limiter) {
	m.authLimiter = limiter
}

// AddHealthCheck includes a module in the GET /health report.
func (m *APIModule) AddHealthCheck(checks ...HealthChecker) {
	m.checks = append(m.checks, checks...)
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authAdapter == nil || m.taskAdapter == nil || m.activityAdapter == nil {
		return fmt.Errorf("api dependencies not set")
	}

	m.handlers = NewHandlers(m.authAdapter, m.taskAdapter, m.activityAdapter)
	m.app = m.newApp()

	addr := fmt.Sprintf(":%d", m.port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", addr, "auth_rate_limit", m.authLimiter != nil)
	return nil
}

// newApp builds the Fiber app with middleware and routes.
func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(m.logger),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	m.setupRoutes(app)
	return app
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	h := m.handlers

	app.Get("/health", m.healthHandler)

	v1 := app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	if m.authLimiter != nil {
		authRoutes.Use(RateLimit(m.authLimiter, m.logger))
	}
	authRoutes.Post("/sign-up", h.SignUp)
	authRoutes.Post("/sign-in", h.SignIn)

	protected := v1.Group("", AuthMiddleware(m.authAdapter))
	protected.Get("/me", h.Me)
	protected.Get("/activity", h.RecentActivity)

	tasks := protected.Group("/tasks")
	tasks.Post("/", h.CreateTask)
	tasks.Get("/", h.ListTasks)
	tasks.Get("/kanban", h.KanbanBoard)
	tasks.Get("/:id", h.GetTask)
	tasks.Patch("/:id", h.UpdateTask)
	tasks.Patch("/:id/status", h.UpdateTaskStatus)
	tasks.Patch("/:id/order", h.ReorderTask)
	tasks.Delete("/:id", h.DeleteTask)
}

// healthHandler handles GET /health. It reports 503 when any checked
// module is unhealthy.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	healthy := true
	modules := make(map[string]mono.HealthStatus, len(m.checks)+1)
	modules[m.Name()] = m.Health(c.UserContext())
	for _, check := range m.checks {
		status := check.Health(c.UserContext())
		modules[check.Name()] = status
		healthy = healthy && status.Healthy
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "unhealthy",
			"modules": modules,
		})
	}
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"modules": modules,
	})
}
