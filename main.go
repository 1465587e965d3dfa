package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/task-board/modules/activity"
	"github.com/example/task-board/modules/api"
	"github.com/example/task-board/modules/auth"
	"github.com/example/task-board/modules/cache"
	"github.com/example/task-board/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	// Load configuration from environment
	httpPort := getEnvInt("HTTP_PORT", 3000)
	redisAddr := getEnv("REDIS_ADDR", "")
	shutdownTimeout := getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	activityCapacity := getEnvInt("ACTIVITY_CAPACITY", activity.DefaultCapacity)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Redis is optional. Without it tasks are read straight from SQLite and
	// the auth endpoints are not rate limited.
	var cacheModule *cache.Module
	var taskCache task.TaskCache
	if redisAddr != "" {
		cacheModule = cache.NewModule(cache.Config{
			RedisAddr:     redisAddr,
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			Prefix:        getEnv("CACHE_PREFIX", "taskboard:"),
			TTL:           getEnvDuration("CACHE_TTL", 5*time.Minute),
			AuthLimit: cache.LimitConfig{
				RequestsPerWindow: getEnvInt("AUTH_RATE_LIMIT", 20),
				WindowSize:        getEnvDuration("AUTH_RATE_WINDOW", time.Minute),
			},
		}, logger)
		taskCache = cacheModule.Cache()
	}

	authModule := auth.NewModule(logger)
	taskModule := task.NewModule(taskCache, logger)
	activityModule := activity.NewModule(activityCapacity, logger)
	apiModule := api.NewModule(httpPort, logger)
	apiModule.AddHealthCheck(authModule, taskModule, activityModule)

	// Register modules: independent modules first, then dependent modules
	if cacheModule != nil {
		app.Register(cacheModule)
		apiModule.SetAuthLimiter(cacheModule.Limiter())
		apiModule.AddHealthCheck(cacheModule)
	}
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(activityModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	logger.Info("Task board started",
		"port", httpPort,
		"redis", redisAddr != "",
		"activity_capacity", activityCapacity,
	)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated")
				if err := app.Stop(ctx); err != nil {
					return err
				}
				if cacheModule != nil {
					return cacheModule.Close()
				}
				return nil
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
