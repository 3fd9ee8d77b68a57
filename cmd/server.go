package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/texamhq/texam/pkg/config"
	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/logx"
)

func main() {
	// 1. Initialize Logger
	logLevel := getEnv("LOG_LEVEL", "info")
	switch logLevel {
	case "debug":
		logx.SetLevel(logx.LevelDebug)
	case "warn":
		logx.SetLevel(logx.LevelWarn)
	case "error":
		logx.SetLevel(logx.LevelError)
	default:
		logx.SetLevel(logx.LevelInfo)
	}

	logx.Info("🚀 Starting TEXAM API Server...")

	// 2. Initialize Dependency Container
	cfg := config.Load()
	container := NewContainer(cfg)
	defer container.Cleanup()

	// 3. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "TEXAM API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
		IdleTimeout:           120 * time.Second,
	})

	// 4. Global Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return uuid.NewString()
		},
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  getCORSOrigins(),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:  "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	// 5. Health Check & Info Endpoints
	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler)

	// 6. Register Routes
	authenticate := container.IAM.AuthMiddleware.Authenticate()
	perms := container.IAM.PermissionMiddleware

	// Routes: /auth/login, /auth/callback, /auth/refresh, /auth/logout, /auth/me
	container.IAM.AuthHandlers.RegisterRoutes(app, authenticate)
	logx.Info("✓ Auth routes registered")

	// API token management: /api/v1/tokens/*
	container.IAM.APITokenHandlers.RegisterRoutes(app, authenticate)
	logx.Info("✓ API token routes registered")

	// Users: /api/v1/users/*
	container.IAM.UserHandlers.RegisterRoutes(app, authenticate, perms)
	logx.Info("✓ User routes registered")

	// Organizations: /api/v1/organizations/*
	container.IAM.OrgHandlers.RegisterRoutes(app, authenticate, perms)
	logx.Info("✓ Organization routes registered")

	// 7. 404 Handler
	app.Use(notFoundHandler)

	// 8. Start Server with Graceful Shutdown
	startServer(app, cfg.Server.Port)
}

// ============================================================================
// Handler Functions
// ============================================================================

// healthCheckHandler reports liveness of the process and its two stores.
func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status":  "healthy",
			"service": "texam-api",
			"version": getEnv("APP_VERSION", "1.0.0"),
		}

		if err := container.DB.Ping(); err != nil {
			health["db"] = "unhealthy"
			health["status"] = "degraded"
		} else {
			health["db"] = "healthy"
		}

		if err := container.Redis.Ping(c.Context()).Err(); err != nil {
			health["redis"] = "unhealthy"
			health["status"] = "degraded"
		} else {
			health["redis"] = "healthy"
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}

		return c.Status(status).JSON(health)
	}
}

// infoHandler returns basic API information
func infoHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "TEXAM API",
		"version": getEnv("APP_VERSION", "1.0.0"),
		"endpoints": fiber.Map{
			"health": "/health",
			"login":  "/auth/login",
		},
	})
}

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.Get("X-Request-ID"),
	})
}

// ============================================================================
// Error Handler
// ============================================================================

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	logx.WithFields(logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"ip":         c.IP(),
		"request_id": c.Get("X-Request-ID"),
	}).Errorf("Request error: %v", err)

	// If it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error":      e.Message,
			"code":       "FIBER_ERROR",
			"status":     e.Code,
			"request_id": c.Get("X-Request-ID"),
		})
	}

	// If it's our custom errx.Error
	if e, ok := err.(*errx.Error); ok {
		response := fiber.Map{
			"error":      e.Message,
			"code":       e.Code,
			"type":       string(e.Type),
			"status":     e.HTTPStatus,
			"request_id": c.Get("X-Request-ID"),
		}

		if len(e.Details) > 0 {
			response["details"] = e.Details
		}

		// Underlying causes stay in the logs, not in responses.
		if getEnv("DEBUG", "false") == "true" && e.Err != nil {
			response["underlying_error"] = e.Err.Error()
		}

		return c.Status(e.HTTPStatus).JSON(response)
	}

	// Default unknown error
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":      "Internal Server Error",
		"type":       "INTERNAL",
		"code":       "INTERNAL_ERROR",
		"request_id": c.Get("X-Request-ID"),
	})
}

// ============================================================================
// Utility Functions
// ============================================================================

// getCORSOrigins returns allowed CORS origins
func getCORSOrigins() string {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		return "*" // Default for development
	}
	return origins
}

// startServer starts the server with graceful shutdown
func startServer(app *fiber.App, port string) {
	go func() {
		logx.Infof("🚀 Server listening on port %s", port)
		logx.Infof("💚 Health Check: http://localhost:%s/health", port)

		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(app)
}

// gracefulShutdown handles graceful server shutdown
func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("✅ Server exited successfully")
}
