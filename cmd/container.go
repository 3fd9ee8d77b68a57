// cmd/container.go
//
// Root composition root. Owns infrastructure (DB, Redis, migrations) and
// composes the bounded-context containers. This is the only place that knows
// about ALL modules.
package main

import (
	"context"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/texamhq/texam/migrations"
	"github.com/texamhq/texam/pkg/config"
	"github.com/texamhq/texam/pkg/iam/iamcontainer"
	"github.com/texamhq/texam/pkg/logx"
)

// Container holds shared infrastructure and composed module containers.
type Container struct {
	Config *config.Config

	// Infrastructure (shared across all modules)
	DB    *sqlx.DB
	Redis *redis.Client

	// Bounded-context containers
	IAM *iamcontainer.Container
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure — DB, migrations, Redis
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database
	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("  ✅ Database connected")

	// 2. Migrations
	c.runMigrations()

	// 3. Redis
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required)", err)
	}
	logx.Info("  ✅ Redis connected")

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) runMigrations() {
	if getEnv("SKIP_MIGRATIONS", "false") == "true" {
		logx.Info("  ⏭️ Migrations skipped (SKIP_MIGRATIONS=true)")
		return
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logx.Fatalf("Failed to set migration dialect: %v", err)
	}
	if err := goose.UpContext(context.Background(), c.DB.DB, "."); err != nil {
		logx.Fatalf("Failed to run migrations: %v", err)
	}
	logx.Info("  ✅ Migrations applied")
}

// ---------------------------------------------------------------------------
// Module composition — each bounded context wires itself
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	c.IAM = iamcontainer.New(iamcontainer.Deps{
		DB:    c.DB,
		Redis: c.Redis,
		Cfg:   c.Config,
	})
	logx.Info("  ✅ IAM module initialized")
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
