// Package app wires the application dependency graph.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/callsheethq/callsheet/internal/priority/application/commands"
	"github.com/callsheethq/callsheet/internal/priority/application/queries"
	"github.com/callsheethq/callsheet/internal/priority/application/services"
	priorityDomain "github.com/callsheethq/callsheet/internal/priority/domain"
	"github.com/callsheethq/callsheet/internal/priority/infrastructure/cache"
	"github.com/callsheethq/callsheet/internal/priority/infrastructure/eventbus"
	"github.com/callsheethq/callsheet/internal/production/domain/task"
	"github.com/callsheethq/callsheet/internal/production/infrastructure/persistence"
	"github.com/callsheethq/callsheet/pkg/config"
)

// Container holds all wired application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	TaskRepo    task.Repository
	ResultCache priorityDomain.ResultCache
	Publisher   priorityDomain.EventPublisher

	AnalyzeHandler *queries.AnalyzePrioritiesHandler
	CachedHandler  *queries.GetCachedAnalysisHandler
	ApplyHandler   *commands.ApplyPrioritiesHandler

	pgPool      *pgxpool.Pool
	sqliteDB    *sql.DB
	redisClient *redis.Client
}

// NewContainer initializes all dependencies. Redis and RabbitMQ are
// optional: without them the container falls back to an in-process cache
// and a no-op publisher.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{Config: cfg, Logger: logger}

	if err := c.initRepository(ctx, cfg); err != nil {
		return nil, err
	}
	c.initCache(ctx, cfg)
	c.initPublisher(cfg)

	engine := services.NewEngine()
	c.AnalyzeHandler = queries.NewAnalyzePrioritiesHandler(c.TaskRepo, c.ResultCache, engine, logger)
	c.CachedHandler = queries.NewGetCachedAnalysisHandler(c.ResultCache, logger)
	c.ApplyHandler = commands.NewApplyPrioritiesHandler(c.TaskRepo, c.ResultCache, c.Publisher, engine, logger)

	return c, nil
}

// initRepository selects the store from the database URL: postgres:// picks
// PostgreSQL, anything else is treated as a SQLite path. The SQLite schema
// is initialized once here, at startup.
func (c *Container) initRepository(ctx context.Context, cfg *config.Config) error {
	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		c.pgPool = pool
		c.TaskRepo = persistence.NewPostgresTaskRepository(pool)
		c.Logger.Info("using postgres task repository")
		return nil
	}

	db, err := sql.Open("sqlite", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	repo := persistence.NewSQLiteTaskRepository(db)
	if err := repo.InitSchema(ctx); err != nil {
		_ = db.Close()
		return err
	}
	c.sqliteDB = db
	c.TaskRepo = repo
	c.Logger.Info("using sqlite task repository", "path", cfg.DatabaseURL)
	return nil
}

func (c *Container) initCache(ctx context.Context, cfg *config.Config) {
	if cfg.RedisURL != "" {
		if opt, err := redis.ParseURL(cfg.RedisURL); err == nil {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err == nil {
				c.redisClient = client
				c.ResultCache = cache.NewRedisResultCache(client)
				if cfg.CacheBreakerEnabled {
					c.ResultCache = cache.NewBreakerCache(c.ResultCache, c.Logger)
				}
				c.Logger.Info("using redis result cache")
				return
			}
			_ = client.Close()
			c.Logger.Warn("redis unreachable, falling back to in-process cache")
		} else {
			c.Logger.Warn("invalid redis url, falling back to in-process cache", "error", err)
		}
	}
	c.ResultCache = cache.NewMemoryResultCache()
}

func (c *Container) initPublisher(cfg *config.Config) {
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
		if err == nil {
			c.Publisher = publisher
			return
		}
		c.Logger.Warn("rabbitmq unreachable, events will be dropped", "error", err)
	}
	c.Publisher = eventbus.NewNoopPublisher()
}

// Close releases all held connections.
func (c *Container) Close() error {
	var firstErr error
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.sqliteDB != nil {
		if err := c.sqliteDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.pgPool != nil {
		c.pgPool.Close()
	}
	return firstErr
}
