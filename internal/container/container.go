package container

import (
	"context"
	"fmt"

	"gofeat/adapters/postgres"
	"gofeat/adapters/stats/engine"
	"gofeat/app"
	"gofeat/internal"
	"gofeat/internal/config"
	"gofeat/internal/errors"
	"gofeat/internal/migration"
	"gofeat/internal/report"
	"gofeat/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; nil when DATABASE_URL is unset
	DB *sqlx.DB

	// Repositories (data access layer)
	ReportRepo ports.ReportRepository

	Engine *engine.StatsEngine
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NopLogger()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		Engine: engine.NewStatsEngine(cfg.Engine, logger),
	}
	return c, nil
}

// Connect opens the configured database, applies migrations and wires the
// repositories. Without a DATABASE_URL it does nothing.
func (c *Container) Connect(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		c.Logger.Info("no DATABASE_URL set, report persistence disabled")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	if c.Config.Database.MaxConns > 0 {
		db.SetMaxOpenConns(c.Config.Database.MaxConns)
	}
	return c.InitWithDatabase(ctx, db)
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	c.DB = db

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}

	c.ReportRepo = postgres.NewReportRepository(db)
	c.Logger.Info("database ready (schema v%s)", migrator.Version())
	return nil
}

// Writers lists the report writers implied by the configuration followed by
// any extra writers
func (c *Container) Writers(extra ...ports.ReportWriter) []ports.ReportWriter {
	var writers []ports.ReportWriter
	if c.Config.Report.Dir != "" {
		writers = append(writers, report.NewFileWriter(c.Config.Report.Dir, c.Config.Report.HTML, c.Logger))
	}
	if c.ReportRepo != nil {
		writers = append(writers, c.ReportRepo)
	}
	return append(writers, extra...)
}

// RankingService builds a service writing through Writers(extra...)
func (c *Container) RankingService(extra ...ports.ReportWriter) *app.RankingService {
	return app.NewRankingService(c.Engine, c.Logger, c.Writers(extra...)...)
}

// SQLReader returns a dataset reader for a query against the connected
// database. An empty query falls back to RANK_SQL_QUERY.
func (c *Container) SQLReader(query string) (ports.DatasetReader, error) {
	if c.DB == nil {
		return nil, errors.ConfigInvalid("DATABASE_URL is required for SQL sources")
	}
	if query == "" {
		query = c.Config.Database.Query
	}
	if query == "" {
		return nil, errors.ConfigInvalid("no SQL query given and RANK_SQL_QUERY is unset")
	}
	return postgres.NewFrameReader(c.DB, query), nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
