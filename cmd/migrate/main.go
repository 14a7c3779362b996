package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/logger"

	"github.com/alecthomas/kong"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

type Globals struct {
	Dir string `help:"Directory holding the SQL migrations" env:"MIGRATIONS_DIR"`
	DSN string `help:"Postgres connection string" env:"DB_DSN"`

	log *zap.Logger
}

type CLI struct {
	Globals `embed:""`

	Up     UpCmd     `cmd:"" default:"1" help:"Apply all pending migrations"`
	Down   DownCmd   `cmd:"" help:"Roll back the latest migration"`
	Status StatusCmd `cmd:"" help:"Show migration status"`
	Create CreateCmd `cmd:"" help:"Create a new SQL migration"`
}

type UpCmd struct{}

func (UpCmd) Run(g *Globals) error {
	return withDB(g, func(db *sql.DB) error {
		if err := goose.Up(db, g.Dir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		g.log.Info("migrations applied", zap.String("dir", g.Dir))
		return nil
	})
}

type DownCmd struct{}

func (DownCmd) Run(g *Globals) error {
	return withDB(g, func(db *sql.DB) error {
		if err := goose.Down(db, g.Dir); err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
		g.log.Info("migration rolled back", zap.String("dir", g.Dir))
		return nil
	})
}

type StatusCmd struct{}

func (StatusCmd) Run(g *Globals) error {
	return withDB(g, func(db *sql.DB) error {
		return goose.Status(db, g.Dir)
	})
}

type CreateCmd struct {
	Name string `arg:"" help:"Migration name, e.g. add_books_isbn"`
}

func (c CreateCmd) Run(g *Globals) error {
	if err := goose.Create(nil, g.Dir, c.Name, "sql"); err != nil {
		return fmt.Errorf("create migration: %w", err)
	}
	g.log.Info("migration created", zap.String("name", c.Name))
	return nil
}

func withDB(g *Globals, fn func(db *sql.DB) error) error {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, g.DSN)
	if err != nil {
		return fmt.Errorf("connect to database (%s): %w", config.RedactDSN(g.DSN), err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return fn(db)
}

func main() {
	loadEnvFiles()

	log, err := logger.New(logger.Options{Level: os.Getenv("LOG_LEVEL"), Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("migrate"),
		kong.Description("Apply and manage bookcatalog database migrations."),
		kong.UsageOnError(),
	)
	if cli.Dir == "" {
		cli.Dir = migrationsDir()
	}
	if cli.DSN == "" {
		cli.DSN = databaseDSN()
	}
	cli.log = log

	if err := ctx.Run(&cli.Globals); err != nil {
		log.Error("migrate failed", zap.Error(err))
		os.Exit(1)
	}
}
