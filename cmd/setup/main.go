// Command setup creates the database when it is missing, applies the
// migrations and validates the game configuration file. It is safe to run
// repeatedly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/EconomyBot_Go/internal/config"
	"github.com/osse101/EconomyBot_Go/internal/database"
	"github.com/osse101/EconomyBot_Go/internal/database/migrations"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Setup failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Setup completed")
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, logger.DefaultServiceName, cfg.Version, cfg.Environment, false))

	if _, err := gameconfig.Load(cfg.GameConfigPath); err != nil {
		return fmt.Errorf("game configuration is invalid: %w", err)
	}

	if err := ensureDatabase(ctx, cfg); err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	defer pool.Close()
	return migrations.Up(ctx, pool)
}

// ensureDatabase connects to the server's maintenance database and creates
// DB_NAME when it does not exist yet.
func ensureDatabase(ctx context.Context, cfg *config.Config) error {
	adminConn := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)
	conn, err := pgx.Connect(ctx, adminConn)
	if err != nil {
		return fmt.Errorf("unable to connect to postgres database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		slog.Info("Database already exists", "database", cfg.DBName)
		return nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	slog.Info("Database created", "database", cfg.DBName)
	return nil
}
