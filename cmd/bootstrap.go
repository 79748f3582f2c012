package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"fulfillment/internal/adapters/out/postgres"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == FormatText {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

// OpenDatabase opens the configured store and migrates its schema.
func OpenDatabase(cfg Config) (*gorm.DB, error) {
	gormLevel := logger.Warn
	if level, _ := cfg.SlogLevel(); level <= slog.LevelDebug {
		gormLevel = logger.Info
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case DriverSQLite:
		db, err = postgres.OpenSQLite(cfg.SQLitePath, gormLevel)
	default:
		db, err = postgres.OpenPostgres(cfg.Postgres(), gormLevel)
	}
	if err != nil {
		return nil, err
	}

	if err = postgres.Migrate(db); err != nil {
		_ = postgres.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
