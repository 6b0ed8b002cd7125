package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"authflow/pkg/logger"
)

// MigrateUp applies every pending migration found at sourceURL (e.g. "file://db/migrations")
func MigrateUp(sourceURL, dsn string, log logger.Client) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("failed to init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn("failed to close migrate", logger.Err(errors.Join(srcErr, dbErr)))
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("schema up to date")
			return nil
		}
		return fmt.Errorf("failed to migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info("schema migrated",
		logger.Field{Key: "version", Value: version},
		logger.Field{Key: "dirty", Value: dirty},
	)
	return nil
}
