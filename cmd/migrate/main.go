package main

import (
	"flag"
	"log"

	"authflow/cfg"
	"authflow/pkg/db"
	"authflow/pkg/logger"
)

func main() {
	source := flag.String("source", "file://db/migrations", "migration source URL")
	flag.Parse()

	// ============
	// Load config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}
	if !config.Postgres.Enabled() {
		log.Fatal("POSTGRES_HOST is required to run migrations")
	}

	zlogger := logger.NewZeroLog(config.AppEnv)

	// =========
	// Migrate
	// =========
	if err := db.MigrateUp(*source, db.PostgresDSN(config.Postgres), zlogger); err != nil {
		log.Fatal(err)
	}
}
