package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/tablejack/internal/config"
	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/pkg/db/migrations"
	sessionRepo "github.com/fadedpez/tablejack/pkg/repositories/session"
)

// MigrateCmd brings a SQL session store up to date
type MigrateCmd struct {
	Status bool `kong:"help='List migrations and whether they are applied, without applying any'"`
}

func (c *MigrateCmd) Run(logger *logging.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var (
		db      *sql.DB
		dialect string
	)
	switch cfg.StorageType {
	case config.StorageSQLite:
		dialect = migrations.DialectSQLite
		db, err = sql.Open(dialect, cfg.SQLitePath+"?_foreign_keys=on")
	case config.StorageMySQL:
		dialect = migrations.DialectMySQL
		db, err = sessionRepo.OpenMySQL(cfg.MySQLDSN)
	default:
		return fmt.Errorf("STORAGE_TYPE=%s has no schema to migrate", cfg.StorageType)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	migrator, err := migrations.NewMigrator(db, dialect, logger)
	if err != nil {
		return err
	}

	if c.Status {
		return printStatus(ctx, migrator)
	}

	applied, err := migrator.MigrateUp(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("applied %d migration(s) to %s\n", applied, dialect)
	return nil
}

func printStatus(ctx context.Context, migrator *migrations.Migrator) error {
	if err := migrator.Initialize(ctx); err != nil {
		return err
	}
	applied, err := migrator.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	all, err := migrator.LoadMigrations()
	if err != nil {
		return err
	}

	for _, m := range all {
		state := "pending"
		if applied[m.Version] {
			state = "applied"
		}
		fmt.Printf("%s  %-8s %s\n", m.Version, state, m.Description)
	}
	return nil
}
