package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pratik-mahalle/mxcloud/internal/config"
	"github.com/pratik-mahalle/mxcloud/internal/repository/postgres"
	"github.com/pratik-mahalle/mxcloud/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := postgres.New(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	known, err := migrations.Names()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read migrations: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Connected to %s database, %d migrations known\n", cfg.Database.Driver, len(known))

	applied, err := postgres.RunMigrations(context.Background(), db, migrations.FS())
	for _, name := range applied {
		fmt.Printf("✓ Migration %s completed successfully\n", name)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	if len(applied) == 0 {
		fmt.Println("Database is up to date")
		return
	}
	fmt.Printf("\n%d migrations applied\n", len(applied))
}
