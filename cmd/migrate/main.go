package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/database"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		dir     = flag.String("dir", "migrations", "directory with migration files")
		command = flag.String("command", "up", "migration command (up, down, redo, status, version, create)")
		name    = flag.String("name", "", "name for new migration (used with create command)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", database.DSN(cfg))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	if err := run(db, *command, *dir, *name); err != nil {
		log.Fatal(err)
	}
}

func run(db *sql.DB, command, dir, name string) error {
	switch command {
	case "create":
		if name == "" {
			return fmt.Errorf("name is required for create command")
		}
		if err := goose.Create(db, dir, name, "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		fmt.Printf("Created migration: %s\n", name)
	case "up":
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("failed to rollback migrations: %w", err)
		}
		fmt.Println("Migrations rolled back successfully")
	case "redo":
		if err := goose.Redo(db, dir); err != nil {
			return fmt.Errorf("failed to redo migration: %w", err)
		}
		fmt.Println("Latest migration re-applied")
	case "status":
		if err := goose.Status(db, dir); err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
	case "version":
		if err := goose.Version(db, dir); err != nil {
			return fmt.Errorf("failed to get migration version: %w", err)
		}
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	return nil
}
