package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last applied migration")
	dir := flag.String("dir", "migrations", "Directory containing migration files")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		log.Fatalf("Failed to create schema_migrations table: %v", err)
	}

	if *rollback {
		if err := rollbackLast(db, *dir); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		return
	}

	if err := applyAll(db, *dir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("All migrations applied")
}

func applyAll(db *sql.DB, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) == ".sql" && !strings.HasSuffix(name, "_rollback.sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, file := range files {
		var applied bool
		if err := db.QueryRow(
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)", file,
		).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		fmt.Printf("Applying %s\n", file)
		err := runInTransaction(db, filepath.Join(dir, file), func(tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO schema_migrations (name) VALUES ($1)", file)
			return err
		})
		if err != nil {
			return fmt.Errorf("apply %s: %w", file, err)
		}
	}
	return nil
}

func rollbackLast(db *sql.DB, dir string) error {
	var last string
	err := db.QueryRow("SELECT name FROM schema_migrations ORDER BY applied_at DESC, name DESC LIMIT 1").Scan(&last)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no migrations to roll back")
	}
	if err != nil {
		return err
	}

	rollbackFile := strings.TrimSuffix(last, ".sql") + "_rollback.sql"
	path := filepath.Join(dir, rollbackFile)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("rollback file %s: %w", rollbackFile, err)
	}

	fmt.Printf("Rolling back %s\n", last)
	return runInTransaction(db, path, func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM schema_migrations WHERE name = $1", last)
		return err
	})
}

// runInTransaction executes the SQL file and the bookkeeping step
// atomically so a failed migration leaves no partial state.
func runInTransaction(db *sql.DB, path string, record func(*sql.Tx) error) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(content)); err != nil {
		tx.Rollback()
		return err
	}
	if err := record(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
