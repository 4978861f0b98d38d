package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"insure-service/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ConnectAndCreateDB opens the service database. With discrete connection
// settings the database is created first when missing. The schema is applied
// when the policy table does not exist yet.
func ConnectAndCreateDB(ctx context.Context, cfg config.PostgresConfig) (*sqlx.DB, error) {
	if cfg.DatabaseURL == "" {
		if err := createDatabaseIfMissing(ctx, cfg); err != nil {
			return nil, err
		}
	}

	slog.Info("Connecting to PostgreSQL", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.DBname, "url_configured", cfg.DatabaseURL != "")
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	var policyTable sql.NullString
	if err := db.GetContext(ctx, &policyTable, `SELECT to_regclass('public.policy')::text`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if !policyTable.Valid {
		if err := executeSchema(ctx, db); err != nil {
			slog.Warn("Failed to execute schema.sql", "error", err)
		}
	}

	return db, nil
}

// ConnectWithRetry keeps calling ConnectAndCreateDB until it succeeds, the
// attempts run out or ctx is done.
func ConnectWithRetry(ctx context.Context, cfg config.PostgresConfig, attempts int, wait time.Duration) (*sqlx.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := ConnectAndCreateDB(ctx, cfg)
		if err == nil {
			return db, nil
		}
		lastErr = err
		slog.Warn("Database connection failed", "attempt", attempt, "next_retry_in", wait, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("database unavailable after %d attempts: %w", attempts, lastErr)
}

func createDatabaseIfMissing(ctx context.Context, cfg config.PostgresConfig) error {
	adminDB, err := sql.Open("postgres", cfg.AdminDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer adminDB.Close()

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	if err := adminDB.QueryRowContext(ctx, checkQuery, cfg.DBname).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		return nil
	}

	createQuery := fmt.Sprintf(`CREATE DATABASE "%s"`, strings.ReplaceAll(cfg.DBname, `"`, `""`))
	if _, err := adminDB.ExecContext(ctx, createQuery); err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.DBname, err)
	}
	slog.Info("Database created", "dbname", cfg.DBname)
	return nil
}

// executeSchema reads and executes the schema.sql file
func executeSchema(ctx context.Context, db *sqlx.DB) error {
	schemaLocations := []string{
		"schema.sql",
		"/app/schema.sql",
		filepath.Join(os.Getenv("PWD"), "schema.sql"),
	}

	var schemaPath string
	for _, location := range schemaLocations {
		if _, err := os.Stat(location); err == nil {
			schemaPath = location
			break
		}
	}
	if schemaPath == "" {
		return fmt.Errorf("schema.sql not found in any expected locations: %v", schemaLocations)
	}

	schemaContent, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema.sql from %s: %w", schemaPath, err)
	}

	slog.Info("Executing schema", "path", schemaPath)

	successCount := 0
	for i, statement := range splitStatements(string(schemaContent)) {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			slog.Warn("Failed to execute schema statement",
				"index", i+1,
				"statement", statement[:min(100, len(statement))],
				"error", err)
			continue
		}
		successCount++
	}

	slog.Info("Schema execution completed", "statements", successCount)
	return nil
}

// splitStatements cuts a SQL script on semicolons after dropping "--"
// comment lines. Statements must not contain literal semicolons.
func splitStatements(script string) []string {
	var cleaned strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteByte('\n')
	}

	var statements []string
	for _, statement := range strings.Split(cleaned.String(), ";") {
		if statement = strings.TrimSpace(statement); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
