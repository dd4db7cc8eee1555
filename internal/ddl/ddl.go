// Package ddl holds the table declarations for each supported database and
// applies them idempotently.
package ddl

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
)

// Dialect names a supported database. The value doubles as the
// database/sql driver name.
type Dialect string

const (
	SQLite Dialect = "sqlite3"
	MySQL  Dialect = "mysql"
)

//go:embed *.sql
var files embed.FS

// ParseDialect maps a driver name onto a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(name))) {
	case SQLite, "sqlite":
		return SQLite, nil
	case MySQL:
		return MySQL, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// Statements returns the table declarations of dialect, one statement per
// element.
func Statements(dialect Dialect) ([]string, error) {
	var name string
	switch dialect {
	case SQLite:
		name = "sqlite.sql"
	case MySQL:
		name = "mysql.sql"
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	content, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return Split(string(content)), nil
}

// Split breaks a script into statements on semicolons. The scripts carry no
// string literals containing semicolons.
func Split(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// Apply creates every missing table and index of dialect.
func Apply(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return fmt.Errorf("sql db is required")
	}

	statements, err := Statements(dialect)
	if err != nil {
		return err
	}

	return applyStatements(ctx, db, statements)
}

// applyStatements runs statements in one transaction, leaving nothing behind
// when any of them fails.
func applyStatements(ctx context.Context, db *sql.DB, statements []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}

	for _, statement := range statements {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Default().ErrorContext(ctx, "schema rollback failed", "error", rbErr.Error())
			}
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}

	return nil
}
