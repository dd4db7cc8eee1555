package bookshelf

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"pollex.nl/bookshelf/internal/ddl"
	"pollex.nl/bookshelf/internal/orm"
)

// Store reads and writes the catalog. It is safe for concurrent use.
type Store struct {
	db      *sql.DB
	dialect ddl.Dialect
	logger  *slog.Logger
}

type Option func(*Store)

// WithLogger sets the logger used for store events. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Opts selects what a read returns. Fields are columns or dotted relation
// fields ("genres.name"); Expands are whole relations ("author"). Without
// Fields every column of the base table is selected.
type Opts struct {
	Fields  []string
	Expands []string
}

func (o Opts) selection() []string {
	fields := slices.Clone(o.Fields)
	if len(fields) == 0 {
		fields = []string{"*"}
	}
	return append(fields, o.Expands...)
}

// Open connects to the database named by driver ("sqlite3" or "mysql") and
// dsn, and creates any missing tables.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	dialect, err := ddl.ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}

	dsn, err = prepareDSN(dialect, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", dialect, err)
	}
	if dialect == ddl.SQLite {
		// SQLite allows a single writer; one connection also keeps
		// per-connection pragmas consistent.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", dialect, err)
	}

	store := &Store{db: db, dialect: dialect, logger: slog.Default()}
	for _, opt := range opts {
		opt(store)
	}

	if err := ddl.Apply(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	store.logger.DebugContext(ctx, "store opened", "dialect", string(dialect))

	return store, nil
}

// prepareDSN enables foreign keys on SQLite and date parsing plus
// found-rows reporting on MySQL.
func prepareDSN(dialect ddl.Dialect, dsn string) (string, error) {
	switch dialect {
	case ddl.SQLite:
		if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
			return dsn, nil
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "_foreign_keys=on&_busy_timeout=5000", nil
	case ddl.MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		cfg.ClientFoundRows = true
		return cfg.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) builder(runner squirrel.BaseRunner) squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.RunWith(runner)
}

// withTx runs fn in a transaction, committing when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.ErrorContext(ctx, "rollback failed", "error", rbErr.Error())
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) insert(ctx context.Context, op string, q squirrel.InsertBuilder) (int64, error) {
	res, err := q.ExecContext(ctx)
	if err != nil {
		return 0, translate(op, err, ErrInvalidReference)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}
	return id, nil
}

type execer interface {
	ExecContext(ctx context.Context) (sql.Result, error)
}

// execAffecting runs a write that must touch at least one row.
func (s *Store) execAffecting(ctx context.Context, op string, q execer, onForeignKey error) error {
	res, err := q.ExecContext(ctx)
	if err != nil {
		return translate(op, err, onForeignKey)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// onConflictIgnore is appended to association inserts so re-adding an
// existing edge is a no-op while foreign key failures still surface.
func (s *Store) onConflictIgnore(keyCol string) string {
	if s.dialect == ddl.MySQL {
		return fmt.Sprintf("ON DUPLICATE KEY UPDATE %s = %s", keyCol, keyCol)
	}
	return "ON CONFLICT DO NOTHING"
}

func collectOne[T any](
	ctx context.Context,
	db squirrel.BaseRunner,
	schema *orm.ModelSchema[T],
	where orm.QueryMod,
	opts Opts,
) (*T, error) {
	t, err := schema.Query(opts.selection()...).
		ModifyQuery(where).
		CollectOne(ctx, db)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", schema.Table, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", schema.Table, err)
	}
	return t, nil
}

func collectAll[T any](
	ctx context.Context,
	db squirrel.BaseRunner,
	schema *orm.ModelSchema[T],
	opts Opts,
	mods ...orm.QueryMod,
) ([]T, error) {
	q := schema.Query(opts.selection()...)
	for _, mod := range mods {
		q = q.ModifyQuery(mod)
	}

	ts, err := q.Collect(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", schema.Table, err)
	}
	return ts, nil
}
