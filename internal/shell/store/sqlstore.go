package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/komalmemorial/volunteer/internal/core/domain"
	"github.com/mattn/go-sqlite3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// =============================================================================
// SQLStore
// =============================================================================

// SQLStore implements Store on SQLite or PostgreSQL.
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

// NewSQLStore opens the database for driver, runs migrations and returns the store.
// driver is DriverSQLite or DriverPostgres; an empty driver means SQLite.
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	if driver == "" {
		driver = DriverSQLite
	}

	var (
		db  *sqlx.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, NewStoreError("NewSQLStore", "", "", err.Error(), ErrConnectionFailed)
		}
		db, err = sqlx.Open("sqlite3", sqliteDSN(dsn))
		if err == nil {
			// A single connection keeps :memory: databases shared and serializes writers.
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		db, err = sqlx.Open("pgx", dsn)
	default:
		return nil, NewStoreError("NewSQLStore", "", "", fmt.Sprintf("driver %q", driver), ErrUnsupportedDriver)
	}
	if err != nil {
		return nil, NewStoreError("NewSQLStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB, driver); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLStore{db: db, driver: driver}, nil
}

// sqliteDSN appends the connection options the store relies on.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// ensureSQLiteDir creates the parent directory of a file-backed database.
func ensureSQLiteDir(dsn string) error {
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB, driver string) error {
	var (
		dbDriver database.Driver
		dir      string
		err      error
	)
	switch driver {
	case DriverPostgres:
		dir = "migrations/postgres"
		dbDriver, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	default:
		dir = "migrations/sqlite"
		dbDriver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Driver returns the configured database driver.
func (s *SQLStore) Driver() string {
	return s.driver
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("Ping", "", "", err.Error(), ErrConnectionFailed)
	}
	return nil
}

// =============================================================================
// Volunteer Operations
// =============================================================================

// volunteerRow represents a volunteer row in the database.
type volunteerRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Phone        string         `db:"phone"`
	Message      sql.NullString `db:"message"`
	RegisteredAt string         `db:"registered_at"`
}

func (s *SQLStore) CreateVolunteer(ctx context.Context, volunteer *domain.Volunteer) error {
	return createVolunteer(ctx, s.db, volunteer)
}

func (s *SQLStore) GetVolunteer(ctx context.Context, id string) (*domain.Volunteer, error) {
	return getVolunteer(ctx, s.db, id)
}

func (s *SQLStore) ListVolunteers(ctx context.Context, opts ListOptions) ([]domain.Volunteer, error) {
	return listVolunteers(ctx, s.db, opts)
}

func (s *SQLStore) CountVolunteers(ctx context.Context) (int, error) {
	return countVolunteers(ctx, s.db)
}

// =============================================================================
// Transaction Support
// =============================================================================

func (s *SQLStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("WithTx", "", "", "failed to begin transaction", ErrTxFailed)
	}

	txS := &txSQLStore{tx: tx}

	if err := fn(txS); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return NewStoreError("WithTx", "", "", fmt.Sprintf("rollback failed after error: %v", err), ErrTxFailed)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("WithTx", "", "", "failed to commit transaction", ErrTxFailed)
	}

	return nil
}

// txSQLStore implements Store within a transaction.
type txSQLStore struct {
	tx *sqlx.Tx
}

func (s *txSQLStore) CreateVolunteer(ctx context.Context, volunteer *domain.Volunteer) error {
	return createVolunteer(ctx, s.tx, volunteer)
}

func (s *txSQLStore) GetVolunteer(ctx context.Context, id string) (*domain.Volunteer, error) {
	return getVolunteer(ctx, s.tx, id)
}

func (s *txSQLStore) ListVolunteers(ctx context.Context, opts ListOptions) ([]domain.Volunteer, error) {
	return listVolunteers(ctx, s.tx, opts)
}

func (s *txSQLStore) CountVolunteers(ctx context.Context) (int, error) {
	return countVolunteers(ctx, s.tx)
}

func (s *txSQLStore) Ping(ctx context.Context) error {
	return nil
}

func (s *txSQLStore) WithTx(ctx context.Context, fn func(Store) error) error {
	// Already in a transaction, just run the function
	return fn(s)
}

func (s *txSQLStore) Close() error {
	return nil
}

// =============================================================================
// Shared Implementation Functions
// =============================================================================

func createVolunteer(ctx context.Context, exec executor, volunteer *domain.Volunteer) error {
	query := `
		INSERT INTO volunteers (id, name, email, phone, message, registered_at)
		VALUES (:id, :name, :email, :phone, :message, :registered_at)`

	row := map[string]any{
		"id":            volunteer.ID,
		"name":          volunteer.Name,
		"email":         volunteer.Email,
		"phone":         volunteer.Phone,
		"message":       volunteer.Message,
		"registered_at": volunteer.RegisteredAt.UTC().Format(timeLayout),
	}

	_, err := exec.NamedExecContext(ctx, query, row)
	if err != nil {
		if isUniqueViolation(err) {
			return NewStoreError("CreateVolunteer", "volunteer", volunteer.ID, "volunteer with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateVolunteer", "volunteer", volunteer.ID, err.Error(), err)
	}

	return nil
}

func getVolunteer(ctx context.Context, exec executor, id string) (*domain.Volunteer, error) {
	query := exec.Rebind(`SELECT id, name, email, phone, message, registered_at FROM volunteers WHERE id = ?`)

	var row volunteerRow
	err := exec.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetVolunteer", "volunteer", id, "volunteer not found", ErrNotFound)
		}
		return nil, NewStoreError("GetVolunteer", "volunteer", id, err.Error(), err)
	}

	return rowToVolunteer(&row)
}

func listVolunteers(ctx context.Context, exec executor, opts ListOptions) ([]domain.Volunteer, error) {
	opts = opts.Normalize()
	query := `SELECT id, name, email, phone, message, registered_at FROM volunteers`
	var args []any
	if !opts.Before.IsZero() {
		at := opts.Before.RegisteredAt.UTC().Format(timeLayout)
		query += ` WHERE registered_at < ? OR (registered_at = ? AND id < ?)`
		args = append(args, at, at, opts.Before.ID)
	}
	query += ` ORDER BY registered_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Offset)

	var rows []volunteerRow
	err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...)
	if err != nil {
		return nil, NewStoreError("ListVolunteers", "volunteer", "", err.Error(), err)
	}

	volunteers := make([]domain.Volunteer, 0, len(rows))
	for _, row := range rows {
		v, err := rowToVolunteer(&row)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, *v)
	}

	return volunteers, nil
}

func countVolunteers(ctx context.Context, exec executor) (int, error) {
	var count int
	if err := exec.GetContext(ctx, &count, `SELECT COUNT(*) FROM volunteers`); err != nil {
		return 0, NewStoreError("CountVolunteers", "volunteer", "", err.Error(), err)
	}
	return count, nil
}

func rowToVolunteer(row *volunteerRow) (*domain.Volunteer, error) {
	registeredAt, err := time.Parse(timeLayout, row.RegisteredAt)
	if err != nil {
		return nil, NewStoreError("rowToVolunteer", "volunteer", row.ID, "failed to parse registered_at", ErrInvalidData)
	}

	v := &domain.Volunteer{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Phone:        row.Phone,
		RegisteredAt: registeredAt.UTC(),
	}
	if row.Message.Valid {
		msg := row.Message.String
		v.Message = &msg
	}
	return v, nil
}

// isUniqueViolation reports whether err is a primary key or unique constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
