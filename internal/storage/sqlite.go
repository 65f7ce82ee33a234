package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/finance-control/internal/common"
	"github.com/Veraticus/finance-control/internal/service"
	"github.com/mattn/go-sqlite3"
)

// DefaultPath is the database file used when no path is configured.
const DefaultPath = "finance.db"

var _ service.Storage = (*SQLiteStorage)(nil)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	now    func() time.Time
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection: SQLite serializes writers anyway, and it keeps
	// :memory: databases alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// NewBackupManager creates a backup manager for this storage instance.
func (s *SQLiteStorage) NewBackupManager() (*BackupManager, error) {
	return NewBackupManager(s.db, s.dbPath)
}

// withTx runs fn inside a transaction. The transaction is committed when fn
// succeeds and rolled back on every other exit path.
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// storeError logs a persistence failure and returns it wrapped with op.
func storeError(op string, err error) error {
	slog.Error("database operation failed", "op", op, "error", err)
	return fmt.Errorf("failed to %s: %w", op, err)
}

// isBusy reports whether err is SQLite refusing work because another
// connection holds a lock.
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

// retryBusy runs op again while another process keeps the database locked
// past the busy timeout.
func retryBusy(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, op, common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 250 * time.Millisecond,
		Retryable:    isBusy,
	})
}

// today returns the current calendar day from the storage clock.
func (s *SQLiteStorage) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
