package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/finance-control/internal/common"
)

// BackupManager creates and restores copies of the database file.
type BackupManager struct {
	db         *sql.DB
	now        func() time.Time
	dbPath     string
	backupsDir string
}

// BackupMetadata is stored next to each backup file.
type BackupMetadata struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
}

// BackupInfo summarizes a backup for listing.
type BackupInfo struct {
	CreatedAt     time.Time
	ID            string
	FileSize      int64
	Transactions  int
	Categories    int
	SchemaVersion int
}

// Backup errors.
var (
	ErrBackupNotFound  = errors.New("backup not found")
	ErrBackupCorrupted = fmt.Errorf("%w: backup integrity check failed", common.ErrDatabaseCorrupted)
	ErrBackupExists    = errors.New("backup already exists")
	ErrInvalidBackupID = errors.New("invalid backup id: cannot contain path separators")
)

// NewBackupManager creates a manager that keeps backups in a "backups"
// directory next to the database file.
func NewBackupManager(db *sql.DB, dbPath string) (*BackupManager, error) {
	if dbPath == ":memory:" {
		return nil, errors.New("in-memory databases cannot be backed up")
	}
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	backupsDir := filepath.Join(filepath.Dir(absPath), "backups")
	if err := os.MkdirAll(backupsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	return &BackupManager{
		db:         db,
		dbPath:     absPath,
		backupsDir: backupsDir,
		now:        time.Now,
	}, nil
}

// Dir returns the directory holding backup files.
func (bm *BackupManager) Dir() string {
	return bm.backupsDir
}

// Create writes a consistent copy of the database. An empty tag generates a
// timestamped ID.
func (bm *BackupManager) Create(ctx context.Context, tag string) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if tag == "" {
		tag = "backup-" + bm.now().Format("20060102-150405")
	}
	if err := validateBackupID(tag); err != nil {
		return nil, err
	}

	backupPath := bm.backupPath(tag)
	if _, err := os.Stat(backupPath); err == nil {
		return nil, ErrBackupExists
	}

	var schemaVersion int
	if err := bm.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&schemaVersion); err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	rowCounts := bm.collectRowCounts(ctx)

	if err := bm.vacuumInto(ctx, backupPath); err != nil {
		return nil, fmt.Errorf("failed to backup database: %w", err)
	}

	stat, err := os.Stat(backupPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	metadata := BackupMetadata{
		ID:            tag,
		CreatedAt:     bm.now(),
		FileSize:      stat.Size(),
		RowCounts:     rowCounts,
		SchemaVersion: schemaVersion,
	}
	if err := saveMetadata(bm.metadataPath(tag), metadata); err != nil {
		if rmErr := os.Remove(backupPath); rmErr != nil {
			slog.Error("failed to remove backup file after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	slog.Info("created backup", "id", tag, "size", stat.Size())
	info := metadata.info()
	return &info, nil
}

// List returns all backups, newest first. Backups with unreadable metadata
// are skipped.
func (bm *BackupManager) List(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.backupsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		metadata, err := loadMetadata(filepath.Join(bm.backupsDir, entry.Name()))
		if err != nil {
			slog.Warn("skipping unreadable backup metadata", "file", entry.Name(), "error", err)
			continue
		}
		backups = append(backups, metadata.info())
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Restore replaces the database file with a backup. The database handle is
// closed first, so the owning storage cannot be used afterwards.
func (bm *BackupManager) Restore(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBackupID(id); err != nil {
		return err
	}

	backupPath := bm.backupPath(id)
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}
	if err := verifyIntegrity(ctx, backupPath); err != nil {
		slog.Error("backup failed integrity check", "id", id, "error", err)
		return ErrBackupCorrupted
	}

	if err := bm.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	safety := bm.dbPath + ".restore-backup"
	if err := copyFile(bm.dbPath, safety); err != nil {
		return fmt.Errorf("failed to save current database: %w", err)
	}
	if err := copyFile(backupPath, bm.dbPath); err != nil {
		if restoreErr := copyFile(safety, bm.dbPath); restoreErr != nil {
			slog.Error("failed to put back current database after restore failure", "error", restoreErr)
		}
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	if err := os.Remove(safety); err != nil {
		slog.Error("failed to remove safety copy", "error", err)
	}

	slog.Info("restored backup", "id", id)
	return nil
}

// Delete removes a backup and its metadata.
func (bm *BackupManager) Delete(_ context.Context, id string) error {
	if err := validateBackupID(id); err != nil {
		return err
	}

	backupPath := bm.backupPath(id)
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}
	if err := os.Remove(backupPath); err != nil {
		return fmt.Errorf("failed to remove backup file: %w", err)
	}
	if err := os.Remove(bm.metadataPath(id)); err != nil {
		slog.Debug("failed to remove metadata file", "error", err, "id", id)
	}

	slog.Info("deleted backup", "id", id)
	return nil
}

func (bm *BackupManager) backupPath(id string) string {
	return filepath.Join(bm.backupsDir, id+".db")
}

func (bm *BackupManager) metadataPath(id string) string {
	return filepath.Join(bm.backupsDir, id+".meta.json")
}

func (bm *BackupManager) collectRowCounts(ctx context.Context) map[string]int {
	queries := map[string]string{
		"transactions": "SELECT COUNT(*) FROM transactions",
		"categories":   "SELECT COUNT(*) FROM categories",
	}

	counts := make(map[string]int, len(queries))
	for table, query := range queries {
		var count int
		if err := bm.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			slog.Warn("failed to count rows", "table", table, "error", err)
			continue
		}
		counts[table] = count
	}
	return counts
}

func (bm *BackupManager) vacuumInto(ctx context.Context, destPath string) error {
	if strings.ContainsAny(destPath, `'";`) {
		return fmt.Errorf("invalid destination path: contains forbidden characters")
	}
	// #nosec G201 - destPath is checked above
	err := retryBusy(ctx, func() error {
		_, err := bm.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", destPath))
		return err
	})
	if err != nil {
		slog.Warn("VACUUM INTO failed, falling back to file copy", "error", err)
		return copyFile(bm.dbPath, destPath)
	}
	return nil
}

func (m BackupMetadata) info() BackupInfo {
	return BackupInfo{
		ID:            m.ID,
		CreatedAt:     m.CreatedAt,
		FileSize:      m.FileSize,
		Transactions:  m.RowCounts["transactions"],
		Categories:    m.RowCounts["categories"],
		SchemaVersion: m.SchemaVersion,
	}
}

func validateBackupID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return ErrInvalidBackupID
	}
	return nil
}

// copyFile copies src to dst through a temporary file and a rename.
func copyFile(src, dst string) error {
	tmp := dst + ".tmp"

	// #nosec G304 - paths are built by BackupManager
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = source.Close() }()

	// #nosec G304
	destination, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destination, source); err != nil {
		_ = destination.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := destination.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func saveMetadata(path string, metadata BackupMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadMetadata(path string) (*BackupMetadata, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var metadata BackupMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}

func verifyIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}
