package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/Veraticus/finance-control/internal/cli"
	"github.com/Veraticus/finance-control/internal/common"
	"github.com/Veraticus/finance-control/internal/config"
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/storage"
	"github.com/spf13/cobra"
)

// initStorage opens and initializes the configured database.
func (a *app) initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := a.dbPath
	if dbPath == "" && a.settings != nil {
		dbPath = a.settings.DatabasePath()
	}
	if dbPath == "" {
		dbPath = storage.DefaultPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError("could not open database", err)
	}

	if err := store.Initialize(ctx); err != nil {
		closeStore(store)
		return nil, common.NewUserError("could not initialize database", err)
	}

	return store, nil
}

func closeStore(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// failed wraps a storage error for display.
func failed(err error) error {
	return common.NewUserError("operation failed", err)
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", what, s)
	}
	return id, nil
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := model.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date %q: expected YYYY-MM-DD", name, value)
	}
	return &t, nil
}

func parseTransactionType(s string) (model.TransactionType, error) {
	t := model.TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid type %q: must be income or expense", s)
	}
	return t, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirm asks question unless --yes was given.
func (a *app) confirm(cmd *cobra.Command, question string) (bool, error) {
	if a.assumeYes {
		return true, nil
	}
	reader := cli.NewNonBlockingReader(cmd.InOrStdin())
	return cli.Confirm(cmd.Context(), reader, cmd.OutOrStdout(), question)
}

// defaultRange turns the analytics.default_period setting into a date range
// ending today. "all" or an unknown period means no bounds.
func (a *app) defaultRange(now time.Time) (*time.Time, *time.Time) {
	period := "month"
	if a.settings != nil {
		period = a.settings.Get(config.KeyDefaultPeriod)
	}

	today := model.Today(now)
	var start time.Time
	switch period {
	case "week":
		start = today.AddDate(0, 0, -6)
	case "month":
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	case "quarter":
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -2, 0)
	case "year":
		start = time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return nil, nil
	}
	return &start, &today
}
