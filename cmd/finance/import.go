package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/finance-control/internal/cli"
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/ofx"
	"github.com/spf13/cobra"
)

func importCmd(a *app) *cobra.Command {
	var (
		categoryID int64
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "import <files...>",
		Short: "Import transactions from OFX/QFX statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.
Debits become expenses and credits become income.

Examples:
  # Import a single statement
  finance import ~/Downloads/checking_jan_2024.qfx

  # Import every statement in a directory under one category
  finance import --category 3 ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			parser := ofx.NewParser()
			if categoryID != 0 {
				parser.CategoryID = &categoryID
			}

			out := cmd.OutOrStdout()
			inputs, err := parseStatements(cmd, parser, files)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				fmt.Fprintln(out, cli.FormatWarning("No transactions found in any file"))
				return nil
			}

			if dryRun {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transaction(s) would be imported", len(inputs))))
				for _, in := range inputs {
					fmt.Fprintf(out, "  %s  %-8s %12s  %s\n", in.Date, in.Type, in.Amount.StringFixed(2), in.Description)
				}
				return nil
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
			ctx := handler.HandleInterrupts(cmd.Context(), true)
			defer handler.Stop()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if categoryID != 0 {
				if _, err := store.GetCategoryByID(ctx, categoryID); err != nil {
					return failed(err)
				}
			}

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(inputs), "Importing")
			imported := 0
			for _, in := range inputs {
				if ctx.Err() != nil {
					break
				}
				if _, err := store.AddTransaction(ctx, in); err != nil {
					if ctx.Err() != nil {
						break
					}
					return failed(fmt.Errorf("import stopped after %d transaction(s): %w", imported, err))
				}
				imported++
				_ = bar.Add(1)
			}

			if ctx.Err() != nil {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Imported %d of %d transaction(s) before the interrupt", imported, len(inputs))))
				return ctx.Err()
			}

			slog.Info("import finished", "files", len(files), "transactions", imported)
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transaction(s) from %d file(s)", imported, len(files))))
			return nil
		},
	}

	cmd.Flags().Int64VarP(&categoryID, "category", "c", 0, "assign every imported transaction to this category ID")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview without saving")
	return cmd
}

// expandFiles resolves glob patterns into existing files.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// importKey identifies a statement entry for de-duplication across files.
type importKey struct {
	date        string
	amount      string
	txType      model.TransactionType
	description string
}

// parseStatements reads every file and drops entries repeated across
// overlapping statements.
func parseStatements(cmd *cobra.Command, parser *ofx.Parser, files []string) ([]model.TransactionInput, error) {
	ctx := cmd.Context()
	seen := make(map[importKey]bool)
	var inputs []model.TransactionInput

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		parsed, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}

		added := 0
		for _, in := range parsed {
			key := importKey{date: in.Date, amount: in.Amount.String(), txType: in.Type, description: in.Description}
			if seen[key] {
				continue
			}
			seen[key] = true
			inputs = append(inputs, in)
			added++
		}
		slog.Info("Processed file",
			"file", filepath.Base(path),
			"transactions_found", len(parsed),
			"added", added,
			"duplicates", len(parsed)-added)
	}
	return inputs, nil
}
