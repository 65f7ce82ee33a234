package main

import (
	"fmt"

	"github.com/Veraticus/finance-control/internal/cli"
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func backupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list, restore and delete database backups",
		Long: `Backups are consistent copies of the database kept in a "backups"
directory next to the database file, each with a metadata sidecar.`,
	}

	cmd.AddCommand(createBackupCmd(a))
	cmd.AddCommand(listBackupsCmd(a))
	cmd.AddCommand(restoreBackupCmd(a))
	cmd.AddCommand(deleteBackupCmd(a))

	return cmd
}

func createBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Back up the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			manager, err := store.NewBackupManager()
			if err != nil {
				return failed(err)
			}

			tag := ""
			if len(args) == 1 {
				tag = args[0]
			}
			info, err := manager.Create(ctx, tag)
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, info)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Created backup %q (%d transactions, %d categories)",
				info.ID, info.Transactions, info.Categories)))
			return nil
		},
	}
}

func listBackupsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			manager, err := store.NewBackupManager()
			if err != nil {
				return failed(err)
			}
			backups, err := manager.List(ctx)
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, backups)
			}
			if len(backups) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No backups in "+manager.Dir()))
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(cli.SubtleStyle).
				StyleFunc(func(row, _ int) lipgloss.Style {
					if row == table.HeaderRow {
						return cli.TableHeaderStyle
					}
					return cli.TableCellStyle
				}).
				Headers("ID", "Created", "Size", "Transactions", "Categories", "Schema")
			for _, b := range backups {
				t.Row(
					b.ID,
					b.CreatedAt.Local().Format(model.DateLayout+" 15:04:05"),
					formatSize(b.FileSize),
					fmt.Sprint(b.Transactions),
					fmt.Sprint(b.Categories),
					fmt.Sprint(b.SchemaVersion),
				)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
}

func restoreBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <name>",
		Short: "Replace the database with a backup",
		Long: `Verify a backup and copy it over the current database. The current
database is kept aside until the copy succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			manager, err := store.NewBackupManager()
			if err != nil {
				return failed(err)
			}

			ok, err := a.confirm(cmd, fmt.Sprintf("Replace %s with backup %q?", store.Path(), args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Canceled."))
				return nil
			}

			if err := manager.Restore(ctx, args[0]); err != nil {
				return failed(err)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Restored backup %q", args[0])))
			return nil
		},
	}
}

func deleteBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			manager, err := store.NewBackupManager()
			if err != nil {
				return failed(err)
			}
			if err := manager.Delete(ctx, args[0]); err != nil {
				return failed(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted backup %q", args[0])))
			return nil
		},
	}
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
