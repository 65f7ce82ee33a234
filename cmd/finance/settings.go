package main

import (
	"fmt"

	"github.com/Veraticus/finance-control/internal/cli"
	"github.com/spf13/cobra"
)

func settingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change application settings",
		Long: `Settings live in a JSON file (see --config). Environment variables such
as FINANCE_DATABASE_PATH override the file.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			values := a.settings.All()
			if a.jsonOutput {
				m := make(map[string]string, len(values))
				for _, kv := range values {
					m[kv.Key] = kv.Value
				}
				return writeJSON(out, m)
			}
			fmt.Fprintln(out, cli.SubtleStyle.Render(a.settings.Path()))
			for _, kv := range values {
				fmt.Fprintf(out, "%s = %s\n", kv.Key, kv.Value)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <section.name> <value>",
		Short: "Change a setting and save the file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.settings.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := a.settings.Save(); err != nil {
				return failed(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s = %s", args[0], args[1])))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := a.confirm(cmd, "Reset all settings to their defaults?")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Canceled."))
				return nil
			}
			if err := a.settings.Reset(); err != nil {
				return failed(err)
			}
			fmt.Fprintln(out, cli.FormatSuccess("Settings reset to defaults"))
			return nil
		},
	})

	return cmd
}
