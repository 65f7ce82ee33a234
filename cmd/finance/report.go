package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/finance-control/internal/cli"
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/report"
	"github.com/spf13/cobra"
)

// reportOutput holds the flags shared by every report subcommand.
type reportOutput struct {
	dir  string
	file string
	save bool
}

func (o *reportOutput) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.save, "save", "s", false, "also write the report to a text file")
	cmd.Flags().StringVar(&o.dir, "dir", "", "directory for --save (default: working directory)")
	cmd.Flags().StringVarP(&o.file, "output", "o", "", "file name for --save (default: finance_report_<timestamp>.txt)")
}

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly, annual or custom-period reports",
		Long: `Summarize income and expenses into a plain-text report with category
breakdowns. Use --save to keep a copy on disk.`,
	}

	cmd.AddCommand(monthlyReportCmd(a))
	cmd.AddCommand(annualReportCmd(a))
	cmd.AddCommand(periodReportCmd(a))

	return cmd
}

// runReport loads every transaction, builds the report and prints or saves it.
func (a *app) runReport(cmd *cobra.Command, out reportOutput, build func([]model.Transaction) (*report.Report, error)) error {
	ctx := cmd.Context()

	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store)

	txns, err := store.GetAllTransactions(ctx)
	if err != nil {
		return failed(err)
	}

	r, err := build(txns)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if a.jsonOutput {
		return writeJSON(w, r)
	}

	now := time.Now()
	text := report.RenderText(r, now)
	fmt.Fprintln(w, text)

	if out.save {
		path, err := report.SaveToFile(text, out.dir, out.file, now)
		if err != nil {
			return failed(err)
		}
		fmt.Fprintln(w, cli.FormatSuccess("Report saved to "+path))
	}
	return nil
}

func monthlyReportCmd(a *app) *cobra.Command {
	var (
		out   reportOutput
		year  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Report for one calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReport(cmd, out, func(txns []model.Transaction) (*report.Report, error) {
				return report.Monthly(txns, year, month)
			})
		},
	}

	now := time.Now()
	out.register(cmd)
	cmd.Flags().IntVar(&year, "year", now.Year(), "year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "month (1-12)")
	return cmd
}

func annualReportCmd(a *app) *cobra.Command {
	var (
		out  reportOutput
		year int
	)

	cmd := &cobra.Command{
		Use:   "annual",
		Short: "Report for one year with a month-by-month breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReport(cmd, out, func(txns []model.Transaction) (*report.Report, error) {
				return report.Annual(txns, year), nil
			})
		},
	}

	out.register(cmd)
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "year")
	return cmd
}

func periodReportCmd(a *app) *cobra.Command {
	var (
		out  reportOutput
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Report for an inclusive date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseDateFlag(from, "from")
			if err != nil {
				return err
			}
			end, err := parseDateFlag(to, "to")
			if err != nil {
				return err
			}
			if start == nil || end == nil {
				return fmt.Errorf("both --from and --to are required")
			}
			if start.After(*end) {
				return fmt.Errorf("--from %s is after --to %s", from, to)
			}
			return a.runReport(cmd, out, func(txns []model.Transaction) (*report.Report, error) {
				return report.Period(txns, start.Format(model.DateLayout), end.Format(model.DateLayout)), nil
			})
		},
	}

	out.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
