package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/finance-control/internal/cli"
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/spf13/cobra"
)

func balanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show total income minus total expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			balance, err := store.GetBalance(ctx)
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, map[string]string{"balance": balance.StringFixed(2)})
			}
			fmt.Fprintf(out, "%s Balance: %s\n", cli.MoneyIcon, cli.FormatBalance(balance))
			return nil
		},
	}
}

func summaryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Chart totals by category or by month",
		Long: `Draw terminal bar charts of totals. Without --from/--to the range comes
from the analytics.default_period setting (week, month, quarter, year or all).`,
	}

	cmd.AddCommand(summaryCategoriesCmd(a))
	cmd.AddCommand(summaryMonthsCmd(a))

	return cmd
}

// rangeFlags resolves --from/--to, falling back to the default period when
// neither is given.
type rangeFlags struct {
	from string
	to   string
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.from, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&r.to, "to", "", "latest date (YYYY-MM-DD)")
}

func (r *rangeFlags) resolve(a *app, now time.Time) (*time.Time, *time.Time, error) {
	if r.from == "" && r.to == "" {
		start, end := a.defaultRange(now)
		return start, end, nil
	}
	start, err := parseDateFlag(r.from, "from")
	if err != nil {
		return nil, nil, err
	}
	end, err := parseDateFlag(r.to, "to")
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func rangeLabel(start, end *time.Time) string {
	switch {
	case start == nil && end == nil:
		return "all time"
	case start == nil:
		return "until " + end.Format(model.DateLayout)
	case end == nil:
		return "since " + start.Format(model.DateLayout)
	default:
		return start.Format(model.DateLayout) + " to " + end.Format(model.DateLayout)
	}
}

func summaryCategoriesCmd(a *app) *cobra.Command {
	var (
		rng    rangeFlags
		txType string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Totals per category, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			t, err := parseTransactionType(txType)
			if err != nil {
				return err
			}
			start, end, err := rng.resolve(a, time.Now())
			if err != nil {
				return err
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			totals, err := store.SumByCategory(ctx, t, start, end)
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, totals)
			}
			title := fmt.Sprintf("%s %s by category (%s)", cli.ChartIcon, typeLabel(t), rangeLabel(start, end))
			fmt.Fprintln(out, cli.CategoryChart(title, totals, width))
			return nil
		},
	}

	rng.register(cmd)
	cmd.Flags().StringVarP(&txType, "type", "t", string(model.TransactionTypeExpense), "income or expense")
	cmd.Flags().IntVarP(&width, "width", "w", cli.DefaultChartWidth, "bar width of the largest total")
	return cmd
}

func summaryMonthsCmd(a *app) *cobra.Command {
	var (
		rng   rangeFlags
		width int
	)

	cmd := &cobra.Command{
		Use:   "months",
		Short: "Income, expenses and balance per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, end, err := rng.resolve(a, time.Now())
			if err != nil {
				return err
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			months, err := store.SumByMonth(ctx, start, end)
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, months)
			}
			title := fmt.Sprintf("%s Monthly totals (%s)", cli.ChartIcon, rangeLabel(start, end))
			fmt.Fprintln(out, cli.MonthChart(title, months, width))
			return nil
		},
	}

	rng.register(cmd)
	cmd.Flags().IntVarP(&width, "width", "w", cli.DefaultChartWidth, "bar width of the largest total")
	return cmd
}

func typeLabel(t model.TransactionType) string {
	if t == model.TransactionTypeIncome {
		return "Income"
	}
	return "Expenses"
}
