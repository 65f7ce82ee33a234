package main

import (
	"fmt"

	"github.com/Veraticus/finance-control/internal/cli"
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func transactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"transaction", "tx"},
		Short:   "Record and browse income and expenses",
		Long:    `List, add, update, show and delete individual income and expense records.`,
	}

	cmd.AddCommand(listTransactionsCmd(a))
	cmd.AddCommand(addTransactionCmd(a))
	cmd.AddCommand(updateTransactionCmd(a))
	cmd.AddCommand(deleteTransactionCmd(a))
	cmd.AddCommand(showTransactionCmd(a))

	return cmd
}

func listTransactionsCmd(a *app) *cobra.Command {
	var (
		txType     string
		from       string
		to         string
		categoryID int64
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Long: `List transactions newest first. Filters combine: --type, --from/--to
(inclusive YYYY-MM-DD), --category and --limit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.TransactionFilter{Limit: limit}
			if txType != "" {
				t, err := parseTransactionType(txType)
				if err != nil {
					return err
				}
				filter.Type = t
			}
			var err error
			if filter.StartDate, err = parseDateFlag(from, "from"); err != nil {
				return err
			}
			if filter.EndDate, err = parseDateFlag(to, "to"); err != nil {
				return err
			}
			if categoryID != 0 {
				filter.CategoryID = &categoryID
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			txns, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, txns)
			}
			if len(txns) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No transactions found."))
				return nil
			}
			fmt.Fprintln(out, cli.TransactionTable(txns))
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d transaction(s)", len(txns))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "only income or expense")
	cmd.Flags().StringVar(&from, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date (YYYY-MM-DD)")
	cmd.Flags().Int64VarP(&categoryID, "category", "c", 0, "only this category ID")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many")
	return cmd
}

func addTransactionCmd(a *app) *cobra.Command {
	var (
		txType      string
		date        string
		description string
		categoryID  int64
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Long: `Record an income or expense. The amount must be positive; the type says
which way the money went. A missing or malformed --date records today.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			input := model.TransactionInput{
				Amount:      amount,
				Type:        model.TransactionType(txType),
				Date:        date,
				Description: description,
			}
			if categoryID != 0 {
				input.CategoryID = &categoryID
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			id, err := store.AddTransaction(ctx, input)
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, map[string]int64{"id": id})
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Recorded %s %s (ID: %d)", input.Type, amount.StringFixed(2), id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", string(model.TransactionTypeExpense), "income or expense")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "free-text note")
	cmd.Flags().Int64VarP(&categoryID, "category", "c", 0, "category ID")
	return cmd
}

func updateTransactionCmd(a *app) *cobra.Command {
	var (
		amount      string
		txType      string
		date        string
		description string
		categoryID  int64
		noCategory  bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a transaction",
		Long: `Change fields of a transaction. Fields without a flag keep their value.
Unlike add, an invalid --date is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0], "transaction")
			if err != nil {
				return err
			}
			if noCategory && cmd.Flags().Changed("category") {
				return fmt.Errorf("--category and --no-category cannot be combined")
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			current, err := store.GetTransactionByID(ctx, id)
			if err != nil {
				return failed(err)
			}

			input := model.TransactionInput{
				Amount:      current.Amount,
				Type:        current.Type,
				Date:        current.DateString(),
				Description: current.Description,
				CategoryID:  current.CategoryID,
			}

			flags := cmd.Flags()
			if flags.Changed("amount") {
				if input.Amount, err = decimal.NewFromString(amount); err != nil {
					return fmt.Errorf("invalid amount %q", amount)
				}
			}
			if flags.Changed("type") {
				input.Type = model.TransactionType(txType)
			}
			if flags.Changed("date") {
				input.Date = date
			}
			if flags.Changed("description") {
				input.Description = description
			}
			switch {
			case noCategory:
				input.CategoryID = nil
			case flags.Changed("category"):
				input.CategoryID = &categoryID
			}

			if err := store.UpdateTransaction(ctx, id, input); err != nil {
				return failed(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated transaction %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount")
	cmd.Flags().StringVarP(&txType, "type", "t", "", "new type (income or expense)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "new note")
	cmd.Flags().Int64VarP(&categoryID, "category", "c", 0, "new category ID")
	cmd.Flags().BoolVar(&noCategory, "no-category", false, "remove the category")
	return cmd
}

func deleteTransactionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0], "transaction")
			if err != nil {
				return err
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			txn, err := store.GetTransactionByID(ctx, id)
			if err != nil {
				return failed(err)
			}

			ok, err := a.confirm(cmd, fmt.Sprintf("Delete %s?", txn))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Canceled."))
				return nil
			}

			if err := store.DeleteTransaction(ctx, id); err != nil {
				return failed(err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted transaction %d", id)))
			return nil
		},
	}
}

func showTransactionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0], "transaction")
			if err != nil {
				return err
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			txn, err := store.GetTransactionByID(ctx, id)
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, txn)
			}
			fmt.Fprintln(out, cli.TransactionTable([]model.Transaction{*txn}))
			return nil
		},
	}
}
