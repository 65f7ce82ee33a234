package main

import (
	"fmt"

	"github.com/Veraticus/finance-control/internal/cli"
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage income and expense categories",
		Long:    `List, add, update, show and delete the categories transactions are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd(a))
	cmd.AddCommand(addCategoryCmd(a))
	cmd.AddCommand(updateCategoryCmd(a))
	cmd.AddCommand(deleteCategoryCmd(a))
	cmd.AddCommand(showCategoryCmd(a))

	return cmd
}

func listCategoriesCmd(a *app) *cobra.Command {
	var categoryType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Long:  `Display categories ordered by name, optionally only those of one type.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if categoryType != "" && !model.CategoryType(categoryType).Valid() {
				return fmt.Errorf("invalid type %q: must be income or expense", categoryType)
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			categories, err := store.GetCategories(ctx, model.CategoryType(categoryType))
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, categories)
			}
			if len(categories) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No categories found. Use 'finance categories add' to create one."))
				return nil
			}
			fmt.Fprintln(out, cli.CategoryTable(categories))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryType, "type", "t", "", "only list income or expense categories")
	return cmd
}

func addCategoryCmd(a *app) *cobra.Command {
	var (
		categoryType string
		color        string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long: `Create a category. Adding a name that already exists for the same type
returns the existing category instead of creating a duplicate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			id, err := store.AddCategory(ctx, args[0], color, model.CategoryType(categoryType))
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, map[string]int64{"id": id})
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Category %q saved (ID: %d)", args[0], id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryType, "type", "t", string(model.CategoryTypeExpense), "category type (income or expense)")
	cmd.Flags().StringVarP(&color, "color", "c", model.DefaultColor, "display color as #RRGGBB")
	return cmd
}

func updateCategoryCmd(a *app) *cobra.Command {
	var (
		name  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or recolor a category",
		Long:  `Update the name or color of an existing category. The type cannot change.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}
			if name == "" && color == "" {
				return fmt.Errorf("must specify --name or --color to update")
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			current, err := store.GetCategoryByID(ctx, id)
			if err != nil {
				return failed(err)
			}
			if name == "" {
				name = current.Name
			}
			if color == "" {
				color = current.Color
			}

			if err := store.UpdateCategory(ctx, id, name, color); err != nil {
				return failed(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated category %d: %s %s", id, name, color)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new category name")
	cmd.Flags().StringVarP(&color, "color", "c", "", "new display color as #RRGGBB")
	return cmd
}

func deleteCategoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. Its transactions are kept and become uncategorized.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			category, err := store.GetCategoryByID(ctx, id)
			if err != nil {
				return failed(err)
			}

			ok, err := a.confirm(cmd, fmt.Sprintf("Delete category %q? Its transactions will become %s.", category.Name, model.UncategorizedName))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Canceled."))
				return nil
			}

			if err := store.DeleteCategory(ctx, id); err != nil {
				return failed(err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted category %q", category.Name)))
			return nil
		},
	}
}

func showCategoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a category and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			category, err := store.GetCategoryByID(ctx, id)
			if err != nil {
				return failed(err)
			}
			txns, err := store.GetTransactionsByCategory(ctx, id)
			if err != nil {
				return failed(err)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, map[string]any{
					"category":     category,
					"transactions": txns,
				})
			}

			fmt.Fprintln(out, cli.CategoryTable([]model.Category{*category}))
			if len(txns) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No transactions in this category."))
				return nil
			}
			fmt.Fprintln(out, cli.TransactionTable(txns))
			return nil
		},
	}
}
