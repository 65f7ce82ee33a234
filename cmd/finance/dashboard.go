package main

import (
	"github.com/Veraticus/finance-control/internal/config"
	"github.com/Veraticus/finance-control/internal/tui"
	"github.com/Veraticus/finance-control/internal/tui/themes"
	"github.com/spf13/cobra"
)

func dashboardCmd(a *app) *cobra.Command {
	var (
		recent int
		months int
	)

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive terminal dashboard",
		Long: `Show the balance, the monthly trend, the category breakdown and recent
transactions. Use ←/→ to move between months and Tab to switch views.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			return tui.Run(ctx,
				tui.WithStorage(store),
				tui.WithTheme(themes.GetTheme(a.settings.Get(config.KeyTheme))),
				tui.WithRecentLimit(recent),
				tui.WithMonthsShown(months),
			)
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 10, "transactions listed per month")
	cmd.Flags().IntVar(&months, "months", 6, "months in the trend chart")
	return cmd
}
