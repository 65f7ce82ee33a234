package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

const loadTimeout = 10 * time.Second

// monthBounds returns the first and last day of the month offset months away
// from now.
func monthBounds(now time.Time, offset int) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// loadDashboard reads every panel for the selected month in sequence.
func (m Model) loadDashboard(period int) tea.Cmd {
	store := m.storage
	parent := m.ctx
	now := m.config.Now()
	recentLimit := m.config.RecentLimit
	monthsShown := m.config.MonthsShown

	return func() tea.Msg {
		if store == nil {
			return dashboardLoadedMsg{period: period, err: fmt.Errorf("storage not configured")}
		}

		ctx, cancel := context.WithTimeout(parent, loadTimeout)
		defer cancel()

		start, end := monthBounds(now, period)
		trendStart := start.AddDate(0, -(monthsShown - 1), 0)

		var data dashboardData
		var err error

		if data.balance, err = store.GetBalance(ctx); err != nil {
			return dashboardLoadedMsg{period: period, err: fmt.Errorf("failed to load balance: %w", err)}
		}
		if data.months, err = store.SumByMonth(ctx, &trendStart, &end); err != nil {
			return dashboardLoadedMsg{period: period, err: fmt.Errorf("failed to load monthly totals: %w", err)}
		}
		if data.expenses, err = store.SumByCategory(ctx, model.TransactionTypeExpense, &start, &end); err != nil {
			return dashboardLoadedMsg{period: period, err: fmt.Errorf("failed to load expenses: %w", err)}
		}
		if data.income, err = store.SumByCategory(ctx, model.TransactionTypeIncome, &start, &end); err != nil {
			return dashboardLoadedMsg{period: period, err: fmt.Errorf("failed to load income: %w", err)}
		}
		data.recent, err = store.GetTransactions(ctx, service.TransactionFilter{
			StartDate: &start,
			EndDate:   &end,
			Limit:     recentLimit,
		})
		if err != nil {
			return dashboardLoadedMsg{period: period, err: fmt.Errorf("failed to load transactions: %w", err)}
		}

		return dashboardLoadedMsg{period: period, data: data}
	}
}
