package tui

import (
	"fmt"

	"github.com/Veraticus/finance-control/internal/cli"
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// wideLayout is the width at which panels sit side by side.
const wideLayout = 100

func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render(cli.MoneyIcon+" Finance dashboard"),
		"",
		m.theme.StatusInfo.Render("Loading transactions..."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) periodLabel() string {
	start, _ := monthBounds(m.config.Now(), m.period)
	return start.Format("January 2006")
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(fmt.Sprintf("%s Finance dashboard · %s", cli.MoneyIcon, m.periodLabel()))
	balance := m.theme.Bold.Render("Balance: ") + cli.FormatBalance(m.data.balance)
	status := ""
	if m.loading {
		status = m.theme.StatusInfo.Render("  refreshing...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, balance+status, "")
}

func (m Model) chartWidth() int {
	if m.width >= wideLayout {
		return max(m.width/4, 10)
	}
	return max(m.width/2, 10)
}

func (m Model) renderOverview() string {
	title := "Expenses by category"
	totals := m.data.expenses
	if m.showIncome {
		title = "Income by category"
		totals = m.data.income
	}

	categories := m.theme.ActivePanel.Render(cli.CategoryChart(title, totals, m.chartWidth()))
	trend := m.theme.Panel.Render(cli.MonthChart("Monthly trend", m.data.months, m.chartWidth()))

	if m.width >= wideLayout {
		return lipgloss.JoinHorizontal(lipgloss.Top, categories, " ", trend)
	}
	return lipgloss.JoinVertical(lipgloss.Left, categories, trend)
}

func (m Model) renderTransactions() string {
	if len(m.data.recent) == 0 {
		return m.theme.Panel.Render(m.theme.Subtitle.Render("No transactions for this period."))
	}
	return m.theme.ActivePanel.Render(m.table.View())
}

func transactionRows(data dashboardData) []table.Row {
	rows := make([]table.Row, 0, len(data.recent))
	for _, txn := range data.recent {
		sign := "+"
		if txn.Type == model.TransactionTypeExpense {
			sign = "-"
		}
		rows = append(rows, table.Row{
			txn.DateString(),
			string(txn.Type),
			txn.DisplayCategory(),
			sign + txn.Amount.StringFixed(2),
			txn.Description,
		})
	}
	return rows
}
