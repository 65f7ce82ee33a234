package cli

import (
	"strconv"

	"github.com/Veraticus/finance-control/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Headers(headers...)
}

// TransactionTable renders transactions with their category and signed amount.
func TransactionTable(txns []model.Transaction) string {
	t := newTable("ID", "Date", "Type", "Category", "Amount", "Description")
	for _, txn := range txns {
		t.Row(
			strconv.FormatInt(txn.ID, 10),
			txn.DateString(),
			string(txn.Type),
			Swatch(txn.DisplayColor())+" "+txn.DisplayCategory(),
			FormatAmount(txn.Amount, txn.Type),
			txn.Description,
		)
	}
	return t.Render()
}

// CategoryTable renders categories with a color swatch.
func CategoryTable(categories []model.Category) string {
	t := newTable("ID", "Name", "Type", "Color")
	for _, c := range categories {
		t.Row(
			strconv.FormatInt(c.ID, 10),
			c.Name,
			string(c.Type),
			Swatch(c.Color)+" "+c.Color,
		)
	}
	return t.Render()
}
