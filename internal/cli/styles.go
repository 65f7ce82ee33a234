// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#2196F3")
	// IncomeColor marks money coming in.
	IncomeColor = lipgloss.Color("#4CAF50")
	// ExpenseColor marks money going out.
	ExpenseColor = lipgloss.Color("#F44336")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFC107")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(IncomeColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ExpenseColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// IncomeStyle colors income amounts.
	IncomeStyle = lipgloss.NewStyle().
			Foreground(IncomeColor)

	// ExpenseStyle colors expense amounts.
	ExpenseStyle = lipgloss.NewStyle().
			Foreground(ExpenseColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor).
				Padding(0, 1)

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	MoneyIcon   = "💰"
	ChartIcon   = "📊"
	FolderIcon  = "🗄️"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the money icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(MoneyIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// FormatAmount renders an amount with two decimals, colored by type.
// Expenses get a leading minus sign.
func FormatAmount(amount decimal.Decimal, txType model.TransactionType) string {
	if txType == model.TransactionTypeExpense {
		return ExpenseStyle.Render("-" + amount.StringFixed(2))
	}
	return IncomeStyle.Render("+" + amount.StringFixed(2))
}

// FormatBalance renders a signed balance, green when not negative.
func FormatBalance(balance decimal.Decimal) string {
	if balance.IsNegative() {
		return ExpenseStyle.Render(balance.StringFixed(2))
	}
	return IncomeStyle.Render(balance.StringFixed(2))
}

// Swatch renders a small block in a category color.
func Swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}
