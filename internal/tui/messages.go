package tui

import (
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/shopspring/decimal"
)

// dashboardData is one consistent snapshot of everything on screen.
type dashboardData struct {
	balance  decimal.Decimal
	months   []model.MonthTotal
	expenses []model.CategoryTotal
	income   []model.CategoryTotal
	recent   []model.Transaction
}

type dashboardLoadedMsg struct {
	err    error
	data   dashboardData
	period int
}
