// Package tui implements the interactive terminal dashboard.
package tui

import (
	"context"

	"github.com/Veraticus/finance-control/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View represents the current view mode.
type View int

const (
	ViewOverview View = iota
	ViewTransactions
)

// chrome is the number of lines taken by header, footer and borders.
const chrome = 8

// Model holds the dashboard state.
type Model struct {
	ctx        context.Context
	storage    Store
	lastError  error
	theme      themes.Theme
	config     Config
	keymap     KeyMap
	help       help.Model
	table      table.Model
	data       dashboardData
	period     int
	width      int
	height     int
	view       View
	showIncome bool
	loading    bool
	ready      bool
	quitting   bool
}

// New builds a dashboard model.
func New(ctx context.Context, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(ctx, cfg)
}

func newModel(ctx context.Context, cfg Config) Model {
	m := Model{
		ctx:     ctx,
		config:  cfg,
		storage: cfg.Storage,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		width:   cfg.Width,
		height:  cfg.Height,
		view:    ViewOverview,
		loading: true,
	}
	m.table = newTransactionTable(cfg.Theme, max(cfg.Height-chrome, 3))
	return m
}

func newTransactionTable(theme themes.Theme, height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 10},
			{Title: "Type", Width: 7},
			{Title: "Category", Width: 16},
			{Title: "Amount", Width: 12},
			{Title: "Description", Width: 30},
		}),
		table.WithHeight(height),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = theme.Selected
	t.SetStyles(styles)
	return t
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.loadDashboard(m.period)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-chrome, 3))
		return m, nil

	case dashboardLoadedMsg:
		if msg.period != m.period {
			// Superseded by a later navigation.
			return m, nil
		}
		m.loading = false
		m.ready = true
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.lastError = nil
		m.data = msg.data
		m.table.SetRows(transactionRows(msg.data))
		m.table.GotoTop()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.ToggleView):
		if m.view == ViewOverview {
			m.view = ViewTransactions
			m.table.Focus()
		} else {
			m.view = ViewOverview
			m.table.Blur()
		}
		return m, nil

	case key.Matches(msg, m.keymap.ToggleType):
		m.showIncome = !m.showIncome
		return m, nil

	case key.Matches(msg, m.keymap.PrevMonth):
		return m.switchPeriod(m.period - 1)

	case key.Matches(msg, m.keymap.NextMonth):
		if m.period >= 0 {
			return m, nil
		}
		return m.switchPeriod(m.period + 1)

	case key.Matches(msg, m.keymap.ThisMonth):
		return m.switchPeriod(0)

	case key.Matches(msg, m.keymap.Refresh):
		return m.switchPeriod(m.period)
	}

	if m.view == ViewTransactions {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) switchPeriod(period int) (tea.Model, tea.Cmd) {
	m.period = period
	m.loading = true
	return m, m.loadDashboard(period)
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.renderLoading()
	}

	sections := []string{m.renderHeader()}
	switch m.view {
	case ViewTransactions:
		sections = append(sections, m.renderTransactions())
	default:
		sections = append(sections, m.renderOverview())
	}
	if m.lastError != nil {
		sections = append(sections, m.theme.StatusError.Render("Error: "+m.lastError.Error()))
	}
	sections = append(sections, m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
