package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the dashboard until the user quits or ctx is canceled.
func Run(ctx context.Context, opts ...Option) error {
	m := New(ctx, opts...)
	if m.storage == nil {
		return fmt.Errorf("storage is required")
	}

	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
