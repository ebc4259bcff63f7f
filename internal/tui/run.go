package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the explorer and blocks until the user quits or ctx ends.
func Run(ctx context.Context, core *analytics.Core, opts ...Option) error {
	m, err := NewModel(core, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("explorer failed: %w", err)
	}
	return nil
}
