// Package tui hosts a wheel view in the terminal.
package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgallion1/docwheel/internal/wheel"
)

// Run takes over the terminal until the user quits. The view must already
// have its document open.
func Run(ctx context.Context, view *wheel.View, log *slog.Logger) error {
	m := newModel(ctx, view, log)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	return err
}
