package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerbaras/yomu/pkg/app/screens"
	"github.com/kerbaras/yomu/pkg/services"
)

type App struct {
	reader *services.Reader
	host   *AltScreen
	opts   screens.Options
}

// NewApp creates the reader TUI. host must be the fullscreen capability the
// reader's store was built with, so toggling fullscreen reaches the terminal.
func NewApp(reader *services.Reader, host *AltScreen, opts screens.Options) *App {
	return &App{reader: reader, host: host, opts: opts}
}

// Run blocks until the program quits. Work started from the screens is
// cancelled when it returns.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := screens.NewStateFeed(a.reader.Store())
	defer feed.Close()

	model := screens.NewRootScreen(ctx, a.reader, feed, a.opts)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithMouseCellMotion())
	if a.host != nil {
		a.host.Attach(p)
		defer a.host.Detach()
	}
	_, err := p.Run()
	return err
}
