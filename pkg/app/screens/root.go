package screens

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/yomu/pkg/app/components"
	"github.com/kerbaras/yomu/pkg/services"
	"github.com/kerbaras/yomu/pkg/store"
)

// CacheStatus reports whether the offline cache serves requests.
type CacheStatus interface {
	Claimed() bool
}

type Options struct {
	// InitialURL is loaded as soon as the program starts.
	InitialURL string
	ExportDir  string
	Prefetcher *services.Prefetcher
	Cache      CacheStatus
}

// RootScreen routes input between the reader and the settings panel and
// forwards every published snapshot to both.
type RootScreen struct {
	reader     *services.Reader
	feed       *StateFeed
	prefetcher *services.Prefetcher
	initialURL string

	state    store.AppState
	page     *ReaderScreen
	settings *SettingsScreen
	progress *components.ProgressTracker

	width  int
	height int
}

func NewRootScreen(ctx context.Context, reader *services.Reader, feed *StateFeed, opts Options) *RootScreen {
	page := NewReaderScreen(ctx, reader, opts.ExportDir)
	page.cache = opts.Cache
	return &RootScreen{
		reader:     reader,
		feed:       feed,
		prefetcher: opts.Prefetcher,
		initialURL: opts.InitialURL,
		state:      reader.Store().State(),
		page:       page,
		settings:   NewSettingsScreen(ctx, reader),
		progress:   components.NewProgressTracker(80),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{r.feed.Next, r.page.Init(), r.settings.Init()}
	if r.prefetcher != nil {
		cmds = append(cmds, r.listenForProgress)
	}
	if r.initialURL != "" {
		cmds = append(cmds, r.page.Load(r.initialURL))
	}
	return tea.Batch(cmds...)
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.progress.SetWidth(msg.Width - 4)

	case StateMsg:
		r.state = store.AppState(msg)
		r.page.SetState(r.state)
		r.settings.SetState(r.state)
		return r, r.feed.Next

	case services.PrefetchProgress:
		r.progress.Update(msg)
		return r, r.listenForProgress

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return r, tea.Quit
		}
		if r.state.IsSettingsOpen {
			_, cmd := r.settings.Update(msg)
			return r, cmd
		}
		if msg.String() == "q" && !r.page.input.Focused() {
			return r, tea.Quit
		}
		_, cmd := r.page.Update(msg)
		return r, cmd

	case apiKeyCheckedMsg:
		_, cmd := r.settings.Update(msg)
		return r, cmd
	}

	_, cmd := r.page.Update(msg)
	return r, cmd
}

func (r *RootScreen) View() string {
	view := r.page.View()
	if r.state.IsSettingsOpen && !r.state.IsFullscreen {
		view = lipgloss.JoinHorizontal(lipgloss.Top, view, "  ", r.settings.View())
	} else if r.state.IsSettingsOpen {
		view = lipgloss.JoinVertical(lipgloss.Left, view, r.settings.View())
	}
	if r.progress.HasActive() && !r.state.IsFullscreen {
		view = lipgloss.JoinVertical(lipgloss.Left, view, r.progress.View())
	}
	return view
}

func (r *RootScreen) listenForProgress() tea.Msg {
	progress, ok := <-r.prefetcher.Progress()
	if !ok {
		return nil
	}
	return progress
}
