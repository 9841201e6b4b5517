package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/yomu/pkg/app/components"
	"github.com/kerbaras/yomu/pkg/app/styles"
	"github.com/kerbaras/yomu/pkg/services"
	"github.com/kerbaras/yomu/pkg/store"
)

const offlineWarning = "⚠ Offline cache unavailable, pages are read from the network. Run 'yomu cache warm' against a reachable origin."

// ReaderScreen shows the current page with the reading progress and turns
// key presses into store actions.
type ReaderScreen struct {
	ctx       context.Context
	reader    *services.Reader
	exportDir string
	cache     CacheStatus

	state  store.AppState
	input  textinput.Model
	busy   string
	status string
	err    error
	width  int
	height int
}

func NewReaderScreen(ctx context.Context, reader *services.Reader, exportDir string) *ReaderScreen {
	ti := textinput.New()
	ti.Placeholder = "Paste a chapter URL..."
	ti.CharLimit = 512
	ti.Width = 60

	return &ReaderScreen{
		ctx:       ctx,
		reader:    reader,
		exportDir: exportDir,
		state:     reader.Store().State(),
		input:     ti,
	}
}

func (s *ReaderScreen) Init() tea.Cmd {
	if s.state.CurrentChapter == nil {
		s.input.Focus()
		return textinput.Blink
	}
	return nil
}

func (s *ReaderScreen) SetState(st store.AppState) {
	s.state = st
}

// Load fetches url and makes it the current chapter.
func (s *ReaderScreen) Load(url string) tea.Cmd {
	s.busy = "Loading chapter..."
	s.err = nil
	return func() tea.Msg {
		ch, err := s.reader.LoadChapter(s.ctx, url)
		return chapterLoadedMsg{chapter: ch, err: err}
	}
}

func (s *ReaderScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		if s.input.Focused() {
			switch msg.String() {
			case "enter":
				url := strings.TrimSpace(s.input.Value())
				if url == "" {
					return s, nil
				}
				s.input.Blur()
				s.input.SetValue("")
				return s, s.Load(url)
			case "esc":
				s.input.Blur()
				return s, nil
			}
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, s.handleKey(msg.String())

	case chapterLoadedMsg:
		s.busy = ""
		s.err = msg.err
		if msg.err == nil {
			s.status = fmt.Sprintf("Loaded %s (%d pages)", msg.chapter.Title, len(msg.chapter.Pages))
		}

	case overlayAppliedMsg:
		s.busy = ""
		s.err = msg.err
		if msg.err == nil {
			s.status = fmt.Sprintf("Page %d updated", msg.page.Number)
		}

	case urlCopiedMsg:
		s.err = nil
		switch {
		case errors.Is(msg.err, services.ErrNoPage):
			s.err = msg.err
		case msg.err != nil:
			s.status = fmt.Sprintf("Saved %s (clipboard unavailable)", msg.url)
		default:
			s.status = fmt.Sprintf("Copied %s", msg.url)
		}

	case exportedMsg:
		s.busy = ""
		s.err = msg.err
		if msg.err == nil {
			s.status = fmt.Sprintf("Exported to %s", msg.path)
		}

	case prefetchDoneMsg:
		s.busy = ""
		s.err = msg.err
		if msg.err == nil {
			s.status = "Chapter available offline"
		}
	}

	return s, cmd
}

func (s *ReaderScreen) handleKey(key string) tea.Cmd {
	st := s.reader.Store()
	loaded := st.State().CurrentChapter
	switch key {
	case "right", "l", " ", "pgdown":
		st.NextPage()
	case "left", "h", "pgup":
		st.PreviousPage()
	case "home", "g":
		st.SetCurrentPage(1)
	case "end", "G":
		st.SetCurrentPage(st.State().TotalPages)
	case "f":
		st.ToggleFullscreen()
	case "s":
		st.ToggleSettings()
	case "o", "/":
		s.input.Focus()
		return textinput.Blink
	case "r":
		if loaded != nil {
			return s.Load(loaded.URL)
		}
	case "a":
		if loaded == nil || s.busy != "" {
			return nil
		}
		s.busy = "Applying overlays..."
		return func() tea.Msg {
			page, err := s.reader.ApplyOverlays(s.ctx)
			return overlayAppliedMsg{page: page, err: err}
		}
	case "y":
		return func() tea.Msg {
			url, err := s.reader.CopyPageURL()
			return urlCopiedMsg{url: url, err: err}
		}
	case "p":
		if loaded == nil || s.busy != "" {
			return nil
		}
		s.busy = "Prefetching..."
		return func() tea.Msg {
			return prefetchDoneMsg{err: s.reader.Prefetch(s.ctx)}
		}
	case "e":
		if loaded == nil || s.busy != "" {
			return nil
		}
		s.busy = "Exporting EPUB..."
		return func() tea.Msg {
			path, err := s.reader.Export(s.ctx, s.exportDir)
			return exportedMsg{path: path, err: err}
		}
	}
	return nil
}

func (s *ReaderScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	page := s.renderPage()
	progress := components.ReadingProgress(store.Progress(s.state), s.contentWidth())

	if s.state.IsFullscreen {
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.FullscreenPageStyle.Width(s.width).Render(page),
			progress,
		)
	}

	title := "📖 Yomu"
	if ch := s.state.CurrentChapter; ch != nil {
		title = fmt.Sprintf("📖 %s", ch.Title)
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n")
	if s.input.Focused() || s.state.CurrentChapter == nil {
		inputStyle := styles.InputStyle
		if s.input.Focused() {
			inputStyle = styles.FocusedInputStyle
		}
		b.WriteString(inputStyle.Render(s.input.View()))
		b.WriteString("\n")
	}
	b.WriteString(styles.PageStyle.Width(s.contentWidth()).Render(page))
	b.WriteString("\n")
	b.WriteString(progress)
	b.WriteString("\n")
	b.WriteString(s.renderStatus())
	if s.cache != nil && !s.cache.Claimed() {
		b.WriteString(styles.StatusWarning.Render(offlineWarning))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render(
		"←/→: page • g/G: first/last • o: open • a: overlays • y: copy url • p: prefetch • e: export • f: fullscreen • s: settings • q: quit"))
	return b.String()
}

func (s *ReaderScreen) renderPage() string {
	page, ok := store.CurrentPageData(s.state)
	if !ok {
		return styles.MutedStyle.Render("No chapter loaded. Press o to open one.")
	}

	var badges []string
	if page.IsTranslated {
		badges = append(badges, styles.BadgeStyle.Render("translated"))
	}
	if page.IsColorized {
		badges = append(badges, styles.BadgeStyle.Render("colorized"))
	}

	lines := []string{
		styles.SubtitleStyle.Render(fmt.Sprintf("Page %d of %d", s.state.CurrentPage, s.state.TotalPages)),
		"",
		styles.TextStyle.Render(page.ImageURL),
	}
	if len(badges) > 0 {
		lines = append(lines, "", strings.Join(badges, ""))
	}
	return strings.Join(lines, "\n")
}

func (s *ReaderScreen) renderStatus() string {
	switch {
	case s.busy != "":
		return styles.StatusWorking.Render(s.busy) + "\n"
	case s.err != nil:
		return styles.StatusError.Render(fmt.Sprintf("Error: %v", s.err)) + "\n"
	case s.status != "":
		return styles.StatusDone.Render(s.status) + "\n"
	}
	return ""
}

func (s *ReaderScreen) contentWidth() int {
	if s.width < 20 {
		return 20
	}
	return s.width - 4
}
