package styles

import "github.com/charmbracelet/lipgloss"

var (
	Primary    = lipgloss.Color("#FF6B9D")
	Secondary  = lipgloss.Color("#C792EA")
	Success    = lipgloss.Color("#C3E88D")
	Warning    = lipgloss.Color("#FFCB6B")
	Error      = lipgloss.Color("#F07178")
	Info       = lipgloss.Color("#82AAFF")
	Muted      = lipgloss.Color("#546E7A")
	Surface    = lipgloss.Color("#37474F")
	Foreground = lipgloss.Color("#EEFFFF")

	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// The page being read. Fullscreen drops the border and margins.
	PageStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(1, 2).
			MarginBottom(1)

	FullscreenPageStyle = lipgloss.NewStyle().
				Padding(1, 2)

	// Settings panel
	PanelStyle = lipgloss.NewStyle().
			Border(ThickBorder).
			BorderForeground(Primary).
			Padding(1, 2)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true)

	RowStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(Surface).
			Background(Success).
			Padding(0, 1).
			MarginRight(1)

	StatusWorking = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true)

	StatusDone = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning)

	ProgressBarStyle = lipgloss.NewStyle().
				Foreground(Primary)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(Muted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			MarginTop(1)

	InputStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Border(RoundedBorder).
				BorderForeground(Primary).
				Padding(0, 1)
)

func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "downloading", "loading", "working":
		return StatusWorking
	case "complete", "done":
		return StatusDone
	case "error":
		return StatusError
	default:
		return MutedStyle
	}
}

// OnOff renders a boolean setting.
func OnOff(v bool) string {
	if v {
		return StatusDone.Render("on")
	}
	return MutedStyle.Render("off")
}
