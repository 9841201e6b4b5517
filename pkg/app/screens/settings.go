package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerbaras/yomu/pkg/app/styles"
	"github.com/kerbaras/yomu/pkg/data"
	"github.com/kerbaras/yomu/pkg/services"
	"github.com/kerbaras/yomu/pkg/store"
)

type settingField int

const (
	fieldTranslation settingField = iota
	fieldColorization
	fieldSourceLanguage
	fieldTargetLanguage
	fieldTranslationModel
	fieldColorizationModel
	fieldQuality
	fieldAPIKey
	fieldCount
)

// SettingsScreen edits the reader preferences. Every change is a store
// action; the panel only renders what the store publishes.
type SettingsScreen struct {
	ctx    context.Context
	reader *services.Reader

	prefs    data.Preferences
	selected settingField
	keyInput textinput.Model
	checking bool
	keyState string
}

func NewSettingsScreen(ctx context.Context, reader *services.Reader) *SettingsScreen {
	ti := textinput.New()
	ti.Placeholder = "API key"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 200
	ti.Width = 40

	return &SettingsScreen{
		ctx:      ctx,
		reader:   reader,
		prefs:    reader.Store().State().Preferences,
		keyInput: ti,
	}
}

func (s *SettingsScreen) Init() tea.Cmd {
	return nil
}

func (s *SettingsScreen) SetState(st store.AppState) {
	s.prefs = st.Preferences
}

// Editing reports whether the API key field is capturing keys.
func (s *SettingsScreen) Editing() bool {
	return s.keyInput.Focused()
}

func (s *SettingsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.keyInput.Focused() {
			switch msg.String() {
			case "enter":
				key := s.keyInput.Value()
				s.keyInput.Blur()
				s.keyInput.SetValue("")
				s.checking = true
				s.keyState = ""
				return s, func() tea.Msg {
					ok, err := s.reader.ValidateAPIKey(s.ctx, key)
					return apiKeyCheckedMsg{valid: ok, err: err}
				}
			case "esc":
				s.keyInput.Blur()
				s.keyInput.SetValue("")
				return s, nil
			}
			s.keyInput, cmd = s.keyInput.Update(msg)
			return s, cmd
		}

		switch msg.String() {
		case "up", "k":
			s.selected = (s.selected + fieldCount - 1) % fieldCount
		case "down", "j", "tab":
			s.selected = (s.selected + 1) % fieldCount
		case "enter", " ", "right", "l":
			return s, s.activate()
		case "esc", "s":
			s.reader.Store().ToggleSettings()
		}

	case apiKeyCheckedMsg:
		s.checking = false
		switch {
		case msg.err != nil:
			s.keyState = styles.StatusError.Render(fmt.Sprintf("Error: %v", msg.err))
		case msg.valid:
			s.keyState = styles.StatusDone.Render("✓ API key saved")
		default:
			s.keyState = styles.StatusError.Render("✗ Invalid API key")
		}
	}

	return s, cmd
}

// activate toggles or cycles the selected field.
func (s *SettingsScreen) activate() tea.Cmd {
	st := s.reader.Store()
	prefs := st.State().Preferences
	models := prefs.ModelSettings

	switch s.selected {
	case fieldTranslation:
		v := !prefs.TranslationEnabled
		st.UpdatePreferences(data.PreferencesPatch{TranslationEnabled: &v})
	case fieldColorization:
		v := !prefs.ColorizationEnabled
		st.UpdatePreferences(data.PreferencesPatch{ColorizationEnabled: &v})
	case fieldSourceLanguage:
		v := data.NextLanguage(prefs.SourceLanguage)
		st.UpdatePreferences(data.PreferencesPatch{SourceLanguage: &v})
	case fieldTargetLanguage:
		v := data.NextLanguage(prefs.TargetLanguage)
		st.UpdatePreferences(data.PreferencesPatch{TargetLanguage: &v})
	case fieldTranslationModel:
		models.TranslationModel = data.NextModel(data.TranslationModels, models.TranslationModel)
		st.UpdatePreferences(data.PreferencesPatch{ModelSettings: &models})
	case fieldColorizationModel:
		models.ColorizationModel = data.NextModel(data.ColorizationModels, models.ColorizationModel)
		st.UpdatePreferences(data.PreferencesPatch{ModelSettings: &models})
	case fieldQuality:
		models.Quality = models.Quality.Next()
		st.UpdatePreferences(data.PreferencesPatch{ModelSettings: &models})
	case fieldAPIKey:
		if s.checking {
			return nil
		}
		s.keyInput.Focus()
		return textinput.Blink
	}
	return nil
}

func (s *SettingsScreen) View() string {
	prefs := s.prefs
	rows := []struct {
		label string
		value string
	}{
		{"Translation", styles.OnOff(prefs.TranslationEnabled)},
		{"Colorization", styles.OnOff(prefs.ColorizationEnabled)},
		{"Source language", data.LanguageName(prefs.SourceLanguage)},
		{"Target language", data.LanguageName(prefs.TargetLanguage)},
		{"Translation model", modelLabel(data.TranslationModels, prefs.ModelSettings.TranslationModel)},
		{"Colorization model", modelLabel(data.ColorizationModels, prefs.ModelSettings.ColorizationModel)},
		{"Quality", string(prefs.ModelSettings.Quality)},
		{"API key", maskKey(prefs.APIKey)},
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("⚙️  Settings"))
	b.WriteString("\n")
	for i, row := range rows {
		line := fmt.Sprintf("%-20s %s", row.label, row.value)
		if settingField(i) == s.selected {
			b.WriteString(styles.SelectedRowStyle.Render("▶ " + line))
		} else {
			b.WriteString(styles.RowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if s.keyInput.Focused() {
		b.WriteString("\n")
		b.WriteString(styles.FocusedInputStyle.Render(s.keyInput.View()))
		b.WriteString("\n")
	}
	if s.checking {
		b.WriteString(styles.StatusWorking.Render("Validating API key..."))
		b.WriteString("\n")
	} else if s.keyState != "" {
		b.WriteString(s.keyState)
		b.WriteString("\n")
	}
	if prefs.ClipboardURL != "" {
		b.WriteString(styles.MutedStyle.Render("Last copied: " + prefs.ClipboardURL))
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render("↑/↓: select • enter: change • esc: close"))
	return styles.PanelStyle.Render(b.String())
}

func modelLabel(options []data.ModelOption, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func maskKey(key string) string {
	if key == "" {
		return styles.MutedStyle.Render("not set")
	}
	if len(key) <= 4 {
		return strings.Repeat("•", len(key))
	}
	return strings.Repeat("•", len(key)-4) + key[len(key)-4:]
}
