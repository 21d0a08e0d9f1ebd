package settingsview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/keys"
	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/settings"
	"github.com/nhle/workboard/internal/theme"
)

// Mode represents the current state of the settings view.
type Mode int

const (
	ModeSummary      Mode = iota // Read-only overview
	ModeForm                     // Editing
	ModeSaving                   // Waiting for the store
	ModeConfirmReset             // Confirm restoring defaults
)

// DoneMsg signals the settings view should close.
type DoneMsg struct{}

// SavedMsg is emitted after settings were persisted.
type SavedMsg struct {
	Settings model.Settings
}

type loadedMsg struct {
	settings model.Settings
	err      error
}

type savedInternalMsg struct {
	settings model.Settings
	err      error
	action   string
}

// Model is the Bubble Tea model for the settings screen.
type Model struct {
	mode    Mode
	svc     *settings.Service
	current model.Settings
	draft   *model.Settings
	form    *huh.Form
	confirm *huh.Form
	doReset *bool
	spinner spinner.Model
	status  string
	keys    *keys.KeyMap
	width   int
	height  int
}

// New creates a settings view backed by svc.
func New(svc *settings.Service, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		mode:    ModeSummary,
		svc:     svc,
		current: model.DefaultSettings(),
		draft:   &model.Settings{},
		doReset: new(bool),
		spinner: sp,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init loads settings from the store.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Settings returns the last loaded or saved settings.
func (m Model) Settings() model.Settings { return m.current }

// Capturing reports whether a form owns keyboard input.
func (m Model) Capturing() bool {
	return m.mode != ModeSummary
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading settings: %v", msg.err)
			return m, nil
		}
		m.current = msg.settings
		return m, nil

	case savedInternalMsg:
		m.mode = ModeSummary
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving settings: %v", msg.err)
			return m, nil
		}
		m.current = msg.settings
		m.status = msg.action
		saved := msg.settings
		return m, func() tea.Msg { return SavedMsg{Settings: saved} }

	case spinner.TickMsg:
		if m.mode == ModeSaving {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeSummary:
			return m.handleSummaryKeys(msg)
		case ModeSaving:
			return m, nil
		}
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleSummaryKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return DoneMsg{} }

	case key.Matches(msg, m.keys.Edit):
		*m.draft = m.current
		m.form = m.buildForm()
		m.mode = ModeForm
		m.status = ""
		return m, m.form.Init()

	case msg.String() == "r":
		*m.doReset = false
		m.confirm = m.buildResetForm()
		m.mode = ModeConfirmReset
		return m, m.confirm.Init()
	}
	return m, nil
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeForm:
		mdl, cmd := m.form.Update(msg)
		if f, ok := mdl.(*huh.Form); ok {
			m.form = f
		}
		switch m.form.State {
		case huh.StateCompleted:
			m.mode = ModeSaving
			return m, tea.Batch(m.spinner.Tick, m.save(*m.draft))
		case huh.StateAborted:
			m.mode = ModeSummary
			return m, nil
		}
		return m, cmd

	case ModeConfirmReset:
		mdl, cmd := m.confirm.Update(msg)
		if f, ok := mdl.(*huh.Form); ok {
			m.confirm = f
		}
		switch m.confirm.State {
		case huh.StateCompleted:
			if !*m.doReset {
				m.mode = ModeSummary
				return m, nil
			}
			m.mode = ModeSaving
			return m, tea.Batch(m.spinner.Tick, m.reset())
		case huh.StateAborted:
			m.mode = ModeSummary
			return m, nil
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	d := m.draft
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&d.Name).Validate(validateRequired("Name")),
			huh.NewInput().Title("Email").Value(&d.Email).Validate(validateEmail),
			huh.NewInput().Title("Phone").Value(&d.Phone),
			huh.NewInput().Title("Location").Value(&d.Location),
			huh.NewText().Title("Bio").Value(&d.Bio),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewConfirm().Title("Email notifications").Value(&d.EmailNotifications),
			huh.NewConfirm().Title("Push notifications").Value(&d.PushNotifications),
			huh.NewConfirm().Title("Task updates").Value(&d.TaskUpdates),
			huh.NewConfirm().Title("Team mentions").Value(&d.TeamMentions),
			huh.NewConfirm().Title("Weekly digest").Value(&d.WeeklyDigest),
			huh.NewConfirm().Title("Marketing emails").Value(&d.MarketingEmails),
		).Title("Notifications"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Profile visibility").
				Options(
					huh.NewOption("Public", "public"),
					huh.NewOption("Team only", "team"),
					huh.NewOption("Private", "private"),
				).
				Value(&d.ProfileVisibility),
			huh.NewConfirm().Title("Show activity status").Value(&d.ActivityStatus),
			huh.NewConfirm().Title("Share usage data").Value(&d.DataSharing),
		).Title("Privacy"),
		huh.NewGroup(
			huh.NewSelect[model.Theme]().
				Title("Theme").
				Options(
					huh.NewOption("Light", model.ThemeLight),
					huh.NewOption("Dark", model.ThemeDark),
					huh.NewOption("Auto", model.ThemeAuto),
				).
				Value(&d.Theme),
			huh.NewSelect[string]().
				Title("Language").
				Options(
					huh.NewOption("English", "en"),
					huh.NewOption("Spanish", "es"),
					huh.NewOption("French", "fr"),
					huh.NewOption("German", "de"),
				).
				Value(&d.Language),
			huh.NewInput().Title("Timezone").Value(&d.Timezone),
			huh.NewSelect[string]().
				Title("Date format").
				Options(
					huh.NewOption("MM/DD/YYYY", "MM/DD/YYYY"),
					huh.NewOption("DD/MM/YYYY", "DD/MM/YYYY"),
					huh.NewOption("YYYY-MM-DD", "YYYY-MM-DD"),
				).
				Value(&d.DateFormat),
		).Title("Appearance"),
		huh.NewGroup(
			huh.NewConfirm().Title("Two-factor authentication").Value(&d.TwoFactorAuth),
			huh.NewSelect[string]().
				Title("Session timeout").
				Options(
					huh.NewOption("1 hour", "1"),
					huh.NewOption("8 hours", "8"),
					huh.NewOption("24 hours", "24"),
					huh.NewOption("1 week", "168"),
				).
				Value(&d.SessionTimeout),
			huh.NewConfirm().Title("Login alerts").Value(&d.LoginAlerts),
		).Title("Security"),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildResetForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Restore default settings?").
				Description("Every saved preference will be removed.").
				Affirmative("Yes, reset").
				Negative("Cancel").
				Value(m.doReset),
		),
	).WithWidth(m.formWidth())
}

// View renders the settings screen.
func (m Model) View() string {
	switch m.mode {
	case ModeForm:
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	case ModeConfirmReset:
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirm.View())
	case ModeSaving:
		return lipgloss.NewStyle().Padding(1, 2).Render(m.spinner.View() + " Saving settings...")
	}
	return m.viewSummary()
}

func (m Model) viewSummary() string {
	s := m.current
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")

	section := func(name string, rows [][2]string) {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Render(name))
		b.WriteString("\n")
		for _, r := range rows {
			label := lipgloss.NewStyle().Width(24).Foreground(theme.ColorGray).Render(r[0])
			b.WriteString("  " + label + r[1] + "\n")
		}
		b.WriteString("\n")
	}

	section("Profile", [][2]string{
		{"Name", s.Name},
		{"Email", s.Email},
		{"Phone", s.Phone},
		{"Location", s.Location},
	})
	section("Notifications", [][2]string{
		{"Email", onOff(s.EmailNotifications)},
		{"Push", onOff(s.PushNotifications)},
		{"Task updates", onOff(s.TaskUpdates)},
		{"Team mentions", onOff(s.TeamMentions)},
		{"Weekly digest", onOff(s.WeeklyDigest)},
		{"Marketing", onOff(s.MarketingEmails)},
	})
	section("Privacy", [][2]string{
		{"Profile visibility", s.ProfileVisibility},
		{"Activity status", onOff(s.ActivityStatus)},
		{"Data sharing", onOff(s.DataSharing)},
	})
	section("Appearance", [][2]string{
		{"Theme", string(s.Theme)},
		{"Language", s.Language},
		{"Timezone", s.Timezone},
		{"Date format", s.DateFormat},
	})
	section("Security", [][2]string{
		{"Two-factor auth", onOff(s.TwoFactorAuth)},
		{"Session timeout", s.SessionTimeout + "h"},
		{"Login alerts", onOff(s.LoginAlerts)},
	})

	if m.status != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.status))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.DimmedStyle.Render("enter edit | r reset to defaults | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func (m Model) load() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		s, err := svc.Load(context.Background())
		return loadedMsg{settings: s, err: err}
	}
}

func (m Model) save(s model.Settings) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		err := svc.Save(context.Background(), s)
		return savedInternalMsg{settings: s, err: err, action: "Settings saved"}
	}
}

func (m Model) reset() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx := context.Background()
		if err := svc.Reset(ctx); err != nil {
			return savedInternalMsg{err: err}
		}
		s, err := svc.Load(ctx)
		return savedInternalMsg{settings: s, err: err, action: "Defaults restored"}
	}
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}
