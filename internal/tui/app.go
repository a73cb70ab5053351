package tui

import (
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/clockr/internal/session"
)

// App is the root Bubble Tea model.
type App struct {
	sess   *session.Session
	width  int
	height int

	activeView viewState
	showHelp   bool

	tracker  trackerModel
	records  recordsModel
	settings settingsModel

	// Pending destructive-action confirmation; rendered as an overlay and
	// resolved by y/n.
	pending *session.Confirmation

	help   help.Model
	status string
}

func NewApp(sess *session.Session) App {
	h := help.New()
	h.ShowAll = false

	return App{
		sess:       sess,
		activeView: viewTracker,
		tracker:    newTrackerModel(sess),
		records:    newRecordsModel(sess),
		settings:   newSettingsModel(sess),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd is the single 1-second heartbeat; every time-derived display is
// recomputed from it in one pass.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.tracker.setSize(a.width, contentHeight)
		a.records.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// A pending confirmation captures all input.
		if a.pending != nil {
			return a.updateConfirm(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTracker
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewRecords
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 3
			return a, nil
		}

	case tickMsg:
		for _, n := range a.sess.Tick(time.Time(msg)) {
			switch n {
			case session.NotifyBreakReminder:
				a.status = "Break reminder: time to get back to work"
			case session.NotifyLogoutOverdue:
				a.status = "Expected logout time has passed"
			}
			ringBell()
		}
		return a, tickCmd()

	case confirmMsg:
		a.pending = msg.confirm
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y", "enter":
		answer = true
	case "n", "N", "esc":
		answer = false
	default:
		return a, nil
	}

	next, err := a.pending.Resolve(answer)
	a.pending = next
	if err != nil {
		a.status = err.Error()
		return a, nil
	}
	if next != nil {
		return a, nil
	}
	if answer {
		a.status = "Done"
	} else {
		a.status = "Cancelled"
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTracker:
		a.tracker, cmd = a.tracker.update(msg)
	case viewRecords:
		a.records, cmd = a.records.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTracker:
		return a.tracker.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTracker:
		content = a.tracker.view()
	case viewRecords:
		content = a.records.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.pending != nil {
		content = a.renderConfirm()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("clockr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Live clock indicator in footer
	clockInfo := ""
	switch a.sess.State() {
	case session.StateLoggedIn:
		clockInfo = successStyle.Render(" ● " + a.sess.EffectiveLabel())
	case session.StateOnBreak:
		clockInfo = warningStyle.Render(" ⏸ " + formatClock(a.sess.BreakElapsed()))
	}

	left := footerStyle.Render(helpView)
	right := clockInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderConfirm() string {
	rows := []string{
		titleStyle.Render(a.pending.Title),
		"",
		a.pending.Body,
		"",
		mutedStyle.Render("  y: yes  n: no"),
	}
	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// ringBell sounds the terminal bell; the control byte does not disturb the
// alt-screen layout.
func ringBell() {
	os.Stdout.WriteString("\a")
}
