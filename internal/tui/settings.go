package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/clockr/internal/session"
)

type settingsModel struct {
	sess   *session.Session
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	weekdayHours  *string
	saturdayHours *string
	breakReminder *string
}

func newSettingsModel(sess *session.Session) settingsModel {
	wd, sat, br := "", "", ""
	return settingsModel{
		sess:          sess,
		weekdayHours:  &wd,
		saturdayHours: &sat,
		breakReminder: &br,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	hours := s.sess.Hours()
	*s.weekdayHours = strconv.Itoa(hours.Weekday)
	*s.saturdayHours = strconv.Itoa(hours.Saturday)
	*s.breakReminder = strconv.Itoa(s.sess.BreakReminder())

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Weekday Hours").Value(s.weekdayHours),
			huh.NewInput().Title("Saturday Hours").Value(s.saturdayHours),
			huh.NewInput().Title("Break Reminder (minutes)").Value(s.breakReminder),
		).Title("Login Hours Settings"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.saveSettings()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() tea.Cmd {
	weekday, err1 := strconv.Atoi(strings.TrimSpace(*s.weekdayHours))
	saturday, err2 := strconv.Atoi(strings.TrimSpace(*s.saturdayHours))
	if err1 != nil || err2 != nil {
		return reportStatus("Hours must be whole numbers", true)
	}
	if err := s.sess.SetHours(weekday, saturday); err != nil {
		return reportStatus(err.Error(), true)
	}

	reminder, err := strconv.Atoi(strings.TrimSpace(*s.breakReminder))
	if err != nil {
		return reportStatus("Please enter a valid number of minutes for break notifications", true)
	}
	if err := s.sess.SetBreakReminder(reminder); err != nil {
		return reportStatus(err.Error(), true)
	}

	return reportStatus("Settings saved", false)
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return activePanelStyle.Width(w).Render(s.form.View())
	}

	hours := s.sess.Hours()
	rows := []string{
		titleStyle.Render("Settings"),
		"",
		fmt.Sprintf("  %-28s %s", "Weekday Hours", highlightStyle.Render(strconv.Itoa(hours.Weekday))),
		fmt.Sprintf("  %-28s %s", "Saturday Hours", highlightStyle.Render(strconv.Itoa(hours.Saturday))),
		fmt.Sprintf("  %-28s %s", "Break Reminder (minutes)", highlightStyle.Render(strconv.Itoa(s.sess.BreakReminder()))),
		"",
		mutedStyle.Render("  enter: edit"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
