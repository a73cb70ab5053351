package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/clockr/internal/session"
)

type trackerForm int

const (
	formNone trackerForm = iota
	formManualBreak
	formEditTime
)

// trackerModel is the main view: login, breaks, logout, clear.
type trackerModel struct {
	sess   *session.Session
	width  int
	height int

	cursor int // selected row in the breaks table

	formActive bool
	formKind   trackerForm
	form       *huh.Form

	// Form values as pointers (survive value copies)
	manualMinutes *string
	editedTime    *string
}

func newTrackerModel(sess *session.Session) trackerModel {
	mm, et := "", ""
	return trackerModel{
		sess:          sess,
		manualMinutes: &mm,
		editedTime:    &et,
	}
}

func (t *trackerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t trackerModel) update(msg tea.Msg) (trackerModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		now := time.Now()
		switch {
		case key.Matches(msg, keys.Login):
			if err := t.sess.Login(now); err != nil {
				return t, reportStatus(err.Error(), true)
			}
			return t, reportStatus("Logged in at "+formatTime12(now), false)

		case key.Matches(msg, keys.Break):
			return t.toggleBreak(now)

		case key.Matches(msg, keys.Manual):
			return t.showManualForm()

		case key.Matches(msg, keys.EditTime):
			return t.showEditTimeForm()

		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
			return t, nil

		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.sess.Breaks())-1 {
				t.cursor++
			}
			return t, nil

		case key.Matches(msg, keys.Delete):
			if len(t.sess.Breaks()) == 0 {
				return t, nil
			}
			if err := t.sess.DeleteBreak(t.cursor, now); err != nil {
				return t, reportStatus(err.Error(), true)
			}
			if t.cursor >= len(t.sess.Breaks()) && t.cursor > 0 {
				t.cursor--
			}
			return t, reportStatus("Break deleted", false)

		case key.Matches(msg, keys.Logout):
			c, err := t.sess.Logout(now)
			if err != nil {
				return t, reportStatus(err.Error(), true)
			}
			return t, func() tea.Msg { return confirmMsg{confirm: c} }

		case key.Matches(msg, keys.Clear):
			c, err := t.sess.Clear(now)
			if err != nil {
				return t, reportStatus(err.Error(), true)
			}
			return t, func() tea.Msg { return confirmMsg{confirm: c} }
		}
	}
	return t, nil
}

func (t trackerModel) toggleBreak(now time.Time) (trackerModel, tea.Cmd) {
	if t.sess.State() == session.StateOnBreak {
		if err := t.sess.EndBreak(now); err != nil {
			return t, reportStatus(err.Error(), true)
		}
		breaks := t.sess.Breaks()
		last := breaks[len(breaks)-1]
		return t, reportStatus("Break ended ("+last.Label()+")", false)
	}
	if err := t.sess.StartBreak(now); err != nil {
		return t, reportStatus(err.Error(), true)
	}
	return t, reportStatus("Break started", false)
}

func (t trackerModel) showManualForm() (trackerModel, tea.Cmd) {
	if t.sess.State() != session.StateLoggedIn {
		return t, reportStatus("Breaks can only be added while logged in and off break", true)
	}
	*t.manualMinutes = ""
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Add Break Time (minutes)").Value(t.manualMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)
	t.formActive = true
	t.formKind = formManualBreak
	return t, t.form.Init()
}

func (t trackerModel) showEditTimeForm() (trackerModel, tea.Cmd) {
	if t.sess.State() != session.StateLoggedIn {
		return t, reportStatus("Login time can only be edited while logged in and off break", true)
	}
	*t.editedTime = t.sess.LoginTime().Format("15:04")
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Login time (HH:MM)").Value(t.editedTime),
		),
	).WithShowHelp(true).WithShowErrors(true)
	t.formActive = true
	t.formKind = formEditTime
	return t, t.form.Init()
}

func (t trackerModel) updateForm(msg tea.Msg) (trackerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		kind := t.formKind
		t.form = nil
		t.formKind = formNone
		return t, t.submitForm(kind)
	}

	return t, cmd
}

func (t trackerModel) submitForm(kind trackerForm) tea.Cmd {
	switch kind {
	case formManualBreak:
		minutes, err := strconv.Atoi(strings.TrimSpace(*t.manualMinutes))
		if err != nil {
			return reportStatus("Please enter a valid number of minutes", true)
		}
		if err := t.sess.AddManualBreak(time.Now(), minutes); err != nil {
			return reportStatus(err.Error(), true)
		}
		return reportStatus(fmt.Sprintf("Added %dm break", minutes), false)

	case formEditTime:
		parsed, err := time.Parse("15:04", strings.TrimSpace(*t.editedTime))
		if err != nil {
			return reportStatus("Enter the time as HH:MM", true)
		}
		if err := t.sess.EditLoginTime(parsed.Hour(), parsed.Minute()); err != nil {
			return reportStatus(err.Error(), true)
		}
		return reportStatus("Login time updated", false)
	}
	return nil
}

func (t trackerModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		return activePanelStyle.Width(w).Render(t.form.View())
	}

	var rows []string

	// Day header
	if lt := t.sess.LoginTime(); !lt.IsZero() {
		rows = append(rows, titleStyle.Render(formatDayHeader(lt)))
	} else {
		rows = append(rows, subtitleStyle.Render("No login time recorded"))
	}
	rows = append(rows, "")

	rows = append(rows, t.renderTimes()...)
	rows = append(rows, "")
	rows = append(rows, t.renderAction()...)

	if breaks := t.sess.Breaks(); len(breaks) > 0 {
		rows = append(rows, "")
		rows = append(rows, t.renderBreaksTable(w)...)
	}

	if t.sess.State() == session.StateLoggedIn || t.sess.State() == session.StateOnBreak {
		rows = append(rows, "")
		rows = append(rows, "Effective Login Hours: "+highlightStyle.Render(t.sess.EffectiveLabel()))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(t.hints()))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (t trackerModel) renderTimes() []string {
	var rows []string
	if lt := t.sess.LoginTime(); !lt.IsZero() {
		rows = append(rows, "Logged In: "+successStyle.Render(formatTime12(lt)))
		if el := t.sess.ExpectedLogout(); !el.IsZero() {
			rows = append(rows, "Expected Logout: "+accentStyle.Render(formatTime12(el)))
		}
	}
	if lo := t.sess.LogoutTime(); !lo.IsZero() {
		rows = append(rows, "Logged Out: "+errorStyle.Render(formatTime12(lo)))
		rows = append(rows, "Total Logged In Hours: "+highlightStyle.Render(t.sess.TotalLoggedInLabel()))
	}
	return rows
}

func (t trackerModel) renderAction() []string {
	switch t.sess.State() {
	case session.StateLoggedOut:
		return []string{clockStyle.Render("Press l to log in")}
	case session.StateOnBreak:
		return []string{
			breakClockStyle.Render(formatClock(t.sess.BreakElapsed())),
			errorStyle.Render("On break — press b to end it"),
		}
	case session.StateEnded:
		return []string{subtitleStyle.Render("Session ended — press c to clear data and archive the day")}
	default:
		return []string{subtitleStyle.Render("Working — press b to start a break")}
	}
}

func (t trackerModel) renderBreaksTable(w int) []string {
	now := time.Now()
	breaks := t.sess.Breaks()

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %-14s %-12s", "Break Start", "Break End", "Duration")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))

	for i, b := range breaks {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s%-14s %-14s %-12s", cursor, formatTime12(b.Start), formatTime12(b.End), b.Label())
		if t.sess.CanDeleteBreak(i, now) {
			line += mutedStyle.Render(" (d to delete)")
		}
		rows = append(rows, style.Render(line))
	}

	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))
	rows = append(rows, fmt.Sprintf("  %-29s %s", "Total Break Time", highlightStyle.Render(t.sess.TotalBreakLabel())))
	return rows
}

func (t trackerModel) hints() string {
	switch t.sess.State() {
	case session.StateLoggedOut:
		return "  l: login"
	case session.StateOnBreak:
		return "  b: end break"
	case session.StateEnded:
		return "  c: clear data"
	default:
		return "  b: break  m: manual break  t: edit login time  o: logout"
	}
}
