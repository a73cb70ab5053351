package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/clockr/internal/session"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTracker viewState = iota
	viewRecords
	viewSettings
)

var viewNames = []string{"Tracker", "Records", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

// confirmMsg asks the root model to show a confirmation overlay.
type confirmMsg struct {
	confirm *session.Confirmation
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// reportStatus surfaces a message on the status line.
func reportStatus(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

// formatTime12 renders a timestamp the way the tracker has always shown
// times of day: 12-hour clock with seconds.
func formatTime12(t time.Time) string {
	return t.Format("03:04:05 PM")
}

// formatDayHeader renders "Mon 02/01" (weekday day/month).
func formatDayHeader(t time.Time) string {
	return fmt.Sprintf("%s %02d/%02d", t.Format("Mon"), t.Day(), int(t.Month()))
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
