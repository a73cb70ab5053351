package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/clockr/internal/export"
	"github.com/sadopc/clockr/internal/session"
)

// recordsModel shows one archived day at a time, bounded to the rolling
// retention window, plus a bar chart of the whole window.
type recordsModel struct {
	sess   *session.Session
	width  int
	height int

	current time.Time // day being viewed

	exportPicking bool
	exportCursor  int

	chart barchart.Model
}

func newRecordsModel(sess *session.Session) recordsModel {
	return recordsModel{
		sess:    sess,
		current: time.Now(),
		chart:   barchart.New(60, 10),
	}
}

func (r *recordsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r recordsModel) update(msg tea.Msg) (recordsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if r.exportPicking {
			return r.updateExportPicker(msg)
		}
		switch {
		case key.Matches(msg, keys.Left):
			return r.navigate(-1)
		case key.Matches(msg, keys.Right):
			return r.navigate(1)
		case key.Matches(msg, keys.Export):
			if _, ok := r.sess.Archive().Lookup(r.dateKey()); !ok {
				return r, reportStatus("No record to export for this date", true)
			}
			r.exportPicking = true
			r.exportCursor = 0
			return r, nil
		}
	}
	return r, nil
}

func (r recordsModel) navigate(days int) (recordsModel, tea.Cmd) {
	candidate := r.current.AddDate(0, 0, days)
	if err := session.CheckViewDate(candidate, time.Now()); err != nil {
		return r, reportStatus(err.Error(), true)
	}
	r.current = candidate
	return r, nil
}

func (r recordsModel) dateKey() string {
	return r.current.Format(session.DateLayout)
}

func (r recordsModel) updateExportPicker(msg tea.KeyMsg) (recordsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if r.exportCursor > 0 {
			r.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if r.exportCursor < 2 {
			r.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		r.exportPicking = false
		return r, r.doExport(r.exportCursor)
	case key.Matches(msg, keys.Back):
		r.exportPicking = false
	}
	return r, nil
}

func (r recordsModel) doExport(format int) tea.Cmd {
	rec, ok := r.sess.Archive().Lookup(r.dateKey())
	return func() tea.Msg {
		if !ok {
			return statusMsg{text: "No record to export for this date", isError: true}
		}

		home, _ := os.UserHomeDir()
		now := time.Now()

		var path string
		var err error
		switch format {
		case 0:
			path = filepath.Join(home, export.ReportFilename(now))
			err = export.ToXLSX(rec, path)
		case 1:
			path = filepath.Join(home, fmt.Sprintf("clockr-%s.csv", rec.Date))
			err = export.ToCSV(rec, path)
		default:
			path = filepath.Join(home, fmt.Sprintf("clockr-%s.json", rec.Date))
			err = export.ToJSON(rec, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (r *recordsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	r.chart = barchart.New(chartWidth, 10)

	now := time.Now()
	var bars []barchart.BarData
	for offset := -5; offset <= 0; offset++ {
		day := now.AddDate(0, 0, offset)
		label := day.Format("Mon 02")

		value := 0.0
		style := lipgloss.NewStyle().Foreground(colorSubtle)
		if rec, ok := r.sess.Archive().Lookup(day.Format(session.DateLayout)); ok {
			if worked, known := rec.WorkedDuration(); known {
				value = worked.Hours()
				style = lipgloss.NewStyle().Foreground(colorPrimary)
			}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: "worked", Value: value, Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r recordsModel) view() string {
	w := r.width - 4

	header := titleStyle.Render("Records for " + formatDayHeader(r.current))
	nav := mutedStyle.Render("  ←/→: navigate days  e: export")

	var body string
	if rec, ok := r.sess.Archive().Lookup(r.dateKey()); ok {
		body = lipgloss.JoinVertical(lipgloss.Left,
			r.renderSummary(rec, w),
			"",
			r.renderBreaks(rec, w),
		)
	} else {
		body = mutedStyle.Render("No records available for this date.")
	}

	rc := r
	rc.buildChart()
	chartView := rc.chart.View()

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", chartView, "", nav)

	if r.exportPicking {
		return activePanelStyle.Width(w).Render(r.renderExportPicker())
	}
	return panelStyle.Width(w).Render(content)
}

func (r recordsModel) renderSummary(rec session.Record, w int) string {
	logout := "N/A"
	if rec.LogoutTime != nil {
		logout = formatTime12(*rec.LogoutTime)
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %-17s %-14s %-20s", "Login Time", "Expected Logout", "Logout Time", "Total Logged In")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 66))))
	rows = append(rows, fmt.Sprintf("  %-14s %-17s %-14s %-20s",
		formatTime12(rec.LoginTime),
		formatTime12(rec.ExpectedLogout),
		logout,
		rec.TotalLoggedIn,
	))
	return strings.Join(rows, "\n")
}

func (r recordsModel) renderBreaks(rec session.Record, w int) string {
	if len(rec.Breaks) == 0 {
		return mutedStyle.Render("  No breaks recorded.")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %-14s %-12s", "Break Start", "Break End", "Duration")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))
	for _, b := range rec.Breaks {
		rows = append(rows, fmt.Sprintf("  %-14s %-14s %-12s", formatTime12(b.Start), formatTime12(b.End), b.Label()))
	}
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))
	rows = append(rows, fmt.Sprintf("  %-29s %s", "Total Break Time", highlightStyle.Render(rec.TotalBreak)))
	return strings.Join(rows, "\n")
}

func (r recordsModel) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"XLSX", "CSV", "JSON"}
	var rows []string
	rows = append(rows, title, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == r.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
