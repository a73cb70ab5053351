package export

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sadopc/clockr/internal/session"
)

const sheetName = "Report"

// ToXLSX writes the two-table daily report for a record: the session
// summary row, then the break list.
func ToXLSX(rec session.Record, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := reportRows(rec)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// reportRows lays out the report shared by the XLSX and CSV exports:
// summary header and row, a blank spacer, the "Breaks Table" marker, then
// the break rows with a trailing total.
func reportRows(rec session.Record) [][]string {
	logout := "N/A"
	if rec.LogoutTime != nil {
		logout = formatTime12(*rec.LogoutTime)
	}

	rows := [][]string{
		{"Date", "Login Time", "Expected Logout Time", "Logout Time", "Total Logged In Time", "Total Break Time"},
		{
			rec.Date,
			formatTime12(rec.LoginTime),
			formatTime12(rec.ExpectedLogout),
			logout,
			rec.TotalLoggedIn,
			rec.TotalBreak,
		},
		{""},
		{"Breaks Table"},
		{"Break Start Time", "Break End Time", "Break Duration"},
	}

	for _, b := range rec.Breaks {
		rows = append(rows, []string{formatTime12(b.Start), formatTime12(b.End), b.Label()})
	}
	rows = append(rows, []string{"Total Break Time", "", rec.TotalBreak})

	return rows
}

// ReportFilename builds the download name the report has always used:
// Login_Tracker_<date>_<time>_<4 random digits>.xlsx, with colons swapped
// out for filesystem safety.
func ReportFilename(now time.Time) string {
	stamp := strings.ReplaceAll(formatTime12(now), ":", "-")
	return fmt.Sprintf("Login_Tracker_%s_%s_%04d.xlsx",
		now.Format(session.DateLayout), stamp, 1000+rand.IntN(9000))
}

func formatTime12(t time.Time) string {
	return t.Format("03:04:05 PM")
}
