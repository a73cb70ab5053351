package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sadopc/clockr/internal/session"
)

func sampleRecord() session.Record {
	login := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	logout := login.Add(8*time.Hour + 15*time.Minute + 30*time.Second)
	return session.Record{
		Date:           "2024-01-10",
		LoginTime:      login,
		ExpectedLogout: login.Add(8*time.Hour + 15*time.Minute + 30*time.Second),
		Breaks: []session.Break{
			{Start: login.Add(2 * time.Hour), End: login.Add(2*time.Hour + 15*time.Minute + 30*time.Second)},
		},
		LogoutTime:    &logout,
		TotalLoggedIn: "8h 0m 0s",
		TotalBreak:    "15m 30s",
	}
}

// ============================================================
// Report layout
// ============================================================

func TestReportRows(t *testing.T) {
	rows := reportRows(sampleRecord())

	// Summary header + row, spacer, breaks marker, breaks header, one
	// break, total row.
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][0] != "2024-01-10" {
		t.Fatalf("summary rows wrong: %v / %v", rows[0], rows[1])
	}
	if rows[1][1] != "09:00:00 AM" {
		t.Fatalf("login time cell = %q", rows[1][1])
	}
	if rows[3][0] != "Breaks Table" {
		t.Fatalf("breaks marker row = %v", rows[3])
	}
	if rows[5][2] != "15m 30s" {
		t.Fatalf("break duration cell = %q", rows[5][2])
	}
	last := rows[len(rows)-1]
	if last[0] != "Total Break Time" || last[2] != "15m 30s" {
		t.Fatalf("total row = %v", last)
	}
}

func TestReportRowsNoLogout(t *testing.T) {
	rec := sampleRecord()
	rec.LogoutTime = nil

	rows := reportRows(rec)
	if rows[1][3] != "N/A" {
		t.Fatalf("open session logout cell = %q", rows[1][3])
	}
}

// ============================================================
// XLSX
// ============================================================

func TestToXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := ToXLSX(sampleRecord(), path); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if f.GetSheetName(0) != "Report" {
		t.Fatalf("sheet name = %q", f.GetSheetName(0))
	}
	if v, _ := f.GetCellValue("Report", "A1"); v != "Date" {
		t.Fatalf("A1 = %q", v)
	}
	if v, _ := f.GetCellValue("Report", "A2"); v != "2024-01-10" {
		t.Fatalf("A2 = %q", v)
	}
	if v, _ := f.GetCellValue("Report", "A4"); v != "Breaks Table" {
		t.Fatalf("A4 = %q", v)
	}
	if v, _ := f.GetCellValue("Report", "C6"); v != "15m 30s" {
		t.Fatalf("C6 = %q", v)
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	if err := ToCSV(sampleRecord(), path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// CSV readers skip the blank spacer line, so the read-back matches the
	// report minus its spacer row.
	var want [][]string
	for _, row := range reportRows(sampleRecord()) {
		if len(row) == 1 && row[0] == "" {
			continue
		}
		want = append(want, row)
	}
	if len(rows) != len(want) {
		t.Fatalf("csv has %d rows, want %d", len(rows), len(want))
	}
	if rows[1][4] != "8h 0m 0s" {
		t.Fatalf("total logged in cell = %q", rows[1][4])
	}
	if rows[2][0] != "Breaks Table" {
		t.Fatalf("row after summary = %v", rows[2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := ToJSON(sampleRecord(), path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got jsonExport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Date != "2024-01-10" {
		t.Fatalf("date = %q", got.Date)
	}
	if got.Summary.TotalBreak != "15m 30s" {
		t.Fatalf("total break = %q", got.Summary.TotalBreak)
	}
	if len(got.Breaks) != 1 || got.Breaks[0].Duration != "15m 30s" {
		t.Fatalf("breaks = %v", got.Breaks)
	}
	if got.ExportedAt == "" {
		t.Fatal("exported_at missing")
	}
}

func TestToJSONOmitsOpenLogout(t *testing.T) {
	rec := sampleRecord()
	rec.LogoutTime = nil

	path := filepath.Join(t.TempDir(), "report.json")
	if err := ToJSON(rec, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var raw map[string]any
	json.Unmarshal(data, &raw)
	summary := raw["summary"].(map[string]any)
	if _, present := summary["logout_time"]; present {
		t.Fatal("open session should omit logout_time")
	}
}

// ============================================================
// Filename
// ============================================================

func TestReportFilename(t *testing.T) {
	now := time.Date(2024, 1, 10, 14, 30, 5, 0, time.Local)

	pattern := regexp.MustCompile(`^Login_Tracker_2024-01-10_02-30-05 PM_\d{4}\.xlsx$`)
	for range 5 {
		name := ReportFilename(now)
		if !pattern.MatchString(name) {
			t.Fatalf("filename %q does not match expected pattern", name)
		}
	}
}
