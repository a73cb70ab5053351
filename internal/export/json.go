package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/clockr/internal/session"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Date       string      `json:"date"`
	Summary    jsonSummary `json:"summary"`
	Breaks     []jsonBreak `json:"breaks"`
}

type jsonSummary struct {
	LoginTime      string `json:"login_time"`
	ExpectedLogout string `json:"expected_logout_time"`
	LogoutTime     string `json:"logout_time,omitempty"`
	TotalLoggedIn  string `json:"total_logged_in_time"`
	TotalBreak     string `json:"total_break_time"`
}

type jsonBreak struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration string `json:"duration"`
}

// ToJSON writes the record report as a JSON document.
func ToJSON(rec session.Record, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Date:       rec.Date,
		Summary: jsonSummary{
			LoginTime:      rec.LoginTime.Format(time.RFC3339),
			ExpectedLogout: rec.ExpectedLogout.Format(time.RFC3339),
			TotalLoggedIn:  rec.TotalLoggedIn,
			TotalBreak:     rec.TotalBreak,
		},
	}
	if rec.LogoutTime != nil {
		export.Summary.LogoutTime = rec.LogoutTime.Format(time.RFC3339)
	}

	for _, b := range rec.Breaks {
		export.Breaks = append(export.Breaks, jsonBreak{
			Start:    b.Start.Format(time.RFC3339),
			End:      b.End.Format(time.RFC3339),
			Duration: b.Label(),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
