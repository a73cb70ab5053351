package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date key format for archived records. ISO
// dates sort lexicographically, so plain string comparison orders them.
const DateLayout = "2006-01-02"

// retentionDays is how far back the archive keeps finalized records.
// writeCutoffDays is the older, write-side boundary: a session whose login
// date is past it is discarded instead of archived, so an ancient leftover
// session never transits through the archive at all.
const (
	retentionDays   = 5
	writeCutoffDays = 6
)

var (
	// ErrPastWindow rejects viewing dates older than the retention window.
	ErrPastWindow = errors.New("cannot view records older than 5 days")
	// ErrFutureDate rejects viewing dates after today.
	ErrFutureDate = errors.New("cannot view a future date")
)

// Record is a finalized, dated snapshot of a past session. At most one
// record exists per calendar date.
type Record struct {
	Date           string     `json:"date"`
	LoginTime      time.Time  `json:"loginTime"`
	ExpectedLogout time.Time  `json:"expectedLogoutTime"`
	Breaks         []Break    `json:"breaks"`
	LogoutTime     *time.Time `json:"logoutTime,omitempty"`
	TotalLoggedIn  string     `json:"totalLoggedInTime"`
	TotalBreak     string     `json:"totalBreakTime"`
}

// TotalBreakDuration sums the record's breaks from their stored intervals.
func (r Record) TotalBreakDuration() time.Duration {
	return totalBreakTime(r.Breaks)
}

// WorkedDuration is login-to-logout wall time minus breaks, zero when the
// record has no logout time.
func (r Record) WorkedDuration() (time.Duration, bool) {
	if r.LogoutTime == nil {
		return 0, false
	}
	return r.LogoutTime.Sub(r.LoginTime) - r.TotalBreakDuration(), true
}

// Archive is the rolling store of daily records, persisted as one JSON
// array under the records key.
type Archive struct {
	kv      Storage
	records []Record
}

func NewArchive(kv Storage) *Archive {
	return &Archive{kv: kv}
}

// Load reads the persisted records. A malformed payload is treated as an
// empty archive rather than a load failure.
func (a *Archive) Load() error {
	raw, ok, err := a.kv.Get(keyRecords)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	if !ok {
		a.records = nil
		return nil
	}
	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		a.records = nil
		return nil
	}
	a.records = records
	return nil
}

func (a *Archive) Save() error {
	data, err := json.Marshal(a.records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := a.kv.Set(keyRecords, string(data)); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

// Sweep drops every record dated more than retentionDays before now and
// persists the survivors. It runs once at session load, before any read.
func (a *Archive) Sweep(now time.Time) error {
	cutoff := now.AddDate(0, 0, -retentionDays).Format(DateLayout)
	kept := a.records[:0]
	for _, r := range a.records {
		if r.Date >= cutoff {
			kept = append(kept, r)
		}
	}
	a.records = kept
	return a.Save()
}

// Lookup returns the record for an ISO date, if one exists.
func (a *Archive) Lookup(date string) (Record, bool) {
	for _, r := range a.records {
		if r.Date == date {
			return r, true
		}
	}
	return Record{}, false
}

func (a *Archive) Has(date string) bool {
	_, ok := a.Lookup(date)
	return ok
}

// Put inserts the record, or replaces the existing record for its date in
// place. Callers gate the replace path behind a Confirmation.
func (a *Archive) Put(rec Record) {
	for i, r := range a.records {
		if r.Date == rec.Date {
			a.records[i] = rec
			return
		}
	}
	a.records = append(a.records, rec)
}

func (a *Archive) Records() []Record {
	return a.records
}

// CheckViewDate bounds history navigation to the retention window: no
// older than retentionDays before now, no later than today.
func CheckViewDate(date, now time.Time) error {
	day := date.Format(DateLayout)
	if day > now.Format(DateLayout) {
		return ErrFutureDate
	}
	if day < now.AddDate(0, 0, -retentionDays).Format(DateLayout) {
		return ErrPastWindow
	}
	return nil
}
