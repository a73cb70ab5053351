package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// Break is one contiguous interval the user marked as not working.
// Start and end are the source of truth; the duration label is derived on
// demand, so a stale or hand-edited label can never skew totals.
type Break struct {
	Start time.Time
	End   time.Time
}

func (b Break) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Label renders the break's duration in the minute-only form breaks have
// always been displayed in ("75m 12s"); minutes do not fold into hours
// within a single break.
func (b Break) Label() string {
	total := int64(b.Duration() / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

type breakJSON struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration string    `json:"duration"`
}

// MarshalJSON writes the persisted break shape, duration label included.
func (b Break) MarshalJSON() ([]byte, error) {
	return json.Marshal(breakJSON{Start: b.Start, End: b.End, Duration: b.Label()})
}

// UnmarshalJSON reads the persisted shape. The stored duration label is
// ignored; it is recomputed from start and end.
func (b *Break) UnmarshalJSON(data []byte) error {
	var raw breakJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Start = raw.Start
	b.End = raw.End
	return nil
}

// totalBreakTime sums the given intervals. An in-progress break is never in
// the slice, so it never counts.
func totalBreakTime(breaks []Break) time.Duration {
	var total time.Duration
	for _, b := range breaks {
		total += b.Duration()
	}
	return total
}
