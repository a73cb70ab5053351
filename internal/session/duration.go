package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EncodeDuration renders a duration for display: "Xm Ys" while under an
// hour, "XXh YYm ZZs" from an hour up. Minutes and seconds are floored,
// never rounded.
func EncodeDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	minutes := total / 60
	seconds := total % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%02dh %02dm %02ds", minutes/60, minutes%60, seconds)
}

// DecodeDuration parses either form produced by EncodeDuration, plus the
// minute-only break labels where minutes may exceed 59 ("75m 12s").
func DecodeDuration(s string) (time.Duration, error) {
	var total time.Duration
	seen := false

	for _, field := range strings.Fields(s) {
		unit := time.Duration(0)
		switch {
		case strings.HasSuffix(field, "h"):
			unit = time.Hour
		case strings.HasSuffix(field, "m"):
			unit = time.Minute
		case strings.HasSuffix(field, "s"):
			unit = time.Second
		default:
			return 0, fmt.Errorf("parse duration %q: bad component %q", s, field)
		}
		n, err := strconv.Atoi(field[:len(field)-1])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse duration %q: bad component %q", s, field)
		}
		total += time.Duration(n) * unit
		seen = true
	}
	if !seen {
		return 0, fmt.Errorf("parse duration %q: empty", s)
	}
	return total, nil
}

// FormatClock renders a duration as a zero-padded "HHh MMm SSs" clock,
// used for the effective-hours display.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02dh %02dm %02ds", total/3600, (total%3600)/60, total%60)
}
