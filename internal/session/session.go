package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// State is the lifecycle position of the current session.
type State int

const (
	// StateLoggedOut: no session exists.
	StateLoggedOut State = iota
	// StateLoggedIn: session active, not on break.
	StateLoggedIn
	// StateOnBreak: session active, break in progress.
	StateOnBreak
	// StateEnded: logged out but not yet cleared/archived.
	StateEnded
)

func (st State) String() string {
	switch st {
	case StateLoggedIn:
		return "logged in"
	case StateOnBreak:
		return "on break"
	case StateEnded:
		return "logged out"
	default:
		return "no session"
	}
}

var (
	ErrAlreadyLoggedIn     = errors.New("a session is already recorded")
	ErrNotLoggedIn         = errors.New("no active session")
	ErrOnBreak             = errors.New("a break is in progress")
	ErrNotOnBreak          = errors.New("no break in progress")
	ErrSessionEnded        = errors.New("session already logged out")
	ErrSessionNotEnded     = errors.New("session is not logged out yet")
	ErrBadMinutes          = errors.New("minutes must be a positive number")
	ErrBadHours            = errors.New("hours must be between 0 and 24")
	ErrBadClock            = errors.New("invalid time of day")
	ErrNoSuchBreak         = errors.New("no break at that position")
	ErrDeleteWindowExpired = errors.New("breaks can only be deleted within 2 minutes")
)

// deleteWindow is how long after a break ends it remains deletable.
const deleteWindow = 2 * time.Minute

// timeLayout keeps persisted timestamps exact across a reload.
const timeLayout = time.RFC3339Nano

// LoginHours is the configured daily allowance.
type LoginHours struct {
	Weekday  int `json:"weekday"`
	Saturday int `json:"saturday"`
}

// Notification is a threshold signal emitted by Tick, fired at most once
// per crossing until the state leaves the condition.
type Notification int

const (
	NotifyBreakReminder Notification = iota
	NotifyLogoutOverdue
)

// Session is the time-accounting engine: login time, break ledger,
// expected-logout projection, effective-hours tick, and the archive
// hand-off on clear. All methods take the current time explicitly; nothing
// here reads the wall clock.
type Session struct {
	kv      Storage
	archive *Archive

	loginTime      time.Time // zero when no session
	expectedLogout time.Time
	breaks         []Break
	breakStart     time.Time // zero when not on break
	loggedOut      bool
	logoutTime     time.Time

	hours       LoginHours
	reminderMin int

	// Display caches recomputed by Tick; frozen when the owning state is
	// not active.
	effective    time.Duration
	breakElapsed time.Duration

	breakReminded   bool
	overdueNotified bool
}

func New(kv Storage) *Session {
	return &Session{
		kv:          kv,
		archive:     NewArchive(kv),
		hours:       LoginHours{Weekday: 8, Saturday: 5},
		reminderMin: 10,
	}
}

// Load restores persisted state. The archive retention sweep runs first,
// before anything else is read. Malformed values are treated as absent;
// a corrupt key never blocks startup.
func (s *Session) Load(now time.Time) error {
	if err := s.archive.Load(); err != nil {
		return err
	}
	if err := s.archive.Sweep(now); err != nil {
		return err
	}

	if raw, ok, err := s.kv.Get(keyLoginHours); err != nil {
		return err
	} else if ok {
		var h LoginHours
		if json.Unmarshal([]byte(raw), &h) == nil {
			s.hours = h
		}
	}

	if raw, ok, err := s.kv.Get(keyBreakReminder); err != nil {
		return err
	} else if ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			s.reminderMin = n
		}
	}

	var err error
	if s.loginTime, err = s.loadTime(keyLoginTime); err != nil {
		return err
	}
	if s.expectedLogout, err = s.loadTime(keyExpectedLogout); err != nil {
		return err
	}
	if s.breakStart, err = s.loadTime(keyBreakStart); err != nil {
		return err
	}
	if s.logoutTime, err = s.loadTime(keyLogoutTime); err != nil {
		return err
	}
	s.loggedOut = !s.logoutTime.IsZero()

	if raw, ok, err := s.kv.Get(keyBreaks); err != nil {
		return err
	} else if ok {
		var breaks []Break
		if json.Unmarshal([]byte(raw), &breaks) == nil {
			s.breaks = breaks
		}
	}

	// An interrupted run may have persisted a login without a projection.
	if !s.loginTime.IsZero() && s.expectedLogout.IsZero() {
		return s.recomputeProjection()
	}
	return nil
}

// loadTime reads an RFC3339 timestamp key; absent or malformed is zero.
func (s *Session) loadTime(key string) (time.Time, error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

// State derives the lifecycle position from the session fields.
func (s *Session) State() State {
	switch {
	case s.loginTime.IsZero():
		return StateLoggedOut
	case s.loggedOut:
		return StateEnded
	case !s.breakStart.IsZero():
		return StateOnBreak
	default:
		return StateLoggedIn
	}
}

func (s *Session) LoginTime() time.Time      { return s.loginTime }
func (s *Session) ExpectedLogout() time.Time { return s.expectedLogout }
func (s *Session) LogoutTime() time.Time     { return s.logoutTime }
func (s *Session) Breaks() []Break           { return s.breaks }
func (s *Session) Hours() LoginHours         { return s.hours }
func (s *Session) BreakReminder() int        { return s.reminderMin }
func (s *Session) Archive() *Archive         { return s.archive }

// Login starts a session at now. Valid only when no session exists.
func (s *Session) Login(now time.Time) error {
	if s.State() != StateLoggedOut {
		return ErrAlreadyLoggedIn
	}
	s.loginTime = now
	s.loggedOut = false
	s.logoutTime = time.Time{}
	s.overdueNotified = false
	if err := s.kv.Delete(keyLogoutTime); err != nil {
		return err
	}
	if err := s.saveTime(keyLoginTime, now); err != nil {
		return err
	}
	return s.recomputeProjection()
}

// StartBreak begins a break. No-op error outside StateLoggedIn.
func (s *Session) StartBreak(now time.Time) error {
	switch s.State() {
	case StateLoggedOut:
		return ErrNotLoggedIn
	case StateOnBreak:
		return ErrOnBreak
	case StateEnded:
		return ErrSessionEnded
	}
	s.breakStart = now
	s.breakElapsed = 0
	s.breakReminded = false
	return s.saveTime(keyBreakStart, now)
}

// EndBreak closes the in-progress break, appends it to the ledger, and
// pushes the expected logout out by exactly the break's duration.
func (s *Session) EndBreak(now time.Time) error {
	if s.State() != StateOnBreak {
		return ErrNotOnBreak
	}
	b := Break{Start: s.breakStart, End: now}
	s.breakStart = time.Time{}
	s.breakElapsed = 0
	s.breakReminded = false
	if err := s.kv.Delete(keyBreakStart); err != nil {
		return err
	}
	s.breaks = append(s.breaks, b)
	if err := s.saveBreaks(); err != nil {
		return err
	}
	return s.shiftProjection(b.Duration())
}

// AddManualBreak appends a synthetic break of the given whole minutes,
// anchored at now. The next Tick picks it up; there is no separate
// adjustment of the effective-hours display.
func (s *Session) AddManualBreak(now time.Time, minutes int) error {
	if s.State() != StateLoggedIn {
		switch s.State() {
		case StateLoggedOut:
			return ErrNotLoggedIn
		case StateOnBreak:
			return ErrOnBreak
		default:
			return ErrSessionEnded
		}
	}
	if minutes <= 0 {
		return ErrBadMinutes
	}
	d := time.Duration(minutes) * time.Minute
	s.breaks = append(s.breaks, Break{Start: now, End: now.Add(d)})
	if err := s.saveBreaks(); err != nil {
		return err
	}
	return s.shiftProjection(d)
}

// CanDeleteBreak reports whether the break at index is still inside its
// delete-eligibility window. The UI uses it to disable the action; the
// engine enforces the same rule in DeleteBreak.
func (s *Session) CanDeleteBreak(index int, now time.Time) bool {
	if index < 0 || index >= len(s.breaks) {
		return false
	}
	return now.Sub(s.breaks[index].End) <= deleteWindow
}

// DeleteBreak removes a ledger entry and pulls the expected logout back by
// exactly the duration added when the break was recorded, restoring the
// pre-break projection bit for bit.
func (s *Session) DeleteBreak(index int, now time.Time) error {
	if index < 0 || index >= len(s.breaks) {
		return ErrNoSuchBreak
	}
	if now.Sub(s.breaks[index].End) > deleteWindow {
		return ErrDeleteWindowExpired
	}
	d := s.breaks[index].Duration()
	s.breaks = append(s.breaks[:index], s.breaks[index+1:]...)
	if err := s.saveBreaks(); err != nil {
		return err
	}
	return s.shiftProjection(-d)
}

// EditLoginTime overwrites the login time's hour and minute, keeping the
// date, and recomputes the projection from scratch. Valid only while
// logged in and off break.
func (s *Session) EditLoginTime(hour, minute int) error {
	switch s.State() {
	case StateLoggedOut:
		return ErrNotLoggedIn
	case StateOnBreak:
		return ErrOnBreak
	case StateEnded:
		return ErrSessionEnded
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ErrBadClock
	}
	t := s.loginTime
	s.loginTime = time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
	if err := s.saveTime(keyLoginTime, s.loginTime); err != nil {
		return err
	}
	return s.recomputeProjection()
}

// TotalBreakTime sums the ledger; the in-progress break does not count.
func (s *Session) TotalBreakTime() time.Duration {
	return totalBreakTime(s.breaks)
}

// TotalBreakLabel is the ledger sum for display ("15m 30s", "01h 05m 00s").
func (s *Session) TotalBreakLabel() string {
	return EncodeDuration(s.TotalBreakTime())
}

// TotalLoggedIn is login-to-logout wall time minus breaks; ok is false
// until the session has a logout time.
func (s *Session) TotalLoggedIn() (time.Duration, bool) {
	if s.loginTime.IsZero() || s.logoutTime.IsZero() {
		return 0, false
	}
	return s.logoutTime.Sub(s.loginTime) - s.TotalBreakTime(), true
}

// TotalLoggedInLabel formats TotalLoggedIn, "N/A" while unavailable.
func (s *Session) TotalLoggedInLabel() string {
	d, ok := s.TotalLoggedIn()
	if !ok {
		return "N/A"
	}
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}

// Logout prepares ending the session. Nothing changes until the returned
// confirmation is resolved with yes.
func (s *Session) Logout(now time.Time) (*Confirmation, error) {
	switch s.State() {
	case StateLoggedOut:
		return nil, ErrNotLoggedIn
	case StateOnBreak:
		return nil, ErrOnBreak
	case StateEnded:
		return nil, ErrSessionEnded
	}
	return &Confirmation{
		Title: "Confirm Logout",
		Body:  "Are you sure you want to log out?",
		accept: func() (*Confirmation, error) {
			s.logoutTime = now
			s.loggedOut = true
			s.overdueNotified = false
			return nil, s.saveTime(keyLogoutTime, now)
		},
	}, nil
}

// Clear prepares archiving and resetting the ended session. Resolving yes
// archives (which may chain an overwrite confirmation when a record for
// the login date already exists) and then wipes the session. Denying at
// either step leaves the session fully intact.
func (s *Session) Clear(now time.Time) (*Confirmation, error) {
	if s.State() != StateEnded {
		return nil, ErrSessionNotEnded
	}
	return &Confirmation{
		Title: "Clear Data",
		Body:  "Are you sure you want to clear all data?",
		accept: func() (*Confirmation, error) {
			rec := s.buildRecord()

			// Sessions older than the write cutoff are dropped outright;
			// they would only be swept on the next load anyway.
			if daysBetween(s.loginTime, now) > writeCutoffDays {
				return nil, s.reset()
			}

			if s.archive.Has(rec.Date) {
				return &Confirmation{
					Title: "Record Exists",
					Body:  "A record for " + rec.Date + " already exists. Replace it?",
					accept: func() (*Confirmation, error) {
						s.archive.Put(rec)
						if err := s.archive.Save(); err != nil {
							return nil, err
						}
						return nil, s.reset()
					},
				}, nil
			}

			s.archive.Put(rec)
			if err := s.archive.Save(); err != nil {
				return nil, err
			}
			return nil, s.reset()
		},
	}, nil
}

func (s *Session) buildRecord() Record {
	rec := Record{
		Date:           s.loginTime.Format(DateLayout),
		LoginTime:      s.loginTime,
		ExpectedLogout: s.expectedLogout,
		Breaks:         append([]Break(nil), s.breaks...),
		TotalLoggedIn:  s.TotalLoggedInLabel(),
		TotalBreak:     s.TotalBreakLabel(),
	}
	if !s.logoutTime.IsZero() {
		t := s.logoutTime
		rec.LogoutTime = &t
	}
	return rec
}

// reset wipes all session fields and keys; configuration and archive stay.
func (s *Session) reset() error {
	s.loginTime = time.Time{}
	s.expectedLogout = time.Time{}
	s.breaks = nil
	s.breakStart = time.Time{}
	s.loggedOut = false
	s.logoutTime = time.Time{}
	s.effective = 0
	s.breakElapsed = 0
	s.breakReminded = false
	s.overdueNotified = false

	for _, key := range []string{keyLoginTime, keyBreaks, keyBreakStart, keyExpectedLogout, keyLogoutTime} {
		if err := s.kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// SetHours saves the daily allowance and, when a session is active,
// recomputes the projection against the current ledger.
func (s *Session) SetHours(weekday, saturday int) error {
	if weekday < 0 || weekday > 24 || saturday < 0 || saturday > 24 {
		return ErrBadHours
	}
	s.hours = LoginHours{Weekday: weekday, Saturday: saturday}
	data, err := json.Marshal(s.hours)
	if err != nil {
		return err
	}
	if err := s.kv.Set(keyLoginHours, string(data)); err != nil {
		return err
	}
	if st := s.State(); st == StateLoggedIn || st == StateOnBreak {
		return s.recomputeProjection()
	}
	return nil
}

// SetBreakReminder saves the in-break reminder threshold in minutes.
func (s *Session) SetBreakReminder(minutes int) error {
	if minutes <= 0 {
		return ErrBadMinutes
	}
	s.reminderMin = minutes
	return s.kv.Set(keyBreakReminder, strconv.Itoa(minutes))
}

// allowance is the configured daily hours for the given date, converted
// to a duration. Saturday gets its own figure.
func (s *Session) allowance(date time.Time) time.Duration {
	hours := s.hours.Weekday
	if date.Weekday() == time.Saturday {
		hours = s.hours.Saturday
	}
	return time.Duration(hours) * time.Hour
}

// recomputeProjection rebuilds the expected logout wholesale:
// login + allowance + accumulated breaks.
func (s *Session) recomputeProjection() error {
	s.expectedLogout = s.loginTime.Add(s.allowance(s.loginTime)).Add(s.TotalBreakTime())
	return s.saveTime(keyExpectedLogout, s.expectedLogout)
}

// shiftProjection adjusts the expected logout incrementally. Duration
// arithmetic is integer, so a shift followed by its negation restores the
// prior value exactly.
func (s *Session) shiftProjection(d time.Duration) error {
	s.expectedLogout = s.expectedLogout.Add(d)
	return s.saveTime(keyExpectedLogout, s.expectedLogout)
}

func (s *Session) saveTime(key string, t time.Time) error {
	return s.kv.Set(key, t.Format(timeLayout))
}

func (s *Session) saveBreaks() error {
	data, err := json.Marshal(s.breaks)
	if err != nil {
		return err
	}
	return s.kv.Set(keyBreaks, string(data))
}

// daysBetween counts whole days from the calendar date of a to the
// instant b.
func daysBetween(a, b time.Time) int {
	day := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	return int(b.Sub(day) / (24 * time.Hour))
}
