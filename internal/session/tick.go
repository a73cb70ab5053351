package session

import "time"

// Tick advances every time-derived display in one pass. The TUI calls it
// once per second; the engine itself owns no timers. Displays freeze when
// their state is not active: the effective clock holds during breaks and
// after logout, the break clock resets when the break ends.
//
// The returned notifications are thresholds crossed on this tick, each
// fired once until its latch resets (break end for the reminder; the
// overdue signal re-arms whenever the projection moves back past now).
func (s *Session) Tick(now time.Time) []Notification {
	var fired []Notification

	switch s.State() {
	case StateOnBreak:
		s.breakElapsed = now.Sub(s.breakStart)
		threshold := time.Duration(s.reminderMin) * time.Minute
		if s.reminderMin > 0 && s.breakElapsed >= threshold && !s.breakReminded {
			s.breakReminded = true
			fired = append(fired, NotifyBreakReminder)
		}

	case StateLoggedIn:
		// Wholesale recomputation from the ledger every tick; manual break
		// additions show up here with no separate adjustment path.
		s.effective = now.Sub(s.loginTime) - s.TotalBreakTime()
	}

	if st := s.State(); st == StateLoggedIn || st == StateOnBreak {
		switch {
		case s.expectedLogout.IsZero():
		case now.After(s.expectedLogout):
			if !s.overdueNotified {
				s.overdueNotified = true
				fired = append(fired, NotifyLogoutOverdue)
			}
		default:
			// A break can push the projection back past now; re-arm so the
			// next crossing fires again.
			s.overdueNotified = false
		}
	}

	return fired
}

// Effective is the last computed effective worked time.
func (s *Session) Effective() time.Duration { return s.effective }

// EffectiveLabel is the effective worked time as "HHh MMm SSs".
func (s *Session) EffectiveLabel() string { return FormatClock(s.effective) }

// BreakElapsed is the running duration of the in-progress break.
func (s *Session) BreakElapsed() time.Duration { return s.breakElapsed }
