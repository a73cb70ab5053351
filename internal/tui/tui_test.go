package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/clockr/internal/session"
	"github.com/sadopc/clockr/internal/store"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	st, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sess := session.New(st)
	if err := sess.Load(time.Now()); err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// runCmd executes a command and returns the message it produces.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// ============================================================
// Formatting helpers
// ============================================================

func TestFormatTime12(t *testing.T) {
	ts := time.Date(2024, 1, 10, 14, 30, 5, 0, time.Local)
	if got := formatTime12(ts); got != "02:30:05 PM" {
		t.Fatalf("formatTime12 = %q", got)
	}
}

func TestFormatDayHeader(t *testing.T) {
	ts := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local) // a Wednesday
	if got := formatDayHeader(ts); got != "Wed 10/01" {
		t.Fatalf("formatDayHeader = %q", got)
	}
}

func TestFormatClockDisplay(t *testing.T) {
	if got := formatClock(time.Hour + 2*time.Minute + 3*time.Second); got != "01:02:03" {
		t.Fatalf("formatClock = %q", got)
	}
	if got := formatClock(-time.Second); got != "00:00:00" {
		t.Fatalf("formatClock negative = %q", got)
	}
}

// ============================================================
// Tracker view
// ============================================================

func TestTrackerLoginKey(t *testing.T) {
	sess := newTestSession(t)
	m := newTrackerModel(sess)

	m, cmd := m.update(keyPress('l'))
	if sess.State() != session.StateLoggedIn {
		t.Fatalf("state after login key = %v", sess.State())
	}
	msg, ok := runCmd(cmd).(statusMsg)
	if !ok || msg.isError {
		t.Fatalf("login should report a status, got %#v", msg)
	}

	// Second press hits the engine guard and surfaces the error.
	_, cmd = m.update(keyPress('l'))
	msg, ok = runCmd(cmd).(statusMsg)
	if !ok || !msg.isError {
		t.Fatalf("double login should report an error, got %#v", msg)
	}
}

func TestTrackerBreakToggle(t *testing.T) {
	sess := newTestSession(t)
	m := newTrackerModel(sess)

	m, _ = m.update(keyPress('l'))
	m, _ = m.update(keyPress('b'))
	if sess.State() != session.StateOnBreak {
		t.Fatalf("state after break key = %v", sess.State())
	}

	m, _ = m.update(keyPress('b'))
	if sess.State() != session.StateLoggedIn {
		t.Fatalf("state after ending break = %v", sess.State())
	}
	if len(sess.Breaks()) != 1 {
		t.Fatalf("ledger has %d breaks", len(sess.Breaks()))
	}
}

func TestTrackerLogoutEmitsConfirm(t *testing.T) {
	sess := newTestSession(t)
	m := newTrackerModel(sess)

	m, _ = m.update(keyPress('l'))
	_, cmd := m.update(keyPress('o'))

	msg, ok := runCmd(cmd).(confirmMsg)
	if !ok || msg.confirm == nil {
		t.Fatalf("logout key should emit a confirmation, got %#v", msg)
	}
	// Nothing committed until the confirmation is resolved.
	if sess.State() != session.StateLoggedIn {
		t.Fatalf("state before resolve = %v", sess.State())
	}

	if _, err := msg.confirm.Resolve(false); err != nil {
		t.Fatal(err)
	}
	if sess.State() != session.StateLoggedIn {
		t.Fatalf("denied logout changed state to %v", sess.State())
	}
}

// ============================================================
// Root model
// ============================================================

func updateApp(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	app, ok := m.(App)
	if !ok {
		t.Fatalf("update returned %T", m)
	}
	return app, cmd
}

func TestAppTabSwitching(t *testing.T) {
	app := NewApp(newTestSession(t))

	app, _ = updateApp(t, app, keyPress('2'))
	if app.activeView != viewRecords {
		t.Fatalf("active view = %v, want records", app.activeView)
	}

	app, _ = updateApp(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if app.activeView != viewSettings {
		t.Fatalf("active view = %v, want settings", app.activeView)
	}

	app, _ = updateApp(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if app.activeView != viewTracker {
		t.Fatalf("tab should wrap back to the tracker, got %v", app.activeView)
	}
}

func TestAppConfirmFlow(t *testing.T) {
	sess := newTestSession(t)
	if err := sess.Login(time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	app := NewApp(sess)

	confirm, err := sess.Logout(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	app, _ = updateApp(t, app, confirmMsg{confirm: confirm})
	if app.pending == nil {
		t.Fatal("confirmation not captured")
	}

	// n denies: overlay clears, session keeps running.
	app, _ = updateApp(t, app, keyPress('n'))
	if app.pending != nil {
		t.Fatal("deny should clear the pending confirmation")
	}
	if sess.State() != session.StateLoggedIn {
		t.Fatalf("state after deny = %v", sess.State())
	}

	// y commits a fresh confirmation.
	confirm, err = sess.Logout(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	app, _ = updateApp(t, app, confirmMsg{confirm: confirm})
	app, _ = updateApp(t, app, keyPress('y'))
	if app.pending != nil {
		t.Fatal("accept should clear the pending confirmation")
	}
	if sess.State() != session.StateEnded {
		t.Fatalf("state after accept = %v", sess.State())
	}
}

func TestAppConfirmSwallowsOtherKeys(t *testing.T) {
	sess := newTestSession(t)
	sess.Login(time.Now())
	app := NewApp(sess)

	confirm, _ := sess.Logout(time.Now())
	app, _ = updateApp(t, app, confirmMsg{confirm: confirm})

	// Unrelated keys neither resolve nor leak through to the views.
	app, _ = updateApp(t, app, keyPress('2'))
	if app.pending == nil {
		t.Fatal("unrelated key should not resolve the confirmation")
	}
	if app.activeView != viewTracker {
		t.Fatal("confirmation overlay should capture all input")
	}
}
