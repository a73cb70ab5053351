package session

import (
	"errors"
	"testing"
	"time"
)

func testRecord(date string, login time.Time) Record {
	logout := login.Add(8 * time.Hour)
	return Record{
		Date:           date,
		LoginTime:      login,
		ExpectedLogout: login.Add(8 * time.Hour),
		LogoutTime:     &logout,
		TotalLoggedIn:  "8h 0m 0s",
		TotalBreak:     "0m 0s",
	}
}

// ============================================================
// Load / Save
// ============================================================

func TestArchiveLoadEmpty(t *testing.T) {
	a := NewArchive(newMemKV())
	if err := a.Load(); err != nil {
		t.Fatal(err)
	}
	if len(a.Records()) != 0 {
		t.Fatalf("expected empty archive, got %d records", len(a.Records()))
	}
}

func TestArchiveLoadCorrupt(t *testing.T) {
	kv := newMemKV()
	kv.Set(keyRecords, "{definitely not json")

	a := NewArchive(kv)
	if err := a.Load(); err != nil {
		t.Fatalf("corrupt records should not block load: %v", err)
	}
	if len(a.Records()) != 0 {
		t.Fatal("corrupt records should load as empty")
	}
}

func TestArchiveSaveLoadRoundTrip(t *testing.T) {
	kv := newMemKV()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)

	a := NewArchive(kv)
	a.Put(testRecord("2024-01-09", now.AddDate(0, 0, -1)))
	a.Put(testRecord("2024-01-10", now))
	if err := a.Save(); err != nil {
		t.Fatal(err)
	}

	b := NewArchive(kv)
	if err := b.Load(); err != nil {
		t.Fatal(err)
	}
	if len(b.Records()) != 2 {
		t.Fatalf("expected 2 records, got %d", len(b.Records()))
	}
	rec, ok := b.Lookup("2024-01-09")
	if !ok {
		t.Fatal("record lost across save/load")
	}
	if rec.LogoutTime == nil || !rec.LogoutTime.Equal(now.AddDate(0, 0, -1).Add(8*time.Hour)) {
		t.Fatalf("logout time not preserved: %v", rec.LogoutTime)
	}
}

// ============================================================
// Sweep
// ============================================================

func TestSweepDropsExpired(t *testing.T) {
	kv := newMemKV()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)

	a := NewArchive(kv)
	a.Put(testRecord("2024-01-04", now.AddDate(0, 0, -6))) // 6 days back
	a.Put(testRecord("2024-01-06", now.AddDate(0, 0, -4))) // 4 days back
	if err := a.Save(); err != nil {
		t.Fatal(err)
	}

	if err := a.Sweep(now); err != nil {
		t.Fatal(err)
	}

	if a.Has("2024-01-04") {
		t.Fatal("6-day-old record should be swept")
	}
	if !a.Has("2024-01-06") {
		t.Fatal("4-day-old record should survive")
	}

	// Sweep persists: a fresh load sees the trimmed set.
	b := NewArchive(kv)
	if err := b.Load(); err != nil {
		t.Fatal(err)
	}
	if len(b.Records()) != 1 {
		t.Fatalf("sweep not persisted: %d records after reload", len(b.Records()))
	}
}

func TestSweepKeepsRetentionBoundary(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)

	a := NewArchive(newMemKV())
	a.Put(testRecord("2024-01-05", now.AddDate(0, 0, -5))) // exactly 5 days back

	if err := a.Sweep(now); err != nil {
		t.Fatal(err)
	}
	if !a.Has("2024-01-05") {
		t.Fatal("record exactly at the retention boundary should survive")
	}
}

// ============================================================
// Lookup / Put
// ============================================================

func TestLookupAbsent(t *testing.T) {
	a := NewArchive(newMemKV())
	if _, ok := a.Lookup("2024-01-01"); ok {
		t.Fatal("lookup on empty archive should miss")
	}
}

func TestPutReplacesInPlace(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)

	a := NewArchive(newMemKV())
	a.Put(testRecord("2024-01-09", now.AddDate(0, 0, -1)))
	a.Put(testRecord("2024-01-10", now))

	replacement := testRecord("2024-01-09", now.AddDate(0, 0, -1))
	replacement.TotalLoggedIn = "6h 30m 0s"
	a.Put(replacement)

	if len(a.Records()) != 2 {
		t.Fatalf("replace should not grow the archive: %d records", len(a.Records()))
	}
	rec, _ := a.Lookup("2024-01-09")
	if rec.TotalLoggedIn != "6h 30m 0s" {
		t.Fatalf("record not replaced: %q", rec.TotalLoggedIn)
	}
	if a.Records()[0].Date != "2024-01-09" {
		t.Fatal("replace should keep the record's position")
	}
}

// ============================================================
// View-date bounds
// ============================================================

func TestCheckViewDate(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.Local)

	if err := CheckViewDate(now, now); err != nil {
		t.Errorf("today should be viewable: %v", err)
	}
	if err := CheckViewDate(now.AddDate(0, 0, -5), now); err != nil {
		t.Errorf("5 days back should be viewable: %v", err)
	}
	if err := CheckViewDate(now.AddDate(0, 0, -6), now); !errors.Is(err, ErrPastWindow) {
		t.Errorf("6 days back should be rejected, got %v", err)
	}
	if err := CheckViewDate(now.AddDate(0, 0, 1), now); !errors.Is(err, ErrFutureDate) {
		t.Errorf("tomorrow should be rejected, got %v", err)
	}
}

// ============================================================
// Record derivations
// ============================================================

func TestWorkedDuration(t *testing.T) {
	login := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	logout := login.Add(8*time.Hour + 30*time.Minute)

	rec := Record{
		LoginTime:  login,
		LogoutTime: &logout,
		Breaks: []Break{
			{Start: login.Add(time.Hour), End: login.Add(time.Hour + 30*time.Minute)},
		},
	}

	worked, ok := rec.WorkedDuration()
	if !ok {
		t.Fatal("record with logout should report worked time")
	}
	if worked != 8*time.Hour {
		t.Fatalf("worked = %v, want 8h", worked)
	}

	rec.LogoutTime = nil
	if _, ok := rec.WorkedDuration(); ok {
		t.Fatal("record without logout should report unknown")
	}
}
