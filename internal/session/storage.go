package session

// Storage is the persistence contract the engine depends on: string keys to
// string values. *store.Store satisfies it; tests may substitute a map.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Persisted keys. One key per field keeps each write small and makes the
// stored state inspectable with a plain SQLite shell.
const (
	keyLoginTime      = "loginTime"
	keyBreaks         = "breaks"
	keyBreakStart     = "breakStartTime"
	keyExpectedLogout = "expectedLogoutTime"
	keyLoginHours     = "loginHours"
	keyBreakReminder  = "breakNotifications"
	keyLogoutTime     = "logoutTime"
	keyRecords        = "records"
)
