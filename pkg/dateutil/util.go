package dateutil

import "time"

// NextHours returns the time n hours from now. Negative n looks back, which
// the reconciliation sweep uses for staleness cutoffs.
func NextHours(n int) time.Time {
	return time.Now().Add(time.Duration(n) * time.Hour)
}

// IsStale reports whether t is older than the given age.
func IsStale(t time.Time, age time.Duration) bool {
	return !t.IsZero() && time.Since(t) > age
}
