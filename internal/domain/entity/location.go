package entity

import "time"

// LocationRecord is the last known location of this session.
type LocationRecord struct {
	IPAddress   string    `json:"ip"`
	Country     string    `json:"country"`
	Region      string    `json:"region"`
	CountryCode string    `json:"countryCode"`
	ISP         string    `json:"isp"`
	FetchedAt   time.Time `json:"time"`
}

// FetchedAtMillis returns the fetch timestamp as epoch milliseconds.
func (r *LocationRecord) FetchedAtMillis() int64 {
	if r == nil {
		return 0
	}
	return r.FetchedAt.UnixMilli()
}

// IsStale reports whether a refresh is due.
// A nil record is always stale.
func (r *LocationRecord) IsStale(now time.Time, interval time.Duration) bool {
	if r == nil {
		return true
	}
	return now.Sub(r.FetchedAt) > interval
}

// Stamp returns the timestamp to persist for a fetch completed at now.
// The result is strictly after previous so stored timestamps only move forward,
// even when the wall clock steps back or two fetches land in the same millisecond.
func Stamp(now time.Time, previous *LocationRecord) time.Time {
	now = now.Truncate(time.Millisecond)
	if previous == nil {
		return now
	}
	floor := previous.FetchedAt.Truncate(time.Millisecond).Add(time.Millisecond)
	if now.Before(floor) {
		return floor
	}
	return now
}
