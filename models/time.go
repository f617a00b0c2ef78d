package models

import "time"

// isoLayout matches JavaScript's Date.prototype.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t in UTC as an ISO-8601 string with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format(isoLayout)
}
