package model

import (
	"fmt"
	"time"
)

// TickSize is the fixed time interval between consecutive price samples.
// The string value doubles as the CryptoCompare endpoint suffix
// (histominute / histohour / histoday).
type TickSize string

const (
	TickMinute TickSize = "minute"
	TickHour   TickSize = "hour"
	TickDay    TickSize = "day"
)

// ParseTickSize converts a config string into a TickSize.
func ParseTickSize(s string) (TickSize, error) {
	switch TickSize(s) {
	case TickMinute, TickHour, TickDay:
		return TickSize(s), nil
	default:
		return "", fmt.Errorf("tick size %q not recognised, use: minute, hour or day", s)
	}
}

// Duration returns the length of one tick.
func (t TickSize) Duration() time.Duration {
	switch t {
	case TickMinute:
		return time.Minute
	case TickHour:
		return time.Hour
	case TickDay:
		return 24 * time.Hour
	default:
		return 0
	}
}

// Align truncates a timestamp down to the nearest tick boundary in UTC.
// Day candles are stamped at 00:00 UTC, matching the upstream API.
func (t TickSize) Align(ts time.Time) time.Time {
	ts = ts.UTC()
	switch t {
	case TickMinute:
		return ts.Truncate(time.Minute)
	case TickHour:
		return ts.Truncate(time.Hour)
	case TickDay:
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return ts
	}
}
