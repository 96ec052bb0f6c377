package utils

import (
	"strings"
	"time"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	// Daraja timestamps are local Nairobi time without separators.
	layoutDaraja = "20060102150405"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDateTime parses "YYYY-MM-DD HH:MM:SS" in local timezone.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDateTime, strings.TrimSpace(s), time.Local)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

// DarajaTimestamp formats time the way the STK password derivation expects.
func DarajaTimestamp(t time.Time) string {
	return t.Format(layoutDaraja)
}
