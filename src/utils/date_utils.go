package utils

import (
	"strconv"
	"strings"
	"time"
)

// Vendor date cells are spreadsheet serials: a count of days since the
// anchor below. The anchor sits two days before 1900-01-01 so that the
// spreadsheet's phantom 1900-02-29 (serial 60 in the 1900 date system) is
// absorbed by plain day addition. The 16:00 time-of-day is a market-close
// convention; vendor dates carry no time component.
var serialAnchor = time.Date(1899, time.December, 30, 16, 0, 0, 0, time.UTC)

// DefaultSerial is used when a date cell does not parse as an integer.
const DefaultSerial int64 = 1

// ParseSerial parses a cell's string form as a signed day serial, falling
// back to DefaultSerial on anything unparseable.
func ParseSerial(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return DefaultSerial
	}
	return n
}

// SerialToUnix converts a day serial to seconds since the Unix epoch.
func SerialToUnix(serial int64) int64 {
	return serialAnchor.AddDate(0, 0, int(serial)).Unix()
}

// UnixToNaive converts stored epoch seconds back to a wall-clock datetime
// for the downstream timestamp columns.
func UnixToNaive(secs int64) time.Time {
	return time.Unix(secs, 0).UTC()
}
