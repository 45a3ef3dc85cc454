package publication

import (
	"fmt"
	"strconv"
	"strings"
)

// PublicationDate is a calendar date. Sources that only know the year (or
// year and month) fill the missing parts with 1.
type PublicationDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// NewDate builds a date from separate components. Month and day outside
// their valid ranges default to 1. The second result is false if year is not
// a positive integer.
func NewDate(year, month, day string) (PublicationDate, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y <= 0 {
		return PublicationDate{}, false
	}
	d := PublicationDate{Year: y, Month: 1, Day: 1}
	if m, err := strconv.Atoi(strings.TrimSpace(month)); err == nil && m >= 1 && m <= 12 {
		d.Month = m
	}
	if dd, err := strconv.Atoi(strings.TrimSpace(day)); err == nil && dd >= 1 && dd <= 31 {
		d.Day = dd
	}
	return d, true
}

// ParseDate parses YYYY, YYYY-MM or YYYY-MM-DD.
func ParseDate(s string) (PublicationDate, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) == 0 || len(parts) > 3 {
		return PublicationDate{}, false
	}
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return NewDate(parts[0], parts[1], parts[2])
}

// IsJanFirst reports whether the date falls on January 1st, the pattern
// left behind when a source only knows the year.
func (d PublicationDate) IsJanFirst() bool {
	return d.Month == 1 && d.Day == 1
}

// String formats the date as YYYY-MM-DD.
func (d PublicationDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
