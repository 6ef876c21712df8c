package edition

import (
	"fmt"
	"strconv"
	"time"
)

// ID identifies an edition by its publication month in the canonical
// "YYYY-MM" form. Lexicographic order equals calendar order.
type ID string

// ParseID validates s as a YYYY-MM edition id.
func ParseID(s string) (ID, error) {
	if len(s) != 7 || s[4] != '-' {
		return "", fmt.Errorf("edition id %q: want YYYY-MM", s)
	}
	for i, c := range s {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return "", fmt.Errorf("edition id %q: want YYYY-MM", s)
		}
	}
	month, _ := strconv.Atoi(s[5:])
	if month < 1 || month > 12 {
		return "", fmt.Errorf("edition id %q: month out of range", s)
	}
	return ID(s), nil
}

// IsValid reports whether id is in canonical form.
func (id ID) IsValid() bool {
	_, err := ParseID(string(id))
	return err == nil
}

// Year returns the year component, or 0 for a non-canonical id.
func (id ID) Year() int {
	if !id.IsValid() {
		return 0
	}
	y, _ := strconv.Atoi(string(id[:4]))
	return y
}

// Month returns the month component, or 0 for a non-canonical id.
func (id ID) Month() time.Month {
	if !id.IsValid() {
		return 0
	}
	m, _ := strconv.Atoi(string(id[5:]))
	return time.Month(m)
}

// Label formats the id for display, e.g. "November 2025". Non-canonical ids
// are returned unchanged.
func (id ID) Label() string {
	if !id.IsValid() {
		return string(id)
	}
	return fmt.Sprintf("%s %d", id.Month(), id.Year())
}

// IDFor returns the edition id for the month containing t.
func IDFor(t time.Time) ID {
	return ID(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}
