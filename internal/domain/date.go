package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Date layouts accepted on the chat surface. Tasks and events use different
// separators and both are kept as-is for compatibility with existing users.
const (
	TaskDateLayout  = "2006.01.02"
	EventDateLayout = "2006-01-02"

	storageDateLayout = "2006-01-02"
)

// Date is a calendar day without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses s strictly with layout.
func ParseDate(layout, s string) (Date, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Format formats the day with a time layout.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

func (d Date) String() string {
	return d.Format(storageDateLayout)
}

// Value stores the day as YYYY-MM-DD, which PostgreSQL DATE and SQLite TEXT both accept.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan accepts time.Time (lib/pq DATE) as well as textual values (SQLite).
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("domain: cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	s = strings.TrimSpace(s)
	if len(s) >= len(storageDateLayout) {
		if t, err := time.Parse(storageDateLayout, s[:len(storageDateLayout)]); err == nil {
			*d = DateOf(t)
			return nil
		}
	}
	return fmt.Errorf("domain: invalid date %q", s)
}
