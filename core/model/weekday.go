package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday is the day_of_week feature. Monday is 0 and Sunday is 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayAbbrev = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// dayNames is the single mapping table shared by every surface that turns a
// day name into a feature value.
var dayNames = map[string]Weekday{
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tues": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
	"sat": Saturday, "saturday": Saturday,
	"sun": Sunday, "sunday": Sunday,
}

// String returns the three letter abbreviation of the day.
func (d Weekday) String() string {
	if !d.Valid() {
		return "unknown"
	}
	return dayAbbrev[d]
}

// Valid reports whether d is in [Monday, Sunday].
func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

// IsWeekday reports whether d falls between Monday and Friday.
func (d Weekday) IsWeekday() bool { return d >= Monday && d < Saturday }

// Weekdays returns all days in feature order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ParseDay accepts a day number 0-6 or a case-insensitive abbreviated or
// full English day name.
func ParseDay(s string) (Weekday, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if d, ok := dayNames[in]; ok {
		return d, nil
	}
	if n, err := strconv.Atoi(in); err == nil {
		if d := Weekday(n); d.Valid() {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown day %q", ErrInvalidInput, s)
}
