package model

import (
	"fmt"
	"strconv"
	"strings"
)

// FeatureNames lists the model inputs in the order produced by
// FeatureVector.Values. Artifacts record it and refuse to load on mismatch.
var FeatureNames = []string{"hour", "day_of_week", "is_holiday"}

// FeatureVector is the encoded model input.
type FeatureVector struct {
	Hour      int     `json:"hour"`
	DayOfWeek Weekday `json:"day_of_week"`
	IsHoliday int     `json:"is_holiday"`
}

// Example pairs a feature vector with an observed traffic volume.
type Example struct {
	Features FeatureVector
	Volume   float64
}

// NewFeatureVector validates typed inputs and returns the encoded vector.
func NewFeatureVector(hour int, day Weekday, holiday bool) (FeatureVector, error) {
	if hour < 0 || hour > 23 {
		return FeatureVector{}, fmt.Errorf("%w: hour %d out of range 0-23", ErrInvalidInput, hour)
	}
	if !day.Valid() {
		return FeatureVector{}, fmt.Errorf("%w: day %d out of range 0-6", ErrInvalidInput, int(day))
	}
	fv := FeatureVector{Hour: hour, DayOfWeek: day}
	if holiday {
		fv.IsHoliday = 1
	}
	return fv, nil
}

// Encode converts raw user input into a feature vector.
func Encode(hour, day, holiday string) (FeatureVector, error) {
	h, err := ParseHour(hour)
	if err != nil {
		return FeatureVector{}, err
	}
	d, err := ParseDay(day)
	if err != nil {
		return FeatureVector{}, err
	}
	hol, err := ParseHoliday(holiday)
	if err != nil {
		return FeatureVector{}, err
	}
	return NewFeatureVector(h, d, hol)
}

// Values returns the vector as model input: hour, day_of_week, is_holiday.
func (f FeatureVector) Values() []float64 {
	return []float64{float64(f.Hour), float64(f.DayOfWeek), float64(f.IsHoliday)}
}

// Holiday reports whether the holiday flag is set.
func (f FeatureVector) Holiday() bool { return f.IsHoliday == 1 }

// ParseHour parses an integer hour in [0,23].
func ParseHour(s string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: hour %q must be an integer 0-23", ErrInvalidInput, s)
	}
	return h, nil
}

// ParseHoliday accepts 1/0, y/n, yes/no and true/false in any case.
func ParseHoliday(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "y", "yes", "true":
		return true, nil
	case "0", "n", "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: holiday flag %q", ErrInvalidInput, s)
}
