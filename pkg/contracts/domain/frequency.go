package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Frequency is a sampling-interval alias in the style of pandas offset
// aliases: an optional integer multiple followed by a unit letter, e.g.
// "H" for hourly, "D" for daily, "15T" for a quarter hour.
type Frequency string

const (
	Secondly Frequency = "S"
	Minutely Frequency = "T"
	Hourly   Frequency = "H"
	Daily    Frequency = "D"
)

var frequencyUnits = map[string]time.Duration{
	"S":   time.Second,
	"T":   time.Minute,
	"min": time.Minute,
	"H":   time.Hour,
	"D":   24 * time.Hour,
}

// IsZero reports whether the frequency is unset.
func (f Frequency) IsZero() bool {
	return f == ""
}

// Duration returns the fixed interval between consecutive samples.
func (f Frequency) Duration() (time.Duration, error) {
	multiple, unit, err := splitFrequency(string(f))
	if err != nil {
		return 0, err
	}
	return time.Duration(multiple) * frequencyUnits[unit], nil
}

func splitFrequency(s string) (int, string, error) {
	if s == "" {
		return 0, "", fmt.Errorf("empty frequency alias")
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	unit := s[digits:]
	if _, ok := frequencyUnits[unit]; !ok {
		return 0, "", fmt.Errorf("unknown frequency alias %q", s)
	}
	multiple := 1
	if digits > 0 {
		var err error
		multiple, err = strconv.Atoi(s[:digits])
		if err != nil || multiple < 1 {
			return 0, "", fmt.Errorf("invalid multiple in frequency alias %q", s)
		}
	}
	return multiple, unit, nil
}

// ParseFrequency validates an alias string and returns it in canonical
// form ("min" is normalized to "T").
func ParseFrequency(s string) (Frequency, error) {
	multiple, unit, err := splitFrequency(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	if unit == "min" {
		unit = "T"
	}
	if multiple == 1 {
		return Frequency(unit), nil
	}
	return Frequency(fmt.Sprintf("%d%s", multiple, unit)), nil
}

// FrequencyFor returns the alias describing a fixed sampling step.
func FrequencyFor(step time.Duration) (Frequency, error) {
	if step <= 0 {
		return "", fmt.Errorf("sampling step must be positive, got %v", step)
	}
	units := []struct {
		d     time.Duration
		alias string
	}{
		{24 * time.Hour, "D"},
		{time.Hour, "H"},
		{time.Minute, "T"},
		{time.Second, "S"},
	}
	for _, u := range units {
		if step%u.d == 0 {
			if n := step / u.d; n == 1 {
				return Frequency(u.alias), nil
			} else {
				return Frequency(fmt.Sprintf("%d%s", n, u.alias)), nil
			}
		}
	}
	return "", fmt.Errorf("sampling step %v has no frequency alias", step)
}

// SampleCount returns the number of samples on the closed interval from
// start to stop at the given frequency.
func SampleCount(start, stop time.Time, f Frequency) (int, error) {
	step, err := f.Duration()
	if err != nil {
		return 0, err
	}
	span := stop.Sub(start)
	if span < 0 {
		return 0, fmt.Errorf("start %v is after stop %v", start, stop)
	}
	if span%step != 0 {
		return 0, fmt.Errorf("interval %v is not a multiple of the %s step", span, f)
	}
	return int(span/step) + 1, nil
}

// DateRange generates the time axis from start to stop (inclusive) at
// the given frequency.
func DateRange(start, stop time.Time, f Frequency) ([]time.Time, error) {
	n, err := SampleCount(start, stop, f)
	if err != nil {
		return nil, err
	}
	step, _ := f.Duration()
	index := make([]time.Time, n)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * step)
	}
	return index, nil
}
