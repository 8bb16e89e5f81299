package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Status marks whether a weekly window accepts appointments.
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusUnavailable Status = "Unavailable"
)

// ParseStatus matches a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return StatusAvailable, nil
	case "unavailable":
		return StatusUnavailable, nil
	}
	return "", fmt.Errorf("invalid availability status %q", s)
}

// Window is a recurring weekly interval during which a doctor accepts appointments.
type Window struct {
	Day    time.Weekday
	From   WallClock
	To     WallClock
	Status Status
}

func (w Window) Available() bool {
	return w.Status == StatusAvailable
}

// ParseWeekday accepts full English day names or their three-letter
// abbreviations, in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || (len(name) == 3 && strings.HasPrefix(full, name)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// MatchingWindows returns every Available window for the weekday, in input order.
func MatchingWindows(windows []Window, day time.Weekday) []Window {
	var out []Window
	for _, w := range windows {
		if w.Day == day && w.Available() {
			out = append(out, w)
		}
	}
	return out
}

// ResolveWindow returns the first Available window for the weekday of date.
func ResolveWindow(windows []Window, date Date) (Window, bool) {
	day := date.Weekday()
	for _, w := range windows {
		if w.Day == day && w.Available() {
			return w, true
		}
	}
	return Window{}, false
}

// Resolve is ResolveWindow reporting a miss as *UnavailableError.
func Resolve(windows []Window, date Date) (Window, error) {
	w, ok := ResolveWindow(windows, date)
	if !ok {
		return Window{}, &UnavailableError{Weekday: date.Weekday()}
	}
	return w, nil
}
