package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput   = errors.New("please select a valid date and time slot")
	ErrNoAvailability = errors.New("doctor is not available")
	ErrSlotConflict   = errors.New("selected slot already booked")
)

// UnavailableError reports that no Available window matches a weekday.
type UnavailableError struct {
	Weekday time.Weekday
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("doctor is not available on %s", e.Weekday)
}

func (e *UnavailableError) Unwrap() error {
	return ErrNoAvailability
}

// ValidateSelection checks a (date, slot) choice before an appointment
// request is built. Checks run in order and stop at the first failure:
// input presence, weekday availability, then the booked set.
func ValidateSelection(windows []Window, date Date, timeSlot string, booked BookedSet) (Window, error) {
	if date.IsZero() || strings.TrimSpace(timeSlot) == "" {
		return Window{}, ErrInvalidInput
	}

	w, err := Resolve(windows, date)
	if err != nil {
		return Window{}, err
	}

	if booked.Contains(timeSlot) {
		return Window{}, ErrSlotConflict
	}
	return w, nil
}
