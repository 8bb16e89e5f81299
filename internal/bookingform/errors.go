package bookingform

import (
	"errors"
	"fmt"

	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

var (
	ErrFetchFailure      = errors.New("failed to fetch booking data")
	ErrSubmissionFailure = errors.New("could not create appointment")
	ErrDateOutOfRange    = errors.New("date is outside the booking window")
	ErrDoctorNotLoaded   = errors.New("doctor details are not loaded")
	ErrSlotNotOffered    = errors.New("time slot is not offered on the selected date")
	ErrSubmitInProgress  = errors.New("appointment submission in progress")
	ErrRedirected        = errors.New("appointment already created")

	// ErrSuperseded is returned to a date selection that a newer one replaced.
	ErrSuperseded = errors.New("date selection superseded")
)

// FetchError reports a failed lookup. It matches both ErrFetchFailure and the cause.
type FetchError struct {
	What string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.What, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailure, e.Err}
}

// SubmissionError reports a rejected or failed create call.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("could not create appointment: %v", e.Err)
}

func (e *SubmissionError) Unwrap() []error {
	return []error{ErrSubmissionFailure, e.Err}
}

// UserMessage returns the text shown to the patient for err. Details stay in the logs.
func UserMessage(err error) string {
	var (
		fetch       *FetchError
		unavailable *schedule.UnavailableError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fetch):
		return fmt.Sprintf("Failed to load %s.", fetch.What)
	case errors.As(err, &unavailable):
		return fmt.Sprintf("Doctor is not available on %s", unavailable.Weekday)
	case errors.Is(err, schedule.ErrInvalidInput), errors.Is(err, ErrSlotNotOffered):
		return "Please select a valid date and time slot."
	case errors.Is(err, schedule.ErrSlotConflict):
		return "Selected slot already booked. Choose another."
	case errors.Is(err, ErrSubmissionFailure):
		return "Could not create appointment. Please try again."
	case errors.Is(err, ErrDateOutOfRange):
		return "Please choose a date within the booking window."
	case errors.Is(err, ErrDoctorNotLoaded):
		return "Doctor details are still loading."
	case errors.Is(err, ErrSubmitInProgress):
		return "Your appointment is being created."
	}
	return "Something went wrong. Please try again."
}
