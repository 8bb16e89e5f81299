package appointment

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nekogravitycat/clinic-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "appointment not found")
	ErrDoctorNotFound   = apperror.New(http.StatusNotFound, "doctor not found")
	ErrDoctorLookup     = apperror.New(http.StatusInternalServerError, "failed to load doctor details")
	ErrPatientRequired  = apperror.New(http.StatusUnauthorized, "patient identity required")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrDateOutOfRange   = apperror.New(http.StatusBadRequest, "date is outside the booking window")
	ErrSlotNotOffered   = apperror.New(http.StatusBadRequest, "selected time slot is not offered on this date")

	ErrInvalidInput = apperror.Wrap(schedule.ErrInvalidInput, http.StatusBadRequest, "please select a valid date and time slot")
	ErrSlotConflict = apperror.Wrap(schedule.ErrSlotConflict, http.StatusConflict, "selected slot already booked, choose another")
)

// noAvailability turns a failed weekday lookup into a 422 carrying the weekday.
func noAvailability(err error) error {
	return apperror.Wrap(err, http.StatusUnprocessableEntity, err.Error())
}

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type Appointment struct {
	ID            string
	DoctorID      string
	PatientID     string
	Date          schedule.Date
	TimeSlot      string
	Status        Status
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}

// Holds reports whether the appointment occupies its slot.
func (a *Appointment) Holds() bool {
	return a.Status != StatusCancelled
}

// PaymentPath is where the patient continues after booking.
func (a *Appointment) PaymentPath() string {
	return PaymentPath(a.ID, a.DoctorID)
}

func PaymentPath(appointmentID, doctorID string) string {
	return fmt.Sprintf("/payment/%s?doctorId=%s", url.PathEscape(appointmentID), url.QueryEscape(doctorID))
}

// BookedSlots lists the slots held by non-cancelled appointments.
func BookedSlots(apps []*Appointment) []schedule.BookedSlot {
	out := make([]schedule.BookedSlot, 0, len(apps))
	for _, a := range apps {
		if !a.Holds() {
			continue
		}
		out = append(out, schedule.BookedSlot{Date: a.Date, TimeSlot: a.TimeSlot})
	}
	return out
}

type Filter struct {
	DoctorID  string
	PatientID string
	Date      *schedule.Date
}
