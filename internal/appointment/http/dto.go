package http

import (
	"time"

	"github.com/nekogravitycat/clinic-booking-backend/internal/appointment"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

type CreateAppointmentBody struct {
	DoctorID string        `json:"doctor_id" binding:"required,uuid"`
	Date     schedule.Date `json:"date"`
	TimeSlot string        `json:"time_slot"`
}

type SlotResponse struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type DaySlotsResponse struct {
	DoctorID string         `json:"doctor_id"`
	Date     schedule.Date  `json:"date"`
	Weekday  string         `json:"weekday"`
	From     string         `json:"from"`
	To       string         `json:"to"`
	Slots    []SlotResponse `json:"slots"`
	Booked   []string       `json:"booked"`
}

func NewDaySlotsResponse(d *appointment.DaySlots) DaySlotsResponse {
	slots := make([]SlotResponse, len(d.Slots))
	for i, s := range d.Slots {
		slots[i] = SlotResponse{Label: s.Label(), Start: s.Start, End: s.End}
	}
	return DaySlotsResponse{
		DoctorID: d.Doctor.ID,
		Date:     d.Date,
		Weekday:  d.Date.Weekday().String(),
		From:     d.Window.From.String(),
		To:       d.Window.To.String(),
		Slots:    slots,
		Booked:   d.Booked.Labels(),
	}
}

type AppointmentResponse struct {
	ID            string        `json:"id"`
	DoctorID      string        `json:"doctor_id"`
	PatientID     string        `json:"patient_id,omitempty"`
	Date          schedule.Date `json:"date"`
	TimeSlot      string        `json:"time_slot"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

func NewAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		Date:          a.Date,
		TimeSlot:      a.TimeSlot,
		Status:        string(a.Status),
		PaymentStatus: string(a.PaymentStatus),
		CreatedAt:     a.CreatedAt,
	}
}

// NewBookedResponse hides the patient from other patients viewing a doctor's calendar.
func NewBookedResponse(a *appointment.Appointment) AppointmentResponse {
	resp := NewAppointmentResponse(a)
	resp.PatientID = ""
	return resp
}

func (r AppointmentResponse) ToAppointment() *appointment.Appointment {
	return &appointment.Appointment{
		ID:            r.ID,
		DoctorID:      r.DoctorID,
		PatientID:     r.PatientID,
		Date:          r.Date,
		TimeSlot:      r.TimeSlot,
		Status:        appointment.Status(r.Status),
		PaymentStatus: appointment.PaymentStatus(r.PaymentStatus),
		CreatedAt:     r.CreatedAt,
	}
}

type CreatedAppointmentResponse struct {
	AppointmentResponse
	PaymentURL string `json:"payment_url"`
}

type ListAppointmentsResponse struct {
	Items []AppointmentResponse `json:"items"`
}
