package http

import (
	"fmt"
	"time"

	"github.com/nekogravitycat/clinic-booking-backend/internal/doctor"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

// WindowBody is one weekly window as sent by clients, e.g.
// {"day": "Monday", "from": "09:00", "to": "12:00", "status": "Available"}.
type WindowBody struct {
	Day    string `json:"day" binding:"required"`
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Status string `json:"status" binding:"required"`
}

func (b WindowBody) ToWindow() (schedule.Window, error) {
	day, err := schedule.ParseWeekday(b.Day)
	if err != nil {
		return schedule.Window{}, err
	}
	from, err := schedule.ParseWallClock(b.From)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("from: %w", err)
	}
	to, err := schedule.ParseWallClock(b.To)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("to: %w", err)
	}
	status, err := schedule.ParseStatus(b.Status)
	if err != nil {
		return schedule.Window{}, err
	}
	return schedule.Window{Day: day, From: from, To: to, Status: status}, nil
}

func toWindows(bodies []WindowBody) ([]schedule.Window, error) {
	windows := make([]schedule.Window, 0, len(bodies))
	for i, b := range bodies {
		w, err := b.ToWindow()
		if err != nil {
			return nil, fmt.Errorf("availability[%d]: %w", i, err)
		}
		windows = append(windows, w)
	}
	return windows, nil
}

type CreateDoctorBody struct {
	Name            string       `json:"name" binding:"required"`
	Specialization  string       `json:"specialization"`
	ConsultationFee int64        `json:"consultation_fee" binding:"min=0"`
	Availability    []WindowBody `json:"availability" binding:"dive"`
}

type SetAvailabilityBody struct {
	Availability []WindowBody `json:"availability" binding:"dive"`
}

type WindowResponse struct {
	Day    string `json:"day"`
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
}

func NewWindowResponse(w schedule.Window) WindowResponse {
	return WindowResponse{
		Day:    w.Day.String(),
		From:   w.From.String(),
		To:     w.To.String(),
		Status: string(w.Status),
	}
}

type DoctorResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Specialization  string           `json:"specialization"`
	ConsultationFee int64            `json:"consultation_fee"`
	Availability    []WindowResponse `json:"availability"`
	CreatedAt       time.Time        `json:"created_at"`
}

func NewDoctorResponse(d *doctor.Doctor) DoctorResponse {
	windows := make([]WindowResponse, len(d.Availability))
	for i, w := range d.Availability {
		windows[i] = NewWindowResponse(w)
	}
	return DoctorResponse{
		ID:              d.ID,
		Name:            d.Name,
		Specialization:  d.Specialization,
		ConsultationFee: d.ConsultationFee,
		Availability:    windows,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDoctor converts a decoded response back into the domain model.
func (r DoctorResponse) ToDoctor() (*doctor.Doctor, error) {
	windows := make([]WindowBody, len(r.Availability))
	for i, w := range r.Availability {
		windows[i] = WindowBody(w)
	}
	availability, err := toWindows(windows)
	if err != nil {
		return nil, err
	}
	return &doctor.Doctor{
		ID:              r.ID,
		Name:            r.Name,
		Specialization:  r.Specialization,
		ConsultationFee: r.ConsultationFee,
		Availability:    availability,
		CreatedAt:       r.CreatedAt,
	}, nil
}
