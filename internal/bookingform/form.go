// Package bookingform drives the patient-facing appointment form: pick a
// date, pick a free hour, submit, then continue to payment.
package bookingform

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nekogravitycat/clinic-booking-backend/internal/appointment"
	"github.com/nekogravitycat/clinic-booking-backend/internal/doctor"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

// API is what the form needs from the booking backend.
type API interface {
	GetDoctor(ctx context.Context, id string) (*doctor.Doctor, error)
	ListBookedAppointments(ctx context.Context, doctorID string) ([]*appointment.Appointment, error)
	CreateAppointment(ctx context.Context, a *appointment.Appointment) (*appointment.Appointment, error)
}

type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateRedirecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateRedirecting:
		return "redirecting"
	}
	return "unknown"
}

// Redirect is where the patient goes once the appointment exists.
type Redirect struct {
	AppointmentID string
	DoctorID      string
}

func (r Redirect) Path() string {
	return appointment.PaymentPath(r.AppointmentID, r.DoctorID)
}

type Option func(*Form)

// WithHorizon sets how many days ahead of today may be selected.
func WithHorizon(days int) Option {
	return func(f *Form) { f.horizon = days }
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Form) { f.logger = l }
}

// Form holds one patient's booking session. It is safe for concurrent use;
// network calls run without holding the lock.
type Form struct {
	api       API
	gen       *schedule.Generator
	patientID string
	horizon   int
	logger    *zap.Logger

	mu         sync.Mutex
	doctor     *doctor.Doctor
	date       schedule.Date
	timeSlot   string
	slots      []schedule.Slot
	booked     schedule.BookedSet
	state      State
	err        error
	generation uint64
	redirect   *Redirect
}

func New(api API, gen *schedule.Generator, patientID string, opts ...Option) *Form {
	f := &Form{
		api:       api,
		gen:       gen,
		patientID: patientID,
		horizon:   appointment.DefaultHorizonDays,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.Named("bookingform")
	return f
}

// Load fetches the doctor. On failure the form stays usable and Load may be retried.
func (f *Form) Load(ctx context.Context, doctorID string) error {
	d, err := f.api.GetDoctor(ctx, doctorID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.logger.Error("failed to fetch doctor", zap.String("doctor_id", doctorID), zap.Error(err))
		f.err = &FetchError{What: "doctor details", Err: err}
		return f.err
	}
	f.doctor = d
	f.err = nil
	return nil
}

// Doctor returns the loaded doctor, or nil.
func (f *Form) Doctor() *doctor.Doctor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doctor
}

// Bounds returns the first and last selectable dates.
func (f *Form) Bounds() (schedule.Date, schedule.Date) {
	today := f.gen.Today()
	return today, today.AddDays(f.horizon)
}

// SelectDate picks a date, clears the chosen slot and computes the free
// slots for that date. When calls overlap, only the latest selection is
// kept; earlier ones return ErrSuperseded.
func (f *Form) SelectDate(ctx context.Context, date schedule.Date) ([]schedule.Slot, error) {
	f.mu.Lock()
	if err := f.editable(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.generation++
	gen := f.generation
	f.date = date
	f.timeSlot = ""
	f.slots = nil
	f.booked = schedule.BookedSet{}
	f.err = nil
	d := f.doctor
	f.mu.Unlock()

	if d == nil {
		return f.failDate(gen, ErrDoctorNotLoaded)
	}
	if first, last := f.Bounds(); date.Before(first) || date.After(last) {
		return f.failDate(gen, ErrDateOutOfRange)
	}

	w, err := schedule.Resolve(d.Availability, date)
	if err != nil {
		return f.failDate(gen, err)
	}
	slots := f.gen.Generate(w, date)

	apps, err := f.api.ListBookedAppointments(ctx, d.ID)
	if err != nil {
		f.logger.Error("failed to fetch booked appointments",
			zap.String("doctor_id", d.ID), zap.Stringer("date", date), zap.Error(err))
		return f.failDate(gen, &FetchError{What: "available time slots", Err: err})
	}
	booked := schedule.NewBookedSet(date, appointment.BookedSlots(apps))
	available := booked.Filter(slots)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		return nil, ErrSuperseded
	}
	f.slots = available
	f.booked = booked
	return append([]schedule.Slot(nil), available...), nil
}

func (f *Form) failDate(gen uint64, err error) ([]schedule.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		return nil, ErrSuperseded
	}
	f.slots = nil
	f.err = err
	return nil, err
}

// SelectSlot picks one of the slots offered for the selected date.
func (f *Form) SelectSlot(label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return err
	}
	slot, ok := schedule.FindSlot(f.slots, label)
	if !ok {
		return ErrSlotNotOffered
	}
	f.timeSlot = slot.Label()
	f.err = nil
	return nil
}

// editable requires f.mu.
func (f *Form) editable() error {
	switch f.state {
	case StateValidating, StateSubmitting:
		return ErrSubmitInProgress
	case StateRedirecting:
		return ErrRedirected
	}
	return nil
}

// CanSubmit reports whether the submit control should be enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == StateIdle && !f.date.IsZero() && f.timeSlot != ""
}

// Submit validates the selection and creates the appointment. Validation
// failures make no network call. A failed create keeps the selection so the
// patient can retry.
func (f *Form) Submit(ctx context.Context) (*Redirect, error) {
	f.mu.Lock()
	if err := f.editable(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.state = StateValidating
	f.err = nil

	var windows []schedule.Window
	if f.doctor != nil {
		windows = f.doctor.Availability
	}
	_, err := schedule.ValidateSelection(windows, f.date, f.timeSlot, f.booked)
	if err == nil && f.doctor == nil {
		err = ErrDoctorNotLoaded
	}
	if err != nil {
		f.state = StateIdle
		f.err = err
		f.mu.Unlock()
		return nil, err
	}

	req := &appointment.Appointment{
		DoctorID:      f.doctor.ID,
		PatientID:     f.patientID,
		Date:          f.date,
		TimeSlot:      f.timeSlot,
		Status:        appointment.StatusBooked,
		PaymentStatus: appointment.PaymentUnpaid,
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	created, err := f.api.CreateAppointment(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.logger.Error("failed to create appointment",
			zap.String("doctor_id", req.DoctorID),
			zap.Stringer("date", req.Date),
			zap.String("time_slot", req.TimeSlot),
			zap.Error(err),
		)
		f.state = StateIdle
		f.err = &SubmissionError{Err: err}
		return nil, f.err
	}

	doctorID := created.DoctorID
	if doctorID == "" {
		doctorID = req.DoctorID
	}
	f.state = StateRedirecting
	f.redirect = &Redirect{AppointmentID: created.ID, DoctorID: doctorID}
	f.logger.Info("appointment created", zap.String("appointment_id", created.ID))
	return f.redirect, nil
}

// Snapshot is a consistent read of the form for rendering.
type Snapshot struct {
	State    State
	Doctor   *doctor.Doctor
	Date     schedule.Date
	TimeSlot string
	Slots    []schedule.Slot
	Err      error
	Redirect *Redirect
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		State:    f.state,
		Doctor:   f.doctor,
		Date:     f.date,
		TimeSlot: f.timeSlot,
		Slots:    append([]schedule.Slot(nil), f.slots...),
		Err:      f.err,
		Redirect: f.redirect,
	}
}
