package appointment

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/nekogravitycat/clinic-booking-backend/internal/doctor"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

// DefaultHorizonDays is how far ahead patients may book.
const DefaultHorizonDays = 30

// DoctorReader is the part of doctor.Service appointments depend on.
type DoctorReader interface {
	GetByID(ctx context.Context, id string) (*doctor.Doctor, error)
}

// DaySlots is the booking picture for one doctor on one date.
type DaySlots struct {
	Doctor *doctor.Doctor
	Date   schedule.Date
	Window schedule.Window
	// Slots are the offered slots that are still free, in time order.
	Slots  []schedule.Slot
	Booked schedule.BookedSet
}

type CreateRequest struct {
	DoctorID  string
	PatientID string
	Date      schedule.Date
	TimeSlot  string
}

type Service interface {
	AvailableSlots(ctx context.Context, doctorID string, date schedule.Date) (*DaySlots, error)
	Create(ctx context.Context, req CreateRequest) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string, date *schedule.Date) ([]*Appointment, error)
}

type service struct {
	repo    Repository
	doctors DoctorReader
	gen     *schedule.Generator
	horizon int
	logger  *zap.Logger
}

func NewService(repo Repository, doctors DoctorReader, gen *schedule.Generator, horizonDays int, l *zap.Logger) Service {
	if l == nil {
		l = zap.NewNop()
	}
	if horizonDays < 0 {
		horizonDays = DefaultHorizonDays
	}
	return &service{
		repo:    repo,
		doctors: doctors,
		gen:     gen,
		horizon: horizonDays,
		logger:  l.Named("appointment"),
	}
}

// inHorizon reports whether date lies in [today, today+horizon].
func (s *service) inHorizon(date schedule.Date) bool {
	today := s.gen.Today()
	return !date.Before(today) && !date.After(today.AddDays(s.horizon))
}

func (s *service) loadDoctor(ctx context.Context, id string) (*doctor.Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, ErrDoctorLookup.WithCause(err)
	}
	return d, nil
}

func (s *service) bookedOn(ctx context.Context, doctorID string, date schedule.Date) (schedule.BookedSet, error) {
	apps, err := s.repo.List(ctx, Filter{DoctorID: doctorID, Date: &date})
	if err != nil {
		return schedule.BookedSet{}, err
	}
	return schedule.NewBookedSet(date, BookedSlots(apps)), nil
}

func (s *service) AvailableSlots(ctx context.Context, doctorID string, date schedule.Date) (*DaySlots, error) {
	if date.IsZero() {
		return nil, ErrInvalidInput
	}
	if !s.inHorizon(date) {
		return nil, ErrDateOutOfRange
	}

	d, err := s.loadDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if matches := schedule.MatchingWindows(d.Availability, date.Weekday()); len(matches) > 1 {
		s.logger.Warn("multiple available windows for weekday, using the first",
			zap.String("doctor_id", d.ID),
			zap.Stringer("weekday", date.Weekday()),
			zap.Int("windows", len(matches)),
		)
	}

	w, err := schedule.Resolve(d.Availability, date)
	if err != nil {
		return nil, noAvailability(err)
	}

	slots := s.gen.Generate(w, date)

	booked, err := s.bookedOn(ctx, d.ID, date)
	if err != nil {
		return nil, err
	}

	return &DaySlots{
		Doctor: d,
		Date:   date,
		Window: w,
		Slots:  booked.Filter(slots),
		Booked: booked,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	if req.PatientID == "" {
		return nil, ErrPatientRequired
	}
	if req.DoctorID == "" || req.Date.IsZero() || strings.TrimSpace(req.TimeSlot) == "" {
		return nil, ErrInvalidInput
	}
	if !s.inHorizon(req.Date) {
		return nil, ErrDateOutOfRange
	}

	d, err := s.loadDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookedOn(ctx, d.ID, req.Date)
	if err != nil {
		return nil, err
	}

	w, err := schedule.ValidateSelection(d.Availability, req.Date, req.TimeSlot, booked)
	if err != nil {
		var unavailable *schedule.UnavailableError
		switch {
		case errors.As(err, &unavailable):
			return nil, noAvailability(err)
		case errors.Is(err, schedule.ErrSlotConflict):
			return nil, ErrSlotConflict
		default:
			return nil, ErrInvalidInput
		}
	}

	slot, ok := schedule.FindSlot(s.gen.Generate(w, req.Date), req.TimeSlot)
	if !ok {
		return nil, ErrSlotNotOffered
	}

	a := &Appointment{
		DoctorID:      d.ID,
		PatientID:     req.PatientID,
		Date:          req.Date,
		TimeSlot:      slot.Label(),
		Status:        StatusBooked,
		PaymentStatus: PaymentUnpaid,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			s.logger.Info("slot taken concurrently",
				zap.String("doctor_id", d.ID),
				zap.Stringer("date", req.Date),
				zap.String("time_slot", a.TimeSlot),
			)
		}
		return nil, err
	}

	s.logger.Info("appointment booked",
		zap.String("appointment_id", a.ID),
		zap.String("doctor_id", a.DoctorID),
		zap.Stringer("date", a.Date),
		zap.String("time_slot", a.TimeSlot),
	)
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByDoctor(ctx context.Context, doctorID string, date *schedule.Date) ([]*Appointment, error) {
	if _, err := s.loadDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{DoctorID: doctorID, Date: date})
}
