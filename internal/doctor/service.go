package doctor

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

type CreateRequest struct {
	Name            string
	Specialization  string
	ConsultationFee int64
	Availability    []schedule.Window
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	SetAvailability(ctx context.Context, id string, windows []schedule.Window) (*Doctor, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, l *zap.Logger) Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &service{repo: repo, logger: l.Named("doctor")}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Doctor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if req.ConsultationFee < 0 {
		return nil, ErrInvalidFee
	}
	if err := ValidateAvailability(req.Availability); err != nil {
		return nil, err
	}

	d := &Doctor{
		Name:            name,
		Specialization:  strings.TrimSpace(req.Specialization),
		ConsultationFee: req.ConsultationFee,
		Availability:    req.Availability,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("doctor created", zap.String("doctor_id", d.ID), zap.Int("windows", len(d.Availability)))
	return d, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) SetAvailability(ctx context.Context, id string, windows []schedule.Window) (*Doctor, error) {
	if err := ValidateAvailability(windows); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceAvailability(ctx, id, windows); err != nil {
		return nil, err
	}

	s.logger.Info("availability replaced", zap.String("doctor_id", id), zap.Int("windows", len(windows)))
	return s.repo.GetByID(ctx, id)
}

// ValidateAvailability rejects empty or inverted windows, unknown statuses and
// a second Available window on the same weekday.
func ValidateAvailability(windows []schedule.Window) error {
	seen := make(map[time.Weekday]bool)
	for _, w := range windows {
		if w.Status != schedule.StatusAvailable && w.Status != schedule.StatusUnavailable {
			return ErrInvalidStatus
		}
		if w.From >= w.To {
			return ErrInvalidWindow
		}
		if !w.Available() {
			continue
		}
		if seen[w.Day] {
			return ErrDuplicateWeekday
		}
		seen[w.Day] = true
	}
	return nil
}
