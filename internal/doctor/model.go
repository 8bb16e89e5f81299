package doctor

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/clinic-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "doctor not found")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "doctor name is required")
	ErrInvalidFee       = apperror.New(http.StatusBadRequest, "consultation fee cannot be negative")
	ErrInvalidWindow    = apperror.New(http.StatusBadRequest, "availability window must start before it ends")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid availability status")
	ErrDuplicateWeekday = apperror.New(http.StatusBadRequest, "only one available window per weekday is allowed")
)

type Doctor struct {
	ID              string
	Name            string
	Specialization  string
	ConsultationFee int64
	Availability    []schedule.Window
	CreatedAt       time.Time
}

func (d *Doctor) clone() *Doctor {
	cp := *d
	cp.Availability = append([]schedule.Window(nil), d.Availability...)
	return &cp
}
