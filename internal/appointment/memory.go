package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

type memoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Appointment
	order []string
	now   func() time.Time
}

// NewMemoryRepository returns a Repository kept in process memory. The slot
// uniqueness check and the insert happen under one lock.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		items: make(map[string]*Appointment),
		now:   time.Now,
	}
}

func (r *memoryRepository) Create(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.Holds() {
		label := schedule.NormalizeLabel(a.TimeSlot)
		for _, existing := range r.items {
			if existing.Holds() &&
				existing.DoctorID == a.DoctorID &&
				existing.Date == a.Date &&
				schedule.NormalizeLabel(existing.TimeSlot) == label {
				return ErrSlotConflict
			}
		}
	}

	a.ID = uuid.NewString()
	a.CreatedAt = r.now().UTC()
	cp := *a
	r.items[a.ID] = &cp
	r.order = append(r.order, a.ID)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Appointment
	for _, id := range r.order {
		a := r.items[id]
		if filter.DoctorID != "" && a.DoctorID != filter.DoctorID {
			continue
		}
		if filter.PatientID != "" && a.PatientID != filter.PatientID {
			continue
		}
		if filter.Date != nil && a.Date != *filter.Date {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
