package doctor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

type memoryRepository struct {
	mu      sync.RWMutex
	doctors map[string]*Doctor
	now     func() time.Time
}

// NewMemoryRepository returns a Repository kept in process memory.
// It backs local runs without DB_DSN and the HTTP tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		doctors: make(map[string]*Doctor),
		now:     time.Now,
	}
}

func (r *memoryRepository) Create(ctx context.Context, d *Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = uuid.NewString()
	d.CreatedAt = r.now().UTC()
	r.doctors[d.ID] = d.clone()
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.clone(), nil
}

func (r *memoryRepository) ReplaceAvailability(ctx context.Context, id string, windows []schedule.Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[id]
	if !ok {
		return ErrNotFound
	}
	d.Availability = append([]schedule.Window(nil), windows...)
	return nil
}
