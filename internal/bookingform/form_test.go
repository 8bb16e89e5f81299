package bookingform

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/clinic-booking-backend/internal/appointment"
	"github.com/nekogravitycat/clinic-booking-backend/internal/doctor"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

// 2026-02-09 is a Monday.
var (
	monday    = schedule.NewDate(2026, time.February, 9)
	tuesday   = schedule.NewDate(2026, time.February, 10)
	wednesday = schedule.NewDate(2026, time.February, 11)
)

type fakeAPI struct {
	mu        sync.Mutex
	doctor    *doctor.Doctor
	doctorErr error
	booked    []*appointment.Appointment
	listErr   error
	createErr error
	created   []*appointment.Appointment

	// listHook runs before ListBookedAppointments returns.
	listHook func()
}

func (f *fakeAPI) GetDoctor(ctx context.Context, id string) (*doctor.Doctor, error) {
	if f.doctorErr != nil {
		return nil, f.doctorErr
	}
	return f.doctor, nil
}

func (f *fakeAPI) ListBookedAppointments(ctx context.Context, doctorID string) ([]*appointment.Appointment, error) {
	if f.listHook != nil {
		f.listHook()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.booked, nil
}

func (f *fakeAPI) CreateAppointment(ctx context.Context, a *appointment.Appointment) (*appointment.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, a)
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *a
	cp.ID = "appt-1"
	return &cp, nil
}

func (f *fakeAPI) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func newAPI() *fakeAPI {
	return &fakeAPI{
		doctor: &doctor.Doctor{
			ID:              "doc-1",
			Name:            "Dr. Rao",
			ConsultationFee: 500,
			Availability: []schedule.Window{
				{Day: time.Monday, From: schedule.MustWallClock("09:00"), To: schedule.MustWallClock("12:00"), Status: schedule.StatusAvailable},
				{Day: time.Tuesday, From: schedule.MustWallClock("14:00"), To: schedule.MustWallClock("17:00"), Status: schedule.StatusAvailable},
			},
		},
		booked: []*appointment.Appointment{
			{DoctorID: "doc-1", Date: tuesday, TimeSlot: "03:00 pm - 04:00 pm ", Status: appointment.StatusBooked},
			{DoctorID: "doc-1", Date: tuesday, TimeSlot: "04:00 PM - 05:00 PM", Status: appointment.StatusCancelled},
			{DoctorID: "doc-1", Date: monday, TimeSlot: "02:00 PM - 03:00 PM", Status: appointment.StatusBooked},
		},
	}
}

func newForm(t *testing.T, api API) *Form {
	t.Helper()
	gen := schedule.NewGenerator(schedule.FixedClock(time.Date(2026, time.February, 9, 10, 30, 0, 0, time.UTC)))
	return New(api, gen, "patient-1")
}

func loadedForm(t *testing.T, api *fakeAPI) *Form {
	t.Helper()
	f := newForm(t, api)
	require.NoError(t, f.Load(context.Background(), "doc-1"))
	return f
}

func TestForm_Load(t *testing.T) {
	api := newAPI()
	api.doctorErr = errors.New("503 service unavailable")
	f := newForm(t, api)

	err := f.Load(context.Background(), "doc-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailure)
	assert.Equal(t, "Failed to load doctor details.", UserMessage(err))
	assert.Nil(t, f.Doctor())

	api.doctorErr = nil
	require.NoError(t, f.Load(context.Background(), "doc-1"))
	assert.Equal(t, "Dr. Rao", f.Doctor().Name)
	assert.EqualValues(t, 500, f.Doctor().ConsultationFee)
}

func TestForm_SelectDate(t *testing.T) {
	ctx := context.Background()

	t.Run("Filters booked slots on the date only", func(t *testing.T) {
		f := loadedForm(t, newAPI())
		slots, err := f.SelectDate(ctx, tuesday)
		require.NoError(t, err)
		assert.Equal(t, []string{"02:00 PM - 03:00 PM", "04:00 PM - 05:00 PM"}, schedule.Labels(slots))
	})

	t.Run("Today skips ended hours", func(t *testing.T) {
		f := loadedForm(t, newAPI())
		slots, err := f.SelectDate(ctx, monday)
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00 AM - 11:00 AM", "11:00 AM - 12:00 PM"}, schedule.Labels(slots))
	})

	t.Run("Unavailable weekday clears slots", func(t *testing.T) {
		f := loadedForm(t, newAPI())
		_, err := f.SelectDate(ctx, tuesday)
		require.NoError(t, err)

		slots, err := f.SelectDate(ctx, wednesday)
		assert.Empty(t, slots)
		assert.ErrorIs(t, err, schedule.ErrNoAvailability)
		assert.Equal(t, "Doctor is not available on Wednesday", UserMessage(err))
		assert.Empty(t, f.Snapshot().Slots)
	})

	t.Run("Bounds", func(t *testing.T) {
		f := loadedForm(t, newAPI())
		first, last := f.Bounds()
		assert.Equal(t, monday, first)
		assert.Equal(t, monday.AddDays(30), last)

		_, err := f.SelectDate(ctx, monday.AddDays(-1))
		assert.ErrorIs(t, err, ErrDateOutOfRange)
		_, err = f.SelectDate(ctx, monday.AddDays(31))
		assert.ErrorIs(t, err, ErrDateOutOfRange)
	})

	t.Run("Booked list failure", func(t *testing.T) {
		api := newAPI()
		api.listErr = errors.New("timeout")
		f := loadedForm(t, api)

		_, err := f.SelectDate(ctx, tuesday)
		assert.ErrorIs(t, err, ErrFetchFailure)
		assert.Equal(t, "Failed to load available time slots.", UserMessage(err))
	})

	t.Run("Before load", func(t *testing.T) {
		f := newForm(t, newAPI())
		_, err := f.SelectDate(ctx, tuesday)
		assert.ErrorIs(t, err, ErrDoctorNotLoaded)
	})

	t.Run("Changing the date clears the slot", func(t *testing.T) {
		f := loadedForm(t, newAPI())
		_, err := f.SelectDate(ctx, tuesday)
		require.NoError(t, err)
		require.NoError(t, f.SelectSlot("02:00 PM - 03:00 PM"))
		assert.True(t, f.CanSubmit())

		_, err = f.SelectDate(ctx, monday)
		require.NoError(t, err)
		assert.Empty(t, f.Snapshot().TimeSlot)
		assert.False(t, f.CanSubmit())
	})
}

func TestForm_NewerDateSelectionWins(t *testing.T) {
	ctx := context.Background()
	api := newAPI()
	f := loadedForm(t, api)

	// While the Tuesday lookup is in flight, the patient picks Monday.
	fired := false
	api.listHook = func() {
		if fired {
			return
		}
		fired = true
		_, err := f.SelectDate(ctx, monday)
		require.NoError(t, err)
	}

	_, err := f.SelectDate(ctx, tuesday)
	assert.ErrorIs(t, err, ErrSuperseded)

	snap := f.Snapshot()
	assert.Equal(t, monday, snap.Date)
	assert.Equal(t, []string{"10:00 AM - 11:00 AM", "11:00 AM - 12:00 PM"}, schedule.Labels(snap.Slots))
	assert.NoError(t, snap.Err)
}

func TestForm_SelectSlot(t *testing.T) {
	f := loadedForm(t, newAPI())
	_, err := f.SelectDate(context.Background(), tuesday)
	require.NoError(t, err)

	assert.ErrorIs(t, f.SelectSlot("03:00 PM - 04:00 PM"), ErrSlotNotOffered)
	assert.ErrorIs(t, f.SelectSlot("09:00 AM - 10:00 AM"), ErrSlotNotOffered)

	require.NoError(t, f.SelectSlot(" 02:00 pm - 03:00 pm"))
	assert.Equal(t, "02:00 PM - 03:00 PM", f.Snapshot().TimeSlot)
}

func TestForm_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success redirects to payment", func(t *testing.T) {
		api := newAPI()
		f := loadedForm(t, api)
		_, err := f.SelectDate(ctx, tuesday)
		require.NoError(t, err)
		require.NoError(t, f.SelectSlot("02:00 PM - 03:00 PM"))

		r, err := f.Submit(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/payment/appt-1?doctorId=doc-1", r.Path())
		assert.Equal(t, StateRedirecting, f.Snapshot().State)
		assert.False(t, f.CanSubmit())

		require.Equal(t, 1, api.createCalls())
		sent := api.created[0]
		assert.Equal(t, "doc-1", sent.DoctorID)
		assert.Equal(t, "patient-1", sent.PatientID)
		assert.Equal(t, tuesday, sent.Date)
		assert.Equal(t, appointment.StatusBooked, sent.Status)
		assert.Equal(t, appointment.PaymentUnpaid, sent.PaymentStatus)

		_, err = f.Submit(ctx)
		assert.ErrorIs(t, err, ErrRedirected)
		_, err = f.SelectDate(ctx, tuesday)
		assert.ErrorIs(t, err, ErrRedirected)
	})

	t.Run("Missing selection makes no call", func(t *testing.T) {
		api := newAPI()
		f := loadedForm(t, api)

		_, err := f.Submit(ctx)
		assert.ErrorIs(t, err, schedule.ErrInvalidInput)
		assert.Equal(t, "Please select a valid date and time slot.", UserMessage(err))
		assert.Equal(t, StateIdle, f.Snapshot().State)
		assert.Zero(t, api.createCalls())
	})

	t.Run("API failure keeps the selection", func(t *testing.T) {
		api := newAPI()
		api.createErr = errors.New("409 conflict")
		f := loadedForm(t, api)
		_, err := f.SelectDate(ctx, tuesday)
		require.NoError(t, err)
		require.NoError(t, f.SelectSlot("02:00 PM - 03:00 PM"))

		_, err = f.Submit(ctx)
		require.ErrorIs(t, err, ErrSubmissionFailure)
		assert.Equal(t, "Could not create appointment. Please try again.", UserMessage(err))

		snap := f.Snapshot()
		assert.Equal(t, StateIdle, snap.State)
		assert.Equal(t, tuesday, snap.Date)
		assert.Equal(t, "02:00 PM - 03:00 PM", snap.TimeSlot)
		assert.True(t, f.CanSubmit())

		api.createErr = nil
		r, err := f.Submit(ctx)
		require.NoError(t, err)
		assert.Equal(t, "appt-1", r.AppointmentID)
		assert.Equal(t, 2, api.createCalls())
	})
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: schedule.ErrSlotConflict, want: "Selected slot already booked. Choose another."},
		{err: &schedule.UnavailableError{Weekday: time.Sunday}, want: "Doctor is not available on Sunday"},
		{err: ErrDateOutOfRange, want: "Please choose a date within the booking window."},
		{err: errors.New("boom"), want: "Something went wrong. Please try again."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}
