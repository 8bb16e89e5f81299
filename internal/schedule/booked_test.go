package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookedSet_Filter(t *testing.T) {
	monday := NewDate(2026, time.February, 9)
	g := NewGenerator(FixedClock(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	candidates := g.Generate(window(time.Monday, "09:00", "13:00"), monday)

	booked := []BookedSlot{
		{Date: monday, TimeSlot: "  09:00 am - 10:00 am "},
		{Date: monday, TimeSlot: "11:00 AM - 12:00 PM"},
		// Other dates never affect this one.
		{Date: monday.AddDays(7), TimeSlot: "10:00 AM - 11:00 AM"},
		{Date: monday.AddDays(-1), TimeSlot: "12:00 PM - 01:00 PM"},
	}

	set := NewBookedSet(monday, booked)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"09:00 am - 10:00 am", "11:00 am - 12:00 pm"}, set.Labels())

	got := set.Filter(candidates)
	assert.Equal(t, []string{"10:00 AM - 11:00 AM", "12:00 PM - 01:00 PM"}, Labels(got))

	for _, s := range got {
		assert.False(t, set.Contains(s.Label()), "booked slot %q reappeared", s.Label())
	}
}

func TestBookedSet_ZeroValue(t *testing.T) {
	var set BookedSet
	assert.False(t, set.Contains("09:00 AM - 10:00 AM"))
	assert.Empty(t, set.Filter(nil))
}

func TestValidateSelection(t *testing.T) {
	monday := NewDate(2026, time.February, 9)
	windows := []Window{window(time.Monday, "09:00", "12:00")}
	booked := NewBookedSet(monday, []BookedSlot{{Date: monday, TimeSlot: "09:00 AM - 10:00 AM"}})

	tests := []struct {
		name     string
		date     Date
		slot     string
		wantErr  error
		wantDay  time.Weekday
		checkDay bool
	}{
		{name: "Missing date", slot: "10:00 AM - 11:00 AM", wantErr: ErrInvalidInput},
		{name: "Missing slot", date: monday, slot: "   ", wantErr: ErrInvalidInput},
		{name: "Doctor unavailable", date: monday.AddDays(1), slot: "10:00 AM - 11:00 AM", wantErr: ErrNoAvailability, wantDay: time.Tuesday, checkDay: true},
		{name: "Already booked any case", date: monday, slot: " 09:00 am - 10:00 AM", wantErr: ErrSlotConflict},
		{name: "Valid", date: monday, slot: "10:00 AM - 11:00 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ValidateSelection(windows, tt.date, tt.slot, booked)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, time.Monday, w.Day)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.checkDay {
				var ue *UnavailableError
				require.True(t, errors.As(err, &ue))
				assert.Equal(t, tt.wantDay, ue.Weekday)
			}
		})
	}
}
