package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{in: "Monday", want: time.Monday},
		{in: "monday", want: time.Monday},
		{in: " SATURDAY ", want: time.Saturday},
		{in: "sun", want: time.Sunday},
		{in: "Wed", want: time.Wednesday},
		{in: "mo", wantErr: true},
		{in: "Funday", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveWindow(t *testing.T) {
	monday := NewDate(2026, time.February, 9)
	windows := []Window{
		{Day: time.Monday, From: MustWallClock("08:00"), To: MustWallClock("09:00"), Status: StatusUnavailable},
		{Day: time.Monday, From: MustWallClock("09:00"), To: MustWallClock("12:00"), Status: StatusAvailable},
		{Day: time.Monday, From: MustWallClock("14:00"), To: MustWallClock("16:00"), Status: StatusAvailable},
		{Day: time.Wednesday, From: MustWallClock("10:00"), To: MustWallClock("11:00"), Status: StatusAvailable},
	}

	t.Run("First available match wins", func(t *testing.T) {
		w, ok := ResolveWindow(windows, monday)
		require.True(t, ok)
		assert.Equal(t, MustWallClock("09:00"), w.From)
		assert.Len(t, MatchingWindows(windows, time.Monday), 2)
	})

	t.Run("No window for weekday", func(t *testing.T) {
		_, ok := ResolveWindow(windows, monday.AddDays(1))
		assert.False(t, ok)

		_, err := Resolve(windows, monday.AddDays(1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoAvailability))
		assert.Equal(t, "doctor is not available on Tuesday", err.Error())
	})

	t.Run("Unavailable only", func(t *testing.T) {
		only := []Window{{Day: time.Monday, From: MustWallClock("09:00"), To: MustWallClock("10:00"), Status: StatusUnavailable}}
		_, ok := ResolveWindow(only, monday)
		assert.False(t, ok)
	})
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("available")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, s)

	s, err = ParseStatus("UNAVAILABLE")
	require.NoError(t, err)
	assert.Equal(t, StatusUnavailable, s)

	_, err = ParseStatus("busy")
	assert.Error(t, err)
}
