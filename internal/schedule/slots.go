package schedule

import (
	"fmt"
	"strings"
	"time"
)

// SlotLength is the fixed length of a bookable slot.
const SlotLength = time.Hour

const labelLayout = "03:04 PM"

// Slot is a concrete one-hour interval derived from a window for a specific date.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Label formats the slot as "hh:mm AM - hh:mm PM".
func (s Slot) Label() string {
	return s.Start.Format(labelLayout) + " - " + s.End.Format(labelLayout)
}

// Labels returns the labels of slots in order.
func Labels(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Label()
	}
	return out
}

// FindSlot returns the slot whose label matches after normalization.
func FindSlot(slots []Slot, label string) (Slot, bool) {
	want := NormalizeLabel(label)
	for _, s := range slots {
		if NormalizeLabel(s.Label()) == want {
			return s, true
		}
	}
	return Slot{}, false
}

// SkipPolicy decides which hours of today's window are already past.
type SkipPolicy int

const (
	// SkipElapsed skips an hour once its end is at or before now.
	SkipElapsed SkipPolicy = iota
	// SkipStarted skips an hour once its start is before now.
	SkipStarted
)

// ParseSkipPolicy accepts "elapsed" or "started".
func ParseSkipPolicy(s string) (SkipPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "elapsed":
		return SkipElapsed, nil
	case "started":
		return SkipStarted, nil
	}
	return 0, fmt.Errorf("invalid slot skip policy %q", s)
}

func (p SkipPolicy) String() string {
	if p == SkipStarted {
		return "started"
	}
	return "elapsed"
}

// Generator turns availability windows into bookable slots.
type Generator struct {
	clock  Clock
	loc    *time.Location
	policy SkipPolicy
}

type Option func(*Generator)

// WithLocation sets the clinic time zone used to anchor windows. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

func WithSkipPolicy(p SkipPolicy) Option {
	return func(g *Generator) { g.policy = p }
}

func NewGenerator(clock Clock, opts ...Option) *Generator {
	g := &Generator{clock: clock, loc: time.UTC, policy: SkipElapsed}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Location() *time.Location { return g.loc }

// Now returns the current moment in the clinic time zone.
func (g *Generator) Now() time.Time {
	return g.clock.Now().In(g.loc)
}

// Today returns the current calendar date in the clinic time zone.
func (g *Generator) Today() Date {
	return DateOf(g.Now())
}

// Generate returns the chronological one-hour slots of w on date.
// On today's date, hours the skip policy considers past are dropped,
// advancing from the window start in whole hours. A trailing partial
// hour is never emitted.
func (g *Generator) Generate(w Window, date Date) []Slot {
	if w.From >= w.To {
		return nil
	}

	start := date.At(w.From, g.loc)
	end := date.At(w.To, g.loc)
	cursor := start

	now := g.Now()
	if DateOf(now) == date {
		for cursor.Before(end) && g.isPast(cursor, now) {
			cursor = cursor.Add(SlotLength)
		}
	}

	var slots []Slot
	for cursor.Before(end) {
		next := cursor.Add(SlotLength)
		if next.After(end) {
			break
		}
		slots = append(slots, Slot{Start: cursor, End: next})
		cursor = next
	}
	return slots
}

func (g *Generator) isPast(slotStart, now time.Time) bool {
	if g.policy == SkipStarted {
		return slotStart.Before(now)
	}
	// now >= slot end
	return !now.Before(slotStart.Add(SlotLength))
}
