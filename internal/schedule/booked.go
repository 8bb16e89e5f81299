package schedule

import (
	"sort"
	"strings"
)

// NormalizeLabel trims whitespace and lowercases a slot label for comparison.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// BookedSlot is the date and slot label held by a non-cancelled appointment.
type BookedSlot struct {
	Date     Date
	TimeSlot string
}

// BookedSet holds the normalized labels already booked on one date.
type BookedSet struct {
	date   Date
	labels map[string]struct{}
}

// NewBookedSet keeps the entries of booked that fall on date.
func NewBookedSet(date Date, booked []BookedSlot) BookedSet {
	set := BookedSet{date: date, labels: make(map[string]struct{})}
	for _, b := range booked {
		if b.Date != date {
			continue
		}
		set.labels[NormalizeLabel(b.TimeSlot)] = struct{}{}
	}
	return set
}

func (b BookedSet) Date() Date { return b.date }

func (b BookedSet) Len() int { return len(b.labels) }

func (b BookedSet) Contains(label string) bool {
	_, ok := b.labels[NormalizeLabel(label)]
	return ok
}

// Filter drops booked slots, preserving order.
func (b BookedSet) Filter(slots []Slot) []Slot {
	var out []Slot
	for _, s := range slots {
		if b.Contains(s.Label()) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Labels returns the normalized booked labels, sorted.
func (b BookedSet) Labels() []string {
	out := make([]string, 0, len(b.labels))
	for l := range b.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
