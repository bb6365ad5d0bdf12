package models

import "time"

// SessionNumber identifies one of the two daily halves of a defense day.
type SessionNumber int

const (
	SessionMorning   SessionNumber = 1
	SessionAfternoon SessionNumber = 2
)

const (
	// SlotDuration is the fixed length of every defense slot.
	SlotDuration = 60 * time.Minute
	// SlotsPerSession is the number of slots a session template offers.
	SlotsPerSession = 4
	// MaxTopicsPerDay is the ceiling across both sessions of one committee.
	MaxTopicsPerDay = 8
)

type slotClock struct {
	hour, minute int
}

// The slot grid is fixed: mornings start at 07:30, afternoons at 13:30,
// one slot every hour.
var sessionClocks = map[SessionNumber][]slotClock{
	SessionMorning:   {{7, 30}, {8, 30}, {9, 30}, {10, 30}},
	SessionAfternoon: {{13, 30}, {14, 30}, {15, 30}, {16, 30}},
}

// Valid reports whether n names a real session.
func (n SessionNumber) Valid() bool {
	_, ok := sessionClocks[n]
	return ok
}

// SlotTemplate returns the ordered slot start times of the session,
// anchored on the given defense date.
func SlotTemplate(n SessionNumber, defenseDate time.Time) []time.Time {
	clocks, ok := sessionClocks[n]
	if !ok {
		return nil
	}
	starts := make([]time.Time, 0, len(clocks))
	for _, c := range clocks {
		starts = append(starts, time.Date(
			defenseDate.Year(), defenseDate.Month(), defenseDate.Day(),
			c.hour, c.minute, 0, 0, defenseDate.Location(),
		))
	}
	return starts
}

// FreeSlots returns the template starts not present in occupied, preserving
// template order so allocation stays deterministic.
func FreeSlots(template, occupied []time.Time) []time.Time {
	taken := make(map[int64]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t.Unix()] = struct{}{}
	}
	var free []time.Time
	for _, t := range template {
		if _, ok := taken[t.Unix()]; !ok {
			free = append(free, t)
		}
	}
	return free
}

// Session is one half of a committee's defense day together with whatever
// is currently scheduled into it.
type Session struct {
	Number      SessionNumber `json:"number"`
	Assignments []Assignment  `json:"assignments"`
}

// OccupiedStarts returns the start times currently taken in the session.
func (s *Session) OccupiedStarts() []time.Time {
	starts := make([]time.Time, 0, len(s.Assignments))
	for _, a := range s.Assignments {
		starts = append(starts, a.StartTime)
	}
	return starts
}

// FreeSlots returns the session's unoccupied slot starts for the date.
func (s *Session) FreeSlots(defenseDate time.Time) []time.Time {
	return FreeSlots(SlotTemplate(s.Number, defenseDate), s.OccupiedStarts())
}
