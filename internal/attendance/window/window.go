// Package window computes whether "now" falls inside an event's check-in or
// check-out window. Pure functions, fully deterministic, no side effects.
package window

import (
	"time"

	"rollcall/internal/event"
)

// State is the window position of one instant relative to an event.
// Both windows may be active at once; callers break the tie (the engine
// prefers check-in when the member has no record yet, check-out otherwise).
type State struct {
	CheckInActive  bool
	CheckOutActive bool
	// Remaining whole minutes until the corresponding window closes; zero
	// when the window is inactive.
	CheckInRemaining  int
	CheckOutRemaining int
}

// At returns the window state of the event at the given instant. Window
// boundaries are inclusive at both ends: now == start and now == end both
// count as active.
func At(ev *event.Event, now time.Time) State {
	checkInStart := ev.Date.Add(ev.CheckInAnchor)
	checkOutStart := ev.Date.Add(ev.CheckOutAnchor)

	var s State
	s.CheckInActive, s.CheckInRemaining = span(checkInStart, ev.CheckInWindow, now)
	s.CheckOutActive, s.CheckOutRemaining = span(checkOutStart, ev.CheckOutWindow, now)
	return s
}

// Inactive reports whether neither window is active.
func (s State) Inactive() bool {
	return !s.CheckInActive && !s.CheckOutActive
}

func span(start time.Time, duration time.Duration, now time.Time) (active bool, remaining int) {
	end := start.Add(duration)
	if now.Before(start) || now.After(end) {
		return false, 0
	}
	return true, int(end.Sub(now).Seconds()) / 60
}
