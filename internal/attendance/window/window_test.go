package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rollcall/internal/event"
	"rollcall/pkg/testutil"
)

// testEvent: 2025-01-10, check-in 08:00 for 30 min, check-out 17:00 for 30 min.
func testEvent() *event.Event {
	return &event.Event{
		Date:           time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		CheckInAnchor:  8 * time.Hour,
		CheckOutAnchor: 17 * time.Hour,
		CheckInWindow:  30 * time.Minute,
		CheckOutWindow: 30 * time.Minute,
	}
}

func at(hour, min, sec int) time.Time {
	return time.Date(2025, 1, 10, hour, min, sec, 0, time.UTC)
}

func TestBoundaryInclusivity(t *testing.T) {
	ev := testEvent()

	testutil.Given(t, "a 30 minute check-in window anchored at 08:00", func(t *testing.T) {
		testutil.Then(t, "the window start is active", func(t *testing.T) {
			s := At(ev, at(8, 0, 0))
			assert.True(t, s.CheckInActive)
			assert.Equal(t, 30, s.CheckInRemaining)
		})

		testutil.Then(t, "the window end is active", func(t *testing.T) {
			s := At(ev, at(8, 30, 0))
			assert.True(t, s.CheckInActive)
			assert.Equal(t, 0, s.CheckInRemaining)
		})

		testutil.Then(t, "one second past the end is inactive", func(t *testing.T) {
			s := At(ev, at(8, 30, 1))
			assert.False(t, s.CheckInActive)
			assert.Equal(t, 0, s.CheckInRemaining)
		})

		testutil.Then(t, "one second before the start is inactive", func(t *testing.T) {
			s := At(ev, at(7, 59, 59))
			assert.False(t, s.CheckInActive)
		})
	})
}

func TestRemainingMinutesFloor(t *testing.T) {
	ev := testEvent()

	// 08:10:30 leaves 19m30s; floor division reports 19.
	s := At(ev, at(8, 10, 30))
	assert.True(t, s.CheckInActive)
	assert.Equal(t, 19, s.CheckInRemaining)
}

func TestCheckOutWindow(t *testing.T) {
	ev := testEvent()

	s := At(ev, at(17, 10, 0))
	assert.False(t, s.CheckInActive)
	assert.True(t, s.CheckOutActive)
	assert.Equal(t, 20, s.CheckOutRemaining)
	assert.False(t, s.Inactive())
}

func TestNeitherWindowActive(t *testing.T) {
	ev := testEvent()

	for _, tc := range []time.Time{at(12, 0, 0), at(6, 0, 0), at(23, 0, 0)} {
		s := At(ev, tc)
		assert.True(t, s.Inactive(), tc.String())
		assert.Zero(t, s.CheckInRemaining)
		assert.Zero(t, s.CheckOutRemaining)
	}
}

func TestOverlappingWindows(t *testing.T) {
	// Anchors 90 minutes apart with two-hour windows: both active at 09:45.
	ev := testEvent()
	ev.CheckInAnchor = 8 * time.Hour
	ev.CheckOutAnchor = 9*time.Hour + 30*time.Minute
	ev.CheckInWindow = 2 * time.Hour
	ev.CheckOutWindow = 2 * time.Hour

	testutil.When(t, "both windows cover the instant", func(t *testing.T) {
		s := At(ev, at(9, 45, 0))
		assert.True(t, s.CheckInActive)
		assert.True(t, s.CheckOutActive)
	})
}
