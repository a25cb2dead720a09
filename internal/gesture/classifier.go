// Package gesture classifies touch lifecycle events into discrete
// horizontal swipe gestures.
package gesture

import (
	"time"

	"github.com/brenoperucchi/magic-mouse-gestures/internal/touch"
)

// Direction of a classified swipe, in sensor coordinates (X grows to
// the physical right).
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}

// Event is one classified swipe. Immutable after construction.
type Event struct {
	Direction Direction
	Distance  int           // |dx| from touch start to the qualifying sample
	Duration  time.Duration // elapsed from touch start to the qualifying sample
}

// Config holds the classification thresholds.
type Config struct {
	// SwipeThreshold is the minimum horizontal displacement, in sensor
	// position units. A displacement of exactly SwipeThreshold
	// qualifies.
	SwipeThreshold int

	// SwipeTimeMax is the longest a swipe may take. An elapsed time of
	// exactly SwipeTimeMax still qualifies.
	SwipeTimeMax time.Duration

	// AxisDominance requires |dx| >= AxisDominance*|dy| before a swipe
	// qualifies, so diagonal motion is not mistaken for navigation.
	// Zero disables the guard.
	AxisDominance int
}

// Per-touch classification phases: Idle -> Tracking -> {Qualified, Expired}.
type phase int

const (
	phaseIdle phase = iota
	phaseTracking
	phaseQualified
	phaseExpired
)

type track struct {
	phase     phase
	startX    int
	startY    int
	startTime time.Time
}

// Classifier runs one swipe state machine per touch ID. Concurrent
// touches are classified independently. Not safe for concurrent use.
type Classifier struct {
	cfg   Config
	slots [16]track
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Feed consumes one lifecycle event. It returns the classified swipe
// and true when the event completes a qualifying motion; at most one
// swipe is ever produced per touch lifecycle.
func (c *Classifier) Feed(ev touch.Event) (Event, bool) {
	s := &c.slots[ev.ID%len(c.slots)]

	switch ev.Kind {
	case touch.Began:
		s.phase = phaseTracking
		s.startX, s.startY, s.startTime = ev.X, ev.Y, ev.Time
		return Event{}, false

	case touch.Moved:
		if s.phase != phaseTracking {
			return Event{}, false
		}
		return c.evaluate(s, ev)

	case touch.Ended:
		// A lift is the last sample of the lifecycle; it may still
		// qualify before the slot goes idle.
		out, ok := Event{}, false
		if s.phase == phaseTracking {
			out, ok = c.evaluate(s, ev)
		}
		s.phase = phaseIdle
		return out, ok
	}

	return Event{}, false
}

// evaluate applies the distance/time thresholds to one sample.
// Qualification is checked before expiry, so a sample that reaches the
// threshold exactly at the time limit still classifies.
func (c *Classifier) evaluate(s *track, ev touch.Event) (Event, bool) {
	dx := ev.X - s.startX
	dy := ev.Y - s.startY
	dt := ev.Time.Sub(s.startTime)

	if abs(dx) >= c.cfg.SwipeThreshold && dt <= c.cfg.SwipeTimeMax && c.horizontal(dx, dy) {
		s.phase = phaseQualified
		dir := Left
		if dx > 0 {
			dir = Right
		}
		return Event{Direction: dir, Distance: abs(dx), Duration: dt}, true
	}

	if dt > c.cfg.SwipeTimeMax {
		s.phase = phaseExpired
	}
	return Event{}, false
}

func (c *Classifier) horizontal(dx, dy int) bool {
	if c.cfg.AxisDominance <= 0 {
		return true
	}
	return abs(dx) >= c.cfg.AxisDominance*abs(dy)
}

// Reset drops all per-touch state. Called alongside the tracker reset
// on device reconnect.
func (c *Classifier) Reset() {
	c.slots = [16]track{}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
