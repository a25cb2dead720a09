// Package touch tracks per-finger state across successive Magic Mouse
// frames and produces touch lifecycle events.
package touch

import (
	"time"

	"github.com/brenoperucchi/magic-mouse-gestures/internal/magicmouse"
)

// Kind discriminates lifecycle events.
type Kind int

const (
	Began Kind = iota
	Moved
	Ended
)

func (k Kind) String() string {
	switch k {
	case Began:
		return "began"
	case Moved:
		return "moved"
	case Ended:
		return "ended"
	}
	return "unknown"
}

// Event is one touch lifecycle transition. For a synthetic Ended
// produced by the staleness sweep, X/Y/Time are the last observed
// sample rather than the sweep time.
type Event struct {
	Kind Kind
	ID   int
	X    int
	Y    int
	Time time.Time
}

// Touch IDs are 4 bits on the wire, so the tracking table is a fixed
// 16-slot array rather than a map.
const maxIDs = 16

type slot struct {
	active   bool
	seen     bool // observed in the frame currently being processed
	lastX    int
	lastY    int
	lastSeen time.Time
}

// Tracker owns the per-ID state. It is not safe for concurrent use; the
// pipeline loop is its only caller.
type Tracker struct {
	staleAfter time.Duration
	slots      [maxIDs]slot
}

// NewTracker returns a tracker that synthesizes an Ended event for any
// finger absent from the stream for longer than staleAfter. Reports may
// silently drop a finger without an explicit lift, so the timeout keeps
// the table from leaking stale contacts.
func NewTracker(staleAfter time.Duration) *Tracker {
	return &Tracker{staleAfter: staleAfter}
}

// Update consumes one decoded frame and returns the lifecycle events it
// implies, in the order touches appear in the frame. The staleness
// sweep runs after the frame's own touches and emits synthetic Ended
// events for fingers that vanished without a lift report.
func (t *Tracker) Update(frame magicmouse.Frame, now time.Time) []Event {
	for i := range t.slots {
		t.slots[i].seen = false
	}

	var events []Event
	for _, tp := range frame.Touches {
		id := tp.ID % maxIDs
		s := &t.slots[id]
		s.seen = true

		switch tp.State {
		case magicmouse.TouchLifted:
			if !s.active {
				continue
			}
			events = append(events, Event{Kind: Ended, ID: id, X: tp.X, Y: tp.Y, Time: now})
			*s = slot{}

		default:
			// TouchStarting, or TouchActive for a finger whose
			// start report was dropped: either way this is first
			// contact if the slot is empty.
			if !s.active {
				s.active = true
				events = append(events, Event{Kind: Began, ID: id, X: tp.X, Y: tp.Y, Time: now})
			} else {
				events = append(events, Event{Kind: Moved, ID: id, X: tp.X, Y: tp.Y, Time: now})
			}
			s.lastX, s.lastY, s.lastSeen = tp.X, tp.Y, now
		}
	}

	for i := range t.slots {
		s := &t.slots[i]
		if !s.active || s.seen {
			continue
		}
		if now.Sub(s.lastSeen) > t.staleAfter {
			events = append(events, Event{Kind: Ended, ID: i, X: s.lastX, Y: s.lastY, Time: s.lastSeen})
			*s = slot{}
		}
	}

	return events
}

// Active reports how many fingers are currently tracked.
func (t *Tracker) Active() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].active {
			n++
		}
	}
	return n
}

// Reset drops all tracked state. Called after a device reconnect: touch
// IDs are not stable across sessions, so nothing may carry over.
func (t *Tracker) Reset() {
	t.slots = [maxIDs]slot{}
}
