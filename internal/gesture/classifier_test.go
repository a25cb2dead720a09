package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brenoperucchi/magic-mouse-gestures/internal/touch"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		SwipeThreshold: 200,
		SwipeTimeMax:   400 * time.Millisecond,
		AxisDominance:  2,
	}
}

func began(id, x, y int, at time.Duration) touch.Event {
	return touch.Event{Kind: touch.Began, ID: id, X: x, Y: y, Time: t0.Add(at)}
}

func moved(id, x, y int, at time.Duration) touch.Event {
	return touch.Event{Kind: touch.Moved, ID: id, X: x, Y: y, Time: t0.Add(at)}
}

func ended(id, x, y int, at time.Duration) touch.Event {
	return touch.Event{Kind: touch.Ended, ID: id, X: x, Y: y, Time: t0.Add(at)}
}

func TestQualifyingRightSwipe(t *testing.T) {
	c := NewClassifier(testConfig())

	_, ok := c.Feed(began(1, 100, 50, 0))
	assert.False(t, ok)

	ev, ok := c.Feed(moved(1, 320, 50, 200*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, Right, ev.Direction)
	assert.Equal(t, 220, ev.Distance)
	assert.Equal(t, 200*time.Millisecond, ev.Duration)
}

func TestQualifyingLeftSwipe(t *testing.T) {
	c := NewClassifier(testConfig())

	c.Feed(began(1, 500, 50, 0))
	ev, ok := c.Feed(moved(1, 290, 50, 150*time.Millisecond))

	require.True(t, ok)
	assert.Equal(t, Left, ev.Direction)
	assert.Equal(t, 210, ev.Distance)
}

func TestTooSlowExpires(t *testing.T) {
	c := NewClassifier(testConfig())

	c.Feed(began(1, 100, 50, 0))
	_, ok := c.Feed(moved(1, 320, 50, 500*time.Millisecond))
	assert.False(t, ok)

	// Once expired the lifecycle can never qualify, even for a
	// sample that would otherwise pass both thresholds.
	_, ok = c.Feed(moved(1, 900, 50, 550*time.Millisecond))
	assert.False(t, ok)
}

func TestTooShortThenQualifiesLater(t *testing.T) {
	c := NewClassifier(testConfig())

	c.Feed(began(1, 100, 50, 0))

	_, ok := c.Feed(moved(1, 250, 50, 100*time.Millisecond)) // dx=150 < 200
	assert.False(t, ok)

	ev, ok := c.Feed(moved(1, 310, 50, 300*time.Millisecond)) // dx=210
	require.True(t, ok)
	assert.Equal(t, Right, ev.Direction)
	assert.Equal(t, 210, ev.Distance)
	assert.Equal(t, 300*time.Millisecond, ev.Duration)
}

func TestThresholdBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		x         int
		at        time.Duration
		qualifies bool
	}{
		{"exact distance and time", 300, 400 * time.Millisecond, true},
		{"one unit short", 299, 400 * time.Millisecond, false},
		{"one unit late", 300, 400*time.Millisecond + time.Millisecond, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(testConfig())
			c.Feed(began(1, 100, 50, 0))
			_, ok := c.Feed(moved(1, tt.x, 50, tt.at))
			assert.Equal(t, tt.qualifies, ok)
		})
	}
}

func TestAtMostOneGesturePerLifecycle(t *testing.T) {
	c := NewClassifier(testConfig())

	c.Feed(began(1, 100, 50, 0))
	_, ok := c.Feed(moved(1, 320, 50, 100*time.Millisecond))
	require.True(t, ok)

	// The swipe continues; no second gesture may fire until the
	// finger lifts.
	_, ok = c.Feed(moved(1, 600, 50, 200*time.Millisecond))
	assert.False(t, ok)
	_, ok = c.Feed(ended(1, 700, 50, 300*time.Millisecond))
	assert.False(t, ok)

	// A fresh lifecycle on the same ID may qualify again.
	c.Feed(began(1, 100, 50, time.Second))
	_, ok = c.Feed(moved(1, 320, 50, time.Second+100*time.Millisecond))
	assert.True(t, ok)
}

func TestEndedSampleMayQualify(t *testing.T) {
	c := NewClassifier(testConfig())

	c.Feed(began(1, 100, 50, 0))
	ev, ok := c.Feed(ended(1, 330, 50, 250*time.Millisecond))

	require.True(t, ok)
	assert.Equal(t, Right, ev.Direction)
	assert.Equal(t, 230, ev.Distance)
}

func TestEndedWithoutQualifyingGoesIdle(t *testing.T) {
	c := NewClassifier(testConfig())

	c.Feed(began(1, 100, 50, 0))
	_, ok := c.Feed(ended(1, 150, 50, 100*time.Millisecond))
	assert.False(t, ok)

	// Moves for an idle ID are ignored.
	_, ok = c.Feed(moved(1, 900, 50, 150*time.Millisecond))
	assert.False(t, ok)
}

func TestDiagonalMotionRejected(t *testing.T) {
	c := NewClassifier(testConfig())

	c.Feed(began(1, 100, 100, 0))
	// dx=220 passes the threshold but dy=150 breaks the 2:1
	// horizontal dominance requirement.
	_, ok := c.Feed(moved(1, 320, 250, 100*time.Millisecond))
	assert.False(t, ok)
}

func TestConcurrentTouchesClassifyIndependently(t *testing.T) {
	c := NewClassifier(testConfig())

	c.Feed(began(1, 100, 50, 0))
	c.Feed(began(2, 900, 60, 0))

	ev1, ok := c.Feed(moved(1, 320, 50, 100*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, Right, ev1.Direction)

	ev2, ok := c.Feed(moved(2, 680, 60, 150*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, Left, ev2.Direction)
}

func TestResetClearsTracking(t *testing.T) {
	c := NewClassifier(testConfig())

	c.Feed(began(1, 100, 50, 0))
	c.Reset()

	// Without a fresh Began the ID is idle and nothing qualifies.
	_, ok := c.Feed(moved(1, 500, 50, 100*time.Millisecond))
	assert.False(t, ok)
}
