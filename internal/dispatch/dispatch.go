// Package dispatch turns classified swipes into synthetic key
// combinations delivered through a pluggable injector.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/brenoperucchi/magic-mouse-gestures/internal/gesture"
)

// Injector delivers a key combination to the OS. Implementations wrap
// an external injection utility (wtype, xdotool) or a virtual uinput
// keyboard.
type Injector interface {
	Press(ctx context.Context, combo Combo) error
	Close() error
}

// Config maps swipe directions to combos and sets the dispatch-side
// debounce window.
type Config struct {
	// Back fires on a rightward swipe, Forward on a leftward one,
	// matching the original driver's polarity. Both are configurable
	// since hardware polarity is a firmware convention.
	Back    Combo
	Forward Combo

	// Cooldown is the minimum interval between dispatched actions.
	// The classifier already guarantees one event per touch lifecycle;
	// the cooldown additionally guards against rapid re-touch
	// sequences firing back-to-back.
	Cooldown time.Duration
}

// Dispatcher delivers gestures best-effort: injection failures are
// logged and the gesture is considered consumed, since a swipe is a
// momentary occurrence with nothing meaningful to retry.
type Dispatcher struct {
	cfg    Config
	inj    Injector
	logger *slog.Logger

	now  func() time.Time
	last time.Time
}

func NewDispatcher(cfg Config, inj Injector, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{cfg: cfg, inj: inj, logger: logger, now: time.Now}
}

// SetNowFunc overrides the clock used for the cooldown window.
func (d *Dispatcher) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		d.now = fn
	}
}

// Dispatch maps one swipe to its action and injects it.
func (d *Dispatcher) Dispatch(ctx context.Context, ev gesture.Event) {
	combo, action := d.cfg.Forward, "forward"
	if ev.Direction == gesture.Right {
		combo, action = d.cfg.Back, "back"
	}

	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) < d.cfg.Cooldown {
		d.logger.Debug("gesture suppressed by cooldown",
			slog.String("action", action),
			slog.Duration("since_last", now.Sub(d.last)))
		return
	}
	d.last = now

	d.logger.Info("dispatching gesture",
		slog.String("action", action),
		slog.String("combo", combo.String()),
		slog.Int("distance", ev.Distance),
		slog.Duration("duration", ev.Duration))

	if err := d.inj.Press(ctx, combo); err != nil {
		d.logger.Warn("key injection failed", slog.Any("error", err))
	}
}
