// Package engine runs the gesture pipeline: read a raw report, decode,
// track touches, classify, dispatch, repeat.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/brenoperucchi/magic-mouse-gestures/internal/dispatch"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/gesture"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/hid"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/log"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/magicmouse"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/touch"
)

// Config holds the pipeline parameters.
type Config struct {
	VendorID  uint16
	ProductID uint16

	SwipeThreshold int
	SwipeTimeMax   time.Duration
	AxisDominance  int

	// StaleAfter is the touch staleness timeout passed to the tracker.
	StaleAfter time.Duration

	// ReconnectMin/Max bound the backoff between reopen attempts.
	ReconnectMin time.Duration
	ReconnectMax time.Duration
}

// Engine owns the single pipeline loop. All touch and classifier state
// is confined to that loop; nothing here is shared across goroutines.
type Engine struct {
	cfg        Config
	mgr        hid.Manager
	tracker    *touch.Tracker
	classifier *gesture.Classifier
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
	raw        log.ReportLogger
}

func New(cfg Config, mgr hid.Manager, d *dispatch.Dispatcher, logger *slog.Logger, raw log.ReportLogger) *Engine {
	return &Engine{
		cfg:     cfg,
		mgr:     mgr,
		tracker: touch.NewTracker(cfg.StaleAfter),
		classifier: gesture.NewClassifier(gesture.Config{
			SwipeThreshold: cfg.SwipeThreshold,
			SwipeTimeMax:   cfg.SwipeTimeMax,
			AxisDominance:  cfg.AxisDominance,
		}),
		dispatcher: d,
		logger:     logger,
		raw:        raw,
	}
}

// Run drives device sessions until the context is cancelled. A
// disconnect closes the handle and reconnects with bounded backoff; a
// permission error is fatal since no retry can fix it.
func (e *Engine) Run(ctx context.Context) error {
	backoff := e.cfg.ReconnectMin

	for {
		if ctx.Err() != nil {
			return nil
		}

		dev, err := e.mgr.OpenVIDPID(e.cfg.VendorID, e.cfg.ProductID)
		if err != nil {
			if errors.Is(err, hid.ErrPermission) {
				return err
			}
			e.logger.Warn("device unavailable, retrying",
				slog.Any("error", err),
				slog.Duration("backoff", backoff))
			waitForDevice(ctx, backoff, e.logger)
			backoff = min(backoff*2, e.cfg.ReconnectMax)
			continue
		}
		backoff = e.cfg.ReconnectMin

		e.logger.Info("device connected", slog.String("path", dev.Path()))
		err = e.session(ctx, dev)
		_ = dev.Close()

		if ctx.Err() != nil {
			return nil
		}
		e.logger.Warn("device session ended", slog.Any("error", err))
	}
}

// session runs the pipeline against one opened handle until the device
// goes away or the context is cancelled. Tracker and classifier state
// is cleared up front: touch IDs are not stable across sessions, so a
// reconnect must never inherit touches from before the disconnect.
func (e *Engine) session(ctx context.Context, dev hid.Device) error {
	e.tracker.Reset()
	e.classifier.Reset()

	buf := make([]byte, 64)
	for {
		n, err := dev.Read(ctx, buf)
		if err != nil {
			return err
		}

		e.raw.Log(buf[:n])
		e.process(ctx, buf[:n], time.Now())
	}
}

// process pushes one raw report through decode -> track -> classify ->
// dispatch. Decode problems are recovered locally and never escalate
// past the loop.
func (e *Engine) process(ctx context.Context, raw []byte, now time.Time) {
	frame, err := magicmouse.Decode(raw)
	if err != nil {
		if errors.Is(err, magicmouse.ErrMalformedLength) {
			e.logger.Debug("discarding malformed report",
				slog.Int("bytes", len(raw)))
			return
		}
		// Unknown touch state: the offending segment was dropped, the
		// rest of the frame is still good.
		e.logger.Debug("dropped touch segment", slog.Any("error", err))
	}

	if len(frame.Touches) > 0 {
		e.logger.Debug("frame decoded",
			slog.Int("touches", len(frame.Touches)),
			slog.Int("buttons", int(frame.Header.Buttons)))
	}

	for _, ev := range e.tracker.Update(frame, now) {
		g, ok := e.classifier.Feed(ev)
		if !ok {
			continue
		}
		e.logger.Debug("swipe classified",
			slog.String("direction", g.Direction.String()),
			slog.Int("distance", g.Distance),
			slog.Duration("duration", g.Duration))
		e.dispatcher.Dispatch(ctx, g)
	}
}
