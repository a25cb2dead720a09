package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brenoperucchi/magic-mouse-gestures/internal/dispatch"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/engine"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/hid"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/log"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/magicmouse"
)

// Run is the daemon command: open the mouse and translate swipes into
// key combinations until interrupted.
type Run struct {
	SwipeThreshold int           `help:"Minimum horizontal displacement, in sensor position units" default:"200" env:"MMG_SWIPE_THRESHOLD"`
	SwipeTimeMax   time.Duration `help:"Maximum elapsed time for a swipe" default:"400ms" env:"MMG_SWIPE_TIME_MAX"`
	AxisDominance  int           `help:"Require horizontal displacement to be N times the vertical (0 disables)" default:"2"`
	StaleAfter     time.Duration `help:"Synthesize a touch end after a finger is unseen for this long" default:"150ms"`
	Cooldown       time.Duration `help:"Minimum interval between dispatched gestures" default:"500ms" env:"MMG_COOLDOWN"`

	Backend  string `help:"HID backend" enum:"hidraw,usbhid" default:"hidraw" env:"MMG_BACKEND"`
	Injector string `help:"Key injection backend" enum:"wtype,xdotool,uinput" default:"wtype" env:"MMG_INJECTOR"`

	BackCombo    string `help:"Combo sent for a rightward swipe (history back)" default:"alt+Left"`
	ForwardCombo string `help:"Combo sent for a leftward swipe (history forward)" default:"alt+Right"`

	ReconnectMin time.Duration `help:"Initial reconnect backoff" default:"500ms"`
	ReconnectMax time.Duration `help:"Maximum reconnect backoff" default:"10s"`
}

// Run is called by kong when the daemon command executes.
func (r *Run) Run(logger *slog.Logger, raw log.ReportLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	back, err := dispatch.ParseCombo(r.BackCombo)
	if err != nil {
		return fmt.Errorf("back combo: %w", err)
	}
	forward, err := dispatch.ParseCombo(r.ForwardCombo)
	if err != nil {
		return fmt.Errorf("forward combo: %w", err)
	}

	inj, err := r.newInjector()
	if err != nil {
		return fmt.Errorf("injector: %w", err)
	}
	defer inj.Close()

	mgr, err := hid.NewManager(r.Backend)
	if err != nil {
		return err
	}

	dispatcher := dispatch.NewDispatcher(dispatch.Config{
		Back:     back,
		Forward:  forward,
		Cooldown: r.Cooldown,
	}, inj, logger)

	eng := engine.New(engine.Config{
		VendorID:       magicmouse.VendorID,
		ProductID:      magicmouse.ProductID,
		SwipeThreshold: r.SwipeThreshold,
		SwipeTimeMax:   r.SwipeTimeMax,
		AxisDominance:  r.AxisDominance,
		StaleAfter:     r.StaleAfter,
		ReconnectMin:   r.ReconnectMin,
		ReconnectMax:   r.ReconnectMax,
	}, mgr, dispatcher, logger, raw)

	logger.Info("magic-mouse-gestures starting",
		slog.String("version", Version),
		slog.Int("swipe_threshold", r.SwipeThreshold),
		slog.Duration("swipe_time_max", r.SwipeTimeMax),
		slog.String("injector", r.Injector))

	return eng.Run(ctx)
}

func (r *Run) newInjector() (dispatch.Injector, error) {
	if r.Injector == "uinput" {
		return dispatch.NewUinputInjector("magic-mouse-gestures keyboard")
	}
	return dispatch.NewExecInjector(r.Injector)
}
