package dispatch

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Supported external injection tools.
const (
	ToolWtype   = "wtype"   // Wayland
	ToolXdotool = "xdotool" // X11
)

// ExecInjector shells out to an external key-injection utility. The
// utility is a black box: the combo is its only semantic input.
type ExecInjector struct {
	tool string

	// run is swappable for tests; defaults to exec.CommandContext.
	run func(ctx context.Context, name string, args ...string) error
}

func NewExecInjector(tool string) (*ExecInjector, error) {
	switch tool {
	case ToolWtype, ToolXdotool:
	default:
		return nil, fmt.Errorf("unsupported injection tool %q", tool)
	}
	return &ExecInjector{
		tool: tool,
		run: func(ctx context.Context, name string, args ...string) error {
			out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
			if err != nil {
				return fmt.Errorf("%s: %w (%s)", name, err, strings.TrimSpace(string(out)))
			}
			return nil
		},
	}, nil
}

func (e *ExecInjector) Press(ctx context.Context, combo Combo) error {
	return e.run(ctx, e.tool, toolArgs(e.tool, combo)...)
}

func (e *ExecInjector) Close() error { return nil }

// toolArgs builds the tool-specific argument list for a combo.
//
//	wtype:   -M alt -k Left -m alt   (press mods, tap key, release mods)
//	xdotool: key alt+Left
func toolArgs(tool string, combo Combo) []string {
	switch tool {
	case ToolWtype:
		args := make([]string, 0, 2*len(combo.Mods)+2)
		for _, m := range combo.Mods {
			args = append(args, "-M", m)
		}
		args = append(args, "-k", combo.Key)
		for i := len(combo.Mods) - 1; i >= 0; i-- {
			args = append(args, "-m", combo.Mods[i])
		}
		return args
	case ToolXdotool:
		return []string{"key", combo.String()}
	}
	return nil
}
