package dispatch

import (
	"fmt"
	"strings"
)

// Combo is a parsed key combination: zero or more modifiers plus one
// key, written in config as e.g. "alt+Left".
type Combo struct {
	Mods []string
	Key  string
}

func (c Combo) String() string {
	if len(c.Mods) == 0 {
		return c.Key
	}
	return strings.Join(c.Mods, "+") + "+" + c.Key
}

// Modifier names accepted in combos, normalized to lower case.
var knownMods = map[string]bool{
	"alt":   true,
	"ctrl":  true,
	"shift": true,
	"super": true,
	"meta":  true,
}

// Linux input-event key codes (input-event-codes.h) for the keys and
// modifiers the uinput injector can press.
var keyCodes = map[string]uint16{
	"alt":   56,  // KEY_LEFTALT
	"ctrl":  29,  // KEY_LEFTCTRL
	"shift": 42,  // KEY_LEFTSHIFT
	"super": 125, // KEY_LEFTMETA
	"meta":  125,
	"left":  105, // KEY_LEFT
	"right": 106, // KEY_RIGHT
	"up":    103, // KEY_UP
	"down":  108, // KEY_DOWN
}

// ParseCombo parses a "+"-separated key combination. The last element
// is the key; everything before it must be a known modifier.
func ParseCombo(s string) (Combo, error) {
	parts := strings.Split(strings.TrimSpace(s), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Combo{}, fmt.Errorf("empty key combination %q", s)
	}

	var c Combo
	for _, m := range parts[:len(parts)-1] {
		m = strings.ToLower(strings.TrimSpace(m))
		if !knownMods[m] {
			return Combo{}, fmt.Errorf("unknown modifier %q in combination %q", m, s)
		}
		c.Mods = append(c.Mods, m)
	}
	c.Key = strings.TrimSpace(parts[len(parts)-1])
	return c, nil
}

// codes resolves the combo to input-event key codes in press order
// (modifiers first, key last). Only needed by the uinput injector; the
// exec injectors pass names through to the external tool.
func (c Combo) codes() ([]uint16, error) {
	out := make([]uint16, 0, len(c.Mods)+1)
	for _, m := range c.Mods {
		code, ok := keyCodes[m]
		if !ok {
			return nil, fmt.Errorf("no key code for modifier %q", m)
		}
		out = append(out, code)
	}
	code, ok := keyCodes[strings.ToLower(c.Key)]
	if !ok {
		return nil, fmt.Errorf("no key code for key %q", c.Key)
	}
	return append(out, code), nil
}
