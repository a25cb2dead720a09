package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/brenoperucchi/magic-mouse-gestures/internal/configpaths"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration file template"`
}

// ConfigInit writes a config template pre-filled with the defaults of
// every daemon flag, in the chosen format.
type ConfigInit struct {
	Format string `help:"Output format" enum:"json,yaml,toml" default:"toml"`
	Output string `help:"Destination file path (defaults to the user config dir)"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

// Run builds the template dynamically from the command structs' kong
// tags, so the file never drifts from the actual flag surface.
func (c *ConfigInit) Run() error {
	root := map[string]any{
		"log": structDefaults(reflect.TypeOf(LogConfig{})),
	}
	for k, v := range structDefaults(reflect.TypeOf(Run{})) {
		root[k] = v
	}

	dest := c.Output
	if dest == "" {
		dir, err := configpaths.DefaultConfigDir()
		if err != nil {
			return err
		}
		dest = dir + "/config." + c.Format
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	var data []byte
	var err error
	switch c.Format {
	case "json":
		data, err = json.MarshalIndent(root, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(root)
	case "toml":
		data, err = toml.Marshal(root)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	fmt.Println("wrote", dest)
	return nil
}

// structDefaults maps a command struct's flag names to their declared
// default values, typed where the tag parses cleanly.
func structDefaults(t reflect.Type) map[string]any {
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		def, ok := f.Tag.Lookup("default")
		if !ok {
			continue
		}
		out[flagName(f)] = typedDefault(f.Type, def)
	}
	return out
}

func flagName(f reflect.StructField) string {
	if name, ok := f.Tag.Lookup("name"); ok {
		return name
	}
	return kebab(f.Name)
}

func typedDefault(t reflect.Type, def string) any {
	if t == reflect.TypeOf(time.Duration(0)) {
		return def // durations stay strings ("400ms") in config files
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64:
		if n, err := strconv.Atoi(def); err == nil {
			return n
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(def); err == nil {
			return b
		}
	}
	return def
}

func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
