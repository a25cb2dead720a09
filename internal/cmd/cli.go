// Package cmd defines the CLI surface of the gesture daemon.
package cmd

// Version of the driver, reported in the startup banner.
const Version = "1.0.0"

// LogConfig holds the logging flags shared by all commands.
type LogConfig struct {
	Level  string `help:"Log level (trace|debug|info|warn|error); trace additionally hex-dumps raw reports" default:"info" env:"MMG_LOG_LEVEL"`
	Format string `help:"Log format (text|json)" default:"text" env:"MMG_LOG_FORMAT"`
	File   string `help:"Also append logs to this file" env:"MMG_LOG_FILE"`
}

// CLI is the root command tree, parsed by kong.
type CLI struct {
	Config string    `help:"Path to a configuration file (json/yaml/toml)" env:"MMG_CONFIG"`
	Log    LogConfig `embed:"" prefix:"log."`

	Run       Run           `cmd:"" default:"withargs" help:"Run the gesture daemon"`
	List      List          `cmd:"" help:"List candidate HID devices"`
	ConfigCmd ConfigCommand `cmd:"" name:"config" help:"Configuration utilities"`
}
