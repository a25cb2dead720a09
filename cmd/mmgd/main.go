package main

import (
	"os"
	"strings"

	"github.com/brenoperucchi/magic-mouse-gestures/internal/cmd"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/configpaths"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli cmd.CLI
	ctx := kong.Parse(&cli,
		kong.Name("mmgd"),
		kong.Description("Magic Mouse 2 swipe gestures for Linux"),
		kong.UsageOnError(),
		// Flags/env override config file values; formats load in
		// priority order.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closers, err := log.SetupLogger(cli.Log.Level, cli.Log.Format, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	var raw log.ReportLogger
	if strings.EqualFold(cli.Log.Level, "trace") {
		raw = log.NewReportLogger(os.Stderr)
	} else {
		raw = log.NewReportLogger(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(raw, (*log.ReportLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

// findUserConfig pre-scans args for --config so the file can be fed to
// kong's configuration loaders before parsing proper.
func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("MMG_CONFIG")
}
