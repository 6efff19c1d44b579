// Command pixelsim runs a pixel-detector simulation pipeline described by
// a configuration file (spec.md §6 External interfaces).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nmxmxh/pixelsim/internal/config"
	"github.com/nmxmxh/pixelsim/internal/engine"
	"github.com/nmxmxh/pixelsim/internal/geometry"
	"github.com/nmxmxh/pixelsim/internal/manager"
	"github.com/nmxmxh/pixelsim/internal/messaging"
	"github.com/nmxmxh/pixelsim/internal/module"
	"github.com/nmxmxh/pixelsim/internal/modules"
	"github.com/nmxmxh/pixelsim/internal/options"
	"github.com/nmxmxh/pixelsim/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes, spec.md §6.
const (
	exitSuccess       = 0
	exitUsageError    = 1
	exitRuntimeError  = 2
	exitLogicError    = 3
	exitInternalFatal = 127
)

var version = "dev"

type runFlags struct {
	configFile string
	logFile    string
	logLevel   string
	moduleOpts []string
	detOpts    []string
	workers    int
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := &runFlags{}

	root := &cobra.Command{
		Use:           "pixelsim",
		Short:         "Run a pixel-detector simulation pipeline",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd.Context(), flags)
		},
	}

	root.Flags().StringVarP(&flags.configFile, "config", "c", "", "configuration file (required)")
	root.Flags().StringVarP(&flags.logFile, "log-file", "l", "", "log file (in addition to stderr)")
	root.Flags().StringVarP(&flags.logLevel, "verbosity", "v", "", "log level override (TRACE|DEBUG|INFO|WARNING|ERROR|FATAL)")
	root.Flags().StringArrayVarP(&flags.moduleOpts, "option", "o", nil, "module configuration override, [qualifier.]key=value")
	root.Flags().StringArrayVarP(&flags.detOpts, "geometry-option", "g", nil, "detector configuration override, detector.key=value")
	root.Flags().IntVarP(&flags.workers, "workers", "j", 0, "worker count (default: detected parallelism)")
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		if _, ok := err.(cobraUsageError); ok {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
		return reportFatal(err)
	}
	return exitSuccess
}

// cobraUsageError marks an error as a usage error (exit code 1) rather
// than a runtime failure surfaced from the engine.
type cobraUsageError struct{ error }

func reportFatal(err error) int {
	var logic *module.AmbiguousInstantiationError
	var unknownClass *module.UnknownClassError
	if errors.As(err, &logic) || errors.As(err, &unknownClass) {
		telemetry.Error("fatal configuration error", "error", err)
		return exitLogicError
	}
	telemetry.Error("run failed", "error", err)
	return exitRuntimeError
}

func execute(ctx context.Context, flags *runFlags) error {
	if flags.configFile == "" {
		return cobraUsageError{fmt.Errorf("missing required flag -c/--config")}
	}

	if flags.logFile != "" {
		logger, err := telemetry.NewFileLogger(flags.logFile)
		if err != nil {
			return cobraUsageError{fmt.Errorf("cannot open log file: %w", err)}
		}
		telemetry.SetGlobal(logger)
	}
	if flags.logLevel != "" {
		if level, ok := telemetry.LevelFromString(flags.logLevel); ok {
			telemetry.Global().SetLevel(level)
		} else {
			return cobraUsageError{fmt.Errorf("invalid -v level %q", flags.logLevel)}
		}
	}

	reader := config.NewReader()
	if err := reader.AddFile(flags.configFile); err != nil {
		return err
	}
	doc := config.NewDocument(reader.Sections(), []string{"Pixelsim", "Allpix"}, []string{"Ignore"})

	if flags.logLevel == "" {
		if raw, err := doc.Global().GetString("log_level"); err == nil {
			if level, ok := telemetry.LevelFromString(raw); ok {
				telemetry.Global().SetLevel(level)
			}
		}
	}

	units := config.NewDefaultUnits()

	geo := geometry.NewRegistry()
	if err := loadGeometry(geo, doc.Global(), units, flags.detOpts); err != nil {
		return err
	}

	classes := module.NewRegistry()
	modules.Register(classes)

	messenger := messaging.NewMessenger()
	outputRoot, err := doc.Global().GetStringDefault("output_directory", defaultOutputRoot())
	if err != nil {
		return err
	}

	m := manager.New(telemetry.Global(), classes, geo, messenger, units, outputRoot)

	opts := options.NewParser()
	if err := applyCLIOptions(opts, flags.moduleOpts); err != nil {
		return cobraUsageError{err}
	}
	bindEnvOverrides(doc.Global())

	if err := m.Load(doc, opts); err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()
	eng := engine.New(m, metrics, telemetry.Global(), flags.workers)

	summary, err := eng.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d events completed, %d modules executed\n", summary.RunID, summary.EventsCompleted, len(summary.Modules))
	if summary.EndOfRun {
		fmt.Println("run ended on a module's end-of-run request")
	}
	return nil
}

// loadGeometry reads the detectors_file referenced by the global
// configuration (spec.md §6, supplemented from original_source/
// GeometryManager::load, which reads detector sections from a reader
// distinct from the module pipeline document) and applies any -g
// overrides before populating geo.
func loadGeometry(geo *geometry.Registry, global *config.Section, units config.UnitRegistry, detOpts []string) error {
	path, err := global.GetStringDefault("detectors_file", "")
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(global.Path()), path)
	}

	reader := config.NewReader()
	if err := reader.AddFile(path); err != nil {
		return err
	}

	gopts := options.NewParser()
	if err := applyCLIOptions(gopts, detOpts); err != nil {
		return cobraUsageError{err}
	}

	sections := reader.Sections()
	overridden := make([]*config.Section, len(sections))
	for i, section := range sections {
		clone := section.Clone()
		gopts.ApplyTo(clone.Name(), clone)
		overridden[i] = clone
	}

	return geometry.Load(geo, overridden, units)
}

func applyCLIOptions(p *options.Parser, raw []string) error {
	for _, line := range raw {
		if err := p.ParseOption(line); err != nil {
			return err
		}
	}
	return nil
}

// bindEnvOverrides layers PIXELSIM_<KEY> environment variables over the
// global configuration at the same precedence point as a CLI global
// override (SPEC_FULL.md Ambient Stack / Configuration), using viper
// purely as the environment-variable reader.
func bindEnvOverrides(global *config.Section) {
	v := viper.New()
	v.SetEnvPrefix("PIXELSIM")
	v.AutomaticEnv()
	for _, key := range global.Keys() {
		envKey := strings.ToUpper(key)
		if val := v.GetString(envKey); val != "" {
			global.SetText(key, val)
		}
	}
}

func defaultOutputRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "output"
	}
	return filepath.Join(cwd, "output")
}
