package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/CodeMonkeyCybersecurity/intarr/cmd/internal/display"
	"github.com/CodeMonkeyCybersecurity/intarr/internal/config"
	"github.com/CodeMonkeyCybersecurity/intarr/internal/core"
	"github.com/CodeMonkeyCybersecurity/intarr/internal/logger"
	"github.com/CodeMonkeyCybersecurity/intarr/internal/telemetry"
	"github.com/CodeMonkeyCybersecurity/intarr/internal/validation"
	"github.com/CodeMonkeyCybersecurity/intarr/pkg/intarr"
	"github.com/CodeMonkeyCybersecurity/intarr/pkg/types"
)

const programName = "intarr"

// errMissingInput is reported with the usage text instead of a one-line error.
var errMissingInput = errors.New("missing input string")

// negativeInput matches an input string whose first token is a negative
// number, which pflag would otherwise read as a shorthand flag.
var negativeInput = regexp.MustCompile(`^-\s*\d`)

// app holds the state initialised by the persistent pre-run hook.
type app struct {
	v     *viper.Viper
	cfg   *config.Config
	log   *logger.Logger
	tel   core.Telemetry
	runID string
}

// Execute runs the root command against os.Args and reports any error on
// stderr. The returned error only signals that the process must exit 1.
func Execute() error {
	return execute(newRootCmd(os.Stdout, os.Stderr), os.Args[1:])
}

func execute(root *cobra.Command, args []string) error {
	root.SetArgs(separatePositionals(root.PersistentFlags(), args))
	err := root.Execute()
	if err != nil {
		reportError(root.ErrOrStderr(), err)
	}
	return err
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), log: logger.Nop()}

	rootCmd := &cobra.Command{
		Use:   programName + ` "input_string" [o|a|d]`,
		Short: "Report duplicate statistics for a ';'-separated list of integers",
		Long: `intarr parses a ';'-separated list of integers and prints one summary line:

  <duplicates>; <lowest duplicate>; <highest duplicate>; <unique values...>

The unique values are listed once each, ordered by the optional order flag:
  o - Original order (default)
  a - Ascending order
  d - Descending order

An empty input prints "0; 0; 0". Inputs may start with a negative number:
  intarr "-1; 2; -1" a`,
		Example:       `  intarr "5; 2; 5; 5; 6; 6; 10" o`,
		Version:       version,
		Args:          validateArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close(cmd.ErrOrStderr())
			return a.run(cmd.Context(), cmd.OutOrStdout(), args)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	rootCmd.SetVersionTemplate(versionTemplate)

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	defaults := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", defaults.Logger.Level, "log level (debug, info, warn, error)")
	flags.String("log-format", defaults.Logger.Format, "log format (json, console)")
	flags.String("output", string(defaults.Output.Format), "output format (text, json, yaml)")
	flags.Bool("no-color", false, "disable colored diagnostics")
	flags.Bool("telemetry", defaults.Telemetry.Enabled, "export OpenTelemetry traces for the run")
	flags.String("telemetry-endpoint", defaults.Telemetry.Endpoint, "OTLP/HTTP collector endpoint")

	v := a.v
	v.BindPFlag("logger.level", flags.Lookup("log-level"))
	v.BindPFlag("logger.format", flags.Lookup("log-format"))
	v.BindPFlag("output.format", flags.Lookup("output"))
	v.BindPFlag("output.no_color", flags.Lookup("no-color"))
	v.BindPFlag("telemetry.enabled", flags.Lookup("telemetry"))
	v.BindPFlag("telemetry.endpoint", flags.Lookup("telemetry-endpoint"))
	v.BindEnv("logger.level", "INTARR_LOG_LEVEL")
	v.BindEnv("logger.format", "INTARR_LOG_FORMAT")
	v.BindEnv("output.format", "INTARR_OUTPUT")
	v.BindEnv("telemetry.enabled", "INTARR_TELEMETRY_ENABLED")
	v.BindEnv("telemetry.endpoint", "INTARR_TELEMETRY_ENDPOINT")

	v.SetDefault("logger.output_paths", defaults.Logger.OutputPaths)
	v.SetDefault("telemetry.service_name", defaults.Telemetry.ServiceName)
	v.SetDefault("telemetry.sample_rate", defaults.Telemetry.SampleRate)

	return rootCmd
}

// separatePositionals moves every positional argument behind a "--" so that
// inputs such as "-1; 2" reach the command as arguments. Flags and their
// values keep their relative order in front of the terminator.
func separatePositionals(flags *pflag.FlagSet, args []string) []string {
	var flagArgs, positional []string
	negative := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case negativeInput.MatchString(arg):
			negative = true
			positional = append(positional, arg)
		case arg == "" || arg == "-" || !strings.HasPrefix(arg, "-"):
			positional = append(positional, arg)
		default:
			flagArgs = append(flagArgs, arg)
			if flagTakesValue(flags, arg) && i+1 < len(args) {
				i++
				flagArgs = append(flagArgs, args[i])
			}
		}
	}

	if !negative {
		return args
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, flagArgs...)
	out = append(out, "--")
	return append(out, positional...)
}

// flagTakesValue reports whether arg is a long flag whose value is the next
// argument. Unknown flags are left for cobra to reject.
func flagTakesValue(flags *pflag.FlagSet, arg string) bool {
	if !strings.HasPrefix(arg, "--") || strings.Contains(arg, "=") {
		return false
	}
	f := flags.Lookup(strings.TrimPrefix(arg, "--"))
	return f != nil && f.NoOptDefVal == ""
}

func validateArgs(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return &intarr.UsageError{Reason: "missing input string", Err: errMissingInput}
	case len(args) > 2:
		return &intarr.UsageError{Reason: fmt.Sprintf("accepts at most 2 arg(s), received %d", len(args))}
	}
	return nil
}

func (a *app) init() error {
	cfg := &config.Config{}
	if err := a.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if cfg.Output.NoColor {
		color.NoColor = true
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tel, err := telemetry.New(context.Background(), cfg.Telemetry, version)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	a.runID = uuid.New().String()
	a.log = log.WithComponent("cmd").WithRunID(a.runID).WithTracer(tel.Tracer())
	a.tel = tel

	a.log.Debugw("Configuration loaded",
		"log_level", cfg.Logger.Level,
		"output", cfg.Output.Format,
		"telemetry", cfg.Telemetry.Enabled,
	)
	return nil
}

func (a *app) run(ctx context.Context, out io.Writer, args []string) error {
	ctx = logger.WithLogger(ctx, a.log)

	input := args[0]
	flag := "o"
	if len(args) > 1 {
		flag = args[1]
	}

	mode, err := types.ParseOrderMode(flag)
	if err != nil {
		return &intarr.UsageError{Reason: "invalid order flag", Err: err}
	}

	summary, err := a.analyze(ctx, input, mode)
	if err != nil {
		return fmt.Errorf("processing input: %w", err)
	}

	format := types.OutputText
	if a.cfg != nil {
		format = a.cfg.Output.Format
	}
	return display.WriteSummary(out, summary, format)
}

// analyze runs the pipeline inside a span, using the logger carried by ctx.
func (a *app) analyze(ctx context.Context, input string, mode types.OrderMode) (*types.Summary, error) {
	log := logger.FromContext(ctx)

	check := validation.ValidateInput(input)
	for _, warning := range check.Warnings {
		log.Warnw("Suspicious input", "warning", warning, "fields", check.FieldCount, "empty_fields", check.EmptyCount)
	}

	start := time.Now()
	ctx, span := log.StartOperation(ctx, "intarr.analyze",
		"mode", mode.String(),
		"order_flag", mode.Flag(),
		"input_length", len(input),
	)

	summary, err := intarr.Analyze(input, mode)

	log.FinishOperation(ctx, span, "intarr.analyze", start, err)
	if a.tel != nil {
		a.tel.RecordRun(ctx, mode, time.Since(start), summary, err)
	}
	if err != nil {
		return nil, err
	}

	log.Debugw("Summary computed",
		"duplicates", summary.DuplicateCount,
		"distinct", len(summary.Unique),
	)
	return summary, nil
}

func (a *app) close(stderr io.Writer) {
	if a.log != nil {
		// Sync on a terminal stderr fails with EINVAL on Linux.
		if err := a.log.Sync(); err != nil && !strings.Contains(err.Error(), "invalid argument") &&
			!strings.Contains(err.Error(), "inappropriate ioctl") {
			fmt.Fprintf(stderr, "Warning: failed to sync logger: %v\n", err)
		}
	}
	if a.tel != nil {
		if err := a.tel.Close(); err != nil {
			a.log.LogError(context.Background(), err, "telemetry.close")
		}
	}
}

func reportError(w io.Writer, err error) {
	var usageErr *intarr.UsageError
	var parseErr *intarr.ParseError

	switch {
	case errors.Is(err, errMissingInput):
		display.PrintUsage(w, programName)
	case errors.As(err, &parseErr):
		display.PrintError(w, "processing input", parseErr)
	case errors.As(err, &usageErr):
		display.PrintError(w, "", usageErr)
		fmt.Fprintf(w, "Run '%s --help' for usage.\n", programName)
	default:
		display.PrintError(w, "", err)
	}
}
