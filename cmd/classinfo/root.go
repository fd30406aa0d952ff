package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/williampepple1/classinfo/internal/config"
	resultio "github.com/williampepple1/classinfo/internal/io"
	"github.com/williampepple1/classinfo/internal/telemetry"
	"github.com/williampepple1/classinfo/pkg/models"
)

type lookupFunc func(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger, classNumber string) models.Result

var (
	errClassNumberRequired = errors.New("class number required")
	errOutput              = errors.New("write result")
)

type options struct {
	configFile string
	term       string
	logLevel   string
	logFormat  string
	chromePath string
	proxy      string
}

func newRootCmd(stdout, stderr io.Writer, lookup lookupFunc) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "classinfo <classNumber>",
		Short: "classinfo looks up a class section in the course catalog and prints it as JSON.",
		Long: "classinfo loads the catalog search page for a class number in headless Chrome\n" +
			"and prints one JSON line: the class record, or {\"error\": ...} when it cannot be found.\n" +
			"Diagnostics are written to stderr.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errClassNumberRequired
			}

			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			log, err := telemetry.NewLogger(&cfg.Log, stderr)
			if err != nil {
				return err
			}

			result := lookup(cmd.Context(), cfg, log, args[0])
			if err := resultio.NewResultWriter(stdout).Write(result); err != nil {
				return fmt.Errorf("%w: %w", errOutput, err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "Path to configuration file (YAML)")
	flags.StringVar(&opts.term, "term", "", "Catalog term code to search")
	flags.StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Diagnostic log format (text or json)")
	flags.StringVar(&opts.chromePath, "chrome-path", "", "Path to the Chrome executable")
	flags.StringVar(&opts.proxy, "proxy", "", "Proxy server for the browser, e.g. http://host:3128")

	return cmd
}

// load resolves configuration as flags > environment > file > defaults
func (o *options) load(cmd *cobra.Command) (*config.AppConfig, error) {
	cfg := config.Default()
	if o.configFile != "" {
		var err error
		if cfg, err = config.Load(o.configFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("term") {
		cfg.Catalog.Term = o.term
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if flags.Changed("chrome-path") {
		cfg.Browser.ExecPath = o.chromePath
	}
	if flags.Changed("proxy") {
		cfg.Proxies.Enabled = true
		cfg.Proxies.List = []string{o.proxy}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run executes the command and returns the process exit code. Stdout only
// ever receives the single JSON result line.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, lookup lookupFunc) int {
	cmd := newRootCmd(stdout, stderr, lookup)
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errOutput):
		fmt.Fprintln(stderr, err)
		return 1
	case errors.Is(err, errClassNumberRequired):
		writeResult(stdout, stderr, models.InputError())
		return 1
	default:
		fmt.Fprintln(stderr, err)
		writeResult(stdout, stderr, models.Result{Err: models.ErrInvalidConfig})
		return 1
	}
}

func writeResult(stdout, stderr io.Writer, result models.Result) {
	if err := resultio.NewResultWriter(stdout).Write(result); err != nil {
		fmt.Fprintln(stderr, err)
	}
}
