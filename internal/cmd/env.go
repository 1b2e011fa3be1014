package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/findfile/internal/config"
	"github.com/harrison/findfile/internal/display"
	"github.com/harrison/findfile/internal/finder"
	"github.com/harrison/findfile/internal/logger"
)

// runLogger is what a command logs through: the finder notices plus the
// closing summary line.
type runLogger interface {
	finder.Logger
	LogSummary(s logger.Summary)
}

// multiLogger forwards every call to all of its loggers
type multiLogger struct {
	loggers []runLogger
}

func (m *multiLogger) Warnf(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Warnf(format, args...)
	}
}

func (m *multiLogger) Infof(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Infof(format, args...)
	}
}

func (m *multiLogger) Debugf(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Debugf(format, args...)
	}
}

func (m *multiLogger) LogSummary(s logger.Summary) {
	for _, l := range m.loggers {
		l.LogSummary(s)
	}
}

// env is the per-invocation runtime shared by every subcommand.
type env struct {
	cfg     *config.Config
	log     runLogger
	finder  *finder.Finder
	out     io.Writer
	errOut  io.Writer
	colored bool
	closers []func() error
}

// setup loads the configuration, applies the flags the user changed,
// validates the result and builds the loggers and the Finder.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &env{
		cfg:     cfg,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		colored: isTTY(cmd.ErrOrStderr()),
	}

	ml := &multiLogger{loggers: []runLogger{logger.NewConsoleLogger(e.errOut, cfg.LogLevel)}}
	if cfg.LogDir != "" {
		fl, err := logger.NewFileLoggerWithLevel(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create file logger: %w", err)
		}
		ml.loggers = append(ml.loggers, fl)
		e.closers = append(e.closers, fl.Close)
	}
	e.log = ml

	e.finder = finder.New(
		finder.WithIgnoreList(cfg.Ignore),
		finder.WithLogger(ml),
		finder.WithWorkers(cfg.Workers),
		finder.WithAlertHandler(func(a finder.Alert) {
			display.WarnAmbiguous(a.Kind, a.Policy, a.Chosen, a.Matches).Display(e.errOut, e.colored)
		}),
	)
	return e, nil
}

// close releases the run log, if any.
func (e *env) close() error {
	var errs []error
	for _, c := range e.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// root returns the directory a search with opts.Root starts from, for the
// summary line.
func (e *env) root(opts finder.Options) string {
	if opts.Root != "" {
		return opts.Root
	}
	wd, err := e.finder.WorkingDir()
	if err != nil {
		return "."
	}
	return wd
}

// explain renders the warning block for errors that have one and returns
// err unchanged.
func (e *env) explain(err error) error {
	var conflict *finder.DeleteConflictError
	if errors.As(err, &conflict) {
		display.WarnDeleteConflict(conflict.Kind, conflict.Matches).Display(e.errOut, e.colored)
	}
	return err
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// applyFlags merges the flags the user set into cfg. Flags a command does
// not define are never Changed.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	var depthPtr *int
	if flags.Changed("depth") {
		raw, _ := flags.GetString("depth")
		depth, err := finder.ParseDepth(raw)
		if err != nil {
			return fmt.Errorf("invalid --depth: %w", err)
		}
		depthPtr = &depth
	}

	var workersPtr *int
	if flags.Changed("workers") {
		workers, _ := flags.GetInt("workers")
		workersPtr = &workers
	}

	var excludeModePtr *string
	if flags.Changed("exclude-mode") {
		mode, _ := flags.GetString("exclude-mode")
		excludeModePtr = &mode
	}

	var regexPtr *bool
	if flags.Changed("regex") {
		regex, _ := flags.GetBool("regex")
		regexPtr = &regex
	}

	var logLevelPtr *string
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		logLevelPtr = &level
	}

	cfg.MergeWithFlags(depthPtr, workersPtr, excludeModePtr, regexPtr, logLevelPtr)

	if flags.Changed("log-dir") {
		cfg.LogDir, _ = flags.GetString("log-dir")
	}
	if flags.Changed("store") {
		cfg.Cache.Store, _ = flags.GetString("store")
	}
	if flags.Changed("cache-depth") {
		raw, _ := flags.GetString("cache-depth")
		depth, err := finder.ParseDepth(raw)
		if err != nil {
			return fmt.Errorf("invalid --cache-depth: %w", err)
		}
		cfg.Cache.MaxDepth = depth
	}
	return nil
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// canPrompt reports whether in can answer a confirmation: a terminal, or
// any reader that is not a file (tests, embedding programs).
func canPrompt(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return true
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
