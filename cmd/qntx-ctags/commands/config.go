package commands

import (
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/qntx-ctags/am"
	"github.com/teranos/qntx-ctags/ctags"
	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
)

// Seams replaced by tests
var (
	loadConfig = am.Load
	newRunner  = func(log *zap.SugaredLogger) ctags.Runner { return ctags.NewExecRunner(log) }
	isOnPath   = func(name string) bool {
		_, err := exec.LookPath(name)
		return err == nil
	}
)

// InitLogging configures the global logger from the loaded configuration.
// The -v count wins over log.verbosity when it is higher.
func InitLogging(flagVerbosity int) error {
	cfg, err := loadConfig()
	if err != nil {
		// Logging must come up even with a broken config; the command reports it
		return logger.Initialize(false, flagVerbosity)
	}

	verbosity := cfg.Log.Verbosity
	if flagVerbosity > verbosity {
		verbosity = flagVerbosity
	}
	if cfg.Log.Theme != "" {
		logger.SetTheme(cfg.Log.Theme)
	}
	if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	logger.Debugw("Logging initialized", "level", logger.LevelName(verbosity), "json", logger.JSONOutput)
	return nil
}

// loadValidConfig loads and validates the configuration
func loadValidConfig() (*am.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "invalid configuration"),
			"run 'qntx-ctags am validate' for details",
		)
	}
	return cfg, nil
}

// sourceOptions maps the configuration onto ctags.Options
func sourceOptions(cfg *am.Config, log *zap.SugaredLogger) ctags.Options {
	runner := newRunner(log)
	opts := ctags.Options{
		Runner:       runner,
		MinVersion:   cfg.Ctags.MinVersion,
		Timeout:      time.Duration(cfg.Gather.TimeoutSeconds) * time.Second,
		EchoProgress: cfg.Gather.EchoProgress,
		Logger:       log,
	}
	if cfg.Discovery.Enabled {
		opts.Walker = newWalker(cfg, runner)
		opts.Suffixes = cfg.Discovery.Suffixes
	}
	return opts
}

func newWalker(cfg *am.Config, runner ctags.Runner) ctags.Walker {
	if cfg.Discovery.Walker == am.WalkerGlob {
		return ctags.GlobWalker{}
	}
	return &ctags.FindWalker{Runner: runner, Executable: cfg.Discovery.FindExecutable}
}

// sourceFactory returns a constructor for fresh sources built from cfg
func sourceFactory(cfg *am.Config, component string) func() (*ctags.Source, error) {
	return func() (*ctags.Source, error) {
		return ctags.NewSource(sourceOptions(cfg, logger.ComponentLogger(component)))
	}
}

// rawParams is the host configuration handed to Source.Init: the configured
// executable, overridden by a non-empty --executable flag
func rawParams(cfg *am.Config, flagExecutable string) map[string]any {
	executable := cfg.Ctags.Executable
	if flagExecutable != "" {
		executable = flagExecutable
	}
	return map[string]any{"executable": executable}
}

// suffixOption joins configured suffixes into the host option format
func suffixOption(cfg *am.Config) string {
	return strings.Join(cfg.Discovery.Suffixes, ",")
}
