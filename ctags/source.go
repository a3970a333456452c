package ctags

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
)

// CompletionSource is the capability a host drives: initialise once, then
// gather on each completion request
type CompletionSource interface {
	// Init decodes the host configuration, probes the executable and
	// reports whether the source is usable
	Init(ctx context.Context, host Host, raw map[string]any) bool
	DefaultConfiguration() Params
	Gather(ctx context.Context, host Host) ([]Candidate, error)
}

// Options configures a Source beyond the per-session Params
type Options struct {
	// Runner defaults to an ExecRunner
	Runner Runner
	// Walker enables file discovery when non-nil
	Walker Walker
	// Suffixes overrides the host's suffix option during discovery
	Suffixes []string
	// MinVersion is an optional semver constraint on the ctags version
	MinVersion   string
	Timeout      time.Duration
	EchoProgress bool
	Logger       *zap.SugaredLogger
}

// Source is the ctags completion source. Availability is decided once by
// Init and never changes afterwards.
type Source struct {
	prober   *Prober
	gatherer *Gatherer
	logger   *zap.SugaredLogger

	once      sync.Once
	params    Params
	available atomic.Bool
	probe     ProbeResult
}

var _ CompletionSource = (*Source)(nil)

// NewSource creates an uninitialised source
func NewSource(opts Options) (*Source, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Logger
	}
	runner := opts.Runner
	if runner == nil {
		runner = NewExecRunner(log)
	}

	prober, err := NewProber(runner, opts.MinVersion, log)
	if err != nil {
		return nil, err
	}

	gatherer := &Gatherer{
		Runner:       runner,
		Timeout:      opts.Timeout,
		EchoProgress: opts.EchoProgress,
		Logger:       log,
	}
	if opts.Walker != nil {
		gatherer.Discovery = &Discoverer{Walker: opts.Walker, Suffixes: opts.Suffixes, Logger: log}
	}

	return &Source{
		prober:   prober,
		gatherer: gatherer,
		logger:   log,
		params:   DefaultParams(),
	}, nil
}

// DefaultConfiguration returns the params used when the host supplies none
func (s *Source) DefaultConfiguration() Params {
	return DefaultParams()
}

// Init runs at most once; later calls return the first result.
// An invalid configuration is reported to the host and leaves the source
// unavailable without probing.
func (s *Source) Init(ctx context.Context, host Host, raw map[string]any) bool {
	s.once.Do(func() {
		params, err := DecodeParams(raw)
		if err != nil {
			s.logger.Warnw("Invalid source configuration", logger.FieldError, err)
			host.ReportError(ctx, MsgNotString)
			s.probe = ProbeResult{Err: err}
			return
		}
		s.params = params
		s.probe = s.prober.Probe(ctx, host, params)
		s.available.Store(s.probe.Available)
	})
	return s.available.Load()
}

// Available reports the result of Init; false before Init
func (s *Source) Available() bool {
	return s.available.Load()
}

// ProbeResult returns the probe outcome recorded by Init
func (s *Source) ProbeResult() ProbeResult {
	return s.probe
}

// Params returns the decoded configuration
func (s *Source) Params() Params {
	return s.params
}

// Gather returns no candidates, without spawning a process, until Init has
// found the executable usable
func (s *Source) Gather(ctx context.Context, host Host) ([]Candidate, error) {
	if !s.available.Load() {
		return []Candidate{}, nil
	}
	candidates, err := s.gatherer.Gather(ctx, host, s.params)
	if err != nil {
		return candidates, errors.WithMessage(err, s.params.Executable)
	}
	return candidates, nil
}
