package ctags

import (
	"context"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
)

// Diagnostics shown to the user when the source cannot be used
const (
	MsgNotString    = "executable should be a string"
	MsgNotFound     = "executable not found"
	MsgIncompatible = "executable seem not to be the latest Universal Ctags."
)

var (
	bannerPattern   = regexp.MustCompile(`^Universal Ctags`)
	jsonModePattern = regexp.MustCompile(`--output-format=.*json`)
	versionPattern  = regexp.MustCompile(`^Universal Ctags\s+(\d+\.\d+(?:\.\d+)?)`)
)

// ProbeResult is the outcome of a single availability probe
type ProbeResult struct {
	Available bool
	// Banner is the first line of --help output, when there was one
	Banner string
	// Version is parsed from the banner; nil when the banner carries none
	Version *semver.Version
	// Err classifies the failure against errors.ErrExecutableNotFound or
	// errors.ErrIncompatibleExecutable; nil when Available
	Err error
}

// Prober checks that an executable is a JSON-capable Universal Ctags
type Prober struct {
	runner     Runner
	constraint *semver.Constraints
	logger     *zap.SugaredLogger
}

// NewProber creates a prober. minVersion is an optional semver constraint
// checked against the banner version; an invalid constraint is an error.
func NewProber(runner Runner, minVersion string, log *zap.SugaredLogger) (*Prober, error) {
	if runner == nil {
		return nil, errors.New("prober requires a runner")
	}
	if log == nil {
		log = logger.Logger
	}

	p := &Prober{runner: runner, logger: log}
	if minVersion != "" {
		constraint, err := semver.NewConstraint(minVersion)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid minimum ctags version %q", minVersion)
		}
		p.constraint = constraint
	}
	return p, nil
}

// Probe checks params.Executable and reports exactly one diagnostic to host
// when it is unusable. It never retries.
func (p *Prober) Probe(ctx context.Context, host Host, params Params) ProbeResult {
	result := p.probe(ctx, host, params)

	if result.Available {
		p.logger.Infow("ctags available",
			logger.FieldExecutable, params.Executable,
			logger.FieldVersion, versionString(result.Version),
		)
		return result
	}

	p.logger.Warnw("ctags unavailable",
		logger.FieldExecutable, params.Executable,
		logger.FieldError, result.Err,
	)
	if errors.Is(result.Err, errors.ErrExecutableNotFound) {
		host.ReportError(ctx, MsgNotFound)
	} else {
		host.ReportError(ctx, MsgIncompatible)
	}
	return result
}

func (p *Prober) probe(ctx context.Context, host Host, params Params) ProbeResult {
	if params.Executable == "" || !host.Executable(ctx, params.Executable) {
		return ProbeResult{
			Err: errors.WithHint(
				errors.Wrapf(errors.ErrExecutableNotFound, "%q", params.Executable),
				"install Universal Ctags or set ctags.executable",
			),
		}
	}

	help, err := p.runner.Run(ctx, params.Executable, "--help")
	if err != nil {
		return ProbeResult{Err: errors.Mark(err, errors.ErrIncompatibleExecutable)}
	}

	banner, err := CheckHelp(help)
	result := ProbeResult{Banner: banner, Version: ParseBannerVersion(banner)}
	if err != nil {
		result.Err = err
		return result
	}

	if p.constraint != nil && result.Version != nil && !p.constraint.Check(result.Version) {
		result.Err = errors.NewIncompatibleError("ctags %s does not satisfy %s", result.Version, p.constraint)
		return result
	}

	result.Available = true
	return result
}

// CheckHelp applies the acceptance test to "--help" output: there is output,
// its first line is the Universal Ctags banner, and some line advertises a
// JSON output format. It returns the first line, if any.
func CheckHelp(lines []string) (string, error) {
	if len(lines) == 0 {
		return "", errors.NewIncompatibleError("--help produced no output")
	}

	banner := lines[0]
	if !bannerPattern.MatchString(banner) {
		return banner, errors.NewIncompatibleError("first line %q is not a Universal Ctags banner", banner)
	}

	for _, line := range lines {
		if jsonModePattern.MatchString(line) {
			return banner, nil
		}
	}
	return banner, errors.NewIncompatibleError("--help does not list --output-format=json")
}

// ParseBannerVersion extracts the version from a banner such as
// "Universal Ctags 6.1.0(v6.1.0), Copyright (C) 2015-2023 Universal Ctags Team".
// Returns nil when no version is present.
func ParseBannerVersion(banner string) *semver.Version {
	m := versionPattern.FindStringSubmatch(banner)
	if m == nil {
		return nil
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil
	}
	return v
}

func versionString(v *semver.Version) string {
	if v == nil {
		return ""
	}
	return v.String()
}
