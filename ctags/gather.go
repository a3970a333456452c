package ctags

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
)

// TagFields is the --fields selection; nothing else is read from the output
const TagFields = "{name}{kind}{scope}{scopeKind}"

// Gatherer runs ctags over the file in context and turns its output into
// candidates. It keeps no state between calls.
type Gatherer struct {
	Runner Runner
	// Discovery widens the file set when non-nil
	Discovery *Discoverer
	// Timeout bounds one ctags run; zero means no bound
	Timeout time.Duration
	// EchoProgress echoes a one-line summary through the host after each gather
	EchoProgress bool
	Logger       *zap.SugaredLogger
}

// TagArgs builds the ctags arguments for files:
//
//	--output-format=json --fields={name}{kind}{scope}{scopeKind} -u <files...>
func TagArgs(files []string) []string {
	args := []string{"--output-format=json", "--fields=" + TagFields, "-u"}
	return append(args, files...)
}

// Gather returns the candidates for the file in context. A context that
// cannot be resolved to a readable file yields no candidates and spawns no
// process. A ctags failure yields no candidates and the error.
func (g *Gatherer) Gather(ctx context.Context, host Host, params Params) ([]Candidate, error) {
	log := g.Logger
	if log == nil {
		log = logger.Logger
	}

	file, ok := g.resolveFile(ctx, host, log)
	if !ok {
		return []Candidate{}, nil
	}

	files := []string{file}
	if g.Discovery != nil {
		files = g.Discovery.Files(ctx, host, file)
	}

	runCtx := ctx
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	start := time.Now()
	lines, err := g.Runner.Run(runCtx, params.Executable, TagArgs(files)...)
	if err != nil {
		log.Warnw("ctags run failed",
			logger.FieldExecutable, params.Executable,
			logger.FieldFiles, len(files),
			logger.FieldError, err,
		)
		return []Candidate{}, errors.Wrap(err, "gather candidates")
	}

	candidates := ParseCandidates(lines)
	log.Debugw("Gathered candidates",
		logger.FieldFile, file,
		logger.FieldFiles, len(files),
		logger.FieldLines, len(lines),
		logger.FieldCandidates, len(candidates),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	if g.EchoProgress {
		host.Echo(ctx, ProgressMessage(len(candidates), len(files)))
	}
	return candidates, nil
}

// resolveFile applies the preconditions in order: a named buffer, a file
// path, and that path naming a readable regular file.
func (g *Gatherer) resolveFile(ctx context.Context, host Host, log *zap.SugaredLogger) (string, bool) {
	name, err := host.BufferName(ctx)
	if err != nil || name == "" {
		log.Debugw("Skipping gather: unnamed buffer", logger.FieldError, err)
		return "", false
	}

	path, err := host.FilePath(ctx)
	if err != nil || path == "" {
		log.Debugw("Skipping gather: no file path", logger.FieldError, err)
		return "", false
	}

	if !IsReadableFile(path) {
		log.Debugw("Skipping gather: file not readable", logger.FieldFile, path)
		return "", false
	}
	return path, true
}

// IsReadableFile reports whether path is a regular file the process can open
func IsReadableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// ProgressMessage is the echo text after a gather
func ProgressMessage(candidates, files int) string {
	if files == 1 {
		return fmt.Sprintf("ctags: %d candidates", candidates)
	}
	return fmt.Sprintf("ctags: %d candidates from %d files", candidates, files)
}
