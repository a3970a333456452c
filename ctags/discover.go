package ctags

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
)

// Walker lists regular files under dir whose names end in one of suffixes,
// compared case-insensitively
type Walker interface {
	Walk(ctx context.Context, dir string, suffixes []string) ([]string, error)
}

// FindWalker walks with the external find(1) program
type FindWalker struct {
	Runner Runner
	// Executable defaults to "find"
	Executable string
}

// Walk runs find and returns one path per non-empty output line
func (w *FindWalker) Walk(ctx context.Context, dir string, suffixes []string) ([]string, error) {
	if len(suffixes) == 0 {
		return nil, nil
	}
	exe := w.Executable
	if exe == "" {
		exe = "find"
	}

	lines, err := w.Runner.Run(ctx, exe, FindArgs(dir, suffixes)...)
	if err != nil {
		return nil, errors.Wrap(err, "find walk failed")
	}

	files := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// FindArgs builds the find arguments:
//
//	<dir> -type f ( -iname *.a -o -iname *.b )
func FindArgs(dir string, suffixes []string) []string {
	args := []string{dir, "-type", "f", "("}
	for i, suffix := range suffixes {
		if i > 0 {
			args = append(args, "-o")
		}
		args = append(args, "-iname", "*"+suffix)
	}
	return append(args, ")")
}

// GlobWalker walks in-process with doublestar, for hosts without find
type GlobWalker struct{}

// Walk matches **/*<suffix> for each suffix. Results are absolute when dir is,
// in match order, without duplicates.
func (GlobWalker) Walk(ctx context.Context, dir string, suffixes []string) ([]string, error) {
	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var files []string

	for _, suffix := range suffixes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pattern := "**/*" + escapeGlobMeta(suffix)
		matches, err := doublestar.Glob(fsys, pattern,
			doublestar.WithCaseInsensitive(),
			doublestar.WithFilesOnly(),
		)
		if err != nil {
			return nil, errors.Wrapf(err, "glob %s under %s", pattern, dir)
		}
		for _, match := range matches {
			path := filepath.Join(dir, filepath.FromSlash(match))
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
		}
	}
	return files, nil
}

// escapeGlobMeta backslash-escapes the characters doublestar treats as
// pattern syntax, so a suffix always matches literally
func escapeGlobMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ResolveSuffixes turns the host's comma separated suffix option into a list
// of ".ext" suffixes. An empty option falls back to the extension of
// currentFile; a file without one yields nil.
func ResolveSuffixes(option, currentFile string) []string {
	seen := make(map[string]bool)
	var suffixes []string

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || s == "." {
			return
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		key := strings.ToLower(s)
		if seen[key] {
			return
		}
		seen[key] = true
		suffixes = append(suffixes, s)
	}

	for _, part := range strings.Split(option, ",") {
		add(part)
	}
	if len(suffixes) == 0 {
		add(filepath.Ext(currentFile))
	}
	return suffixes
}

// Discoverer widens a gather from the current file to every same-language
// file under the working directory
type Discoverer struct {
	Walker Walker
	// Suffixes overrides the host option when non-empty
	Suffixes []string
	Logger   *zap.SugaredLogger
}

// Files returns the files to tag. Any failure, or a walk matching nothing,
// falls back to currentFile alone.
func (d *Discoverer) Files(ctx context.Context, host Host, currentFile string) []string {
	log := d.Logger
	if log == nil {
		log = logger.Logger
	}
	fallback := []string{currentFile}

	suffixes := d.Suffixes
	if len(suffixes) == 0 {
		option, err := host.Option(ctx, SuffixOption)
		if err != nil {
			log.Debugw("Could not read suffix option", logger.FieldError, err)
		}
		suffixes = ResolveSuffixes(option, currentFile)
	} else {
		suffixes = ResolveSuffixes(strings.Join(suffixes, ","), currentFile)
	}
	if len(suffixes) == 0 {
		return fallback
	}

	dir, err := host.WorkingDir(ctx)
	if err != nil || dir == "" {
		log.Debugw("No working directory for discovery", logger.FieldError, err)
		return fallback
	}

	files, err := d.Walker.Walk(ctx, dir, suffixes)
	if err != nil {
		log.Warnw("File discovery failed",
			logger.FieldDir, dir,
			logger.FieldSuffixes, suffixes,
			logger.FieldError, err,
		)
		return fallback
	}
	if len(files) == 0 {
		return fallback
	}

	log.Debugw("Discovered files",
		logger.FieldDir, dir,
		logger.FieldSuffixes, suffixes,
		logger.FieldFiles, len(files),
	)
	return files
}
