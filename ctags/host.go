package ctags

import "context"

// SuffixOption is the host option holding the comma separated list of file
// suffixes used by file discovery (".py,.pyi").
const SuffixOption = "suffixesadd"

// Host is the editor-side surface the source depends on.
//
// Query methods return an empty string when the host has no answer; an error
// means the host could not be asked at all. Both cases make Gather return no
// candidates.
type Host interface {
	// Executable reports whether name resolves to an executable on the search path
	Executable(ctx context.Context, name string) bool

	// BufferName returns the name of the buffer in context, "" when unnamed
	BufferName(ctx context.Context) (string, error)

	// FilePath returns the absolute path of the file in context
	FilePath(ctx context.Context) (string, error)

	// WorkingDir returns the directory file discovery walks from
	WorkingDir(ctx context.Context) (string, error)

	// Option returns the value of a host option such as SuffixOption
	Option(ctx context.Context, name string) (string, error)

	// ReportError shows a user-visible diagnostic
	ReportError(ctx context.Context, message string)

	// Echo shows a transient progress message
	Echo(ctx context.Context, message string)
}
