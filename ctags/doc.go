// Package ctags turns Universal Ctags output into completion candidates.
//
// The package has two halves that a host composes per session:
//
//   - Prober runs once: it checks the configured executable is on the search
//     path, runs "<exe> --help" and accepts it only when the first line is the
//     Universal Ctags banner and some line advertises --output-format=json.
//   - Gatherer runs per completion request: it runs
//     "<exe> --output-format=json --fields={name}{kind}{scope}{scopeKind} -u <files>"
//     and maps every well-formed JSON line to a Candidate, in output order.
//
// Source wires both behind the CompletionSource interface and owns the
// availability flag. Hosts (the LSP handler, the MCP server, the CLI) reach
// the editor state through the Host interface and spawn processes through a
// Runner, so both can be replaced in tests.
//
// Malformed output lines are expected noise and are dropped without error.
// Every failure degrades to "no candidates"; nothing here is fatal.
package ctags
