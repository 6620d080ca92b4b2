// Package cli wires the repoman/repo-add/repo-remove command surface
// onto the repo engine, generalizing the teacher's cobra-based
// internal/cli package from repogen's "generate" subcommand model to
// repoman.c's flat, getopt-style action-flag model: one root command,
// mutually exclusive action flags (-V/-U/-R/-Q), and argv0-sensitive
// defaults for the repo-add/repo-remove entry points.
package cli

// Action selects which of repoman.c's four top-level operations a
// single invocation performs.
type Action int

const (
	ActionNone Action = iota
	ActionVerify
	ActionUpdate
	ActionRemove
	ActionQuery
)

// Color selects when ANSI colors are used, matching --color=MODE.
type Color int

const (
	ColorAuto Color = iota
	ColorAlways
	ColorNever
)

// Config holds every flag repoman.c's parse_repoman_args (and its
// repo-add/repo-remove compatibility variants) recognize.
type Config struct {
	Action Action

	Info  bool // -i/--info: show full package metadata on query
	Clean int  // -c/--clean: may be given multiple times, raising the level
	Files bool // -f/--files: also maintain the files database
	Sign  bool // -s/--sign: sign the database after writing it
	Key   string

	Color Color

	// DBPath is the path to the repository database given as the
	// first positional argument, e.g. "/srv/repo/core.db.tar.gz".
	DBPath string

	// Packages are the remaining positional arguments: explicit
	// package paths for -U, package names for -R/-Q.
	Packages []string
}

// resolveColor decides whether output should be colorized, matching
// enable_colors(cfg.color): ColorAuto defers to whether stdout is a
// terminal.
func resolveColor(c Color, stdoutIsTerminal bool) bool {
	switch c {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return stdoutIsTerminal
	}
}
