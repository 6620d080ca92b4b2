package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/repomgr/repoman/internal/models"
	"github.com/repomgr/repoman/internal/signer"
)

// Program identifies which of repoman/repo-add/repo-remove is running,
// matching the program_invocation_short_name dispatch in main().
type Program int

const (
	ProgramRepoman Program = iota
	ProgramRepoAdd
	ProgramRepoRemove
)

// NewRootCmd builds the cobra command for prog, pre-wiring the action
// flag's default and help text to match repoman.c's three entry
// points. repo-add defaults to -U (update), repo-remove defaults to -R
// (remove); plain repoman requires an explicit action flag.
func NewRootCmd(prog Program) *cobra.Command {
	cfg := &Config{}
	var colorMode string
	var verify, update, remove, query bool

	use, short := programUsage(prog)

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			color, err := parseColorMode(colorMode)
			if err != nil {
				return &models.RepoError{Kind: models.ConfigError, Err: err}
			}
			cfg.Color = color

			cfg.Action = resolveAction(cmd, verify, update, remove, query, prog)
			if cfg.Action == ActionNone {
				return fmt.Errorf("no action specified (one of -V, -U, -R, -Q)")
			}

			cfg.DBPath = args[0]
			cfg.Packages = args[1:]

			return Run(cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&verify, "verify", "V", false, "verify the contents of the database")
	flags.BoolVarP(&update, "update", "U", false, "update the database")
	flags.BoolVarP(&remove, "remove", "R", false, "remove an entry")
	flags.BoolVarP(&query, "query", "Q", false, "query the database")
	flags.BoolVarP(&cfg.Info, "info", "i", false, "show package info")
	flags.CountVarP(&cfg.Clean, "clean", "c", "remove stuff")
	flags.BoolVarP(&cfg.Files, "files", "f", false, "also build a files database")
	flags.BoolVarP(&cfg.Sign, "sign", "s", false, "sign database with GnuPG after update")
	flags.StringVarP(&cfg.Key, "key", "k", "", "use the specified key to sign the database")
	flags.StringVar(&colorMode, "color", "auto", "colorize output (auto, always, never)")

	return cmd
}

// resolveAction picks the action flag that was passed, falling back to
// prog's compatibility default. pflag does not preserve cross-flag
// ordering the way getopt_long does (repoman.c's last -V/-U/-R/-Q on
// the command line always wins); since real invocations only ever pass
// one action flag, ties resolve by a fixed priority instead of argv
// order. See DESIGN.md.
func resolveAction(cmd *cobra.Command, verify, update, remove, query bool, prog Program) Action {
	switch {
	case verify:
		return ActionVerify
	case update:
		return ActionUpdate
	case remove:
		return ActionRemove
	case query:
		return ActionQuery
	default:
		return defaultAction(prog)
	}
}

// programUsage returns this entry point's usage/short text.
func programUsage(prog Program) (use, short string) {
	switch prog {
	case ProgramRepoAdd:
		return "repo-add [options] <path-to-db> <package> ...", "Add packages to a pacman repository database"
	case ProgramRepoRemove:
		return "repo-remove [options] <path-to-db> <package-name> ...", "Remove packages from a pacman repository database"
	default:
		return "repoman [options] <path-to-db> [pkgs ...]", "Maintain a pacman repository database"
	}
}

// defaultAction returns the action repo-add/repo-remove assume when no
// explicit -V/-U/-R/-Q flag is given, matching repo-compat.c's
// argv0-sensitive defaults.
func defaultAction(prog Program) Action {
	switch prog {
	case ProgramRepoAdd:
		return ActionUpdate
	case ProgramRepoRemove:
		return ActionRemove
	default:
		return ActionNone
	}
}

// parseColorMode validates --color's value, matching parse_repoman_args'
// errx(1, "invalid option ...") on an unrecognized --color argument: a
// bad mode is a fatal config error, not a silent fallback to auto.
func parseColorMode(mode string) (Color, error) {
	switch mode {
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	case "auto":
		return ColorAuto, nil
	default:
		return ColorAuto, fmt.Errorf("invalid option to --color: %s", mode)
	}
}

// stdoutIsTerminal reports whether os.Stdout is attached to a terminal,
// matching isatty(fileno(stdout)) in parse_repoman_args.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Execute runs prog's command tree against os.Args, the entry point
// each cmd/ binary calls from main. The plain repoman binary also
// honors the name it was invoked under, so a copy or symlink named
// repo-add or repo-remove behaves like that entry point.
func Execute(prog Program) {
	if prog == ProgramRepoman {
		switch filepath.Base(os.Args[0]) {
		case "repo-add":
			prog = ProgramRepoAdd
		case "repo-remove":
			prog = ProgramRepoRemove
		}
	}
	cmd := NewRootCmd(prog)
	if err := cmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// signerFromConfig builds the Signer an action should use. A key alone
// (-k, without -s) still builds a real GPGSigner: Load verifies an
// existing index's ".sig" sidecar whenever a signer is available,
// independent of whether this invocation also intends to re-sign the
// database afterward, matching verify_db/load_database calling
// gpgme_verify unconditionally off the ambient keyring in repoman.c.
// Only when no key is configured at all does loading fall back to a
// nil signer, which skips verification entirely.
func signerFromConfig(cfg *Config) (signer.Signer, error) {
	if cfg.Sign && cfg.Key == "" {
		return nil, fmt.Errorf("-s/--sign requires -k/--key")
	}
	if cfg.Key == "" {
		return signer.NewNilSigner(), nil
	}
	passphrase := os.Getenv("REPOMAN_GPG_PASSPHRASE")
	return signer.NewGPGSigner(cfg.Key, passphrase)
}
