// Command repo-remove is the remove-flavored entry point, defaulting
// to -R when no action flag is given, matching repoman.c's argv0
// dispatch for "repo-remove".
package main

import "github.com/repomgr/repoman/internal/cli"

func main() {
	cli.Execute(cli.ProgramRepoRemove)
}
