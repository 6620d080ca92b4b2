// Command repo-add is the update-flavored entry point, defaulting to
// -U when no action flag is given, matching repoman.c's argv0
// dispatch for "repo-add".
package main

import "github.com/repomgr/repoman/internal/cli"

func main() {
	cli.Execute(cli.ProgramRepoAdd)
}
