// Command repoman is the flat entry point exposing every action
// (-V/-U/-R/-Q) directly, matching repoman.c's default
// program_invocation_short_name branch.
package main

import "github.com/repomgr/repoman/internal/cli"

func main() {
	cli.Execute(cli.ProgramRepoman)
}
