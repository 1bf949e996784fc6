// Command wfl is the CLI collaborator described in spec §6: a thin
// front end over the core packages (lexer, parser, resolver, semantic
// analyzer, type checker, interpreter) that does nothing but wire a
// source file to an exit code and a pair of output streams.
package main

import (
	"fmt"
	"os"

	"github.com/wfl-lang/wfl/cmd/wfl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
