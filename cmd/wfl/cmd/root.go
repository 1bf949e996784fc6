// Package cmd implements the wfl CLI's subcommands, grounded on the
// teacher's cmd/dwscript/cmd package: a cobra root command plus one file
// per subcommand.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wfl",
	Short: "WFL interpreter",
	Long: `wfl runs WFL (Writer's Friendly Language) programs: a natural-language
flavored scripting language with static typing, pattern matching, and
cooperative-async file and HTTP I/O.`,
	Version: "0.1.0-dev",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
