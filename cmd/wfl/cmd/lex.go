package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wfl-lang/wfl/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Dump the token stream for a WFL file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		l := lexer.New(string(data))
		for {
			tok := l.NextToken()
			fmt.Printf("%-20s %-20q %d:%d\n", tok.Type, tok.Literal, tok.Pos.Line, tok.Pos.Column)
			if tok.Type == lexer.EOF {
				break
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
}
