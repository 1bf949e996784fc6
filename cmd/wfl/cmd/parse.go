package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Dump the AST for a WFL file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		filename := args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return err
		}
		source := string(data)
		reporter := errors.NewReporter(filename, source)
		l := lexer.New(source)
		p := parser.New(l, reporter)
		prog := p.ParseProgram()
		if reporter.HasErrors() {
			fmt.Fprint(os.Stderr, reporter.FormatAll())
			return fmt.Errorf("%s did not parse", filename)
		}
		for _, stmt := range prog.Statements {
			dumpStatement(stmt, 0)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func dumpStatement(stmt ast.Statement, depth int) {
	fmt.Printf("%s%T\n", indent(depth), stmt)
	if block, ok := stmt.(*ast.BlockStatement); ok {
		for _, s := range block.Statements {
			dumpStatement(s, depth+1)
		}
	}
}

func indent(depth int) string {
	out := make([]byte, depth*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}
