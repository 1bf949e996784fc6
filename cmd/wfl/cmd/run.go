package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wfl-lang/wfl/internal/config"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/interp"
	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/parser"
	"github.com/wfl-lang/wfl/internal/resolver"
	"github.com/wfl-lang/wfl/internal/semantic"
	"github.com/wfl-lang/wfl/internal/types"
)

var (
	evalExpr    string
	traceExec   bool
	configPath  string
	timeoutFlag string
)

var runCmd = &cobra.Command{
	Use:   "run [file] [-- script args...]",
	Short: "Run a WFL file or inline expression",
	Long: `Execute a WFL program through the full pipeline: lexer, parser, module
resolver, semantic analyzer, type checker, interpreter.

Examples:
  wfl run script.wfl
  wfl run -e "display 1 plus 1"
  wfl run script.wfl -- --name Ada`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&traceExec, "trace", false, "trace statement execution to stderr")
	runCmd.Flags().StringVar(&configPath, "config", "", "path to a .wflcfg file (YAML or JSON)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "execution timeout override, e.g. 30s (overrides --config)")
}

func runScript(_ *cobra.Command, args []string) error {
	var source, filename string
	switch {
	case evalExpr != "":
		source, filename = evalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", filename, err)
		}
		source = string(data)
	default:
		return fmt.Errorf("provide a script file or -e \"<code>\"")
	}

	settings := config.Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("could not read config %s: %w", configPath, err)
		}
		settings, err = config.Load(string(data))
		if err != nil {
			return err
		}
	}
	if timeoutFlag != "" {
		overridden, err := config.Load(fmt.Sprintf("execution_timeout: %s", timeoutFlag))
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		settings.ExecutionTimeout = overridden.ExecutionTimeout
	}

	reporter := errors.NewReporter(filename, source)
	l := lexer.New(source)
	p := parser.New(l, reporter)
	prog := p.ParseProgram()

	if filename != "<eval>" {
		res := resolver.New(reporter)
		prog = res.Resolve(prog, filename)
	}

	semantic.Analyze(prog, reporter)
	types.Check(prog, reporter)

	if reporter.HasErrors() {
		fmt.Fprint(os.Stderr, reporter.FormatAll())
		return fmt.Errorf("%s did not pass analysis", displayName(filename))
	}
	for _, d := range reporter.Diagnostics() {
		if d.Severity == errors.SeverityWarning {
			fmt.Fprint(os.Stderr, reporter.Format(d))
		}
	}

	var trace *os.File
	if traceExec {
		trace = os.Stderr
	}
	i := interp.New(interp.Options{
		Out:              os.Stdout,
		Trace:            trace,
		ExecutionTimeout: settings.ExecutionTimeout,
		PatternStepLimit: settings.PatternStepLimit,
		ScriptArgs:       scriptArgsAfterDoubleDash(),
	})
	if err := i.Run(prog); err != nil {
		if rerr, ok := err.(*interp.RuntimeError); ok {
			fmt.Fprint(os.Stderr, reporter.Format(errors.Diagnostic{
				Severity: errors.SeverityError,
				Code:     rerr.DiagnosticCode(),
				Message:  rerr.Message,
				Pos:      rerr.Pos,
			}))
		} else {
			fmt.Fprintln(os.Stderr, "runtime error:", err)
		}
		return err
	}
	return nil
}

func displayName(filename string) string {
	if filename == "<eval>" {
		return "the inline script"
	}
	return filename
}

// scriptArgsAfterDoubleDash returns every argument following a literal
// "--" on the command line, which cobra leaves untouched in os.Args for
// exactly this purpose (spec §6 script-argument bindings).
func scriptArgsAfterDoubleDash() []string {
	for idx, a := range os.Args {
		if a == "--" {
			return os.Args[idx+1:]
		}
	}
	return nil
}
