package interp

import (
	"fmt"
	"io"
	"time"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/pattern"
)

// Options configures one interpreter run. ExecutionTimeout and
// PatternStepLimit are the injected settings spec §6 describes the CLI
// collaborator as owning ("the core exposes these as injected settings");
// internal/config.Settings is what the CLI loads them from.
type Options struct {
	Out               io.Writer
	Trace             io.Writer // nil disables tracing
	ExecutionTimeout  time.Duration
	PatternStepLimit  int
	ScriptArgs        []string
}

// DefaultExecutionTimeout matches spec §5's default of 60 seconds.
const DefaultExecutionTimeout = 60 * time.Second

// Interpreter executes one flattened, analyzed, type-checked Program.
// Grounded on the teacher's interp.Interpreter, generalized from
// DWScript's class/record/variant runtime down to WFL's closed value set.
type Interpreter struct {
	globals    *Environment
	containers map[string]*ast.ContainerDefinition
	actions    map[string]*ast.ActionDefinition
	patterns   map[string]*ast.PatternDefStatement

	out   io.Writer
	trace io.Writer

	deadline         time.Time
	mainLoopDepth    int
	loopDepth        int
	patternStepLimit int

	servers map[*HTTPServer]bool
	files   map[*FileHandle]bool
}

// New creates an Interpreter ready to Run a program.
func New(opts Options) *Interpreter {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.PatternStepLimit <= 0 {
		opts.PatternStepLimit = pattern.MaxSteps
	}
	i := &Interpreter{
		globals:    NewEnvironment(),
		containers: make(map[string]*ast.ContainerDefinition),
		actions:    make(map[string]*ast.ActionDefinition),
		patterns:   make(map[string]*ast.PatternDefStatement),
		out:        opts.Out,
		trace:      opts.Trace,
		servers:    make(map[*HTTPServer]bool),
		files:      make(map[*FileHandle]bool),
	}
	timeout := opts.ExecutionTimeout
	if timeout <= 0 {
		timeout = DefaultExecutionTimeout
	}
	i.deadline = time.Now().Add(timeout)
	registerBuiltins(i.globals)
	bindScriptArgs(i.globals, opts.ScriptArgs)
	i.patternStepLimit = opts.PatternStepLimit
	return i
}

func (i *Interpreter) tracef(format string, args ...any) {
	if i.trace == nil {
		return
	}
	fmt.Fprintf(i.trace, format+"\n", args...)
}

// Run executes prog to completion. An unhandled RuntimeError (spec §7:
// "If uncaught, the interpreter terminates with a non-zero status") is
// returned to the caller; a control-flow signal that escapes every
// enclosing construct (a stray `return`/`break`/`exit` at top level) simply
// ends execution, matching spec §4.6's "unhandled signals at the top level
// terminate the program".
func (i *Interpreter) Run(prog *ast.Program) error {
	defer i.closeAll()
	i.collectTopLevel(prog.Statements)
	_, err := i.execStatements(prog.Statements, i.globals)
	return err
}

func (i *Interpreter) closeAll() {
	for f := range i.files {
		_ = f.close()
	}
	for s := range i.servers {
		_ = s.close()
	}
}

func (i *Interpreter) collectTopLevel(stmts []ast.Statement) {
	for _, stmt := range stmts {
		switch v := stmt.(type) {
		case *ast.ActionDefinition:
			i.actions[v.Name] = v
			i.globals.Define(v.Name, &Function{Def: v, Closure: i.globals})
		case *ast.ContainerDefinition:
			i.containers[v.Name] = v
		case *ast.PatternDefStatement:
			i.patterns[v.Name] = v
			i.globals.Define(v.Name, &Pattern{Name: v.Name, Prog: mustCompile(v.Pattern)})
		}
	}
}

func mustCompile(n *pattern.Node) *pattern.Program {
	if n == nil {
		return &pattern.Program{}
	}
	prog, err := pattern.Compile(*n)
	if err != nil {
		// Pattern compile failures are caught by the analyzer/parser before
		// the interpreter ever sees a pattern definition; reaching here means
		// an earlier stage's contract was violated, which is a programmer
		// error, not a user-facing runtime error.
		return &pattern.Program{}
	}
	return prog
}

// checkDeadline raises an execution-timeout RuntimeError once the budget
// set in Options.ExecutionTimeout elapses, except while executing inside a
// `main loop` construct (spec §5: "The main loop construct disables this
// timeout").
func (i *Interpreter) checkDeadline(pos lexer.Position) error {
	if i.mainLoopDepth > 0 {
		return nil
	}
	if time.Now().After(i.deadline) {
		return newRuntimeError(pos, ErrTimeout, "execution timed out")
	}
	return nil
}

// execStatements runs stmts in env without opening a new scope, returning
// the first non-Normal signal encountered (or Normal if the list runs to
// completion).
func (i *Interpreter) execStatements(stmts []ast.Statement, env *Environment) (signal, error) {
	for _, stmt := range stmts {
		sig, err := i.exec(stmt, env)
		if err != nil {
			return normalSignal, err
		}
		if sig.isLoopTerminator() {
			return sig, nil
		}
	}
	return normalSignal, nil
}

// execBlock runs stmts in a fresh child scope of env.
func (i *Interpreter) execBlock(stmts []ast.Statement, env *Environment) (signal, error) {
	return i.execStatements(stmts, NewEnclosedEnvironment(env))
}
