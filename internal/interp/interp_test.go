package interp

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/wfl-lang/wfl/internal/ast"
	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
	"github.com/wfl-lang/wfl/internal/parser"
)

// parseProgram runs only the lexer and parser, skipping the resolver,
// semantic analyzer, and type checker: the interpreter is tested against
// its own execution contract, independent of whether earlier pipeline
// stages would have accepted the program.
func parseProgram(t *testing.T, source string) *ast.Program {
	t.Helper()
	reporter := errors.NewReporter("<test>", source)
	l := lexer.New(source)
	p := parser.New(l, reporter)
	prog := p.ParseProgram()
	if reporter.HasErrors() {
		t.Fatalf("parse errors for:\n%s\n%s", source, reporter.FormatAll())
	}
	return prog
}

func runSource(t *testing.T, source string, opts Options) (string, error) {
	t.Helper()
	prog := parseProgram(t, source)
	var out bytes.Buffer
	opts.Out = &out
	i := New(opts)
	err := i.Run(prog)
	return out.String(), err
}

func run(t *testing.T, source string) string {
	t.Helper()
	out, err := runSource(t, source, Options{})
	if err != nil {
		t.Fatalf("unexpected runtime error for:\n%s\n%v", source, err)
	}
	return out
}

func TestHelloWorld(t *testing.T) {
	out := run(t, `display "Hello, World!"`)
	if out != "Hello, World!\n" {
		t.Errorf("expected %q, got %q", "Hello, World!\n", out)
	}
}

func TestNestedConditionalChain(t *testing.T) {
	out := run(t, `store score as 75
check if score is at least 90:
display "A"
otherwise:
check if score is at least 70:
display "B"
otherwise:
display "C"
end check
end check`)
	if out != "B\n" {
		t.Errorf("expected B, got %q", out)
	}
}

func TestCountLoopWithBreak(t *testing.T) {
	out := run(t, `count from 1 to 10:
check if count is 4:
break
end check
display count
end count`)
	if out != "1\n2\n3\n" {
		t.Errorf("expected 1/2/3, got %q", out)
	}
}

func TestPatternMatchWithCapture(t *testing.T) {
	out := run(t, `create pattern email:
one or more {letter or digit or "." or "_"} as name
"@"
one or more {letter or digit or "."} as domain
end pattern
store m as find email in "user@example.com"
display m["name"]
display m["domain"]`)
	if out != "user\nexample.com\n" {
		t.Errorf("expected captured name/domain, got %q", out)
	}
}

func TestStoreChangeDisplay(t *testing.T) {
	out := run(t, `store x as 1
change x to x plus 41
display x`)
	if strings.TrimSpace(out) != "42" {
		t.Errorf("expected 42, got %q", out)
	}
}

func TestArithmeticOperators(t *testing.T) {
	out := run(t, `display 2 plus 3 times 4
display 10 divided by 4
display 10 modulo 3`)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"14", "2.5", "1"}
	for idx, w := range want {
		if lines[idx] != w {
			t.Errorf("line %d: expected %q, got %q", idx, w, lines[idx])
		}
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := runSource(t, `display 1 divided by 0`, Options{})
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Kind != ErrDivisionByZero {
		t.Fatalf("expected an ErrDivisionByZero RuntimeError, got %v", err)
	}
}

func TestConditional(t *testing.T) {
	out := run(t, `store x as 5
check if x is greater than 3:
display "big"
otherwise:
display "small"
end check`)
	if strings.TrimSpace(out) != "big" {
		t.Errorf("expected big, got %q", out)
	}
}

func TestCountLoop(t *testing.T) {
	out := run(t, `count from 1 to 3:
display count
end count`)
	if strings.TrimSpace(out) != "1\n2\n3" {
		t.Errorf("expected 1..3, got %q", out)
	}
}

func TestCountLoopDown(t *testing.T) {
	out := run(t, `count from 3 down to 1:
display count
end count`)
	if strings.TrimSpace(out) != "3\n2\n1" {
		t.Errorf("expected 3..1, got %q", out)
	}
}

func TestForEachOverList(t *testing.T) {
	out := run(t, `store xs as [10, 20, 30]
for each x in xs:
display x
end for`)
	if strings.TrimSpace(out) != "10\n20\n30" {
		t.Errorf("expected 10/20/30, got %q", out)
	}
}

func TestForEachIndexIsOneBased(t *testing.T) {
	out := run(t, `store xs as ["a", "b"]
for each x in xs at idx:
display idx
end for`)
	if strings.TrimSpace(out) != "1\n2" {
		t.Errorf("expected 1-based indices, got %q", out)
	}
}

func TestWhileLoopWithBreakAndContinue(t *testing.T) {
	out := run(t, `store x as 0
repeat while x is less than 10:
change x to x plus 1
check if x is 2:
skip
end check
check if x is 5:
break
end check
display x
end repeat`)
	if strings.TrimSpace(out) != "1\n3\n4" {
		t.Errorf("expected 1,3,4 (2 skipped, loop broken at 5), got %q", out)
	}
}

func TestActionDefinitionAndCall(t *testing.T) {
	out := run(t, `define action called add needs a and b:
give back a plus b
end action
display call add with 3 and 4`)
	if strings.TrimSpace(out) != "7" {
		t.Errorf("expected 7, got %q", out)
	}
}

func TestZeroArityAutoCall(t *testing.T) {
	out := run(t, `define action called greeting:
give back "hi"
end action
display greeting`)
	if strings.TrimSpace(out) != "hi" {
		t.Errorf("expected hi (zero-arity auto-call), got %q", out)
	}
}

func TestSpaceSeparatedParamsBindSingleArgToAll(t *testing.T) {
	out := run(t, `define action called describe needs a b:
display a
display b
end action
call describe with 9`)
	if strings.TrimSpace(out) != "9\n9" {
		t.Errorf("expected 9 bound to both space-separated params, got %q", out)
	}
}

func TestTryCatchBindsErrorText(t *testing.T) {
	out := run(t, `try:
display 1 divided by 0
when error as e:
display "caught"
display e
end try`)
	if strings.TrimSpace(out) != "caught\nDivisionByZero: division by zero" {
		t.Errorf("expected the handler to run with the error text bound, got %q", out)
	}
}

func TestContainerInstantiationAndMethodWriteback(t *testing.T) {
	out := run(t, `create container Counter:
property value as Number = 0
define action called increment needs amount:
change value to value plus amount
end action
end container
create new Counter as counter
call counter.increment with 5
call counter.increment with 2
display counter.value`)
	if strings.TrimSpace(out) != "7" {
		t.Errorf("expected the property mutation to persist across calls, got %q", out)
	}
}

func TestContainerBareZeroArgMethodCall(t *testing.T) {
	out := run(t, `create container Counter:
property value as Number
define action called bump:
change value to value plus 1
end action
end container
create new Counter as c: value is 0 end create
c.bump
c.bump
display c.value`)
	if strings.TrimSpace(out) != "2" {
		t.Errorf("expected 2, got %q", out)
	}
}

func TestMainLoopBypassesExecutionTimeout(t *testing.T) {
	out, err := runSource(t, `store n as 0
main loop:
change n to n plus 1
check if n is 3:
break
end check
end loop
display n`, Options{ExecutionTimeout: time.Nanosecond})
	if err != nil {
		t.Fatalf("main loop should not time out: %v", err)
	}
	if strings.TrimSpace(out) != "3" {
		t.Errorf("expected 3, got %q", out)
	}
}

func TestOrdinaryForeverLoopRespectsTimeout(t *testing.T) {
	_, err := runSource(t, `repeat forever:
display 1
end repeat`, Options{ExecutionTimeout: time.Nanosecond})
	if err == nil {
		t.Fatal("expected a timeout error for an ordinary forever loop")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Kind != ErrTimeout {
		t.Fatalf("expected an ErrTimeout RuntimeError, got %v", err)
	}
}
