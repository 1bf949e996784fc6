package interp

import (
	"bufio"
	"io"
	"os"

	"github.com/wfl-lang/wfl/internal/ast"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FileHandle wraps an open file plus the buffered reader/writer WFL's
// read/write operations drive it through. Grounded on the teacher's
// internal/interp/encoding.go BOM-sniffing decoder, adapted from
// DWScript's UTF-16-tolerant source reader into WFL's `open file ... as`
// runtime handle (spec §4.6, SPEC_FULL.md DOMAIN STACK).
type FileHandle struct {
	path   string
	mode   string
	file   *os.File
	reader *bufio.Reader
	writer *bufio.Writer
	closed bool
}

func (f *FileHandle) Type() string   { return "FileHandle" }
func (f *FileHandle) String() string { return "file " + f.path }

// bomAwareReader wraps r in a decoder that sniffs a UTF-16 BOM and
// transcodes to UTF-8, falling back to raw UTF-8 when no BOM is present
// (golang.org/x/text/encoding/unicode.BOMOverride does exactly this).
func bomAwareReader(r io.Reader) io.Reader {
	utf8bom := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(r, utf8bom)
}

func (i *Interpreter) execOpenFile(v *ast.OpenFileStatement, env *Environment) error {
	pathVal, err := i.eval(v.Path, env)
	if err != nil {
		return err
	}
	path, ok := pathVal.(Text)
	if !ok {
		return newRuntimeError(v.Pos(), ErrTypeError, "open file path must be Text")
	}
	var flag int
	switch v.Mode {
	case "reading":
		flag = os.O_RDONLY
	case "writing":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "appending":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return newRuntimeError(v.Pos(), ErrTypeError, "unknown file mode %q", v.Mode)
	}
	f, err := os.OpenFile(string(path), flag, 0o644)
	if err != nil {
		return newRuntimeError(v.Pos(), ErrIO, "could not open %q: %v", string(path), err)
	}
	handle := &FileHandle{path: string(path), mode: v.Mode, file: f}
	if v.Mode == "reading" {
		handle.reader = bufio.NewReader(bomAwareReader(f))
	} else {
		handle.writer = bufio.NewWriter(f)
	}
	i.files[handle] = true
	env.Define(v.Name, handle)
	return nil
}

func (f *FileHandle) close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.writer != nil {
		if err := f.writer.Flush(); err != nil {
			return err
		}
	}
	return f.file.Close()
}

func (i *Interpreter) execClose(v *ast.CloseStatement, env *Environment) error {
	val, err := i.eval(v.Handle, env)
	if err != nil {
		return err
	}
	switch h := val.(type) {
	case *FileHandle:
		if h.closed {
			return nil // idempotent: re-closing an already-closed handle does nothing (spec §5)
		}
		delete(i.files, h)
		return h.close()
	case *HTTPServer:
		delete(i.servers, h)
		return h.close()
	default:
		return newRuntimeError(v.Pos(), ErrTypeError, "close requires a FileHandle or HttpServerHandle, got %s", val.Type())
	}
}

func (i *Interpreter) execWrite(v *ast.WriteStatement, env *Environment) error {
	content, err := i.eval(v.Content, env)
	if err != nil {
		return err
	}
	handleVal, err := i.eval(v.Handle, env)
	if err != nil {
		return err
	}
	h, ok := handleVal.(*FileHandle)
	if !ok {
		return newRuntimeError(v.Pos(), ErrTypeError, "write requires a FileHandle, got %s", handleVal.Type())
	}
	if h.writer == nil {
		return newRuntimeError(v.Pos(), ErrIO, "file %q is not open for writing", h.path)
	}
	if _, err := h.writer.WriteString(content.String()); err != nil {
		return newRuntimeError(v.Pos(), ErrIO, "write failed: %v", err)
	}
	return nil
}

func (i *Interpreter) evalRead(v *ast.ReadExpression, env *Environment) (Value, error) {
	handleVal, err := i.eval(v.Handle, env)
	if err != nil {
		return nil, err
	}
	h, ok := handleVal.(*FileHandle)
	if !ok {
		return nil, newRuntimeError(v.Pos(), ErrTypeError, "read requires a FileHandle, got %s", handleVal.Type())
	}
	if h.reader == nil {
		return nil, newRuntimeError(v.Pos(), ErrIO, "file %q is not open for reading", h.path)
	}
	switch v.Unit {
	case "content":
		data, err := io.ReadAll(h.reader)
		if err != nil {
			return nil, newRuntimeError(v.Pos(), ErrIO, "read failed: %v", err)
		}
		return Text(string(data)), nil
	case "lines":
		n := -1
		if v.Count != nil {
			cv, err := i.eval(v.Count, env)
			if err != nil {
				return nil, err
			}
			num, ok := cv.(Number)
			if !ok {
				return nil, newRuntimeError(v.Pos(), ErrTypeError, "read count must be a Number")
			}
			n = int(num)
		}
		var lines []Value
		for n < 0 || len(lines) < n {
			line, err := h.reader.ReadString('\n')
			if len(line) > 0 {
				lines = append(lines, Text(trimNewline(line)))
			}
			if err != nil {
				break
			}
		}
		return NewList(lines), nil
	case "characters":
		cv, err := i.eval(v.Count, env)
		if err != nil {
			return nil, err
		}
		num, ok := cv.(Number)
		if !ok {
			return nil, newRuntimeError(v.Pos(), ErrTypeError, "read count must be a Number")
		}
		buf := make([]rune, 0, int(num))
		for len(buf) < int(num) {
			r, _, err := h.reader.ReadRune()
			if err != nil {
				break
			}
			buf = append(buf, r)
		}
		return Text(string(buf)), nil
	default:
		return nil, newRuntimeError(v.Pos(), ErrTypeError, "unknown read unit %q", v.Unit)
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
