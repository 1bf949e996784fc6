package pattern

import (
	"errors"
	"strings"
)

// Captures maps a named capture to the text it matched. A capture that was
// never reached (inside a branch that did not fire) is absent rather than
// present with an empty string, which is how the interpreter distinguishes
// "unset" from "matched zero characters" when it surfaces captures as
// Optional<Text> values (spec §4.7).
type Captures map[string]string

// ErrStepLimitExceeded is returned by Matches/Find/Replace/Split when a
// match attempt runs out of its step budget before the VM can prove either
// a match or a non-match. Distinguishing this from an ordinary failed match
// is the point: "on exceeding the limit it raises a step-limit error rather
// than hanging" (spec §8 "pattern step bound").
var ErrStepLimitExceeded = errors.New("pattern: step limit exceeded")

// Matches reports whether prog matches anywhere within text, giving up
// after maxSteps VM instructions (pass MaxSteps for the package default).
func Matches(prog *Program, text string, maxSteps int) (bool, error) {
	_, ok, err := Find(prog, text, maxSteps)
	return ok, err
}

// findFrom scans subject from pos onward for the first offset at which prog
// matches, returning the match's start and end rune offsets.
func findFrom(prog *Program, subject []rune, pos, maxSteps int) (start, end int, caps []int, ok bool, err error) {
	for s := pos; s <= len(subject); s++ {
		matched, e, c, exceeded := run(prog, subject, s, maxSteps)
		if exceeded {
			return 0, 0, nil, false, ErrStepLimitExceeded
		}
		if matched {
			return s, e, c, true, nil
		}
	}
	return 0, 0, nil, false, nil
}

// Find returns the captures of the first (leftmost) match of prog in text,
// and false if there is no match anywhere in the subject. The result always
// carries a "match" entry holding the full matched text, alongside any named
// captures, matching the `Map{match, <captures...>}` shape the `find`
// operation returns (spec §3).
func Find(prog *Program, text string, maxSteps int) (Captures, bool, error) {
	subject := []rune(text)
	start, end, caps, ok, err := findFrom(prog, subject, 0, maxSteps)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	out := capturesFromSlots(prog, subject, caps)
	out["match"] = string(subject[start:end])
	return out, true, nil
}

func capturesFromSlots(prog *Program, subject []rune, caps []int) Captures {
	out := make(Captures, len(prog.CaptureNames)+1)
	for i, name := range prog.CaptureNames {
		s, e := caps[i*2], caps[i*2+1]
		if s < 0 || e < 0 {
			continue
		}
		out[name] = string(subject[s:e])
	}
	return out
}

// Replace substitutes every non-overlapping match of prog in text with
// replacement, scanning left to right.
func Replace(prog *Program, text, replacement string, maxSteps int) (string, error) {
	subject := []rune(text)
	var out strings.Builder
	pos := 0
	for pos <= len(subject) {
		start, end, _, ok, err := findFrom(prog, subject, pos, maxSteps)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		out.WriteString(string(subject[pos:start]))
		out.WriteString(replacement)
		if end == start {
			if start < len(subject) {
				out.WriteRune(subject[start])
			}
			pos = start + 1
			continue
		}
		pos = end
	}
	if pos < len(subject) {
		out.WriteString(string(subject[pos:]))
	}
	return out.String(), nil
}

// Split breaks text on every match of prog, the way `split <text> on
// <pattern>` does (spec §3 supplemented string operations).
func Split(prog *Program, text string, maxSteps int) ([]string, error) {
	subject := []rune(text)
	var parts []string
	last, pos := 0, 0
	for pos <= len(subject) {
		start, end, _, ok, err := findFrom(prog, subject, pos, maxSteps)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		parts = append(parts, string(subject[last:start]))
		if end == start {
			pos = start + 1
		} else {
			pos = end
		}
		last = end
		if end == start {
			last = start
		}
	}
	parts = append(parts, string(subject[last:]))
	return parts, nil
}
