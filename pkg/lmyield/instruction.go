package lmyield

import (
	"strings"
)

// Instruction is one extraction slot of a yield block: Prior must appear
// verbatim, then the value follows up to the first occurrence of Until.
type Instruction struct {
	Var   string `json:"var" yaml:"var"`
	Until string `json:"until" yaml:"until"`
	Prior string `json:"prior" yaml:"prior"`
}

// Yield is a confirmed value.
type Yield struct {
	Name        string      `json:"name" yaml:"name"`
	Value       string      `json:"value" yaml:"value"`
	Instruction Instruction `json:"-" yaml:"-"`
}

const genMarker = "{{gen"

// ParseInstructions reads the {{gen 'var' until 'delim'}} markers of a yield
// block in source order. Text after the last marker is ignored.
func ParseInstructions(content string) ([]Instruction, error) {
	var (
		instrs []Instruction
		seen   = make(map[string]bool)
		rest   = content
		from   = 0
	)
	for {
		i := strings.Index(rest[from:], genMarker)
		if i < 0 {
			break
		}
		i += from
		// {{genre}} and the like are plain text.
		if leadingSpace(rest[i+len(genMarker):]) == 0 {
			from = i + len(genMarker)
			continue
		}
		name, until, n, err := scanGenMarker(rest[i:])
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, &DuplicateVariableError{Name: name}
		}
		seen[name] = true
		instrs = append(instrs, Instruction{Var: name, Until: until, Prior: rest[:i]})
		rest, from = rest[i+n:], 0
	}
	if len(instrs) == 0 {
		return nil, ErrEmptyYield
	}
	return instrs, nil
}

func scanGenMarker(s string) (name, until string, n int, err error) {
	bad := func(reason string) (string, string, int, error) {
		return "", "", 0, &StructureError{Reason: "compilation error in yield block: " + reason}
	}
	n = len(genMarker)
	n += leadingSpace(s[n:])
	name, m, ok := scanQuoted(s[n:])
	if !ok {
		return bad("gen variable must be single-quoted")
	}
	if name == "" {
		return bad("empty gen variable")
	}
	n += m
	n += leadingSpace(s[n:])
	if !strings.HasPrefix(s[n:], "until") {
		return bad("missing until in gen " + name)
	}
	n += len("until")
	n += leadingSpace(s[n:])
	if !strings.HasPrefix(s[n:], "'") {
		return bad("closing delimiter of " + name + " must be single-quoted")
	}
	until, m, ok = scanUntil(s[n:])
	if !ok {
		return bad("unterminated gen " + name)
	}
	if until == "" {
		return bad("empty closing delimiter for " + name)
	}
	return name, until, n + m, nil
}

// scanUntil reads the quoted delimiter at the start of s up to the first
// quote followed by "}}", so the delimiter itself may hold quotes. n counts
// the closing "}}".
func scanUntil(s string) (until string, n int, ok bool) {
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}
		k := i + 1
		k += leadingSpace(s[k:])
		if strings.HasPrefix(s[k:], "}}") {
			return s[1:i], k + 2, true
		}
	}
	return "", 0, false
}
