package lmyield

import (
	"strings"
	"unicode"
)

// BlockKind is the kind of a template block.
type BlockKind string

const (
	KindContext      BlockKind = "context"
	KindHuman        BlockKind = "human"
	KindGenerated    BlockKind = "generated"
	KindInstructions BlockKind = "instructions"
	KindYield        BlockKind = "yield"
)

func (k BlockKind) valid() bool {
	switch k {
	case KindContext, KindHuman, KindGenerated, KindInstructions, KindYield:
		return true
	}
	return false
}

// Block is one {{#kind~}}...{{~/kind}} section of a template. Content is
// trimmed. Name is set from the optional name='...' attribute.
type Block struct {
	Kind    BlockKind `json:"kind" yaml:"kind"`
	Content string    `json:"content" yaml:"content"`
	Name    string    `json:"name,omitempty" yaml:"name,omitempty"`
}

// Template is a compiled template ready to be run by a Session.
type Template struct {
	Program      Program       `json:"program" yaml:"program"`
	Instructions []Instruction `json:"instructions" yaml:"instructions"`
}

// Compile parses text, substituting vars, and compiles it into a Template.
// All structure errors are reported here, before any model is called.
func Compile(text string, vars map[string]string) (*Template, error) {
	blocks := ParseBlocks(text, vars)
	prog, yb, err := CompileProgram(blocks)
	if err != nil {
		return nil, err
	}
	instrs, err := ParseInstructions(yb.Content)
	if err != nil {
		return nil, err
	}
	tmpl := &Template{Program: prog, Instructions: instrs}
	if _, _, err := tmpl.opening(); err != nil {
		return nil, err
	}
	return tmpl, nil
}

var errNoOpening = &StructureError{Reason: "nothing to send: no block precedes yield and the first gen has no leading text"}

// opening returns the program of a first attempt and the text the decoder is
// primed with. A template made of a yield block alone opens with the first
// prior literal as an assistant message.
func (t *Template) opening() (Program, string, error) {
	if len(t.Program) > 0 {
		return t.Program, "", nil
	}
	prior := t.Instructions[0].Prior
	if strings.TrimSpace(prior) == "" {
		return nil, "", errNoOpening
	}
	return t.Program.WithReplay(prior), prior, nil
}

// ParseBlocks returns the blocks of text in source order.
//
// Placeholders are substituted first, then comments are removed, then blocks
// are scanned. Substituted values are not scanned for placeholders again.
// Text that does not form a complete block is dropped without error.
func ParseBlocks(text string, vars map[string]string) []Block {
	s := stripComments(substitute(text, vars))

	var blocks []Block
	for {
		i := strings.Index(s, "{{#")
		if i < 0 {
			return blocks
		}
		s = s[i+3:]
		kind, name, n, ok := scanBlockHeader(s)
		if !ok {
			continue
		}
		body := s[n:]
		closer := "{{~/" + string(kind) + "}}"
		j := strings.Index(body, closer)
		if j < 0 {
			continue
		}
		blocks = append(blocks, Block{
			Kind:    kind,
			Content: strings.TrimSpace(body[:j]),
			Name:    name,
		})
		s = body[j+len(closer):]
	}
}

// scanBlockHeader reads `kind~ [name='...']}}` and returns the number of
// bytes consumed.
func scanBlockHeader(s string) (kind BlockKind, name string, n int, ok bool) {
	for n < len(s) && isIdentByte(s[n]) {
		n++
	}
	kind = BlockKind(s[:n])
	if !kind.valid() {
		return "", "", 0, false
	}
	if n >= len(s) || s[n] != '~' {
		return "", "", 0, false
	}
	n++
	n += leadingSpace(s[n:])
	if strings.HasPrefix(s[n:], "name=") {
		v, m, ok := scanQuoted(s[n+len("name="):])
		if !ok {
			return "", "", 0, false
		}
		name = v
		n += len("name=") + m
		n += leadingSpace(s[n:])
	}
	if !strings.HasPrefix(s[n:], "}}") {
		return "", "", 0, false
	}
	return kind, name, n + 2, true
}

// substitute replaces every {{key}} whose key is in vars.
func substitute(text string, vars map[string]string) string {
	if len(vars) == 0 {
		return text
	}
	var sb strings.Builder
	for {
		i := strings.Index(text, "{{")
		if i < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		sb.WriteString(text[:i])
		text = text[i:]
		if j := strings.Index(text[2:], "}}"); j >= 0 {
			if v, ok := vars[text[2:2+j]]; ok {
				sb.WriteString(v)
				text = text[2+j+2:]
				continue
			}
		}
		// {{{x}}} holds {{x}} one byte in.
		sb.WriteByte('{')
		text = text[1:]
	}
}

// stripComments removes every {{! ... }} span, ending at the first "}}".
func stripComments(text string) string {
	var sb strings.Builder
	for {
		i := strings.Index(text, "{{!")
		if i < 0 {
			break
		}
		j := strings.Index(text[i+3:], "}}")
		if j < 0 {
			break
		}
		sb.WriteString(text[:i])
		text = text[i+3+j+2:]
	}
	if sb.Len() == 0 {
		return text
	}
	sb.WriteString(text)
	return sb.String()
}

// scanQuoted reads a single-quoted string at the start of s.
func scanQuoted(s string) (v string, n int, ok bool) {
	if len(s) == 0 || s[0] != '\'' {
		return "", 0, false
	}
	end := strings.IndexByte(s[1:], '\'')
	if end < 0 {
		return "", 0, false
	}
	return s[1 : 1+end], end + 2, true
}

func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
