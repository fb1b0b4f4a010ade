package lmyield

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseInstructions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Instruction
	}{
		{
			name:    "single",
			content: "<A>{{gen 'x' until '</A>'}}",
			want:    []Instruction{{Var: "x", Until: "</A>", Prior: "<A>"}},
		},
		{
			name:    "empty prior",
			content: "{{gen 'x' until '.'}}",
			want:    []Instruction{{Var: "x", Until: ".", Prior: ""}},
		},
		{
			name:    "prior spans lines",
			content: "<D>\n  <A>{{gen 'a' until '</A>'}}\n  <B>{{gen 'b' until '</B>'}}\n</D>",
			want: []Instruction{
				{Var: "a", Until: "</A>", Prior: "<D>\n  <A>"},
				{Var: "b", Until: "</B>", Prior: "\n  <B>"},
			},
		},
		{
			name:    "delimiter with quote",
			content: `said "{{gen 'saying' until '"</SAID>'}}`,
			want:    []Instruction{{Var: "saying", Until: `"</SAID>`, Prior: `said "`}},
		},
		{
			name:    "delimiter with single quote",
			content: "{{gen 'x' until 'it's'}} {{gen 'y' until '''}}",
			want: []Instruction{
				{Var: "x", Until: "it's", Prior: ""},
				{Var: "y", Until: "'", Prior: " "},
			},
		},
		{
			name:    "extra spaces",
			content: "{{gen   'x'   until   'y'  }}",
			want:    []Instruction{{Var: "x", Until: "y", Prior: ""}},
		},
		{
			name:    "gen-like text is literal",
			content: "{{genre}} {{gen 'x' until '.'}}",
			want:    []Instruction{{Var: "x", Until: ".", Prior: "{{genre}} "}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInstructions(tt.content)
			if err != nil {
				t.Fatalf("ParseInstructions() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseInstructions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseInstructions_Count(t *testing.T) {
	content := ""
	for _, v := range []string{"a", "b", "c", "d", "e"} {
		content += "<" + v + ">{{gen '" + v + "' until '</" + v + ">'}}"
	}
	got, err := ParseInstructions(content)
	if err != nil {
		t.Fatalf("ParseInstructions() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i, v := range []string{"a", "b", "c", "d", "e"} {
		if got[i].Var != v {
			t.Errorf("got[%d].Var = %q, want %q", i, got[i].Var, v)
		}
	}
}

func TestParseInstructions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"empty", "", ErrEmptyYield},
		{"no marker", "<A>text</A>", ErrEmptyYield},
		{"duplicate", "{{gen 'x' until 'a'}} {{gen 'x' until 'b'}}", ErrDuplicateVariable},
		{"unquoted var", "{{gen x until 'a'}}", ErrStructure},
		{"missing until", "{{gen 'x' 'a'}}", ErrStructure},
		{"empty var", "{{gen '' until 'a'}}", ErrStructure},
		{"empty delimiter", "{{gen 'x' until ''}}", ErrStructure},
		{"unterminated", "{{gen 'x' until 'a'", ErrStructure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInstructions(tt.content)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseInstructions() error = %v, want %v", err, tt.want)
			}
		})
	}

	var de *DuplicateVariableError
	_, err := ParseInstructions("{{gen 'x' until 'a'}}{{gen 'x' until 'b'}}")
	if !errors.As(err, &de) || de.Name != "x" {
		t.Errorf("error = %v, want DuplicateVariableError{x}", err)
	}
}
