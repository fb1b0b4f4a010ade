package trie

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTrie_Match(t *testing.T) {
	tr := New[string]()
	for path, v := range map[string]string{
		"openai/gpt-4o": "exact",
		"openai/+":      "any-one",
		"gemini/#":      "any-rest",
		"local":         "root",
	} {
		if err := tr.SetValue(path, v); err != nil {
			t.Fatalf("SetValue(%q) error = %v", path, err)
		}
	}

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"openai/gpt-4o", "exact", true},
		{"openai/gpt-4o-mini", "any-one", true},
		{"openai/a/b", "", false},
		{"gemini/flash", "any-rest", true},
		{"gemini/flash/2.0", "any-rest", true},
		{"gemini", "any-rest", true},
		{"local", "root", true},
		{"anthropic/claude", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := tr.GetValue(tt.path)
			if ok != tt.ok || got != tt.want {
				t.Errorf("GetValue(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTrie_SetExisting(t *testing.T) {
	tr := New[int]()
	refuse := errors.New("exists")
	set := func(ptr *int, existed bool) error {
		if existed {
			return refuse
		}
		*ptr = 1
		return nil
	}
	if err := tr.Set("a/b", set); err != nil {
		t.Fatalf("first Set() error = %v", err)
	}
	if err := tr.Set("a/b", set); !errors.Is(err, refuse) {
		t.Errorf("second Set() error = %v, want %v", err, refuse)
	}
}

func TestTrie_InvalidPattern(t *testing.T) {
	tr := New[int]()
	if err := tr.SetValue("a/#/b", 1); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("SetValue() error = %v, want ErrInvalidPattern", err)
	}
}

func TestTrie_Walk(t *testing.T) {
	tr := New[int]()
	tr.SetValue("b/x", 2)
	tr.SetValue("a", 1)
	tr.SetValue("b/+", 3)

	var got []string
	tr.Walk(func(path string, _ int) {
		got = append(got, path)
	})
	want := []string{"a", "b/x", "b/+"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk() paths mismatch (-want +got):\n%s", diff)
	}
}
