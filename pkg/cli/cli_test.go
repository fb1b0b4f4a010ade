package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
)

type item struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

func TestOutput(t *testing.T) {
	data := []item{{Name: "x", Value: "hello"}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Output(data, OutputOptions{Format: FormatJSON, Writer: &buf}); err != nil {
			t.Fatalf("Output error: %v", err)
		}
		var got []item
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("Invalid JSON output: %v", err)
		}
		if diff := cmp.Diff(data, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Output(data, OutputOptions{Writer: &buf}); err != nil {
			t.Fatalf("Output error: %v", err)
		}
		if !strings.Contains(buf.String(), "name: x") {
			t.Errorf("Output should contain 'name: x', got: %s", buf.String())
		}
	})

	t.Run("msgpack", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Output(data, OutputOptions{Format: FormatMsgpack, Writer: &buf}); err != nil {
			t.Fatalf("Output error: %v", err)
		}
		var got []map[string]string
		if err := msgpack.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("Invalid msgpack output: %v", err)
		}
		if diff := cmp.Diff([]map[string]string{{"name": "x", "value": "hello"}}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("raw", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Output("plain", OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
			t.Fatalf("Output error: %v", err)
		}
		if buf.String() != "plain" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		if err := Output(data, OutputOptions{Format: FormatJSON, File: path}); err != nil {
			t.Fatalf("Output error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("output file: %v", err)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Output(data, OutputOptions{Format: "xml", Writer: &buf}); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"msgpack", FormatMsgpack, false},
		{"raw", FormatRaw, false},
		{"table", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadVars(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "vars.yaml")
	if err := os.WriteFile(yamlPath, []byte("personality: a witch\nplace: woods\n"), 0644); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "vars.json")
	if err := os.WriteFile(jsonPath, []byte(`{"personality": "a wizard"}`), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		sets    []string
		want    map[string]string
		wantErr bool
	}{
		{"none", "", nil, map[string]string{}, false},
		{"flags", "", []string{"a=1", "b=x=y"}, map[string]string{"a": "1", "b": "x=y"}, false},
		{"empty value", "", []string{"a="}, map[string]string{"a": ""}, false},
		{"yaml file", yamlPath, nil, map[string]string{"personality": "a witch", "place": "woods"}, false},
		{"json file", jsonPath, nil, map[string]string{"personality": "a wizard"}, false},
		{"flag overrides file", yamlPath, []string{"place=castle"}, map[string]string{"personality": "a witch", "place": "castle"}, false},
		{"missing equals", "", []string{"oops"}, nil, true},
		{"empty key", "", []string{"=v"}, nil, true},
		{"missing file", filepath.Join(dir, "nope.yaml"), nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadVars(tt.path, tt.sets)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadVars() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LoadVars() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{500 * time.Millisecond, "500ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30.0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestStyles(t *testing.T) {
	s := NewStyles(DefaultTheme)
	h := s.Header("user", "alice", 40)
	if !strings.Contains(h, "user") || !strings.Contains(h, "alice") {
		t.Errorf("Header() = %q", h)
	}
	table := s.Table([][]string{{"VAR", "UNTIL"}, {"feeling", "</FELT>"}})
	if lines := strings.Split(strings.TrimRight(table, "\n"), "\n"); len(lines) != 2 {
		t.Errorf("Table() lines = %d, want 2", len(lines))
	}
	if s.Table(nil) != "" {
		t.Error("Table(nil) should be empty")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 6, "hello…"},
		{"你好世界", 5, "你好…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.s, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}
