package generators

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/haivivi/lmyield/pkg/genx"
)

// mockGenerator records the model name it was asked for.
type mockGenerator struct {
	got string
}

func (m *mockGenerator) GenerateStream(ctx context.Context, model string, mctx genx.ModelContext) (genx.Stream, error) {
	m.got = model
	sb := genx.NewStreamBuilder(1)
	sb.Done(genx.Usage{})
	return sb.Stream(), nil
}

func TestMux_Handle(t *testing.T) {
	mux := NewMux()
	gen := &mockGenerator{}

	if err := mux.Handle("openai/gpt-4o", gen); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if err := mux.Handle("openai/gpt-4o", gen); err == nil {
		t.Error("Handle() expected error for duplicate registration")
	}
	if err := mux.Handle("openai/gpt-4o-mini", gen); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
}

func TestMux_GenerateStream(t *testing.T) {
	mux := NewMux()
	exact := &mockGenerator{}
	wild := &mockGenerator{}
	mux.Handle("openai/gpt-4o", exact)
	mux.Handle("local/#", wild)

	ctx := context.Background()
	if _, err := mux.GenerateStream(ctx, "openai/gpt-4o", nil); err != nil {
		t.Errorf("GenerateStream() error = %v", err)
	}
	if exact.got != "openai/gpt-4o" {
		t.Errorf("exact generator got model %q", exact.got)
	}
	if _, err := mux.GenerateStream(ctx, "local/llama/3", nil); err != nil {
		t.Errorf("GenerateStream() wildcard error = %v", err)
	}
	if wild.got != "local/llama/3" {
		t.Errorf("wildcard generator got model %q", wild.got)
	}
	if _, err := mux.GenerateStream(ctx, "anthropic/claude", nil); err == nil {
		t.Error("GenerateStream() expected error for unregistered pattern")
	}
}

func TestMux_Names(t *testing.T) {
	mux := NewMux()
	mux.Handle("b/two", &mockGenerator{})
	mux.Handle("a/one", &mockGenerator{})
	want := []string{"a/one", "b/two"}
	if diff := cmp.Diff(want, mux.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}
