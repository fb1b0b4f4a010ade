// Package generators routes model names to genx.Generator implementations.
package generators

import (
	"context"
	"fmt"
	"sync"

	"github.com/haivivi/lmyield/pkg/genx"
	"github.com/haivivi/lmyield/pkg/trie"
)

var _ genx.Generator = (*Mux)(nil)

// DefaultMux is the default generator multiplexer.
var DefaultMux = NewMux()

// Handle registers a generator for the given pattern to the default mux.
func Handle(pattern string, gen genx.Generator) error {
	return DefaultMux.Handle(pattern, gen)
}

// GenerateStream generates a stream using the default mux.
func GenerateStream(ctx context.Context, pattern string, mctx genx.ModelContext) (genx.Stream, error) {
	return DefaultMux.GenerateStream(ctx, pattern, mctx)
}

// Mux is a generator multiplexer. Patterns are "/"-separated and may use the
// trie wildcards "+" and "#", e.g. "openai/#" serves every "openai/..." name.
type Mux struct {
	mu  sync.RWMutex
	mux *trie.Trie[genx.Generator]
}

// NewMux creates a new generator multiplexer.
func NewMux() *Mux {
	return &Mux{
		mux: trie.New[genx.Generator](),
	}
}

// Handle registers a generator for the given pattern.
// Returns an error if a generator is already registered for the pattern.
func (gm *Mux) Handle(pattern string, gen genx.Generator) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.mux.Set(pattern, func(ptr *genx.Generator, existed bool) error {
		if existed {
			return fmt.Errorf("generator already registered for %s", pattern)
		}
		*ptr = gen
		return nil
	})
}

// GenerateStream generates a stream by looking up the generator for name.
func (gm *Mux) GenerateStream(ctx context.Context, name string, mctx genx.ModelContext) (genx.Stream, error) {
	gen, err := gm.get(name)
	if err != nil {
		return nil, err
	}
	return gen.GenerateStream(ctx, name, mctx)
}

// Names lists the registered patterns in lexical order.
func (gm *Mux) Names() []string {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	var names []string
	gm.mux.Walk(func(path string, _ genx.Generator) {
		names = append(names, path)
	})
	return names
}

func (gm *Mux) get(name string) (genx.Generator, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	gen, ok := gm.mux.GetValue(name)
	if !ok || gen == nil {
		return nil, fmt.Errorf("generator not found for %s", name)
	}
	return gen, nil
}
