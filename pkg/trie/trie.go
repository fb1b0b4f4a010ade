// Package trie stores values under "/"-separated paths with MQTT-style
// wildcards:
//   - "openai/gpt-4o"  exact match
//   - "openai/+"       any single segment
//   - "openai/#"       any remaining segments
//
// Exact segments win over "+", which wins over "#".
package trie

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidPattern is returned when "#" is not the last segment.
var ErrInvalidPattern = errors.New("trie: invalid pattern, '#' must be the last segment")

// Trie is a node of the path tree. The zero value is an empty trie.
type Trie[T any] struct {
	children map[string]*Trie[T]
	anyOne   *Trie[T]
	anyRest  *Trie[T]

	set   bool
	value T
}

// New returns an empty trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{}
}

func split(path string) (first, rest string, more bool) {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i], path[i+1:], true
	}
	return path, "", false
}

// Set locates the node for path and calls fn with a pointer to its value and
// whether a value was already stored there. The node is marked set only if fn
// returns nil.
func (t *Trie[T]) Set(path string, fn func(ptr *T, existed bool) error) error {
	node := t
	for path != "" {
		first, rest, more := split(path)
		switch first {
		case "+":
			if node.anyOne == nil {
				node.anyOne = &Trie[T]{}
			}
			node = node.anyOne
		case "#":
			if more && rest != "" {
				return ErrInvalidPattern
			}
			if node.anyRest == nil {
				node.anyRest = &Trie[T]{}
			}
			node = node.anyRest
		default:
			if node.children == nil {
				node.children = make(map[string]*Trie[T])
			}
			ch, ok := node.children[first]
			if !ok {
				ch = &Trie[T]{}
				node.children[first] = ch
			}
			node = ch
		}
		path = rest
	}
	if err := fn(&node.value, node.set); err != nil {
		return err
	}
	node.set = true
	return nil
}

// SetValue stores v at path, replacing any previous value.
func (t *Trie[T]) SetValue(path string, v T) error {
	return t.Set(path, func(ptr *T, _ bool) error {
		*ptr = v
		return nil
	})
}

// Get returns a pointer to the value that best matches path.
func (t *Trie[T]) Get(path string) (*T, bool) {
	node := t.match(path)
	if node == nil {
		return nil, false
	}
	return &node.value, true
}

// GetValue is Get without the pointer.
func (t *Trie[T]) GetValue(path string) (T, bool) {
	ptr, ok := t.Get(path)
	if !ok {
		var zero T
		return zero, false
	}
	return *ptr, true
}

func (t *Trie[T]) match(path string) *Trie[T] {
	if path == "" {
		if t.set {
			return t
		}
		if t.anyRest != nil && t.anyRest.set {
			return t.anyRest
		}
		return nil
	}
	first, rest, _ := split(path)
	if ch, ok := t.children[first]; ok {
		if n := ch.match(rest); n != nil {
			return n
		}
	}
	if t.anyOne != nil {
		if n := t.anyOne.match(rest); n != nil {
			return n
		}
	}
	if t.anyRest != nil && t.anyRest.set {
		return t.anyRest
	}
	return nil
}

// Walk calls fn for every stored value in lexical path order.
func (t *Trie[T]) Walk(fn func(path string, value T)) {
	t.walk(nil, fn)
}

func (t *Trie[T]) walk(prefix []string, fn func(string, T)) {
	if t.set {
		fn(strings.Join(prefix, "/"), t.value)
	}
	keys := make([]string, 0, len(t.children))
	for k := range t.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.children[k].walk(append(prefix, k), fn)
	}
	if t.anyOne != nil {
		t.anyOne.walk(append(prefix, "+"), fn)
	}
	if t.anyRest != nil {
		t.anyRest.walk(append(prefix, "#"), fn)
	}
}
