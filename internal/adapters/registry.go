// Package adapters maps bank names to adapter factories.
package adapters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bankscrap-dev/bankscrap/internal/adapters/csvbank"
	"github.com/bankscrap-dev/bankscrap/internal/bank"
)

// Entry is a registered adapter. Name is its canonical spelling, e.g. "BBVA".
type Entry struct {
	Name    string
	Factory bank.Factory
}

// UnknownBankError is returned by Resolve. Suggestion is set when an adapter
// exists under the same normalized name but the input spelled it differently.
type UnknownBankError struct {
	Name       string
	Suggestion string
}

func (e *UnknownBankError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("invalid bank name %q, did you mean %q?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("invalid bank name %q", e.Name)
}

func (e *UnknownBankError) Unwrap() error {
	return bank.ErrUnknownBank
}

// Registry holds named adapters.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Normalize reduces a bank name to its lookup key: "My-Bank" -> "mybank".
func Normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ', '.':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// Register adds an adapter. Panics on duplicate names.
func (r *Registry) Register(name string, factory bank.Factory) {
	key := Normalize(name)
	if key == "" {
		panic("empty adapter name")
	}
	if _, ok := r.entries[key]; ok {
		panic("duplicate adapter: " + name)
	}
	r.entries[key] = Entry{Name: name, Factory: factory}
}

// Resolve finds the adapter for name. The canonical name and its normalized
// key both resolve; any other spelling of a registered adapter fails with a
// suggestion.
func (r *Registry) Resolve(name string) (Entry, error) {
	key := Normalize(name)
	e, ok := r.entries[key]
	if !ok {
		return Entry{}, &UnknownBankError{Name: name}
	}
	if name != e.Name && name != key {
		return Entry{}, &UnknownBankError{Name: name, Suggestion: e.Name}
	}
	return e, nil
}

// Names returns the canonical names of all adapters, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in adapters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(csvbank.Name, csvbank.New)
	return r
}
