// Package game maps the game kind strings stored on tables and waddles to
// game implementations.  Only the parts the seating layer needs live here:
// a textual status summary and a reset to the initial state.  Rule engines
// are plugged in by the kinds themselves.
package game

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownKind is returned when a definition names a kind nobody
// registered.
var ErrUnknownKind = errors.New("unknown game kind")

// Game is the capability a table or waddle holds.  Implementations are not
// safe for concurrent use; the room layer serializes access.
type Game interface {
	Kind() string
	// Status is the protocol summary of the current game state.
	Status() string
	Reset()
}

// Factory creates a fresh game in its initial state.
type Factory func() Game

// Registry is filled once at startup and only read afterwards.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds kind to f.  Registering a kind twice is a programming
// error and panics.
func (r *Registry) Register(kind string, f Factory) {
	if _, dup := r.factories[kind]; dup {
		panic(fmt.Sprintf("game kind %q registered twice", kind))
	}
	r.factories[kind] = f
}

// New creates a game of the given kind.
func (r *Registry) New(kind string) (Game, error) {
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return f(), nil
}

// Kinds lists the registered kinds in lexical order.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Default returns a registry holding every built-in kind.
func Default() *Registry {
	r := NewRegistry()
	r.Register(KindFindFour, func() Game { return NewFindFour() })
	r.Register(KindMancala, func() Game { return NewMancala() })
	for _, k := range []string{KindSled, KindCardJitsu, KindCardJitsuFire, KindCardJitsuWater, KindCardJitsuSnow} {
		kind := k
		r.Register(kind, func() Game { return &lobby{kind: kind} })
	}
	return r
}
