// Package defaults provides the registry of default-value generators that form
// fields select with a sentinel such as *RANDOM8 or *RANDOM-IBAN.
package defaults

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// SentinelPrefix marks a field default as a generator reference rather than a literal
const SentinelPrefix = "*"

// Generator is the interface for default-value generators
type Generator interface {
	// Sentinel returns the default value that selects this generator (e.g., "*RANDOM8")
	Sentinel() string

	// Description returns a human-readable description of the generated values
	Description() string

	// Generate produces a new value
	Generate() (string, error)
}

// Registry holds all registered default-value generators
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
}

// NewRegistry creates a new, empty generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry, replacing any generator with the same sentinel
func (r *Registry) Register(g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[g.Sentinel()] = g
}

// Get retrieves a generator by sentinel
func (r *Registry) Get(sentinel string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[sentinel]
	return g, ok
}

// List returns all registered sentinels in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSentinel reports whether value selects a registered generator
func (r *Registry) IsSentinel(value string) bool {
	_, ok := r.Get(value)
	return ok
}

// Check rejects a value that carries the sentinel form but selects no
// registered generator. Literals and registered sentinels pass.
func (r *Registry) Check(defaultValue string) error {
	if looksLikeSentinel(defaultValue) && !r.IsSentinel(defaultValue) {
		return fmt.Errorf("defaults: unknown generator: %s (available: %s)",
			defaultValue, strings.Join(r.List(), ", "))
	}
	return nil
}

// Resolve turns a configured default into a concrete value. Registered
// sentinels are generated; anything else is returned as a literal.
// An unregistered value carrying the sentinel prefix is rejected so that a
// typo such as *RANDOM9 does not silently end up in a credential.
func (r *Registry) Resolve(defaultValue string) (string, error) {
	if g, ok := r.Get(defaultValue); ok {
		v, err := g.Generate()
		if err != nil {
			return "", fmt.Errorf("defaults: generate %s: %w", defaultValue, err)
		}
		return v, nil
	}

	if err := r.Check(defaultValue); err != nil {
		return "", err
	}

	return defaultValue, nil
}

func looksLikeSentinel(v string) bool {
	if !strings.HasPrefix(v, SentinelPrefix) || len(v) < 2 {
		return false
	}
	for _, c := range v[1:] {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '-' && c != '_' {
			return false
		}
	}
	return true
}

// DefaultRegistry is the global generator registry
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(NewRandom8(nil))
	DefaultRegistry.Register(NewRandomIBAN(nil))
}
