package form

import (
	"fmt"
	"sync"

	"github.com/sirosfoundation/vcionboard/pkg/defaults"
)

// Reconciliation is the outcome of matching a source payload against a schema
type Reconciliation struct {
	// Payload is the initial form state
	Payload Payload

	// ReadOnly holds the keys sourced from a presented credential
	ReadOnly KeySet

	// Unsatisfied holds the required keys that are still blank
	Unsatisfied []string
}

// Reconciler seeds form state from a source payload. It remembers which keys
// it filled from configured defaults, so reconciling the same source again
// reuses the generated values and never reports them as read-only.
type Reconciler struct {
	schema     *Schema
	generators *defaults.Registry

	mu        sync.Mutex
	defaulted Payload
}

// ReconcilerOption configures a Reconciler
type ReconcilerOption func(*Reconciler)

// WithGenerators sets the registry resolving default-value sentinels
func WithGenerators(r *defaults.Registry) ReconcilerOption {
	return func(rc *Reconciler) {
		rc.generators = r
	}
}

// NewReconciler creates a reconciler for schema (nil means fallback keys)
func NewReconciler(schema *Schema, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		schema:     schema,
		generators: defaults.DefaultRegistry,
		defaulted:  make(Payload),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile builds the initial payload from source. Non-blank source values
// are copied and marked read-only; blank keys take the field default, which
// is written back into source so later calls see the same value.
func (r *Reconciler) Reconcile(source Payload) (*Reconciliation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := &Reconciliation{
		Payload:  Template(r.schema),
		ReadOnly: make(KeySet),
	}

	for _, key := range r.schema.Keys() {
		value, present := source[key]
		memo, defaulted := r.defaulted[key]

		switch {
		case defaulted && present && !isBlank(value):
			result.Payload[key] = value

		case defaulted:
			result.Payload[key] = memo

		case !isBlank(value):
			result.Payload[key] = value
			result.ReadOnly.Add(key)

		default:
			field, ok := r.schema.Field(key)
			if !ok || field.DefaultValue == "" {
				continue
			}
			resolved, err := r.generators.Resolve(field.DefaultValue)
			if err != nil {
				return nil, fmt.Errorf("form: default for %s: %w", key, err)
			}
			if source != nil {
				source[key] = resolved
			}
			r.defaulted[key] = resolved
			result.Payload[key] = resolved
		}
	}

	result.Unsatisfied = MissingKeys(result.Payload, r.schema)

	return result, nil
}
