package envgraft

import "context"

// Source provides environment entries as a flat name→value map. The engine
// reads each source exactly once per Load call and matches names
// case-insensitively against derived keys.
type Source interface {
	// Load returns all entries the source holds. Missing optional sources
	// should return an empty map, not an error.
	Load(ctx context.Context) (map[string]string, error)
}

// MapSource is a static in-memory Source, useful in tests and for layering
// hard-coded entries under the process environment.
type MapSource map[string]string

// Load returns the map verbatim.
func (m MapSource) Load(ctx context.Context) (map[string]string, error) {
	return m, nil
}

// Validator performs custom validation on a loaded record.
// Use for cross-field, semantic, or external validation.
type Validator[T any] interface {
	// Validate checks the loaded record. Any error fails the whole load.
	Validate(ctx context.Context, cfg *T) error
}

// ValidatorFunc is a function adapter for Validator interface.
type ValidatorFunc[T any] func(ctx context.Context, cfg *T) error

func (f ValidatorFunc[T]) Validate(ctx context.Context, cfg *T) error {
	return f(ctx, cfg)
}
