package envgraft

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/croback/envgraft/internal/envkey"
)

// Loader grafts environment values onto records of type T. Sources are
// processed in order (later override earlier). A zero source list means the
// process environment.
// Safe for concurrent Load calls; not for concurrent reconfiguration.
type Loader[T any] struct {
	prefix     string
	sources    []Source
	validators []Validator[T]
}

// NewLoader creates a Loader deriving variable names from prefix.
func NewLoader[T any](prefix string) *Loader[T] {
	return &Loader[T]{
		prefix:     prefix,
		sources:    make([]Source, 0),
		validators: make([]Validator[T], 0),
	}
}

// WithSource adds a source. Sources are processed in order (later override earlier).
func (l *Loader[T]) WithSource(src Source) *Loader[T] {
	l.sources = append(l.sources, src)
	return l
}

// WithValidator adds a custom validator, run after a successful graft.
func (l *Loader[T]) WithValidator(v Validator[T]) *Loader[T] {
	l.validators = append(l.validators, v)
	return l
}

// Load builds a fresh record from the template, overriding every field
// whose derived variable is present in the snapshot. The template is never
// mutated. On any coercion failure the whole call fails; no partial record
// is returned.
func (l *Loader[T]) Load(ctx context.Context, template *T) (*T, error) {
	if template == nil {
		return nil, ErrNilTemplate
	}
	if strings.TrimSpace(l.prefix) == "" {
		return nil, ErrEmptyPrefix
	}

	fields, err := Describe(template)
	if err != nil {
		return nil, err
	}

	// One snapshot per call: every source is read exactly once, before any
	// coercion begins.
	snap := make(map[string]string)
	for i, source := range l.sources {
		entries, err := source.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load source %d: %w", i, err)
		}
		for name, value := range entries {
			snap[envkey.Normalize(name)] = value
		}
	}
	if len(l.sources) == 0 {
		snapshotEnviron(os.Environ(), snap)
	}

	out := new(T)
	deepCopy(reflect.ValueOf(out).Elem(), reflect.ValueOf(template).Elem())

	var provFields []FieldProvenance
	root := strings.ToUpper(strings.TrimSpace(l.prefix))
	if err := graftRoot(fields, root, reflect.ValueOf(out).Elem(), snap, &provFields); err != nil {
		return nil, err
	}

	for i, validator := range l.validators {
		if err := validator.Validate(ctx, out); err != nil {
			return nil, fmt.Errorf("validator %d failed: %w", i, err)
		}
	}

	storeProvenance(out, &Provenance{Fields: provFields})

	return out, nil
}

// Load populates a record of type T from the process environment using the
// given prefix. Shorthand for NewLoader[T](prefix).Load with a background
// context and the default source.
func Load[T any](prefix string, template *T) (*T, error) {
	return NewLoader[T](prefix).Load(context.Background(), template)
}

// graftRoot runs the merge walk over the top-level descriptors.
func graftRoot(fields []Field, prefix string, dst reflect.Value, snap map[string]string, prov *[]FieldProvenance) error {
	return graftStruct(fields, prefix, "", dst, snap, prov)
}

// snapshotEnviron folds "NAME=value" pairs into a normalized snapshot map.
func snapshotEnviron(environ []string, snap map[string]string) {
	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		snap[envkey.Normalize(name)] = value
	}
}
