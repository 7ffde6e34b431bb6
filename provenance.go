package envgraft

import "sync"

// Provenance records which environment variable supplied each field of a
// loaded record.
type Provenance struct {
	Fields []FieldProvenance
}

// FieldProvenance describes where one field's value came from.
type FieldProvenance struct {
	FieldPath string // Dot notation (e.g., "Database.Host")
	Var       string // Derived variable that supplied the value; empty if the default was retained
}

var provenanceStore sync.Map

// GetProvenance returns provenance metadata for a loaded record.
// Thread-safe.
func GetProvenance[T any](cfg *T) (*Provenance, bool) {
	if cfg == nil {
		return nil, false
	}

	value, ok := provenanceStore.Load(cfg)
	if !ok {
		return nil, false
	}

	prov, ok := value.(*Provenance)
	return prov, ok
}

func storeProvenance[T any](cfg *T, prov *Provenance) {
	if cfg != nil && prov != nil {
		provenanceStore.Store(cfg, prov)
	}
}
