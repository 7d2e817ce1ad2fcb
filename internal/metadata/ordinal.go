package metadata

import (
	"fmt"
	"strings"
	"sync"
)

// OrdinalSchema fixes the positionally-ordered output slots of one
// extraction/verification kind. Position i (1-based) means Labels[i-1].
// Sizes are fixed per kind and never inferred at runtime.
type OrdinalSchema struct {
	Kind     string         `json:"kind"`
	Labels   []string       `json:"labels"`
	Synonyms map[string]int `json:"synonyms,omitempty"` // normalized label -> 1-based position
}

// Size returns the fixed number of output slots.
func (s *OrdinalSchema) Size() int {
	return len(s.Labels)
}

// Validate checks the contiguity invariant: labels 1..N with no blanks, and
// every synonym pointing at a real position.
func (s *OrdinalSchema) Validate() error {
	if s.Kind == "" {
		return fmt.Errorf("ordinal schema missing kind")
	}
	if len(s.Labels) == 0 {
		return fmt.Errorf("ordinal schema %s has no labels", s.Kind)
	}
	for i, l := range s.Labels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("ordinal schema %s: blank label at position %d", s.Kind, i+1)
		}
	}
	for syn, pos := range s.Synonyms {
		if pos < 1 || pos > len(s.Labels) {
			return fmt.Errorf("ordinal schema %s: synonym %q points at position %d (size %d)", s.Kind, syn, pos, len(s.Labels))
		}
	}
	return nil
}

// Position resolves a discovered semantic label to a 1-based slot, first via
// the synonym dictionary, then by substring containment against the canonical
// labels. Returns 0 when nothing matches.
func (s *OrdinalSchema) Position(label string) int {
	norm := Normalize(label)
	if norm == "" {
		return 0
	}
	if pos, ok := s.Synonyms[norm]; ok {
		return pos
	}
	for i, canonical := range s.Labels {
		cn := Normalize(canonical)
		if strings.Contains(cn, norm) || strings.Contains(norm, cn) {
			return i + 1
		}
	}
	return 0
}

// SchemaTable is the versioned ordinal-schema configuration passed into the
// engine. It is built from the built-in defaults and optionally extended or
// replaced from schema files, never from engine code.
type SchemaTable struct {
	mu     sync.RWMutex
	byKind map[string]*OrdinalSchema
}

func NewSchemaTable() *SchemaTable {
	return &SchemaTable{byKind: make(map[string]*OrdinalSchema)}
}

// Register adds or replaces the schema for its kind. The schema is validated
// first; invalid schemas are rejected.
func (t *SchemaTable) Register(s *OrdinalSchema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Synonyms != nil {
		normed := make(map[string]int, len(s.Synonyms))
		for syn, pos := range s.Synonyms {
			normed[Normalize(syn)] = pos
		}
		s.Synonyms = normed
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byKind[s.Kind] = s
	return nil
}

// Get returns the schema for a kind, or nil.
func (t *SchemaTable) Get(kind string) *OrdinalSchema {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byKind[kind]
}

// Kinds returns all registered kinds.
func (t *SchemaTable) Kinds() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	kinds := make([]string, 0, len(t.byKind))
	for k := range t.byKind {
		kinds = append(kinds, k)
	}
	return kinds
}
