package engine

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"ruleforge/internal/metadata"
)

// DefaultFuzzyThreshold is the minimum token-sort score (0-100) the fuzzy
// stage accepts.
const DefaultFuzzyThreshold = 80

// Resolver maps free-text field references onto catalog entries. It is a pure
// function over the catalog: no state, no side effects, deterministic for a
// given catalog and reference.
type Resolver struct {
	catalog   *metadata.Catalog
	threshold int
}

func NewResolver(catalog *metadata.Catalog, threshold int) *Resolver {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Resolver{catalog: catalog, threshold: threshold}
}

// Resolve finds the single best catalog match for ref. The stages run in
// strict priority order: exact display name, exact variable name,
// bidirectional substring, token-sort fuzzy score against all names. The
// second return is false when nothing matched at or above the threshold.
func (r *Resolver) Resolve(ref string) (*metadata.Field, bool) {
	return r.resolve(ref, r.catalog.Fields())
}

// ResolveInPanel is Resolve with a panel hint: fields in the named panel are
// searched first, so duplicate display names across panels land on the
// nearest one.
func (r *Resolver) ResolveInPanel(ref, panel string) (*metadata.Field, bool) {
	if panel != "" {
		if f, ok := r.resolve(ref, r.catalog.InPanel(panel)); ok {
			return f, true
		}
	}
	return r.Resolve(ref)
}

func (r *Resolver) resolve(ref string, fields []*metadata.Field) (*metadata.Field, bool) {
	norm := metadata.Normalize(ref)
	if norm == "" || len(fields) == 0 {
		return nil, false
	}

	// Stage 1: exact normalized display name.
	for _, f := range fields {
		if metadata.Normalize(f.DisplayName) == norm {
			return f, true
		}
	}

	// Stage 2: exact normalized variable name.
	for _, f := range fields {
		if metadata.Normalize(f.Variable) == norm {
			return f, true
		}
	}

	// Stage 3: bidirectional substring containment.
	var sub *metadata.Field
	for _, f := range fields {
		name := metadata.Normalize(f.DisplayName)
		if name == "" {
			continue
		}
		if containsEither(name, norm) {
			if sub == nil || len(name) < len(metadata.Normalize(sub.DisplayName)) {
				sub = f
			}
		}
	}
	if sub != nil {
		return sub, true
	}

	// Stage 4: token-sort fuzzy match; ties broken by shortest matched name.
	var best *metadata.Field
	bestName := ""
	bestScore := 0
	for _, f := range fields {
		for _, name := range []string{metadata.Normalize(f.DisplayName), metadata.Normalize(f.Variable)} {
			if name == "" {
				continue
			}
			score := fuzzy.TokenSortRatio(norm, name)
			if score > bestScore || (score == bestScore && best != nil && len(name) < len(bestName)) {
				bestScore = score
				best = f
				bestName = name
			}
		}
	}
	if best != nil && bestScore >= r.threshold {
		return best, true
	}
	return nil, false
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
