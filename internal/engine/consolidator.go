package engine

import (
	"sort"
	"strconv"

	"ruleforge/internal/metadata"
)

// Consolidate reduces a candidate rule list to its minimal, non-redundant
// form. The reduction is pure and idempotent: running it on its own output is
// a no-op. Merged rules keep the id of their first contributor; discarded ids
// are not reused.
func Consolidate(rules []*metadata.Rule) []*metadata.Rule {
	rules = unionBroad(rules)
	rules = dedupeNarrow(rules)
	return dedupeExact(rules)
}

// unionBroad merges broad-kind rules (visibility, mandatory, disable) that
// share kind, triggers, condition and conditional values into one rule with
// the union of their destinations.
func unionBroad(rules []*metadata.Rule) []*metadata.Rule {
	groups := make(map[string]*metadata.Rule)
	out := make([]*metadata.Rule, 0, len(rules))

	for _, r := range rules {
		if !r.Kind.IsBroad() {
			out = append(out, r)
			continue
		}
		key := r.GroupKey()
		head, ok := groups[key]
		if !ok {
			merged := *r
			merged.Destinations = append([]int(nil), r.Destinations...)
			groups[key] = &merged
			out = append(out, &merged)
			continue
		}
		for _, d := range r.Destinations {
			if !containsID(head.Destinations, d) {
				head.Destinations = append(head.Destinations, d)
			}
		}
	}

	for _, r := range out {
		if r.Kind.IsBroad() {
			sort.Ints(r.Destinations)
		}
	}
	return out
}

// dedupeNarrow keeps, per (kind, source type, triggers), the candidate with
// the larger destination set: more populated positions means more complete
// evidence.
func dedupeNarrow(rules []*metadata.Rule) []*metadata.Rule {
	best := make(map[string]int) // key -> index in out
	out := make([]*metadata.Rule, 0, len(rules))

	for _, r := range rules {
		if r.Kind.IsBroad() {
			out = append(out, r)
			continue
		}
		key := string(r.Kind) + "|" + r.SourceType + "|" + triggerKey(r)
		idx, ok := best[key]
		if !ok {
			best[key] = len(out)
			out = append(out, r)
			continue
		}
		if populated(r.Destinations) > populated(out[idx].Destinations) {
			out[idx] = r
		}
	}
	return out
}

// dedupeExact removes byte-identical rules, keeping the first occurrence.
func dedupeExact(rules []*metadata.Rule) []*metadata.Rule {
	seen := make(map[string]bool, len(rules))
	out := make([]*metadata.Rule, 0, len(rules))
	for _, r := range rules {
		sig := r.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, r)
	}
	return out
}

func triggerKey(r *metadata.Rule) string {
	sorted := make([]int, len(r.Triggers))
	copy(sorted, r.Triggers)
	sort.Ints(sorted)
	key := ""
	for _, id := range sorted {
		key += strconv.Itoa(id) + ","
	}
	return key
}

// populated counts non-sentinel destinations.
func populated(dest []int) int {
	n := 0
	for _, d := range dest {
		if d != metadata.UnmappedField {
			n++
		}
	}
	return n
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
