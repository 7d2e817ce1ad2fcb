package engine

import "ruleforge/internal/metadata"

// LinkChains attaches forward references from extraction rules to the
// verification rules that must run once the extracted value lands: an
// extraction rule whose single populated destination is the sole trigger of a
// verification rule chains to it. Runs after consolidation so ids are stable,
// and is idempotent. Extraction rules with no matching verification keep an
// empty chain list, which is valid.
func LinkChains(rules []*metadata.Rule) {
	for _, ext := range rules {
		if ext.Kind != metadata.ExtractDocument {
			continue
		}
		dest, ok := singleDestination(ext)
		if !ok {
			continue
		}
		for _, ver := range rules {
			if ver.Kind != metadata.VerifyDocument {
				continue
			}
			if len(ver.Triggers) != 1 || ver.Triggers[0] != dest {
				continue
			}
			if !containsID(ext.ChainedIDs, ver.ID) {
				ext.ChainedIDs = append(ext.ChainedIDs, ver.ID)
			}
		}
	}
}

// singleDestination returns the extraction rule's destination when exactly
// one positional slot is populated.
func singleDestination(r *metadata.Rule) (int, bool) {
	dest := metadata.UnmappedField
	for _, d := range r.Destinations {
		if d == metadata.UnmappedField {
			continue
		}
		if dest != metadata.UnmappedField {
			return 0, false
		}
		dest = d
	}
	return dest, dest != metadata.UnmappedField
}
