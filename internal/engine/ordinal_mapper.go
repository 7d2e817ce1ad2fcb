package engine

import "ruleforge/internal/metadata"

// LabeledField pairs a semantic label discovered in neighboring field text
// with the catalog field it resolved to.
type LabeledField struct {
	Label   string
	FieldID int
}

// MapOrdinals builds the positional destination array for one
// verification/extraction kind. Every slot starts as the unmapped sentinel;
// discovered labels claim slots in discovery order and a filled slot is never
// overwritten, so earlier (stronger) evidence wins. Slots left unmapped are a
// legitimate terminal state, not an error.
func MapOrdinals(schema *metadata.OrdinalSchema, discovered []LabeledField) []int {
	dest := make([]int, schema.Size())
	for i := range dest {
		dest[i] = metadata.UnmappedField
	}
	for _, lf := range discovered {
		pos := schema.Position(lf.Label)
		if pos == 0 {
			continue
		}
		if dest[pos-1] != metadata.UnmappedField {
			continue
		}
		dest[pos-1] = lf.FieldID
	}
	return dest
}
