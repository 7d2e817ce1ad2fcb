package metadata

// OverrideRule forces a specific rule for a named field, bypassing pattern
// inference. Overrides are product tuning data injected as configuration;
// the engine itself never embeds literal field names.
type OverrideRule struct {
	Field        string     `json:"field"` // display-name reference, resolved like any other
	Kind         ActionKind `json:"kind"`
	SourceType   string     `json:"source_type,omitempty"`
	Values       []string   `json:"values,omitempty"` // conditional values; empty means unconditional
	Destinations []string   `json:"destinations,omitempty"`
	Locus        Locus      `json:"locus,omitempty"`
}

// Overrides is the per-document override set. The zero value is valid and
// means "no overrides".
type Overrides struct {
	Rules []OverrideRule `json:"rules"`
}
