package metadata

import (
	"fmt"
	"sort"
	"strings"
)

// ActionKind is the closed set of rule actions the engine can emit.
type ActionKind string

const (
	MakeVisible      ActionKind = "MAKE_VISIBLE"
	MakeInvisible    ActionKind = "MAKE_INVISIBLE"
	MakeMandatory    ActionKind = "MAKE_MANDATORY"
	MakeNonMandatory ActionKind = "MAKE_NON_MANDATORY"
	DisableField     ActionKind = "DISABLE_FIELD"
	CopyValue        ActionKind = "COPY_VALUE"
	ConvertValue     ActionKind = "CONVERT_VALUE"
	ExtractDocument  ActionKind = "EXTRACT_DOCUMENT"
	VerifyDocument   ActionKind = "VERIFY_DOCUMENT"
	ExternalLookup   ActionKind = "EXTERNAL_LOOKUP"
	DocumentVisible  ActionKind = "DOCUMENT_VISIBLE"
)

// Locus says where the runtime evaluates a rule.
type Locus string

const (
	LocusClient Locus = "client"
	LocusServer Locus = "server"
)

// ConditionOp is the acceptance test applied to a triggering field's value.
type ConditionOp string

const (
	OpIn    ConditionOp = "IN"
	OpNotIn ConditionOp = "NOT_IN"
)

// UnmappedField is the reserved destination sentinel: a positional slot with
// no resolved field. It sits outside the valid id domain (ids start at 1).
const UnmappedField = -1

// AlwaysValue is the reserved conditional value paired with NOT_IN on rules
// that must always fire. No real field value can equal it, so the branch is
// always taken.
const AlwaysValue = "__always__"

// Condition is the acceptance test on a rule's triggering field.
type Condition struct {
	Op     ConditionOp `json:"op"`
	Values []string    `json:"values"`
}

// Inverse returns the condition matching exactly the inputs this one rejects.
func (c Condition) Inverse() Condition {
	op := OpIn
	if c.Op == OpIn {
		op = OpNotIn
	}
	vals := make([]string, len(c.Values))
	copy(vals, c.Values)
	return Condition{Op: op, Values: vals}
}

// Always returns the sentinel condition for unconditional conditioned-form
// rules.
func Always() Condition {
	return Condition{Op: OpNotIn, Values: []string{AlwaysValue}}
}

// Rule is one machine-executable behavior record. IDs are sequential within a
// run, assigned at creation and never reused; a merged rule keeps the id of
// its first contributor.
type Rule struct {
	ID           int        `json:"id"`
	Kind         ActionKind `json:"kind"`
	SourceType   string     `json:"source_type,omitempty"` // extraction/verification kind, e.g. "PAN_IMAGE", "GSTIN"
	Locus        Locus      `json:"locus"`
	Triggers     []int      `json:"triggers,omitempty"`
	Destinations []int      `json:"destinations"`
	Condition    *Condition `json:"condition,omitempty"`
	ChainedIDs   []int      `json:"chained_ids,omitempty"`
}

// IsBroad reports whether the kind participates in destination-union
// consolidation.
func (k ActionKind) IsBroad() bool {
	switch k {
	case MakeVisible, MakeInvisible, MakeMandatory, MakeNonMandatory, DisableField:
		return true
	}
	return false
}

// Paired returns the opposite-branch kind for visibility/mandatory kinds and
// false for everything else.
func (k ActionKind) Paired() (ActionKind, bool) {
	switch k {
	case MakeVisible:
		return MakeInvisible, true
	case MakeInvisible:
		return MakeVisible, true
	case MakeMandatory:
		return MakeNonMandatory, true
	case MakeNonMandatory:
		return MakeMandatory, true
	}
	return "", false
}

// Positional reports whether the kind's destination list is ordinal-indexed.
func (k ActionKind) Positional() bool {
	return k == ExtractDocument || k == VerifyDocument
}

// GroupKey identifies rules that consolidation must merge: same kind, same
// sorted triggers, same condition, same sorted conditional values.
func (r *Rule) GroupKey() string {
	var b strings.Builder
	b.WriteString(string(r.Kind))
	b.WriteByte('|')
	b.WriteString(joinSorted(r.Triggers))
	b.WriteByte('|')
	if r.Condition != nil {
		b.WriteString(string(r.Condition.Op))
		b.WriteByte('|')
		vals := make([]string, len(r.Condition.Values))
		copy(vals, r.Condition.Values)
		sort.Strings(vals)
		b.WriteString(strings.Join(vals, ","))
	}
	return b.String()
}

// Signature is the full identity of a rule minus its id, used by the exact
// dedupe pass. Destinations are order-sensitive for positional kinds; the
// locus is part of the identity, so client and server rules never collapse.
func (r *Rule) Signature() string {
	dest := make([]string, len(r.Destinations))
	if r.Kind.Positional() {
		for i, d := range r.Destinations {
			dest[i] = fmt.Sprint(d)
		}
	} else {
		sorted := make([]int, len(r.Destinations))
		copy(sorted, r.Destinations)
		sort.Ints(sorted)
		for i, d := range sorted {
			dest[i] = fmt.Sprint(d)
		}
	}
	return r.GroupKey() + "|" + r.SourceType + "|" + string(r.Locus) + "|" + strings.Join(dest, ",")
}

// Conditional reports whether the rule carries an acceptance test.
func (r *Rule) Conditional() bool {
	return r.Condition != nil
}

func joinSorted(ids []int) string {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
