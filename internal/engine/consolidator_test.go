package engine

import (
	"encoding/json"
	"testing"

	"ruleforge/internal/metadata"
)

func disableRule(id, dest int) *metadata.Rule {
	return &metadata.Rule{
		ID:           id,
		Kind:         metadata.DisableField,
		Locus:        metadata.LocusClient,
		Triggers:     []int{5},
		Destinations: []int{dest},
		Condition:    &metadata.Condition{Op: metadata.OpNotIn, Values: []string{"Disable"}},
	}
}

func TestConsolidateUnionsBroadRules(t *testing.T) {
	out := Consolidate([]*metadata.Rule{disableRule(1, 30), disableRule(2, 31)})

	if len(out) != 1 {
		t.Fatalf("expected 1 consolidated rule, got %d", len(out))
	}
	r := out[0]
	if r.ID != 1 {
		t.Fatalf("merged rule must keep the first contributor's id, got %d", r.ID)
	}
	if len(r.Triggers) != 1 || r.Triggers[0] != 5 {
		t.Fatalf("Triggers = %v", r.Triggers)
	}
	if len(r.Destinations) != 2 || r.Destinations[0] != 30 || r.Destinations[1] != 31 {
		t.Fatalf("Destinations = %v, want [30 31]", r.Destinations)
	}
}

func TestConsolidateKeepsDistinctConditions(t *testing.T) {
	a := disableRule(1, 30)
	b := disableRule(2, 31)
	b.Condition = &metadata.Condition{Op: metadata.OpIn, Values: []string{"Disable"}}

	out := Consolidate([]*metadata.Rule{a, b})
	if len(out) != 2 {
		t.Fatalf("different conditions must not merge, got %d rules", len(out))
	}
}

func TestConsolidateNarrowKeepsLargerDestinationSet(t *testing.T) {
	sparse := &metadata.Rule{
		ID: 1, Kind: metadata.VerifyDocument, SourceType: "PAN",
		Triggers:     []int{10},
		Destinations: []int{metadata.UnmappedField, metadata.UnmappedField, metadata.UnmappedField, 7, metadata.UnmappedField, metadata.UnmappedField},
		Condition:    ptrCond(metadata.Always()),
	}
	full := &metadata.Rule{
		ID: 2, Kind: metadata.VerifyDocument, SourceType: "PAN",
		Triggers:     []int{10},
		Destinations: []int{3, metadata.UnmappedField, metadata.UnmappedField, 7, metadata.UnmappedField, metadata.UnmappedField},
		Condition:    ptrCond(metadata.Always()),
	}

	out := Consolidate([]*metadata.Rule{sparse, full})
	if len(out) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(out))
	}
	if out[0].ID != 2 {
		t.Fatalf("candidate with more populated slots must win, got id %d", out[0].ID)
	}
}

func TestConsolidateRemovesExactDuplicates(t *testing.T) {
	a := disableRule(1, 30)
	b := disableRule(2, 30)
	out := Consolidate([]*metadata.Rule{a, b})
	if len(out) != 1 || out[0].ID != 1 {
		t.Fatalf("exact duplicates must collapse to the first, got %+v", out)
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	input := []*metadata.Rule{
		disableRule(1, 31),
		disableRule(2, 30),
		{
			ID: 3, Kind: metadata.ExtractDocument, SourceType: "PAN_IMAGE",
			Locus: metadata.LocusServer, Triggers: []int{11}, Destinations: []int{10},
			Condition: ptrCond(metadata.Always()),
		},
	}

	once := Consolidate(input)
	twice := Consolidate(once)

	a, err := json.Marshal(once)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(twice)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatalf("consolidation not idempotent:\n%s\n%s", a, b)
	}
}

func ptrCond(c metadata.Condition) *metadata.Condition {
	return &c
}
