package metadata

import "testing"

func TestBuiltinSchemasAreValid(t *testing.T) {
	table := DefaultSchemaTable()
	for _, kind := range table.Kinds() {
		s := table.Get(kind)
		if err := s.Validate(); err != nil {
			t.Fatalf("builtin schema %s invalid: %v", kind, err)
		}
	}
	if got := table.Get("GSTIN").Size(); got != 21 {
		t.Fatalf("GSTIN schema size = %d, want 21", got)
	}
	if got := table.Get("PAN_IMAGE").Size(); got != 1 {
		t.Fatalf("PAN_IMAGE schema size = %d, want 1", got)
	}
}

func TestSchemaPosition(t *testing.T) {
	s := DefaultSchemaTable().Get("PAN")

	// Synonym lookup: all spellings of the holder name land on slot 4.
	for _, label := range []string{"Pan Holder Name", "holder name", "Full Legal Name", "name as per PAN"} {
		if got := s.Position(label); got != 4 {
			t.Fatalf("Position(%q) = %d, want 4", label, got)
		}
	}

	// Substring fallback against canonical labels.
	if got := s.Position("the first name"); got != 2 {
		t.Fatalf("Position(first name) = %d, want 2", got)
	}

	if got := s.Position("nothing like a slot"); got != 0 {
		t.Fatalf("Position(miss) = %d, want 0", got)
	}
}

func TestGSTINPostalCodeSynonyms(t *testing.T) {
	s := DefaultSchemaTable().Get("GSTIN")
	for _, label := range []string{"Pincode", "PIN Code", "postal code"} {
		if got := s.Position(label); got != 11 {
			t.Fatalf("Position(%q) = %d, want 11", label, got)
		}
	}
	if got := s.Position("Trade Name"); got != 1 {
		t.Fatalf("Position(Trade Name) = %d, want 1", got)
	}
}

func TestSchemaValidateRejectsGaps(t *testing.T) {
	bad := &OrdinalSchema{Kind: "X", Labels: []string{"a", "", "c"}}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected blank label to be rejected")
	}

	badSyn := &OrdinalSchema{Kind: "X", Labels: []string{"a"}, Synonyms: map[string]int{"b": 2}}
	if err := badSyn.Validate(); err == nil {
		t.Fatal("expected out-of-range synonym to be rejected")
	}

	table := NewSchemaTable()
	if err := table.Register(badSyn); err == nil {
		t.Fatal("Register must reject invalid schemas")
	}
	if table.Get("X") != nil {
		t.Fatal("rejected schema must not be registered")
	}
}
