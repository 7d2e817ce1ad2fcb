package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSchemaDir(t *testing.T) {
	dir := t.TempDir()

	valid := `{"kind":"UDYAM","labels":["enterprise name","major activity"],"synonyms":{"business name":1}}`
	if err := os.WriteFile(filepath.Join(dir, "udyam.schema.json"), []byte(valid), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.schema.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.json"), []byte(`{"kind":"NOPE","labels":["x"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	table := DefaultSchemaTable()
	if err := LoadSchemaDir(dir, table); err != nil {
		t.Fatalf("LoadSchemaDir: %v", err)
	}

	s := table.Get("UDYAM")
	if s == nil {
		t.Fatal("expected UDYAM schema to be registered")
	}
	if s.Size() != 2 {
		t.Fatalf("UDYAM size = %d, want 2", s.Size())
	}
	if got := s.Position("Business Name"); got != 1 {
		t.Fatalf("Position(Business Name) = %d, want 1", got)
	}
	if table.Get("NOPE") != nil {
		t.Fatal("files without .schema.json suffix must be ignored")
	}
}

func TestLoadSchemaDirMissing(t *testing.T) {
	table := DefaultSchemaTable()
	before := len(table.Kinds())
	if err := LoadSchemaDir(filepath.Join(t.TempDir(), "absent"), table); err != nil {
		t.Fatalf("missing dir must not be an error: %v", err)
	}
	if len(table.Kinds()) != before {
		t.Fatal("missing dir must not change the table")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	if ov := LoadOverrides(dir); len(ov.Rules) != 0 {
		t.Fatalf("absent overrides file must yield empty set, got %d rules", len(ov.Rules))
	}

	raw := `{"rules":[{"field":"GST Option","kind":"MAKE_VISIBLE","values":["Yes"],"destinations":["GSTIN"]}]}`
	if err := os.WriteFile(filepath.Join(dir, "overrides.json"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	ov := LoadOverrides(dir)
	if len(ov.Rules) != 1 {
		t.Fatalf("expected 1 override rule, got %d", len(ov.Rules))
	}
	if ov.Rules[0].Kind != MakeVisible {
		t.Fatalf("override kind = %s", ov.Rules[0].Kind)
	}
}
