package engine

import (
	"testing"

	"ruleforge/internal/metadata"
)

func testCatalog() *metadata.Catalog {
	c := metadata.NewCatalog()
	c.Load([]*metadata.Field{
		{ID: 1, DisplayName: "GST Option", Variable: "gst_option", Type: metadata.TypeDropdown, Panel: "GST"},
		{ID: 2, DisplayName: "GSTIN", Variable: "gstin_number", Type: metadata.TypeText, Panel: "GST"},
		{ID: 3, DisplayName: "Please select the Constitution", Variable: "constitution", Type: metadata.TypeDropdown, Panel: "Business"},
		{ID: 4, DisplayName: "Name", Variable: "applicant_name", Type: metadata.TypeText, Panel: "Applicant"},
		{ID: 5, DisplayName: "Name", Variable: "nominee_name", Type: metadata.TypeText, Panel: "Nominee"},
		{ID: 6, DisplayName: "Trade Name of the Business", Variable: "trade_name", Type: metadata.TypeText, Panel: "GST"},
	})
	return c
}

func TestResolveExactDisplayName(t *testing.T) {
	r := NewResolver(testCatalog(), 0)
	f, ok := r.Resolve("GST Option")
	if !ok || f.ID != 1 {
		t.Fatalf("Resolve(GST Option) = %+v, %v", f, ok)
	}

	// Leading instruction phrases are normalized away on both sides.
	f, ok = r.Resolve("Constitution")
	if !ok || f.ID != 3 {
		t.Fatalf("Resolve(Constitution) = %+v, %v", f, ok)
	}
}

func TestResolveVariableName(t *testing.T) {
	r := NewResolver(testCatalog(), 0)
	f, ok := r.Resolve("applicant_name")
	if !ok || f.ID != 4 {
		t.Fatalf("Resolve(applicant_name) = %+v, %v", f, ok)
	}
}

func TestResolveSubstring(t *testing.T) {
	r := NewResolver(testCatalog(), 0)
	f, ok := r.Resolve("Trade Name")
	if !ok || f.ID != 6 {
		t.Fatalf("Resolve(Trade Name) = %+v, %v", f, ok)
	}
}

func TestResolveFuzzy(t *testing.T) {
	r := NewResolver(testCatalog(), 80)
	f, ok := r.Resolve("GST Optin")
	if !ok || f.ID != 1 {
		t.Fatalf("Resolve(GST Optin) = %+v, %v", f, ok)
	}

	if _, ok := r.Resolve("completely unrelated reference"); ok {
		t.Fatal("expected no match below the threshold")
	}
}

func TestResolveThreshold(t *testing.T) {
	strict := NewResolver(testCatalog(), 100)
	if _, ok := strict.Resolve("GST Optin"); ok {
		t.Fatal("threshold 100 must reject near matches")
	}
}

func TestResolvePanelHint(t *testing.T) {
	r := NewResolver(testCatalog(), 0)
	f, ok := r.ResolveInPanel("Name", "Nominee")
	if !ok || f.ID != 5 {
		t.Fatalf("ResolveInPanel(Name, Nominee) = %+v, %v", f, ok)
	}
	f, ok = r.ResolveInPanel("Name", "Applicant")
	if !ok || f.ID != 4 {
		t.Fatalf("ResolveInPanel(Name, Applicant) = %+v, %v", f, ok)
	}

	// Hint for an unknown panel falls back to the whole catalog.
	if _, ok := r.ResolveInPanel("GST Option", "Nowhere"); !ok {
		t.Fatal("expected fallback to full-catalog resolution")
	}
}

func TestResolveFuzzyTieBreakUsesMatchedName(t *testing.T) {
	c := metadata.NewCatalog()
	c.Load([]*metadata.Field{
		{ID: 1, DisplayName: "Primary Document Reference Label", Variable: "pan_cde", Type: metadata.TypeText, Panel: "Docs"},
		{ID: 2, DisplayName: "Pan Cde", Variable: "other_ref", Type: metadata.TypeText, Panel: "Docs"},
	})
	r := NewResolver(c, 60)

	// Both candidates match through the same normalized name ("pan cde"):
	// field 1 via its variable, field 2 via its display name. The tie-break
	// compares the matched names, so the earlier field keeps the win — its
	// long display name is irrelevant.
	f, ok := r.Resolve("pan dce")
	if !ok || f.ID != 1 {
		t.Fatalf("Resolve(pan dce) = %+v, %v, want field 1", f, ok)
	}
}

func TestResolveDeterminism(t *testing.T) {
	r := NewResolver(testCatalog(), 80)
	first, ok1 := r.Resolve("GST Optin")
	second, ok2 := r.Resolve("GST Optin")
	if ok1 != ok2 || first != second {
		t.Fatalf("resolution not deterministic: %+v/%v vs %+v/%v", first, ok1, second, ok2)
	}

	if _, ok := r.Resolve(""); ok {
		t.Fatal("empty reference must not resolve")
	}
}
