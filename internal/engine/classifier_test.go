package engine

import (
	"testing"

	"ruleforge/internal/metadata"
)

func TestClassifyVisibilityAndMandatory(t *testing.T) {
	cls := Classify("if value is Yes then visible and mandatory for fields A, B; otherwise invisible and non-mandatory.")

	for _, kind := range []metadata.ActionKind{
		metadata.MakeVisible, metadata.MakeInvisible,
		metadata.MakeMandatory, metadata.MakeNonMandatory,
	} {
		if !cls.HasKind(kind) {
			t.Fatalf("expected %s hypothesis", kind)
		}
	}
	if len(cls.Values) != 1 || cls.Values[0] != "Yes" {
		t.Fatalf("Values = %v, want [Yes]", cls.Values)
	}
	if len(cls.FieldRefs) != 2 || cls.FieldRefs[0] != "A" || cls.FieldRefs[1] != "B" {
		t.Fatalf("FieldRefs = %v, want [A B]", cls.FieldRefs)
	}
	if cls.Confidence < 0.9 {
		t.Fatalf("Confidence = %f, want >= 0.9", cls.Confidence)
	}
}

func TestClassifyTriggerRefs(t *testing.T) {
	cls := Classify("This field is visible when GST Option is Yes")
	if len(cls.TriggerRefs) != 1 || cls.TriggerRefs[0] != "GST Option" {
		t.Fatalf("TriggerRefs = %v, want [GST Option]", cls.TriggerRefs)
	}
	if len(cls.Values) != 1 || cls.Values[0] != "Yes" {
		t.Fatalf("Values = %v, want [Yes]", cls.Values)
	}

	// Generic subjects mean the annotated field itself, not a reference.
	cls = Classify("if value is No then hidden")
	if len(cls.TriggerRefs) != 0 {
		t.Fatalf("TriggerRefs = %v, want none", cls.TriggerRefs)
	}
}

func TestClassifyExtraction(t *testing.T) {
	cls := Classify("data extracted from OCR, populates PAN")
	if !cls.HasKind(metadata.ExtractDocument) {
		t.Fatal("expected extraction hypothesis")
	}
	if len(cls.FieldRefs) != 1 || cls.FieldRefs[0] != "PAN" {
		t.Fatalf("FieldRefs = %v, want [PAN]", cls.FieldRefs)
	}
}

func TestClassifyVerification(t *testing.T) {
	cls := Classify("PAN will be verified against NSDL records")
	if !cls.HasKind(metadata.VerifyDocument) {
		t.Fatal("expected verification hypothesis")
	}
}

func TestClassifySkipPatterns(t *testing.T) {
	cls := Classify("visibility: record.constitution == 'Company' && record.gst_option == 'Yes'")
	if !cls.Skipped {
		t.Fatal("expression markers must short-circuit classification")
	}
	if len(cls.Hypotheses) != 0 || cls.Confidence != 0 {
		t.Fatalf("skipped text must carry no hypotheses, got %+v", cls)
	}
}

func TestClassifyExpressionConfirmation(t *testing.T) {
	cls := Classify("total == base + tax")
	if !cls.Skipped {
		t.Fatal("expected skip")
	}
	if !cls.Expression {
		t.Fatal("compilable text must be flagged as an expression rule")
	}
}

func TestClassifyZeroConfidence(t *testing.T) {
	cls := Classify("some descriptive remark about the applicant")
	if cls.Skipped || len(cls.Hypotheses) != 0 || cls.Confidence != 0 {
		t.Fatalf("unrecognized prose must classify to nothing, got %+v", cls)
	}

	empty := Classify("   ")
	if len(empty.Hypotheses) != 0 || empty.Skipped {
		t.Fatalf("blank text must classify to nothing, got %+v", empty)
	}
}

func TestClassifyValueDedup(t *testing.T) {
	cls := Classify("visible if value is Yes, mandatory when selected as yes")
	count := 0
	for _, v := range cls.Values {
		if v == "Yes" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected Yes extracted once, got %v", cls.Values)
	}
}
