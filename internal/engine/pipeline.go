package engine

import (
	"time"

	"github.com/google/uuid"

	"ruleforge/internal/metadata"
)

// UnresolvedReference records one field-name reference that matched nothing
// in the catalog. FieldID is the field whose text contained the reference
// (0 for references coming from override configuration).
type UnresolvedReference struct {
	FieldID   int    `json:"field_id"`
	Reference string `json:"reference"`
}

// Diagnostics is the best-effort gap report for a run. Nothing in it is
// fatal: unresolved references and unmapped ordinals are expected with
// human-authored input.
type Diagnostics struct {
	RuleCounts       map[metadata.ActionKind]int `json:"rule_counts"`
	Unresolved       []UnresolvedReference       `json:"unresolved,omitempty"`
	ZeroConfidence   []int                       `json:"zero_confidence,omitempty"` // field ids with no recognized hypothesis
	SkippedFields    []int                       `json:"skipped_fields,omitempty"`  // script/expression text, intentionally excluded
	ExpressionFields []int                       `json:"expression_fields,omitempty"`
}

func newDiagnostics() *Diagnostics {
	return &Diagnostics{RuleCounts: make(map[metadata.ActionKind]int)}
}

func (d *Diagnostics) unresolved(fieldID int, ref string) {
	for _, u := range d.Unresolved {
		if u.FieldID == fieldID && u.Reference == ref {
			return
		}
	}
	d.Unresolved = append(d.Unresolved, UnresolvedReference{FieldID: fieldID, Reference: ref})
}

// Result is the engine's complete output for one run.
type Result struct {
	RunID       string           `json:"run_id"`
	Rules       []*metadata.Rule `json:"rules"`
	Diagnostics *Diagnostics     `json:"diagnostics"`
	StartedAt   time.Time        `json:"started_at"`
	Elapsed     time.Duration    `json:"elapsed"`
}

// Pipeline wires the inference stages together. It is a deterministic,
// single-pass batch transformation: same catalog, same text and same schema
// table always produce the same rules, so re-running for verification is
// safe.
type Pipeline struct {
	Catalog   *metadata.Catalog
	Schemas   *metadata.SchemaTable
	Overrides *metadata.Overrides
	Threshold int
}

func NewPipeline(catalog *metadata.Catalog, schemas *metadata.SchemaTable, overrides *metadata.Overrides, threshold int) *Pipeline {
	return &Pipeline{Catalog: catalog, Schemas: schemas, Overrides: overrides, Threshold: threshold}
}

// Run executes classify -> synthesize -> consolidate -> chain and returns the
// frozen rule list with diagnostics.
func (p *Pipeline) Run() *Result {
	started := time.Now()
	diags := newDiagnostics()

	classified := make(map[int]Classification, p.Catalog.Len())
	for _, f := range p.Catalog.Fields() {
		text := f.BehaviorText()
		if text == "" {
			continue
		}
		cls := Classify(text)
		classified[f.ID] = cls
		switch {
		case cls.Skipped && cls.Expression:
			diags.ExpressionFields = append(diags.ExpressionFields, f.ID)
		case cls.Skipped:
			diags.SkippedFields = append(diags.SkippedFields, f.ID)
		case len(cls.Hypotheses) == 0:
			diags.ZeroConfidence = append(diags.ZeroConfidence, f.ID)
		}
	}

	resolver := NewResolver(p.Catalog, p.Threshold)
	synth := NewSynthesizer(p.Catalog, resolver, p.Schemas, p.Overrides, diags)
	rules := synth.Synthesize(classified)
	rules = Consolidate(rules)
	LinkChains(rules)

	for _, r := range rules {
		diags.RuleCounts[r.Kind]++
	}

	return &Result{
		RunID:       uuid.New().String(),
		Rules:       rules,
		Diagnostics: diags,
		StartedAt:   started,
		Elapsed:     time.Since(started),
	}
}
