package engine

import (
	"strings"

	"ruleforge/internal/metadata"
)

// docKindHint ties a keyword found in a field's name or text to the
// extraction/verification kinds it implies and the default destination for
// single-slot extraction.
type docKindHint struct {
	keyword     string
	extractKind string
	verifyKind  string
	destHint    string
}

// Hint order matters: more specific keywords first, so "gstin" wins over
// "gst" and "pan card" text lands on PAN before anything else.
var docKindHints = []docKindHint{
	{"gstin", "GSTIN_CERT", "GSTIN", "GSTIN"},
	{"gst", "GSTIN_CERT", "GSTIN", "GSTIN"},
	{"pan", "PAN_IMAGE", "PAN", "PAN"},
	{"cheque", "CHEQUE_IMAGE", "BANK_ACCOUNT", "Account Number"},
	{"bank", "CHEQUE_IMAGE", "BANK_ACCOUNT", "Account Number"},
	{"ifsc", "CHEQUE_IMAGE", "BANK_ACCOUNT", "IFSC Code"},
	{"cin", "", "CIN", "CIN"},
	{"aadhaar", "", "AADHAAR", "Aadhaar Number"},
}

// Synthesizer turns classified fields into candidate rule records. It owns
// rule id assignment for the run: ids are sequential from 1 and never reused.
type Synthesizer struct {
	catalog   *metadata.Catalog
	resolver  *Resolver
	schemas   *metadata.SchemaTable
	overrides *metadata.Overrides
	diags     *Diagnostics
	nextID    int
}

func NewSynthesizer(catalog *metadata.Catalog, resolver *Resolver, schemas *metadata.SchemaTable, overrides *metadata.Overrides, diags *Diagnostics) *Synthesizer {
	if overrides == nil {
		overrides = &metadata.Overrides{}
	}
	return &Synthesizer{
		catalog:   catalog,
		resolver:  resolver,
		schemas:   schemas,
		overrides: overrides,
		diags:     diags,
		nextID:    1,
	}
}

// Synthesize produces the full candidate rule list: injected overrides first,
// then one pass over the catalog in field order. The output is pre-
// consolidation; duplicates and overlapping rules are expected.
func (s *Synthesizer) Synthesize(classified map[int]Classification) []*metadata.Rule {
	var rules []*metadata.Rule

	for _, ov := range s.overrides.Rules {
		rules = s.applyOverride(ov, rules)
	}

	for _, f := range s.catalog.Fields() {
		cls, ok := classified[f.ID]
		if !ok || cls.Skipped || len(cls.Hypotheses) == 0 {
			continue
		}
		rules = s.synthesizeField(f, cls, rules)
	}
	return rules
}

func (s *Synthesizer) synthesizeField(f *metadata.Field, cls Classification, rules []*metadata.Rule) []*metadata.Rule {
	if cls.HasKind(metadata.MakeVisible) || cls.HasKind(metadata.MakeInvisible) {
		rules = s.emitConditionPair(f, cls, metadata.MakeVisible, metadata.MakeInvisible, rules)
	}
	if cls.HasKind(metadata.MakeMandatory) || cls.HasKind(metadata.MakeNonMandatory) {
		rules = s.emitConditionPair(f, cls, metadata.MakeMandatory, metadata.MakeNonMandatory, rules)
	}
	if cls.HasKind(metadata.DisableField) {
		rules = s.emitDisable(f, cls, rules)
	}
	if cls.HasKind(metadata.CopyValue) {
		rules = s.emitCopy(f, cls, rules)
	}
	if cls.HasKind(metadata.ConvertValue) {
		rules = append(rules, s.newRule(metadata.ConvertValue, "", metadata.LocusClient, nil, []int{f.ID}, nil))
	}
	if cls.HasKind(metadata.ExtractDocument) && f.Type == metadata.TypeFile {
		rules = s.emitExtraction(f, cls, rules)
	}
	if cls.HasKind(metadata.VerifyDocument) {
		rules = s.emitVerification(f, cls, rules)
	}
	if cls.HasKind(metadata.ExternalLookup) {
		rules = s.emitLookup(f, cls, rules)
	}
	if cls.HasKind(metadata.DocumentVisible) {
		rules = s.emitDocumentVisible(f, cls, rules)
	}
	return rules
}

// emitConditionPair emits the mandatory IN/NOT_IN branch pair for a
// visibility or mandatory assertion. The runtime needs both branches to act
// unambiguously on every input, not only the documented one.
func (s *Synthesizer) emitConditionPair(f *metadata.Field, cls Classification, pos, neg metadata.ActionKind, rules []*metadata.Rule) []*metadata.Rule {
	trigger := s.resolveTrigger(f, cls)
	dests := s.resolveDestinations(f, cls, trigger)
	if len(dests) == 0 {
		return rules
	}

	// The asserted kind takes the IN branch. Text that only states the
	// negative outcome ("hidden when Flag is Yes") asserts the negative
	// kind; its counterpart gets the inverse condition.
	if cls.HasKind(neg) && !cls.HasKind(pos) {
		pos, neg = neg, pos
	}

	posCond, negCond := branchConditions(cls.Values)
	rules = append(rules, s.newRule(pos, "", metadata.LocusClient, []int{trigger.ID}, dests, &posCond))
	rules = append(rules, s.newRule(neg, "", metadata.LocusClient, []int{trigger.ID}, copyIDs(dests), &negCond))
	return rules
}

func (s *Synthesizer) emitDisable(f *metadata.Field, cls Classification, rules []*metadata.Rule) []*metadata.Rule {
	trigger := s.resolveTrigger(f, cls)
	if trigger.ID == f.ID && len(cls.Values) == 0 {
		// No switch field and no condition: plain read-only field.
		return append(rules, s.newRule(metadata.DisableField, "", metadata.LocusClient, nil, []int{f.ID}, nil))
	}
	cond := metadata.Always()
	if len(cls.Values) > 0 {
		cond = metadata.Condition{Op: metadata.OpIn, Values: copyValues(cls.Values)}
	}
	return append(rules, s.newRule(metadata.DisableField, "", metadata.LocusClient, []int{trigger.ID}, []int{f.ID}, &cond))
}

func (s *Synthesizer) emitCopy(f *metadata.Field, cls Classification, rules []*metadata.Rule) []*metadata.Rule {
	source := s.resolveFirstRef(f, append(cls.FieldRefs, cls.TriggerRefs...))
	if source == nil || source.ID == f.ID {
		return rules
	}
	cond := metadata.Always()
	return append(rules, s.newRule(metadata.CopyValue, "", metadata.LocusClient, []int{source.ID}, []int{f.ID}, &cond))
}

func (s *Synthesizer) emitExtraction(f *metadata.Field, cls Classification, rules []*metadata.Rule) []*metadata.Rule {
	hint := detectDocKind(f, cls)
	if hint == nil || hint.extractKind == "" {
		return rules
	}
	schema := s.schemas.Get(hint.extractKind)
	if schema == nil {
		return rules
	}

	var discovered []LabeledField
	for _, ref := range cls.FieldRefs {
		if fld, ok := s.resolver.ResolveInPanel(ref, f.Panel); ok && fld.ID != f.ID {
			discovered = append(discovered, LabeledField{Label: ref, FieldID: fld.ID})
		} else if !ok {
			s.diags.unresolved(f.ID, ref)
		}
	}
	if len(discovered) == 0 {
		if fld, ok := s.resolver.ResolveInPanel(hint.destHint, f.Panel); ok && fld.ID != f.ID {
			discovered = append(discovered, LabeledField{Label: hint.destHint, FieldID: fld.ID})
		}
	}

	cond := metadata.Always()
	return append(rules, s.newRule(metadata.ExtractDocument, hint.extractKind, metadata.LocusServer,
		[]int{f.ID}, MapOrdinals(schema, discovered), &cond))
}

func (s *Synthesizer) emitVerification(f *metadata.Field, cls Classification, rules []*metadata.Rule) []*metadata.Rule {
	hint := detectDocKind(f, cls)
	if hint == nil || hint.verifyKind == "" {
		return rules
	}
	schema := s.schemas.Get(hint.verifyKind)
	if schema == nil {
		return rules
	}

	// Explicit references from the field's own text claim slots first; the
	// panel scan only fills what is left.
	var discovered []LabeledField
	for _, ref := range cls.FieldRefs {
		if fld, ok := s.resolver.ResolveInPanel(ref, f.Panel); ok && fld.ID != f.ID {
			discovered = append(discovered, LabeledField{Label: ref, FieldID: fld.ID})
		} else if !ok {
			s.diags.unresolved(f.ID, ref)
		}
	}
	for _, g := range s.catalog.InPanel(f.Panel) {
		if g.ID == f.ID || !g.IsInput() {
			continue
		}
		discovered = append(discovered, LabeledField{Label: g.DisplayName, FieldID: g.ID})
	}

	cond := metadata.Always()
	if len(cls.Values) > 0 {
		cond = metadata.Condition{Op: metadata.OpIn, Values: copyValues(cls.Values)}
	}
	return append(rules, s.newRule(metadata.VerifyDocument, hint.verifyKind, metadata.LocusServer,
		[]int{f.ID}, MapOrdinals(schema, discovered), &cond))
}

func (s *Synthesizer) emitLookup(f *metadata.Field, cls Classification, rules []*metadata.Rule) []*metadata.Rule {
	dests := s.resolveDestinations(f, cls, f)
	if len(dests) == 0 {
		dests = []int{f.ID}
	}
	sourceType := ""
	if hint := detectDocKind(f, cls); hint != nil {
		sourceType = hint.verifyKind
	}
	cond := metadata.Always()
	if len(cls.Values) > 0 {
		cond = metadata.Condition{Op: metadata.OpIn, Values: copyValues(cls.Values)}
	}
	return append(rules, s.newRule(metadata.ExternalLookup, sourceType, metadata.LocusServer, []int{f.ID}, dests, &cond))
}

func (s *Synthesizer) emitDocumentVisible(f *metadata.Field, cls Classification, rules []*metadata.Rule) []*metadata.Rule {
	trigger := s.resolveTrigger(f, cls)
	dests := s.resolveDestinations(f, cls, trigger)
	if len(dests) == 0 {
		dests = []int{f.ID}
	}
	if trigger.ID == f.ID && len(cls.Values) == 0 {
		return append(rules, s.newRule(metadata.DocumentVisible, "", metadata.LocusClient, nil, dests, nil))
	}
	cond := metadata.Always()
	if len(cls.Values) > 0 {
		cond = metadata.Condition{Op: metadata.OpIn, Values: copyValues(cls.Values)}
	}
	return append(rules, s.newRule(metadata.DocumentVisible, "", metadata.LocusClient, []int{trigger.ID}, dests, &cond))
}

func (s *Synthesizer) applyOverride(ov metadata.OverrideRule, rules []*metadata.Rule) []*metadata.Rule {
	trigger, ok := s.resolver.Resolve(ov.Field)
	if !ok {
		s.diags.unresolved(0, ov.Field)
		return rules
	}
	var dests []int
	for _, ref := range ov.Destinations {
		if fld, fok := s.resolver.ResolveInPanel(ref, trigger.Panel); fok {
			dests = append(dests, fld.ID)
		} else {
			s.diags.unresolved(trigger.ID, ref)
		}
	}
	if len(dests) == 0 {
		dests = []int{trigger.ID}
	}
	locus := ov.Locus
	if locus == "" {
		locus = metadata.LocusClient
	}

	if neg, paired := ov.Kind.Paired(); paired {
		posCond, negCond := branchConditions(ov.Values)
		rules = append(rules, s.newRule(ov.Kind, ov.SourceType, locus, []int{trigger.ID}, dests, &posCond))
		rules = append(rules, s.newRule(neg, ov.SourceType, locus, []int{trigger.ID}, copyIDs(dests), &negCond))
		return rules
	}

	cond := metadata.Always()
	if len(ov.Values) > 0 {
		cond = metadata.Condition{Op: metadata.OpIn, Values: copyValues(ov.Values)}
	}
	return append(rules, s.newRule(ov.Kind, ov.SourceType, locus, []int{trigger.ID}, dests, &cond))
}

// resolveTrigger picks the field whose value drives a conditional rule: the
// first resolvable conditional-clause reference, falling back to the field
// the text is attached to.
func (s *Synthesizer) resolveTrigger(f *metadata.Field, cls Classification) *metadata.Field {
	for _, ref := range cls.TriggerRefs {
		if fld, ok := s.resolver.ResolveInPanel(ref, f.Panel); ok {
			return fld
		}
		s.diags.unresolved(f.ID, ref)
	}
	return f
}

// resolveDestinations finds the fields a rule acts on. Explicit references
// win; when the trigger turned out to be another field, the annotated field
// itself is the destination; when the field is its own trigger, the rest of
// the catalog is scanned for fields whose text names it.
func (s *Synthesizer) resolveDestinations(f *metadata.Field, cls Classification, trigger *metadata.Field) []int {
	var dests []int
	for _, ref := range cls.FieldRefs {
		fld, ok := s.resolver.ResolveInPanel(ref, f.Panel)
		if !ok {
			s.diags.unresolved(f.ID, ref)
			continue
		}
		if fld.ID == trigger.ID {
			continue
		}
		if !containsID(dests, fld.ID) {
			dests = append(dests, fld.ID)
		}
	}
	if len(dests) > 0 {
		return dests
	}
	if trigger.ID != f.ID {
		return []int{f.ID}
	}
	return s.discoverDependents(f)
}

// discoverDependents scans every other field's text for a mention of f. This
// is how destinations are found when f is the trigger and its own text names
// no targets.
func (s *Synthesizer) discoverDependents(f *metadata.Field) []int {
	name := metadata.Normalize(f.DisplayName)
	variable := metadata.Normalize(f.Variable)
	if name == "" && variable == "" {
		return nil
	}
	var dests []int
	for _, g := range s.catalog.Fields() {
		if g.ID == f.ID {
			continue
		}
		text := metadata.Normalize(g.BehaviorText())
		if text == "" {
			continue
		}
		if (name != "" && strings.Contains(text, name)) || (variable != "" && strings.Contains(text, variable)) {
			dests = append(dests, g.ID)
		}
	}
	return dests
}

func (s *Synthesizer) resolveFirstRef(f *metadata.Field, refs []string) *metadata.Field {
	for _, ref := range refs {
		if fld, ok := s.resolver.ResolveInPanel(ref, f.Panel); ok {
			return fld
		}
		s.diags.unresolved(f.ID, ref)
	}
	return nil
}

func (s *Synthesizer) newRule(kind metadata.ActionKind, sourceType string, locus metadata.Locus, triggers, dests []int, cond *metadata.Condition) *metadata.Rule {
	r := &metadata.Rule{
		ID:           s.nextID,
		Kind:         kind,
		SourceType:   sourceType,
		Locus:        locus,
		Triggers:     triggers,
		Destinations: dests,
		Condition:    cond,
	}
	s.nextID++
	return r
}

// branchConditions builds the IN/NOT_IN pair for a value set. An empty set
// degrades to the always-fires sentinel on the positive branch; the negative
// branch then exists but never fires, keeping the pairing invariant intact.
func branchConditions(values []string) (pos, neg metadata.Condition) {
	if len(values) == 0 {
		pos = metadata.Always()
		return pos, pos.Inverse()
	}
	pos = metadata.Condition{Op: metadata.OpIn, Values: copyValues(values)}
	return pos, pos.Inverse()
}

func copyIDs(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

func copyValues(vals []string) []string {
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// detectDocKind matches a field's name, variable and text against the doc
// kind hint table. Keywords match whole normalized tokens only, so "pan"
// never fires inside "company" or "panel". First hint wins.
func detectDocKind(f *metadata.Field, cls Classification) *docKindHint {
	tokens := strings.Fields(metadata.Normalize(f.DisplayName + " " + f.Variable + " " + f.BehaviorText()))
	for i := range docKindHints {
		for _, tok := range tokens {
			if tok == docKindHints[i].keyword {
				return &docKindHints[i]
			}
		}
	}
	return nil
}
