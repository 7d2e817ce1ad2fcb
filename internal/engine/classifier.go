package engine

import (
	"regexp"
	"strings"

	"github.com/expr-lang/expr"

	"ruleforge/internal/metadata"
)

// Hypothesis is one candidate action kind for a piece of behavior text.
type Hypothesis struct {
	Kind       metadata.ActionKind `json:"kind"`
	Confidence float64             `json:"confidence"`
}

// Classification is the classifier's typed intent bundle for one field.
// Confidence is the max base confidence among fired hypotheses; it is used
// for reporting only and never changes rule semantics.
type Classification struct {
	Hypotheses  []Hypothesis `json:"hypotheses,omitempty"`
	Values      []string     `json:"values,omitempty"`
	FieldRefs   []string     `json:"field_refs,omitempty"`
	TriggerRefs []string     `json:"trigger_refs,omitempty"`
	Confidence  float64      `json:"confidence"`
	Skipped     bool         `json:"skipped,omitempty"`
	Expression  bool         `json:"expression,omitempty"` // skip text that compiles as an expression
}

type actionPattern struct {
	re         *regexp.Regexp
	kind       metadata.ActionKind
	confidence float64
}

// The pattern table is ordered but all matching patterns fire: "visible and
// mandatory" yields both kinds.
var actionPatterns = []actionPattern{
	{regexp.MustCompile(`\b(?:invisible|hidden|hide|hides|not\s+(?:be\s+)?visible|disappear)`), metadata.MakeInvisible, 0.9},
	{regexp.MustCompile(`\b(?:visible|shown|show|shows|displayed|display)\b`), metadata.MakeVisible, 0.9},
	{regexp.MustCompile(`\b(?:non[\s-]?mandatory|not\s+(?:be\s+)?(?:mandatory|required)|optional)\b`), metadata.MakeNonMandatory, 0.85},
	{regexp.MustCompile(`\b(?:mandatory|required|compulsory)\b`), metadata.MakeMandatory, 0.9},
	{regexp.MustCompile(`\b(?:disabled?|read[\s-]?only|not\s+editable|gr[ae]yed\s+out)\b`), metadata.DisableField, 0.85},
	{regexp.MustCompile(`\b(?:copy|copied|same\s+as|auto[\s-]?populated?\s+from)\b`), metadata.CopyValue, 0.8},
	{regexp.MustCompile(`\b(?:converted?\s+to|upper\s?case|capital\s+letters|title\s+case)\b`), metadata.ConvertValue, 0.7},
	{regexp.MustCompile(`\b(?:ocr|data\s+extracted|extracted?\s+from|extracts?\b)`), metadata.ExtractDocument, 0.9},
	{regexp.MustCompile(`\b(?:verify|verified|verification|validated?\s+(?:against|via|with|by))\b`), metadata.VerifyDocument, 0.85},
	{regexp.MustCompile(`\b(?:look\s?up|fetch(?:ed)?\s+from\s+(?:api|cfms|external)|third[\s-]?party\s+(?:api|service))\b`), metadata.ExternalLookup, 0.7},
	{regexp.MustCompile(`\bupload\s+(?:section|document|block)\b|\bdocument\s+(?:is\s+|will\s+be\s+)?(?:visible|applicable)\b`), metadata.DocumentVisible, 0.75},
}

// skipPatterns mark text that is really a computed-expression or script rule,
// which a declarative classification would misrepresent.
var skipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`==|!=|&&|\|\|`),
	regexp.MustCompile(`\bfunction\s*\(`),
	regexp.MustCompile(`\breturn\b`),
	regexp.MustCompile(`\b(?:formula|calculated\s+as|expression\s*:|script)\b`),
}

var valuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`value\s+is\s+["']?([a-z0-9][a-z0-9 ]*?)["']?\s*(?:,|then|$)`),
	regexp.MustCompile(`selected\s+as\s+["']?([a-z0-9][a-z0-9 ]*?)["']?\s*(?:,|\.|then|$)`),
	regexp.MustCompile(`(?:if|when)\s+[a-z0-9 ]{0,50}?\bis\s+["']?([a-z0-9][a-z0-9 ]*?)["']?\s*(?:,|;|\.|then|$)`),
	regexp.MustCompile(`["']([a-z0-9][a-z0-9 ]{0,30})["']\s+(?:is\s+)?selected`),
	regexp.MustCompile(`\b(yes|no)\b`),
}

// fieldRefPattern captures the name list after a destination verb; the list
// is split on commas and "and".
var fieldRefPattern = regexp.MustCompile(`(?i)(?:populates?|applies\s+to|applicable\s+(?:to|for)|for\s+fields?|copy\s+(?:to|into)|same\s+as|copied\s+from|auto[\s-]?populated?\s+from|then\s+show|then\s+hide)\s+([^.;]+)`)

// triggerRefPattern captures the field named inside a conditional clause
// ("when GST Option is Yes" names the trigger, not a destination).
var triggerRefPattern = regexp.MustCompile(`(?i)(?:if|when)\s+(?:the\s+)?([a-z][a-z0-9 /_-]{0,40}?)\s+(?:is|was|equals|has|selected)\b`)

// genericSelfRefs are conditional-clause subjects that mean "this field",
// not a reference to another one.
var genericSelfRefs = map[string]bool{
	"value": true, "the value": true, "it": true, "this": true,
	"this field": true, "field": true, "selected value": true, "user": true,
}

var refSplitter = regexp.MustCompile(`(?i)\s*(?:,|\band\b|&)\s*`)

// Classify parses one field's accumulated behavior text into an intent
// bundle. It is a pure per-field function; cross-field destination discovery
// belongs to the synthesizer.
func Classify(text string) Classification {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Classification{}
	}

	for _, re := range skipPatterns {
		if re.MatchString(lower) {
			c := Classification{Skipped: true}
			// Best effort: a successful compile confirms the text is an
			// expression rule rather than unclassifiable prose.
			if _, err := expr.Compile(text, expr.AllowUndefinedVariables()); err == nil {
				c.Expression = true
			}
			return c
		}
	}

	var out Classification
	for _, p := range actionPatterns {
		if p.re.MatchString(lower) {
			out.Hypotheses = append(out.Hypotheses, Hypothesis{Kind: p.kind, Confidence: p.confidence})
			if p.confidence > out.Confidence {
				out.Confidence = p.confidence
			}
		}
	}

	out.Values = extractValues(lower)
	out.FieldRefs = extractFieldRefs(text)
	out.TriggerRefs = extractTriggerRefs(text)
	return out
}

// HasKind reports whether any hypothesis carries the given kind.
func (c Classification) HasKind(kind metadata.ActionKind) bool {
	for _, h := range c.Hypotheses {
		if h.Kind == kind {
			return true
		}
	}
	return false
}

// extractValues pulls conditional literals out of the lowercased text. The
// result is deduplicated; order is not meaningful (rules use the values as an
// unordered acceptance set).
func extractValues(lower string) []string {
	seen := make(map[string]bool)
	var vals []string
	for _, re := range valuePatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			v := canonicalValue(m[1])
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			vals = append(vals, v)
		}
	}
	return vals
}

// canonicalValue trims a captured literal and restores the conventional
// casing for yes/no tokens.
func canonicalValue(v string) string {
	v = strings.TrimSpace(v)
	switch v {
	case "":
		return ""
	case "yes":
		return "Yes"
	case "no":
		return "No"
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

// extractTriggerRefs pulls field names out of conditional clauses. Generic
// subjects like "value" mean the field the text is attached to and are
// dropped.
func extractTriggerRefs(text string) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, m := range triggerRefPattern.FindAllStringSubmatch(text, -1) {
		ref := strings.TrimSpace(m[1])
		key := metadata.Normalize(ref)
		if key == "" || genericSelfRefs[key] || seen[key] {
			continue
		}
		seen[key] = true
		refs = append(refs, ref)
	}
	return refs
}

// extractFieldRefs pulls referenced field names from the original-case text.
func extractFieldRefs(text string) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, m := range fieldRefPattern.FindAllStringSubmatchIndex(text, -1) {
		segment := text[m[2]:m[3]]
		// Drop a trailing conditional clause hanging off the name list.
		if i := strings.Index(strings.ToLower(segment), " if "); i >= 0 {
			segment = segment[:i]
		}
		if i := strings.Index(strings.ToLower(segment), " when "); i >= 0 {
			segment = segment[:i]
		}
		for _, part := range refSplitter.Split(segment, -1) {
			part = strings.TrimSpace(part)
			key := metadata.Normalize(part)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			refs = append(refs, part)
		}
	}
	return refs
}
