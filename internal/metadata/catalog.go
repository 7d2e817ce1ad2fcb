package metadata

import (
	"strings"
	"sync"
	"unicode"
)

// leadingPhrases are instruction prefixes that appear in display names and
// free-text references but carry no identity ("Please select Constitution"
// and "Constitution" are the same field).
var leadingPhrases = []string{
	"please select the",
	"please select",
	"please choose the",
	"please choose",
	"please enter the",
	"please enter",
	"please upload the",
	"please upload",
	"select the",
	"select",
	"choose the",
	"choose",
	"enter the",
	"enter",
}

// Normalize lowercases a field reference, strips punctuation and collapses
// whitespace, and removes common instruction prefixes. Both catalog names and
// incoming references go through this before any comparison.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_' || r == '-' || r == '/':
			b.WriteRune(' ')
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	for _, p := range leadingPhrases {
		if strings.HasPrefix(out, p+" ") {
			out = strings.TrimPrefix(out, p+" ")
			break
		}
	}
	return out
}

// Catalog is the indexed, read-only view over the run's fields. It is built
// once and shared by every pipeline stage; evidence accumulation happens on
// the *Field values it holds.
type Catalog struct {
	mu      sync.RWMutex
	ordered []*Field
	byID    map[int]*Field
	byName  map[string][]*Field // normalized display name
	byVar   map[string]*Field   // normalized variable name
	byPanel map[string][]*Field
}

func NewCatalog() *Catalog {
	return &Catalog{
		byID:    make(map[int]*Field),
		byName:  make(map[string][]*Field),
		byVar:   make(map[string]*Field),
		byPanel: make(map[string][]*Field),
	}
}

// Load replaces the catalog contents. Fields keep their input order, which
// fixes the iteration order for every downstream stage.
func (c *Catalog) Load(fields []*Field) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ordered = make([]*Field, 0, len(fields))
	c.byID = make(map[int]*Field, len(fields))
	c.byName = make(map[string][]*Field)
	c.byVar = make(map[string]*Field, len(fields))
	c.byPanel = make(map[string][]*Field)

	for _, f := range fields {
		if _, dup := c.byID[f.ID]; dup {
			continue
		}
		c.ordered = append(c.ordered, f)
		c.byID[f.ID] = f
		name := Normalize(f.DisplayName)
		if name != "" {
			c.byName[name] = append(c.byName[name], f)
		}
		if v := Normalize(f.Variable); v != "" {
			c.byVar[v] = f
		}
		if f.Panel != "" {
			c.byPanel[f.Panel] = append(c.byPanel[f.Panel], f)
		}
	}
}

// Get returns the field with the given id, or nil.
func (c *Catalog) Get(id int) *Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[id]
}

// Fields returns all fields in catalog order.
func (c *Catalog) Fields() []*Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Field, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// ByNormalizedName returns every field whose normalized display name matches.
func (c *Catalog) ByNormalizedName(name string) []*Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byName[name]
}

// ByNormalizedVariable returns the field whose normalized variable name
// matches, or nil.
func (c *Catalog) ByNormalizedVariable(v string) *Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byVar[v]
}

// InPanel returns all fields belonging to the named panel, catalog order.
func (c *Catalog) InPanel(panel string) []*Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byPanel[panel]
}

// Len returns the number of fields in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ordered)
}
