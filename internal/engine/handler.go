package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"ruleforge/internal/metadata"
	"ruleforge/internal/store"
)

// Handler serves the inference API.
type Handler struct {
	db        *store.Store
	schemas   *metadata.SchemaTable
	overrides *metadata.Overrides
	threshold int
}

func NewHandler(db *store.Store, schemas *metadata.SchemaTable, overrides *metadata.Overrides, threshold int) *Handler {
	return &Handler{db: db, schemas: schemas, overrides: overrides, threshold: threshold}
}

type evidenceInput struct {
	FieldID int    `json:"field_id"`
	Source  string `json:"source"`
	Text    string `json:"text"`
}

type inferenceRequest struct {
	Name     string            `json:"name"`
	Fields   []*metadata.Field `json:"fields"`
	Evidence []evidenceInput   `json:"evidence"`
}

// Infer runs the pipeline over the posted catalog and evidence, persists the
// result as a rule set and returns it.
func (h *Handler) Infer(c *fiber.Ctx) error {
	var req inferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequestError("Invalid inference body")
	}
	if len(req.Fields) == 0 {
		return BadRequestError("At least one field is required")
	}

	catalog := metadata.NewCatalog()
	catalog.Load(req.Fields)
	for _, ev := range req.Evidence {
		f := catalog.Get(ev.FieldID)
		if f == nil {
			return BadRequestError(fmt.Sprintf("Evidence references unknown field id %d", ev.FieldID))
		}
		f.AppendEvidence(ev.Source, ev.Text)
	}

	result := NewPipeline(catalog, h.schemas, h.overrides, h.threshold).Run()

	name := req.Name
	if name == "" {
		name = "untitled"
	}
	definition, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := h.db.SaveRuleSet(c.Context(), result.RunID, name, len(result.Rules), definition); err != nil {
		// Persistence is best effort; the caller still gets the rules.
		log.Printf("WARN: failed to persist ruleset %s: %v", result.RunID, err)
	}

	return c.JSON(result)
}

// ListRuleSets returns summaries of stored runs.
func (h *Handler) ListRuleSets(c *fiber.Ctx) error {
	sets, err := h.db.ListRuleSets(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"rulesets": sets})
}

// GetRuleSet returns one stored run with its full definition.
func (h *Handler) GetRuleSet(c *fiber.Ctx) error {
	id := c.Params("id")
	rs, err := h.db.GetRuleSet(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFoundError("ruleset", id)
		}
		return err
	}
	return c.JSON(rs)
}

// ListSchemas returns the registered ordinal schema kinds and their sizes.
func (h *Handler) ListSchemas(c *fiber.Ctx) error {
	kinds := h.schemas.Kinds()
	out := make([]fiber.Map, 0, len(kinds))
	for _, k := range kinds {
		s := h.schemas.Get(k)
		out = append(out, fiber.Map{"kind": k, "size": s.Size(), "labels": s.Labels})
	}
	return c.JSON(fiber.Map{"schemas": out})
}
