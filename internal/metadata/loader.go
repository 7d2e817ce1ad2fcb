package metadata

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LoadSchemaDir reads every *.schema.json file in dir and registers it in the
// table, extending or replacing the built-in layouts. Invalid files are
// logged and skipped; a missing directory is not an error.
func LoadSchemaDir(dir string, table *SchemaTable) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read schema dir: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".schema.json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("WARN: skipping schema file %s: %v", e.Name(), err)
			continue
		}
		var schema OrdinalSchema
		if err := json.Unmarshal(raw, &schema); err != nil {
			log.Printf("WARN: skipping schema file %s (invalid JSON): %v", e.Name(), err)
			continue
		}
		if err := table.Register(&schema); err != nil {
			log.Printf("WARN: skipping schema file %s: %v", e.Name(), err)
			continue
		}
		loaded++
	}
	if loaded > 0 {
		log.Printf("Loaded %d ordinal schemas from %s", loaded, dir)
	}
	return nil
}

// LoadOverrides reads overrides.json from dir, returning empty overrides when
// the file is absent or unreadable.
func LoadOverrides(dir string) *Overrides {
	ov := &Overrides{}
	if dir == "" {
		return ov
	}
	raw, err := os.ReadFile(filepath.Join(dir, "overrides.json"))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: skipping overrides file: %v", err)
		}
		return ov
	}
	if err := json.Unmarshal(raw, ov); err != nil {
		log.Printf("WARN: skipping overrides file (invalid JSON): %v", err)
		return &Overrides{}
	}
	return ov
}
