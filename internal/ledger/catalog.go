package ledger

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"crane-cafe/server/internal/prize"
)

//go:embed missions.yaml
var defaultCatalog []byte

// Catalog is the designer-authored mission template file.
type Catalog struct {
	Missions []Template `yaml:"missions" json:"missions"`
}

// LoadCatalog reads a mission catalog from disk, or the embedded default
// when path is empty.
func LoadCatalog(path string) (Catalog, error) {
	raw := defaultCatalog
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Catalog{}, fmt.Errorf("read mission catalog: %w", err)
		}
		raw = data
	}
	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("decode mission catalog: %w", err)
	}
	if err := catalog.validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

func (c Catalog) validate() error {
	seen := make(map[string]bool, len(c.Missions))
	for i, tpl := range c.Missions {
		if tpl.ID == "" {
			return fmt.Errorf("mission %d: missing id", i)
		}
		if seen[tpl.ID] {
			return fmt.Errorf("mission %q: duplicate id", tpl.ID)
		}
		seen[tpl.ID] = true
		if !classKnown(tpl.TargetClass) {
			return fmt.Errorf("mission %q: unknown target class %q", tpl.ID, tpl.TargetClass)
		}
		for _, rarity := range tpl.Rarities {
			if !rarityKnown(rarity) {
				return fmt.Errorf("mission %q: unknown rarity %q", tpl.ID, rarity)
			}
		}
		if tpl.Required <= 0 {
			return fmt.Errorf("mission %q: required count must be positive", tpl.ID)
		}
	}
	return nil
}

func classKnown(c prize.Class) bool {
	for _, candidate := range prize.Classes {
		if candidate == c {
			return true
		}
	}
	return false
}

func rarityKnown(r prize.Rarity) bool {
	for _, candidate := range prize.Rarities {
		if candidate == r {
			return true
		}
	}
	return false
}
