package ledger

import (
	"os"
	"testing"

	"crane-cafe/server/internal/prize"
)

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}

func TestLoadCatalogFromFileOverridesDefault(t *testing.T) {
	path := t.TempDir() + "/missions.yaml"
	raw := `missions:
  - id: only-one
    description: "Collect one Idol"
    target_class: idol
    rarities: [common, rare]
    required: 1
    reward: 50
`
	if err := writeFile(path, raw); err != nil {
		t.Fatalf("write temp catalog: %v", err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(catalog.Missions) != 1 {
		t.Fatalf("expected 1 mission, got %d", len(catalog.Missions))
	}
	tpl := catalog.Missions[0]
	if tpl.TargetClass != prize.ClassIdol || tpl.Reward != 50 {
		t.Fatalf("unexpected template: %+v", tpl)
	}
}

func TestLoadCatalogRejectsDuplicateIDs(t *testing.T) {
	path := t.TempDir() + "/missions.yaml"
	raw := `missions:
  - id: twin
    description: a
    target_class: neko
    required: 1
  - id: twin
    description: b
    target_class: maid
    required: 1
`
	if err := writeFile(path, raw); err != nil {
		t.Fatalf("write temp catalog: %v", err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("expected duplicate id rejection")
	}
}

func TestLoadCatalogRejectsNonPositiveRequired(t *testing.T) {
	path := t.TempDir() + "/missions.yaml"
	raw := `missions:
  - id: zero
    description: a
    target_class: neko
    required: 0
`
	if err := writeFile(path, raw); err != nil {
		t.Fatalf("write temp catalog: %v", err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("expected required count rejection")
	}
}

func TestDefaultCatalogTemplatesAreValidMissions(t *testing.T) {
	catalog, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}
	l := New(Config{Templates: catalog.Missions})
	if len(l.Missions()) != 1 {
		t.Fatalf("expected exactly the first mission accepted, got %d", len(l.Missions()))
	}
}
