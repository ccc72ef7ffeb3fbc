package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write sources file: %v", err)
	}
	return file
}

func TestLoadRegistryYAML(t *testing.T) {
	file := writeFile(t, "sources.yaml", `
sources:
  - id: people
    table: person
  - id: adults
    query: "SELECT * FROM person WHERE age >= 18;"
  - id: archived
    table: archive
    enabled: false
`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(reg.All()))
	}
	if len(reg.Enabled()) != 2 {
		t.Fatalf("expected 2 enabled sources, got %d", len(reg.Enabled()))
	}

	people, ok := reg.ByID("people")
	if !ok || people.Type != TypeTable {
		t.Fatalf("people source = %+v, ok=%v", people, ok)
	}
	adults, _ := reg.ByID("adults")
	if adults.Type != TypeQuery {
		t.Fatalf("query source type inferred as %q", adults.Type)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	file := writeFile(t, "sources.json", `{"sources":[{"id":"p","type":"TABLE","table":"person"}]}`)

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if s, _ := reg.ByID("p"); s.Type != TypeTable {
		t.Fatalf("type not normalized: %q", s.Type)
	}
}

func TestLoadRegistryRejectsInvalidEntries(t *testing.T) {
	tests := map[string]string{
		"duplicate": `
sources:
  - id: dup
    table: a
  - id: dup
    table: b
`,
		"missing table": `
sources:
  - id: x
    type: table
`,
		"unknown type": `
sources:
  - id: x
    type: live
    table: a
`,
		"empty": `sources: []`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRegistry(writeFile(t, "sources.yaml", content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadRegistry(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
