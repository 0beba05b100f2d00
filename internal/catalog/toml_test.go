package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `
[[category]]
name = "Main"
slots = 2

[[category]]
name = "Pond"
slots = 1

[[object]]
id = "frog"
name = "Frog"
categories = ["Pond"]
preferred = "Pond"

[[object]]
id = "shrub"
name = "Shrub"
categories = ["Main", "Pond"]
`

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if got := c.TotalSlots(); got != 3 {
		t.Errorf("TotalSlots = %d, want 3", got)
	}
	def, ok := c.DefinitionOf("frog")
	if !ok {
		t.Fatal("frog should be defined")
	}
	if def.Preferred != "Pond" {
		t.Errorf("frog prefers %q, want Pond", def.Preferred)
	}
	if _, ok := c.DefinitionOf("1"); ok {
		t.Error("a catalog file replaces the defaults, it does not merge")
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if got := c.TotalSlots(); got != 22 {
		t.Errorf("TotalSlots = %d, want the built-in 22", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[[category\nname="), 0o644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_InvalidCatalog(t *testing.T) {
	t.Parallel()
	bad := `
[[category]]
name = "Main"
slots = 1

[[object]]
id = "x"
name = "X"
categories = ["Missing"]
`
	path := filepath.Join(t.TempDir(), "invalid.toml")
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
}
