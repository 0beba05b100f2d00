package catalog

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// tomlFile is the on-disk catalog shape.
type tomlFile struct {
	Category []tomlCategory `toml:"category"`
	Object   []tomlObject   `toml:"object"`
}

type tomlCategory struct {
	Name  string `toml:"name"`
	Slots int    `toml:"slots"`
}

type tomlObject struct {
	ID         string   `toml:"id"`
	Name       string   `toml:"name"`
	Categories []string `toml:"categories"`
	Preferred  string   `toml:"preferred"`
}

// Load reads a catalog from the given TOML path. If path is empty the
// built-in defaults are returned. The file replaces the defaults wholesale;
// there is no merging.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}

	var f tomlFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parsing %s: %w", path, err)
	}

	cats := make([]CategorySpec, len(f.Category))
	for i, tc := range f.Category {
		cats[i] = CategorySpec{Name: tc.Name, Slots: tc.Slots}
	}
	defs := make([]Definition, len(f.Object))
	for i, to := range f.Object {
		defs[i] = Definition{
			ID:        to.ID,
			Name:      to.Name,
			Permitted: to.Categories,
			Preferred: to.Preferred,
		}
	}
	return New(cats, defs)
}
