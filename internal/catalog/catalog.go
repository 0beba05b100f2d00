// Package catalog holds the static garden layout: the named slots grouped by
// category and the definitions of every object that may be planted. A Catalog
// is built once at startup, from built-in defaults or a TOML file, and is
// immutable afterwards.
package catalog

import (
	"fmt"
	"strings"
)

// Definition describes one plantable object: which slot categories it may
// occupy and, optionally, the category it prefers. Permitted is ordered;
// the preferred category (when set) is always a member of Permitted.
type Definition struct {
	ID        string
	Name      string
	Permitted []string
	Preferred string
}

// HasPreferred reports whether the definition declares a preferred category.
func (d Definition) HasPreferred() bool { return d.Preferred != "" }

// Catalog is the immutable slot and object lookup table.
type Catalog struct {
	order      []string            // category declaration order
	categories map[string][]string // category name -> ordered slot IDs
	defOrder   []string            // object declaration order
	defs       map[string]Definition
}

// CategorySpec declares one slot category and how many slots it contains.
// Slot IDs are generated as "<Name>-1" through "<Name>-<Slots>".
type CategorySpec struct {
	Name  string
	Slots int
}

// New builds a Catalog from category specs and object definitions. It
// validates that category names are unique and dash-free, that every
// permitted category exists, and that each preferred category is one of the
// object's permitted categories.
func New(cats []CategorySpec, defs []Definition) (*Catalog, error) {
	c := &Catalog{
		categories: make(map[string][]string, len(cats)),
		defs:       make(map[string]Definition, len(defs)),
	}

	for _, spec := range cats {
		if spec.Name == "" {
			return nil, fmt.Errorf("catalog: category with empty name")
		}
		if strings.Contains(spec.Name, "-") {
			// The slot naming convention reserves "-" for the index suffix.
			return nil, fmt.Errorf("catalog: category %q contains %q", spec.Name, "-")
		}
		if spec.Slots < 1 {
			return nil, fmt.Errorf("catalog: category %q declares %d slots", spec.Name, spec.Slots)
		}
		if _, dup := c.categories[spec.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate category %q", spec.Name)
		}
		slots := make([]string, spec.Slots)
		for i := range slots {
			slots[i] = fmt.Sprintf("%s-%d", spec.Name, i+1)
		}
		c.order = append(c.order, spec.Name)
		c.categories[spec.Name] = slots
	}

	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog: object with empty id")
		}
		if _, dup := c.defs[d.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate object %q", d.ID)
		}
		if len(d.Permitted) == 0 {
			return nil, fmt.Errorf("catalog: object %q permits no categories", d.ID)
		}
		for _, cat := range d.Permitted {
			if _, ok := c.categories[cat]; !ok {
				return nil, fmt.Errorf("catalog: object %q permits unknown category %q", d.ID, cat)
			}
		}
		if d.Preferred != "" && !contains(d.Permitted, d.Preferred) {
			return nil, fmt.Errorf("catalog: object %q prefers %q which is not in its permitted categories", d.ID, d.Preferred)
		}
		d.Permitted = append([]string(nil), d.Permitted...)
		c.defOrder = append(c.defOrder, d.ID)
		c.defs[d.ID] = d
	}

	return c, nil
}

// SlotsOf returns the ordered slot IDs of a category, or nil if the category
// does not exist. The returned slice is a copy.
func (c *Catalog) SlotsOf(category string) []string {
	slots, ok := c.categories[category]
	if !ok {
		return nil
	}
	return append([]string(nil), slots...)
}

// CategoryOf derives the category of a slot ID from its naming convention
// ("<Category>-<n>") and reports whether the slot exists in the catalog.
func (c *Catalog) CategoryOf(slotID string) (string, bool) {
	i := strings.LastIndex(slotID, "-")
	if i <= 0 {
		return "", false
	}
	cat := slotID[:i]
	slots, ok := c.categories[cat]
	if !ok {
		return "", false
	}
	for _, s := range slots {
		if s == slotID {
			return cat, true
		}
	}
	return "", false
}

// DefinitionOf returns the object definition for the given ID and reports
// whether it exists.
func (c *Catalog) DefinitionOf(objectID string) (Definition, bool) {
	d, ok := c.defs[objectID]
	return d, ok
}

// Categories returns the category names in declaration order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.order...)
}

// Objects returns every object definition in declaration order.
func (c *Catalog) Objects() []Definition {
	out := make([]Definition, 0, len(c.defOrder))
	for _, id := range c.defOrder {
		out = append(out, c.defs[id])
	}
	return out
}

// AllSlots returns every slot ID, category by category in declaration order.
func (c *Catalog) AllSlots() []string {
	var out []string
	for _, cat := range c.order {
		out = append(out, c.categories[cat]...)
	}
	return out
}

// TotalSlots returns the number of slots across all categories.
func (c *Catalog) TotalSlots() int {
	n := 0
	for _, slots := range c.categories {
		n += len(slots)
	}
	return n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
