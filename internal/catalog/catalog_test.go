package catalog

import (
	"strings"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	cats := []CategorySpec{{Name: "Main", Slots: 2}}

	tests := []struct {
		name    string
		cats    []CategorySpec
		defs    []Definition
		wantErr string
	}{
		{
			name:    "empty category name",
			cats:    []CategorySpec{{Name: "", Slots: 1}},
			wantErr: "empty name",
		},
		{
			name:    "dash in category name",
			cats:    []CategorySpec{{Name: "Rock-Garden", Slots: 1}},
			wantErr: `contains "-"`,
		},
		{
			name:    "zero slots",
			cats:    []CategorySpec{{Name: "Main", Slots: 0}},
			wantErr: "declares 0 slots",
		},
		{
			name:    "duplicate category",
			cats:    []CategorySpec{{Name: "Main", Slots: 1}, {Name: "Main", Slots: 2}},
			wantErr: "duplicate category",
		},
		{
			name:    "object with empty id",
			cats:    cats,
			defs:    []Definition{{ID: "", Name: "X", Permitted: []string{"Main"}}},
			wantErr: "empty id",
		},
		{
			name: "duplicate object",
			cats: cats,
			defs: []Definition{
				{ID: "x", Name: "X", Permitted: []string{"Main"}},
				{ID: "x", Name: "X2", Permitted: []string{"Main"}},
			},
			wantErr: "duplicate object",
		},
		{
			name:    "no permitted categories",
			cats:    cats,
			defs:    []Definition{{ID: "x", Name: "X"}},
			wantErr: "permits no categories",
		},
		{
			name:    "unknown permitted category",
			cats:    cats,
			defs:    []Definition{{ID: "x", Name: "X", Permitted: []string{"Pond"}}},
			wantErr: "unknown category",
		},
		{
			name:    "preferred outside permitted",
			cats:    []CategorySpec{{Name: "Main", Slots: 1}, {Name: "Pond", Slots: 1}},
			defs:    []Definition{{ID: "x", Name: "X", Permitted: []string{"Main"}, Preferred: "Pond"}},
			wantErr: "not in its permitted categories",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.cats, tt.defs)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestSlotsOf(t *testing.T) {
	t.Parallel()
	c := Default()

	slots := c.SlotsOf("Main")
	if len(slots) != 6 {
		t.Fatalf("Main has %d slots, want 6", len(slots))
	}
	if slots[0] != "Main-1" || slots[5] != "Main-6" {
		t.Errorf("slots = %v, want Main-1..Main-6 in order", slots)
	}
	if c.SlotsOf("Cellar") != nil {
		t.Error("unknown category should return nil")
	}

	// The returned slice is a copy.
	slots[0] = "tampered"
	if c.SlotsOf("Main")[0] != "Main-1" {
		t.Error("SlotsOf leaked internal slice")
	}
}

func TestCategoryOf(t *testing.T) {
	t.Parallel()
	c := Default()

	tests := []struct {
		slotID  string
		wantCat string
		wantOK  bool
	}{
		{"Main-1", "Main", true},
		{"Background-8", "Background", true},
		{"Pond-4", "Pond", true},
		{"Pond-5", "", false},  // index out of range
		{"Cellar-1", "", false}, // unknown category
		{"Main", "", false},     // no index suffix
		{"", "", false},
	}
	for _, tt := range tests {
		cat, ok := c.CategoryOf(tt.slotID)
		if cat != tt.wantCat || ok != tt.wantOK {
			t.Errorf("CategoryOf(%q) = (%q, %v), want (%q, %v)", tt.slotID, cat, ok, tt.wantCat, tt.wantOK)
		}
	}
}

func TestCategoryOf_RoundTrip(t *testing.T) {
	t.Parallel()
	c := Default()
	for _, name := range c.Categories() {
		for _, slot := range c.SlotsOf(name) {
			cat, ok := c.CategoryOf(slot)
			if !ok || cat != name {
				t.Errorf("CategoryOf(%q) = (%q, %v), want (%q, true)", slot, cat, ok, name)
			}
		}
	}
}

func TestDefinitionOf(t *testing.T) {
	t.Parallel()
	c := Default()

	def, ok := c.DefinitionOf("1")
	if !ok {
		t.Fatal("object 1 should exist in the default catalog")
	}
	if def.Name != "Sunflower" || def.Preferred != "Main" {
		t.Errorf("def = %+v, want Sunflower preferring Main", def)
	}
	if _, ok := c.DefinitionOf("999"); ok {
		t.Error("object 999 should not exist")
	}
}

func TestDefault_Shape(t *testing.T) {
	t.Parallel()
	c := Default()

	if got := c.TotalSlots(); got != 22 {
		t.Errorf("TotalSlots = %d, want 22", got)
	}
	if got := len(c.Categories()); got != 4 {
		t.Errorf("categories = %d, want 4", got)
	}
	for _, id := range DefaultReinitObjects {
		if _, ok := c.DefinitionOf(id); !ok {
			t.Errorf("default reinit object %s missing from catalog", id)
		}
	}
}
