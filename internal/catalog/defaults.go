package catalog

// Default layout: 22 slots across four regions of the garden scene.
var defaultCategories = []CategorySpec{
	{Name: "Main", Slots: 6},
	{Name: "Background", Slots: 8},
	{Name: "Border", Slots: 4},
	{Name: "Pond", Slots: 4},
}

var defaultObjects = []Definition{
	{ID: "1", Name: "Sunflower", Permitted: []string{"Main", "Border"}, Preferred: "Main"},
	{ID: "2", Name: "Rose", Permitted: []string{"Main", "Border"}, Preferred: "Main"},
	{ID: "3", Name: "Tulip", Permitted: []string{"Main", "Border"}},
	{ID: "4", Name: "Daisy", Permitted: []string{"Main", "Border"}},
	{ID: "5", Name: "Fern", Permitted: []string{"Background"}},
	{ID: "6", Name: "Birch Sapling", Permitted: []string{"Background"}, Preferred: "Background"},
	{ID: "7", Name: "Ivy", Permitted: []string{"Background", "Border"}, Preferred: "Background"},
	{ID: "8", Name: "Moss Stone", Permitted: []string{"Background"}},
	{ID: "9", Name: "Mushroom", Permitted: []string{"Border", "Background"}, Preferred: "Border"},
	{ID: "10", Name: "Garden Gnome", Permitted: []string{"Border"}},
	{ID: "11", Name: "Koi", Permitted: []string{"Pond"}, Preferred: "Pond"},
	{ID: "12", Name: "Lily Pad", Permitted: []string{"Pond"}},
	{ID: "13", Name: "Cattail", Permitted: []string{"Pond", "Border"}, Preferred: "Pond"},
	{ID: "14", Name: "Reed", Permitted: []string{"Pond", "Background"}},
	{ID: "15", Name: "Lantern", Permitted: []string{"Border", "Main"}, Preferred: "Border"},
	{ID: "16", Name: "Bonsai", Permitted: []string{"Main"}, Preferred: "Main"},
}

// DefaultReinitObjects is the fixed object list planted by an automatic or
// requested garden reset.
var DefaultReinitObjects = []string{"1", "2", "5", "9", "11", "12"}

// Default returns the built-in catalog. The defaults are known-valid, so
// construction cannot fail.
func Default() *Catalog {
	c, err := New(defaultCategories, defaultObjects)
	if err != nil {
		panic("catalog: invalid built-in defaults: " + err.Error())
	}
	return c
}
