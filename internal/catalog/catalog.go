// Package catalog holds the static unlock catalog: the titles and themes
// a user can earn or buy. The catalog is immutable after process start;
// keep keys stable because clients and stored inventories reference them.
package catalog

// TitlePrefix marks title keys when they are mirrored into the inventory
// or addressed by a purchase request.
const TitlePrefix = "title:"

// DefaultTheme is the theme every account starts with. It is never
// mirrored into the inventory.
const DefaultTheme = "default"

// Entry describes one unlockable catalog item. A zero UnlockLevel or
// UnlockInventorySize means that bound does not apply. Price is zero for
// entries that cannot be bought.
type Entry struct {
	Key                 string
	Label               string
	UnlockLevel         int
	UnlockInventorySize int
	Price               int
	Purchasable         bool
}

var titles = []Entry{
	{Key: "novice-checker", Label: "Novice Checker", UnlockLevel: 2},
	{Key: "streak-keeper", Label: "Streak Keeper", UnlockLevel: 5},
	{Key: "task-master", Label: "Task Master", UnlockLevel: 10},
	{Key: "list-builder", Label: "List Builder", UnlockInventorySize: 3},
	{Key: "collector", Label: "Collector", UnlockInventorySize: 6},
	{Key: "completionist", Label: "Completionist", Price: 50, Purchasable: true},
	{Key: "high-roller", Label: "High Roller", Price: 150, Purchasable: true},
}

var themes = []Entry{
	{Key: DefaultTheme, Label: "Default"},
	{Key: "cozy", Label: "Cozy", Price: 25, Purchasable: true},
	{Key: "minimal", Label: "Minimal"},
	{Key: "space", Label: "Space", Price: 40, Purchasable: true},
	{Key: "midnight", Label: "Midnight", UnlockLevel: 5},
	{Key: "football", Label: "Football", UnlockLevel: 10},
}

var views = []string{"front", "lists", "detail"}

// Titles returns the title catalog. Callers must not modify the slice.
func Titles() []Entry {
	return titles
}

// Themes returns the theme catalog. Callers must not modify the slice.
func Themes() []Entry {
	return themes
}

// TitleByKey looks up a title entry.
func TitleByKey(key string) (Entry, bool) {
	for _, e := range titles {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// ThemeByKey looks up a theme entry.
func ThemeByKey(key string) (Entry, bool) {
	for _, e := range themes {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// IsAllowedTheme reports whether name is a known theme key.
func IsAllowedTheme(name string) bool {
	_, ok := ThemeByKey(name)
	return ok
}

// IsAllowedView reports whether name is a known view.
func IsAllowedView(name string) bool {
	for _, v := range views {
		if v == name {
			return true
		}
	}
	return false
}
