package catalog

import "github.com/shopspring/decimal"

// Item is a single purchasable product. Price and unit are reference data;
// carts and orders snapshot them at add time, so later catalog edits never
// alter an existing cart or order.
type Item struct {
	Name  string
	Price decimal.Decimal
	Unit  string
}

type Category struct {
	Name  string
	Items []Item
}

// Catalog is the static category/item/price reference data, loaded once at
// startup and read-only afterwards.
type Catalog struct {
	categories []Category
	index      map[string]Item
}

func New(categories []Category) *Catalog {
	index := make(map[string]Item)
	for _, cat := range categories {
		for _, item := range cat.Items {
			index[item.Name] = item
		}
	}
	return &Catalog{categories: categories, index: index}
}

// Find looks an item up by name across all categories.
func (c *Catalog) Find(name string) (Item, bool) {
	item, ok := c.index[name]
	return item, ok
}

// Category returns the named category, preserving its display order.
func (c *Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

func (c *Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		names = append(names, cat.Name)
	}
	return names
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Default returns the FreshMart grocery catalog.
func Default() *Catalog {
	return New([]Category{
		{
			Name: "🥦 Fresh Produce",
			Items: []Item{
				{Name: "🍎 Apples", Price: price("3.99"), Unit: "kg"},
				{Name: "🍌 Bananas", Price: price("1.99"), Unit: "kg"},
				{Name: "🥕 Carrots", Price: price("2.49"), Unit: "kg"},
				{Name: "🥬 Spinach", Price: price("4.99"), Unit: "bunch"},
				{Name: "🍅 Tomatoes", Price: price("3.49"), Unit: "kg"},
			},
		},
		{
			Name: "🥩 Meat & Poultry",
			Items: []Item{
				{Name: "🍗 Chicken Breast", Price: price("12.99"), Unit: "kg"},
				{Name: "🥩 Beef Steak", Price: price("24.99"), Unit: "kg"},
				{Name: "🐟 Salmon Fillet", Price: price("18.99"), Unit: "kg"},
				{Name: "🥓 Bacon", Price: price("8.99"), Unit: "pack"},
			},
		},
		{
			Name: "🥛 Dairy & Eggs",
			Items: []Item{
				{Name: "🥛 Milk", Price: price("2.99"), Unit: "liter"},
				{Name: "🧀 Cheese", Price: price("6.99"), Unit: "block"},
				{Name: "🍳 Eggs", Price: price("4.99"), Unit: "dozen"},
				{Name: "🧈 Butter", Price: price("3.99"), Unit: "block"},
			},
		},
	})
}
