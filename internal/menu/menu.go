package menu

import (
	"bytes"
	"encoding/json"
)

// Item is a single purchasable menu entry.
type Item struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Category is a named, ordered group of menu items.
type Category struct {
	Name  string
	Items []Item
}

// Menu is an ordered list of categories. It serializes as a JSON object
// keyed by category name; a map would lose the category order defined in
// the source table.
type Menu []Category

// MarshalJSON renders the menu as an object with categories in table order.
func (m Menu) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		items, err := json.Marshal(cat.Items)
		if err != nil {
			return nil, err
		}
		buf.Write(items)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// catalog is built once at startup and never mutated afterwards.
var catalog = dedupe(menuTable)

// Categories returns the menu catalog with duplicate entries removed.
func Categories() Menu {
	return catalog
}

type itemKey struct {
	name  string
	price float64
}

// dedupe suppresses repeated (name, price) pairs inside each category.
// The first occurrence wins and the order of surviving items is preserved.
func dedupe(source Menu) Menu {
	cleaned := make(Menu, 0, len(source))
	for _, cat := range source {
		seen := make(map[itemKey]bool, len(cat.Items))
		items := make([]Item, 0, len(cat.Items))
		for _, it := range cat.Items {
			key := itemKey{name: it.Name, price: it.Price}
			if seen[key] {
				continue
			}
			seen[key] = true
			items = append(items, it)
		}
		cleaned = append(cleaned, Category{Name: cat.Name, Items: items})
	}
	return cleaned
}
