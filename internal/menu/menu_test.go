package menu

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDedupe(t *testing.T) {
	source := Menu{
		{
			Name: "Starters",
			Items: []Item{
				{Name: "Veg Manchuria", Price: 90},
				{Name: "Crispy Corn", Price: 90},
				{Name: "Veg Manchuria", Price: 90},
				{Name: "Veg Manchuria", Price: 120},
				{Name: "Crispy Corn", Price: 90},
				{Name: "Gobi 65", Price: 130},
			},
		},
	}

	got := dedupe(source)

	want := []Item{
		{Name: "Veg Manchuria", Price: 90},
		{Name: "Crispy Corn", Price: 90},
		{Name: "Veg Manchuria", Price: 120},
		{Name: "Gobi 65", Price: 130},
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 category, got %d", len(got))
	}
	if len(got[0].Items) != len(want) {
		t.Fatalf("expected %d items after dedupe, got %d", len(want), len(got[0].Items))
	}
	for i, it := range got[0].Items {
		if it != want[i] {
			t.Errorf("item %d: got %+v, want %+v", i, it, want[i])
		}
	}
}

func TestDedupe_SameNameDifferentPriceKept(t *testing.T) {
	source := Menu{
		{
			Name: "Dosa",
			Items: []Item{
				{Name: "Masala Dosa", Price: 50},
				{Name: "Masala Dosa", Price: 60},
			},
		},
	}

	got := dedupe(source)
	if len(got[0].Items) != 2 {
		t.Fatalf("items with the same name but different price must both survive, got %d", len(got[0].Items))
	}
}

func TestCategories_NoDuplicatePairs(t *testing.T) {
	for _, cat := range Categories() {
		seen := make(map[itemKey]bool)
		for _, it := range cat.Items {
			key := itemKey{name: it.Name, price: it.Price}
			if seen[key] {
				t.Errorf("category %q serves duplicate item %q at %.0f", cat.Name, it.Name, it.Price)
			}
			seen[key] = true
		}
	}
}

func TestCategories_OrderPreserved(t *testing.T) {
	catalog := Categories()

	if len(catalog) != len(menuTable) {
		t.Fatalf("expected %d categories, got %d", len(menuTable), len(catalog))
	}
	for i, cat := range catalog {
		if cat.Name != menuTable[i].Name {
			t.Errorf("category %d: got %q, want %q", i, cat.Name, menuTable[i].Name)
		}
	}

	// Surviving items keep their relative source order.
	for ci, cat := range catalog {
		sourceIdx := 0
		source := menuTable[ci].Items
		for _, it := range cat.Items {
			found := false
			for sourceIdx < len(source) {
				if source[sourceIdx] == it {
					found = true
					sourceIdx++
					break
				}
				sourceIdx++
			}
			if !found {
				t.Errorf("category %q: item %+v out of source order", cat.Name, it)
			}
		}
	}
}

func TestMenu_MarshalJSON_KeepsCategoryOrder(t *testing.T) {
	m := Menu{
		{Name: "Zebra", Items: []Item{{Name: "A", Price: 1}}},
		{Name: "Apple", Items: []Item{{Name: "B", Price: 2}}},
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	body := string(data)
	if strings.Index(body, `"Zebra"`) > strings.Index(body, `"Apple"`) {
		t.Errorf("categories reordered in JSON output: %s", body)
	}

	var decoded map[string][]Item
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not a valid JSON object: %v", err)
	}
	if len(decoded["Zebra"]) != 1 || decoded["Zebra"][0].Name != "A" {
		t.Errorf("unexpected items under Zebra: %+v", decoded["Zebra"])
	}
}
