// Package menu provides the static menu catalog: sectioned items with prices
// and image references, with case-insensitive price lookup.
package menu

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Item is one orderable entry on the menu.
type Item struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

// Section groups items under a display heading.
type Section struct {
	Name  string
	Items []Item
}

// Catalog is an immutable menu loaded at startup.
type Catalog struct {
	sections []Section
	prices   map[string]float64
}

// Load reads a catalog from a JSON file mapping section names to item lists.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}
	catalog, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse menu file %s: %w", path, err)
	}
	return catalog, nil
}

// Parse builds a catalog from raw JSON. Sections are ordered by name so the
// rendered menu is stable across runs.
func Parse(raw []byte) (*Catalog, error) {
	var bySection map[string][]Item
	if err := json.Unmarshal(raw, &bySection); err != nil {
		return nil, fmt.Errorf("menu is not a section-to-items mapping: %w", err)
	}

	names := make([]string, 0, len(bySection))
	for name := range bySection {
		names = append(names, name)
	}
	sort.Strings(names)

	catalog := &Catalog{prices: make(map[string]float64)}
	for _, name := range names {
		catalog.sections = append(catalog.sections, Section{Name: name, Items: bySection[name]})
		for _, item := range bySection[name] {
			catalog.prices[normalize(item.Name)] = item.Price
		}
	}
	return catalog, nil
}

// Sections returns the catalog sections in render order.
func (c *Catalog) Sections() []Section {
	if c == nil {
		return nil
	}
	return c.sections
}

// Price looks up an item price case-insensitively. Unknown names price at 0.
func (c *Catalog) Price(name string) float64 {
	if c == nil {
		return 0
	}
	return c.prices[normalize(name)]
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
