package menu

import "testing"

const sampleMenu = `{
  "Burgers": [
    {"name": "Burger", "price": 5.00, "image": "img/burger.png"},
    {"name": "Veggie Burger", "price": 5.50}
  ],
  "Sides": [
    {"name": "Fries", "price": 2.50}
  ]
}`

func TestParseOrdersSectionsByName(t *testing.T) {
	catalog, err := Parse([]byte(sampleMenu))
	if err != nil {
		t.Fatalf("expected menu to parse, got error: %v", err)
	}

	sections := catalog.Sections()
	if len(sections) != 2 {
		t.Fatalf("expected two sections, got %d", len(sections))
	}
	if sections[0].Name != "Burgers" || sections[1].Name != "Sides" {
		t.Fatalf("expected sections in name order, got %q then %q", sections[0].Name, sections[1].Name)
	}
}

func TestPriceLookupIsCaseInsensitive(t *testing.T) {
	catalog, err := Parse([]byte(sampleMenu))
	if err != nil {
		t.Fatalf("expected menu to parse, got error: %v", err)
	}

	if got := catalog.Price("  vEGGIE bURGER "); got != 5.50 {
		t.Fatalf("expected price 5.50, got %.2f", got)
	}
}

func TestPriceUnknownItemIsZero(t *testing.T) {
	catalog, err := Parse([]byte(sampleMenu))
	if err != nil {
		t.Fatalf("expected menu to parse, got error: %v", err)
	}

	if got := catalog.Price("sundae"); got != 0 {
		t.Fatalf("expected unknown item to price at 0, got %.2f", got)
	}
}

func TestParseRejectsNonMappingDocument(t *testing.T) {
	if _, err := Parse([]byte(`["not","a","menu"]`)); err == nil {
		t.Fatalf("expected non-mapping menu to fail parsing")
	}
}

func TestNilCatalogIsSafe(t *testing.T) {
	var catalog *Catalog
	if got := catalog.Price("burger"); got != 0 {
		t.Fatalf("expected nil catalog to price at 0, got %.2f", got)
	}
	if sections := catalog.Sections(); sections != nil {
		t.Fatalf("expected nil catalog to have no sections, got %v", sections)
	}
}
