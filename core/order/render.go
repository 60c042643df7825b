package order

import (
	"fmt"
	"strings"
	"unicode"
)

// PriceLookup resolves an item name to its menu price. Unknown names resolve
// to 0, never an error.
type PriceLookup func(name string) float64

// Render formats the ledger for display: one line per entry in insertion
// order with line totals, followed by the grand total.
func (l *Ledger) Render(price PriceLookup) string {
	items := l.Items()
	if len(items) == 0 {
		return "No items in the order."
	}
	if price == nil {
		price = func(string) float64 { return 0 }
	}

	var lines []string
	total := 0.0
	for _, item := range items {
		instructions := ""
		if len(item.Instructions) > 0 {
			instructions = fmt.Sprintf(" (Instructions: %s)", strings.Join(item.Instructions, ", "))
		}

		lineTotal := price(Normalize(item.Name)) * float64(item.Quantity)
		total += lineTotal

		lines = append(lines, fmt.Sprintf("- %d × %s%s — $%.2f",
			item.Quantity, capitalize(item.Name), instructions, lineTotal))
	}
	lines = append(lines, fmt.Sprintf("\nTotal: $%.2f", total))

	return strings.Join(lines, "\n")
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(name string) string {
	runes := []rune(strings.ToLower(name))
	if len(runes) == 0 {
		return name
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
