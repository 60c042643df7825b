package order

import (
	"strings"
	"testing"
)

func testPrices(name string) float64 {
	switch name {
	case "burger":
		return 5.00
	case "fries":
		return 2.50
	}
	return 0
}

func TestRenderFormatsLineItemsAndTotal(t *testing.T) {
	ledger := NewLedger()
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: 2, Instructions: []string{"no onions"}, Action: ActionAdd})

	got := ledger.Render(testPrices)
	want := "- 2 × Burger (Instructions: no onions) — $10.00\n\nTotal: $10.00"
	if got != want {
		t.Fatalf("expected render %q, got %q", want, got)
	}
}

func TestRenderEmptyLedger(t *testing.T) {
	if got := NewLedger().Render(testPrices); got != "No items in the order." {
		t.Fatalf("expected empty-order message, got %q", got)
	}
}

func TestRenderUnknownItemPricesAtZero(t *testing.T) {
	ledger := NewLedger()
	ledger.ApplyDelta(Delta{Item: "mystery box", Quantity: 3, Action: ActionAdd})

	got := ledger.Render(testPrices)
	if !strings.Contains(got, "- 3 × Mystery box — $0.00") {
		t.Fatalf("expected unknown item line priced at zero, got %q", got)
	}
	if !strings.Contains(got, "Total: $0.00") {
		t.Fatalf("expected zero total, got %q", got)
	}
}

func TestRenderAccumulatesGrandTotalAcrossEntries(t *testing.T) {
	ledger := NewLedger()
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: 1, Action: ActionAdd})
	ledger.ApplyDelta(Delta{Item: "fries", Quantity: 2, Action: ActionAdd})

	got := ledger.Render(testPrices)
	if !strings.HasSuffix(got, "Total: $10.00") {
		t.Fatalf("expected grand total $10.00, got %q", got)
	}
}

func TestEndToEndUtteranceDeltaRenderFlow(t *testing.T) {
	ledger := NewLedger()

	payload, err := ParsePayload(`{"order":[{"item":"burger","quantity":2,"instructions":["no onions"],"action":"add"}]}`)
	if err != nil {
		t.Fatalf("expected payload to parse, got error: %v", err)
	}
	ledger.ApplyPayload(payload)

	if got := ledger.Render(testPrices); got != "- 2 × Burger (Instructions: no onions) — $10.00\n\nTotal: $10.00" {
		t.Fatalf("unexpected render after add: %q", got)
	}

	payload, err = ParsePayload(`{"order":[{"item":"burger","action":"remove"}]}`)
	if err != nil {
		t.Fatalf("expected removal payload to parse, got error: %v", err)
	}
	ledger.ApplyPayload(payload)

	if got := ledger.Render(testPrices); got != "No items in the order." {
		t.Fatalf("expected empty order after removal, got %q", got)
	}
}
