package order

import (
	"encoding/json"
	"testing"
)

func TestAppendOrMergeSumsQuantitiesAndConcatenatesInstructions(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendOrMerge(LineItem{Name: "Burger", Quantity: 1, Instructions: []string{"no onions"}})
	ledger.AppendOrMerge(LineItem{Name: "burger ", Quantity: 2, Instructions: []string{"extra cheese"}})

	items := ledger.Items()
	if len(items) != 1 {
		t.Fatalf("expected one merged entry, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", items[0].Quantity)
	}
	if len(items[0].Instructions) != 2 || items[0].Instructions[0] != "no onions" || items[0].Instructions[1] != "extra cheese" {
		t.Fatalf("expected concatenated instructions, got %v", items[0].Instructions)
	}
}

func TestApplyDeltaAddNeverMerges(t *testing.T) {
	ledger := NewLedger()
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: 1, Action: ActionAdd})
	ledger.ApplyDelta(Delta{Item: "Burger", Quantity: 2, Action: ActionAdd})

	if got := ledger.Len(); got != 2 {
		t.Fatalf("expected two separate entries after repeated add, got %d", got)
	}
}

func TestApplyDeltaModifyIsLastWriteWins(t *testing.T) {
	ledger := NewLedger()
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: 1, Instructions: []string{"no onions"}, Action: ActionAdd})
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: 4, Instructions: []string{"extra cheese"}, Action: ActionModify})
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: 2, Instructions: []string{"well done"}, Action: ActionModify})

	items := ledger.Items()
	if len(items) != 1 {
		t.Fatalf("expected one entry, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected final quantity 2, got %d", items[0].Quantity)
	}
	if len(items[0].Instructions) != 1 || items[0].Instructions[0] != "well done" {
		t.Fatalf("expected replaced instructions, got %v", items[0].Instructions)
	}
}

func TestApplyDeltaModifyWithoutMatchBehavesLikeAdd(t *testing.T) {
	ledger := NewLedger()
	ledger.ApplyDelta(Delta{Item: "fries", Quantity: 2, Action: ActionModify})

	items := ledger.Items()
	if len(items) != 1 || items[0].Name != "fries" || items[0].Quantity != 2 {
		t.Fatalf("expected modify without match to add the entry, got %v", items)
	}
}

func TestApplyDeltaRemoveDeletesAllMatchesRegardlessOfQuantity(t *testing.T) {
	ledger := NewLedger()
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: 5, Action: ActionAdd})
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: 1, Action: ActionAdd})
	ledger.ApplyDelta(Delta{Item: "fries", Quantity: 1, Action: ActionAdd})
	ledger.ApplyDelta(Delta{Item: " Burger ", Action: ActionRemove})

	items := ledger.Items()
	if len(items) != 1 || items[0].Name != "fries" {
		t.Fatalf("expected only fries to remain, got %v", items)
	}
}

func TestApplyDeltaModifyToZeroDeletesEntry(t *testing.T) {
	ledger := NewLedger()
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: 1, Action: ActionAdd})
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: -1, Action: ActionModify})

	if got := ledger.Len(); got != 0 {
		t.Fatalf("expected zero-quantity modify to delete the entry, got %d entries", got)
	}
}

func TestClearDropsEveryEntry(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendOrMerge(LineItem{Name: "burger", Quantity: 2})
	ledger.Clear()

	if got := ledger.Len(); got != 0 {
		t.Fatalf("expected empty ledger after clear, got %d entries", got)
	}
}

func TestItemsReturnsDeepCopy(t *testing.T) {
	ledger := NewLedger()
	ledger.AppendOrMerge(LineItem{Name: "burger", Quantity: 1, Instructions: []string{"no onions"}})

	items := ledger.Items()
	items[0].Instructions[0] = "mutated"

	if got := ledger.Items()[0].Instructions[0]; got != "no onions" {
		t.Fatalf("expected ledger instructions to be unaffected by snapshot mutation, got %q", got)
	}
}

func TestSnapshotJSONMatchesDeltaPayloadShape(t *testing.T) {
	ledger := NewLedger()
	ledger.ApplyDelta(Delta{Item: "burger", Quantity: 2, Instructions: []string{"no onions"}, Action: ActionAdd})

	raw, err := ledger.SnapshotJSON()
	if err != nil {
		t.Fatalf("expected snapshot to serialize, got error: %v", err)
	}

	var snapshot struct {
		Order []LineItem `json:"order"`
	}
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		t.Fatalf("expected snapshot to round-trip, got error: %v", err)
	}
	if len(snapshot.Order) != 1 || snapshot.Order[0].Name != "burger" || snapshot.Order[0].Quantity != 2 {
		t.Fatalf("unexpected snapshot contents: %+v", snapshot.Order)
	}
}

func TestSnapshotJSONEmptyLedgerHasEmptyOrderArray(t *testing.T) {
	raw, err := NewLedger().SnapshotJSON()
	if err != nil {
		t.Fatalf("expected snapshot to serialize, got error: %v", err)
	}

	var snapshot map[string]any
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		t.Fatalf("expected snapshot to parse, got error: %v", err)
	}
	entries, ok := snapshot["order"].([]any)
	if !ok || len(entries) != 0 {
		t.Fatalf("expected empty order array, got %v", snapshot["order"])
	}
}
