// Package order holds the canonical in-memory order state for a single
// customer session and the merge semantics used to mutate it.
package order

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jinzhu/copier"
)

// LineItem is a single entry in the ledger. Quantity is always >= 1 while the
// entry exists; an operation that would drop it to zero removes the entry
// instead.
type LineItem struct {
	Name         string   `json:"item"`
	Quantity     int      `json:"quantity"`
	Instructions []string `json:"instructions"`
}

// Normalize produces the canonical matching key for an item name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Ledger is an insertion-ordered sequence of line items. It is owned by the
// session controller and mutated only by the active ordering turn; the mutex
// exists so snapshots and renders taken from other goroutines stay coherent.
type Ledger struct {
	mu    sync.Mutex
	items []LineItem
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// AppendOrMerge adds an item directly, outside the delta path. A same-named
// entry absorbs the addition: quantities sum and instruction lists
// concatenate. This is deliberately different from [Ledger.ApplyDelta]'s Add,
// which never merges.
func (l *Ledger) AppendOrMerge(item LineItem) {
	if item.Quantity < 1 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := Normalize(item.Name)
	for i := range l.items {
		if Normalize(l.items[i].Name) == key {
			l.items[i].Quantity += item.Quantity
			l.items[i].Instructions = append(l.items[i].Instructions, item.Instructions...)
			return
		}
	}
	l.items = append(l.items, item)
}

// ApplyDelta merges one language-understanding delta into the ledger.
//
//   - Add appends a new entry unconditionally, even when a same-named entry
//     already exists.
//   - Modify replaces the matched entry's quantity and instructions outright;
//     with no match it behaves like Add.
//   - Remove deletes every entry matching the normalized name.
//
// Any outcome that would leave a quantity below 1 deletes the entry; a
// zero-quantity row is never observable.
func (l *Ledger) ApplyDelta(delta Delta) {
	key := Normalize(delta.Item)
	if key == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch delta.Action {
	case ActionAdd:
		if delta.Quantity < 1 {
			return
		}
		l.items = append(l.items, LineItem{
			Name:         key,
			Quantity:     delta.Quantity,
			Instructions: delta.Instructions,
		})

	case ActionModify:
		if delta.Quantity < 1 {
			l.removeLocked(key)
			return
		}
		for i := range l.items {
			if Normalize(l.items[i].Name) == key {
				l.items[i].Quantity = delta.Quantity
				l.items[i].Instructions = delta.Instructions
				return
			}
		}
		l.items = append(l.items, LineItem{
			Name:         key,
			Quantity:     delta.Quantity,
			Instructions: delta.Instructions,
		})

	case ActionRemove:
		l.removeLocked(key)
	}
}

// removeLocked deletes every entry whose normalized name matches key. Callers
// must hold l.mu.
func (l *Ledger) removeLocked(key string) {
	kept := l.items[:0]
	for _, item := range l.items {
		if Normalize(item.Name) != key {
			kept = append(kept, item)
		}
	}
	l.items = kept
}

// ApplyPayload applies every delta of a parsed payload in order. Entries with
// a blank item name are skipped.
func (l *Ledger) ApplyPayload(payload Payload) {
	for _, delta := range payload.Order {
		l.ApplyDelta(delta)
	}
}

// Items returns a deep copy of the current entries in insertion order.
func (l *Ledger) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]LineItem, 0, len(l.items))
	if err := copier.CopyWithOption(&items, l.items, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on type mismatches, which cannot happen for
		// identical slice types; fall back to a shallow copy regardless.
		items = append(items[:0], l.items...)
	}
	return items
}

// Len reports the number of entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Clear drops every entry. Only the session reset path calls this.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// SnapshotJSON serializes the ledger into the same JSON shape the
// language-understanding capability emits as a delta payload, so the
// capability always receives prior state in the shape it is asked to produce.
func (l *Ledger) SnapshotJSON() (string, error) {
	snapshot := struct {
		Order []LineItem `json:"order"`
	}{Order: l.Items()}
	if snapshot.Order == nil {
		snapshot.Order = []LineItem{}
	}

	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize order snapshot: %w", err)
	}
	return string(raw), nil
}
