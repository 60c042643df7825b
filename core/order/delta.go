package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Action is the kind of change a delta requests.
type Action string

const (
	ActionAdd    Action = "add"
	ActionModify Action = "modify"
	ActionRemove Action = "remove"
)

// Delta is one structured add/modify/remove instruction produced by the
// language-understanding capability.
type Delta struct {
	Item         string   `json:"item"`
	Quantity     int      `json:"quantity,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	Action       Action   `json:"action"`
}

// Payload is the full delta document the language-understanding capability
// must emit, and the shape the ledger snapshot serializes to.
type Payload struct {
	Order []Delta `json:"order"`
}

// wireDelta is the decode shape. Quantity is a pointer so an absent quantity
// is distinguishable from an explicit zero: absent defaults to 1, while an
// explicit zero passes through and deletes the entry on apply.
type wireDelta struct {
	Item         string   `json:"item"`
	Quantity     *int     `json:"quantity,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	Action       Action   `json:"action"`
}

type wirePayload struct {
	Order []wireDelta `json:"order"`
}

// ParsePayload validates raw text against the delta schema. Anything other
// than strict JSON of the expected shape is a parse failure; callers treat
// that as a discarded turn, never a retry.
//
// A missing quantity defaults to 1, matching how spoken orders ("a burger")
// usually omit the count.
func ParsePayload(raw string) (Payload, error) {
	var wire wirePayload

	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&wire); err != nil {
		return Payload{}, fmt.Errorf("delta payload is not valid JSON: %w", err)
	}
	if decoder.More() {
		return Payload{}, fmt.Errorf("delta payload has trailing content")
	}

	payload := Payload{Order: make([]Delta, 0, len(wire.Order))}
	for _, entry := range wire.Order {
		switch entry.Action {
		case ActionAdd, ActionModify, ActionRemove:
		default:
			return Payload{}, fmt.Errorf("delta payload has invalid action %q", entry.Action)
		}
		if strings.TrimSpace(entry.Item) == "" {
			return Payload{}, fmt.Errorf("delta payload has an entry without an item name")
		}

		quantity := 1
		if entry.Quantity != nil {
			quantity = *entry.Quantity
		}
		payload.Order = append(payload.Order, Delta{
			Item:         entry.Item,
			Quantity:     quantity,
			Instructions: entry.Instructions,
			Action:       entry.Action,
		})
	}

	return payload, nil
}
