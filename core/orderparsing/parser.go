// Package orderparsing defines the language understanding contract that turns
// a customer utterance into an order delta payload.
package orderparsing

import (
	"context"

	"github.com/ottokiosk/otto-core/core/order"
)

// Parser reconciles one customer utterance against the current order.
//
// currentOrderJSON is the JSON snapshot of the order so far, or an empty
// string when nothing has been ordered yet. The returned payload carries one
// delta per mentioned item; a parser never mutates the order itself.
type Parser interface {
	ParseOrder(ctx context.Context, utterance string, currentOrderJSON string) (order.Payload, error)
}
