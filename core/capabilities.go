package orchestration

import (
	"context"

	"github.com/ottokiosk/otto-core/core/identity"
	"github.com/ottokiosk/otto-core/core/order"
	"github.com/ottokiosk/otto-core/core/vision"
)

// identityCapability is the nil-safe facade over the configured identity
// implementation. Unconfigured, it sees no faces and recognizes nobody.
type identityCapability struct {
	client identity.Capability
}

func (c *identityCapability) set(client identity.Capability) {
	if c != nil {
		c.client = client
	}
}

func (c *identityCapability) isConfigured() bool {
	return c != nil && c.client != nil
}

func (c *identityCapability) Detect(ctx context.Context, frame vision.Frame) ([]vision.BoundingBox, error) {
	if !c.isConfigured() {
		return nil, nil
	}

	return c.client.Detect(ctx, frame)
}

func (c *identityCapability) Recognize(ctx context.Context, face vision.Frame) (identity.Identity, error) {
	if !c.isConfigured() {
		return identity.Unknown, nil
	}

	return c.client.Recognize(ctx, face)
}

func (c *identityCapability) Enroll(ctx context.Context, face vision.Frame, name string) error {
	if !c.isConfigured() {
		return nil
	}

	return c.client.Enroll(ctx, face, name)
}

// orderParser is the nil-safe facade over the configured language
// understanding implementation.
type orderParser struct {
	client OrderParser
}

func (p *orderParser) set(client OrderParser) {
	if p != nil {
		p.client = client
	}
}

func (p *orderParser) isConfigured() bool {
	return p != nil && p.client != nil
}

func (p *orderParser) ParseOrder(ctx context.Context, utterance string, currentOrderJSON string) (order.Payload, error) {
	if !p.isConfigured() {
		return order.Payload{}, nil
	}

	return p.client.ParseOrder(ctx, utterance, currentOrderJSON)
}
