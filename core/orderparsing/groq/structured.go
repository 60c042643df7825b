// Package groq parses customer utterances into order deltas using a Groq
// hosted model with a strict JSON schema response format.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/ottokiosk/otto-core/core/order"
	"github.com/ottokiosk/otto-core/core/orderparsing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	url          = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel = "llama-3.3-70b-versatile"
)

const systemPrompt = `You are an order processing assistant for a restaurant.

Instructions:
- DO NOT remove or forget any existing items unless the customer explicitly says to cancel.
- Only use "action": "add", "modify", or "remove". No other action types allowed.
- If the customer says "another", "one more", or similar, use "modify" with the incremented quantity.
- Special instructions (like "no onions") go in the "instructions" field.
- Each item must have: item name, quantity, instructions, and action.
- If modifying, preserve existing instructions unless the customer asks to change them.
- When the customer says "remove one", use "modify" with the decreased quantity.
- If the quantity reaches zero, use "remove" so the item disappears entirely. It must NOT appear with quantity 0.
- Do not invent or modify quantities unless explicitly told.
- Only return deltas for items the customer mentioned in this utterance; never repeat unchanged items.

STRICTLY return only valid JSON matching the schema. No extra text, no explanations.`

type Parser struct {
	apiKey string
	model  string
}

var _ orderparsing.Parser = (*Parser)(nil)

type ParserOption func(*Parser)

func WithModel(model string) ParserOption {
	return func(p *Parser) { p.model = model }
}

func WithAPIKey(apiKey string) ParserOption {
	return func(p *Parser) { p.apiKey = apiKey }
}

func NewParser(opts ...ParserOption) (*Parser, error) {
	parser := &Parser{model: defaultModel}
	for _, opt := range opts {
		opt(parser)
	}

	if parser.apiKey == "" {
		apiKey, ok := os.LookupEnv("GROQ_API_KEY")
		if !ok {
			return nil, fmt.Errorf("groq api key not found")
		}
		parser.apiKey = apiKey
	}

	return parser, nil
}

// ParseOrder sends the utterance and the current order snapshot to the model
// and returns the parsed delta payload.
func (p *Parser) ParseOrder(ctx context.Context, utterance string, currentOrderJSON string) (order.Payload, error) {
	ctx, span := tracer.Start(ctx, "parse order")
	defer span.End()

	if currentOrderJSON == "" {
		currentOrderJSON = "No previous order"
	}

	prompt := fmt.Sprintf(
		"Here is the current order so far (in JSON format):\n%s\n\nThe customer now said:\n%s",
		currentOrderJSON, utterance,
	)

	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(order.Payload{})

	reqBody := schemaRequestBody{
		Model: p.model,
		Messages: []message{
			{Role: messageRoleSystem, Content: systemPrompt},
			{Role: messageRoleUser, Content: prompt},
		},
		ResponseFormat: &chatResponseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   "Payload",
				Schema: *schema,
				Strict: true,
			},
		},
	}

	span.SetAttributes(attribute.String("request.model", p.model))
	span.SetAttributes(attribute.String("request.utterance", utterance))

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return order.Payload{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return order.Payload{}, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	resp, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return order.Payload{}, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, err := io.ReadAll(resp.Body); err == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}

		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return order.Payload{}, err
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading response body: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return order.Payload{}, err
	}

	var responseBody schemaResponseBody
	if err := json.Unmarshal(respBodyBytes, &responseBody); err != nil {
		err = fmt.Errorf("error unmarshalling response body: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return order.Payload{}, err
	}
	if len(responseBody.Choices) == 0 {
		err := fmt.Errorf("response contained no choices")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return order.Payload{}, err
	}

	content := responseBody.Choices[0].Message.Content
	// Some models still wrap the JSON in a fenced block despite the schema.
	if split := strings.Split(content, "```"); len(split) > 1 {
		logger.Warn("model wrapped the payload in a code fence", "model", p.model)
		content = split[1]
		content = strings.TrimPrefix(content, "json")
	}

	payload, err := order.ParsePayload(content)
	if err != nil {
		err = fmt.Errorf("error parsing delta payload: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return order.Payload{}, err
	}

	return payload, nil
}

type schemaRequestBody struct {
	Model          string              `json:"model"`
	Messages       []message           `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

type messageRole string

const (
	messageRoleSystem messageRole = "system"
	messageRoleUser   messageRole = "user"
)

type chatResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Schema      jsonschema.Schema `json:"schema"`
	// Strict determines whether to enforce the schema upon the generated
	// content.
	Strict bool `json:"strict"`
}

type schemaResponseBody struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"message"`
	} `json:"choices"`
}
