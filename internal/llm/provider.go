package llm

import (
	"context"
	"encoding/json"
)

// Provider abstracts the text-generation service the question pipeline
// talks to. The pipeline sends a prompt and receives a completion; parsing
// the completion into a question is the caller's job.
type Provider interface {
	// Generate sends the request and returns the completion. When the
	// request carries a Schema, the provider asks for structured JSON and
	// validates the response against it; otherwise the response Content is
	// the raw completion text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	// System is the system instruction. For question generation it carries
	// the output template the parser expects.
	System string

	// Messages is the conversation. Question generation sends a single
	// user message with the criterion description embedded.
	Messages []Message

	// Schema, when set, switches the provider to structured JSON output
	// conforming to this schema. Nil means free-form text.
	Schema *Schema

	// MaxTokens bounds the completion length.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero means deterministic.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema describes the JSON structure expected from the model when
// structured output is requested.
type Schema struct {
	// Name identifies the schema, kebab-case.
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the completion. With a Schema it is validated JSON;
	// without one it is the raw text.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Text returns the completion as plain text.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return s
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
