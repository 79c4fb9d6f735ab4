package llm

import "context"

// Client is the text-generation collaborator: a context string in, bounded
// prose out. No streaming, no tool use.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	Model() string
}

// Request describes a single completion call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  *float64 // nil = model default, explicit 0 = deterministic
}

// Temp returns a pointer to t for use as Request.Temperature.
func Temp(t float64) *float64 {
	return &t
}
