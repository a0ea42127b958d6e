package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModelName = "gemini-1.5-flash"

// ErrUnavailable marks the no-credential state. It is decided once at
// startup and holds for the process lifetime; callers degrade to their
// capability-specific fallback and flag needs_api_key.
var ErrUnavailable = errors.New("generative AI service unavailable: no API key configured")

// ServiceError wraps a failed call to the generative model endpoint. A
// single failed attempt is surfaced as-is; there are no retries.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Gateway sends constructed prompts to the Gemini endpoint. Each call is
// independent and stateless: conversation context must be supplied in the
// prompt by the caller. With no API key the gateway is constructed in
// unavailable mode and every Generate call returns ErrUnavailable.
type Gateway struct {
	client *genai.Client
	model  string
}

// NewGateway builds a gateway from the startup credential. An empty apiKey
// yields a permanently unavailable gateway rather than an error, so the rest
// of the service can run in fallback mode.
func NewGateway(ctx context.Context, apiKey string) (*Gateway, error) {
	if apiKey == "" {
		return &Gateway{}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gateway{client: client, model: defaultModelName}, nil
}

// Available reports whether a credential was configured at startup.
func (g *Gateway) Available() bool {
	return g.client != nil
}

func (g *Gateway) Close() {
	if g.client != nil {
		if err := g.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// Generate sends prompt to the model and returns its text output, trimmed.
func (g *Gateway) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", ErrUnavailable
	}

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ServiceError{Op: "generate", Err: err}
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &ServiceError{Op: "generate", Err: errors.New("empty response from model")}
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		} else {
			log.Printf("Model response part was not text: %T", part)
		}
	}

	if out.Len() == 0 {
		return "", &ServiceError{Op: "generate", Err: errors.New("model returned no text parts")}
	}

	return strings.TrimSpace(out.String()), nil
}
