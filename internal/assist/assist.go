// Package assist implements the writing assistant: grammar and style
// critique of draft text, and similarity checks of a draft against the
// locally uploaded corpus.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/nselim/graphdesk/internal/graphrag"
	"github.com/nselim/graphdesk/internal/llm"
)

// Critique is the result of a grammar and style review.
type Critique struct {
	Text   string `json:"text"`
	Source string `json:"source"` // "graphrag" or provider name
}

// Querier is the subset of the backend client the assistant needs.
type Querier interface {
	Query(ctx context.Context, question string) (*graphrag.Answer, error)
}

// Assistant reviews draft text. When a Provider is set the critique is
// generated directly; otherwise it is routed through the backend's query
// endpoint.
type Assistant struct {
	backend  Querier
	provider llm.Provider
	model    string
}

// New creates an assistant that critiques through the backend.
func New(backend Querier) *Assistant {
	return &Assistant{backend: backend}
}

// NewDirect creates an assistant that critiques through the given LLM
// provider instead of the backend.
func NewDirect(provider llm.Provider, model string) *Assistant {
	return &Assistant{provider: provider, model: model}
}

// CritiqueText reviews the given draft text for grammar, clarity, and
// academic style.
func (a *Assistant) CritiqueText(ctx context.Context, text string) (*Critique, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("critique: text is empty")
	}

	if a.provider != nil {
		resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
			Model: a.model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: critiqueSystem},
				{Role: llm.RoleUser, Content: critiquePrompt(text)},
			},
			Temperature: 0.3,
		})
		if err != nil {
			return nil, err
		}
		return &Critique{Text: resp.Content, Source: a.provider.Name()}, nil
	}

	answer, err := a.backend.Query(ctx, backendCritiquePrompt(text))
	if err != nil {
		return nil, err
	}
	return &Critique{Text: answer.Answer, Source: "graphrag"}, nil
}
