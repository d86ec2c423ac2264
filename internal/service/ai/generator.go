package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"github.com/lee-electronics/assistant/internal/config"
	"github.com/lee-electronics/assistant/internal/model/persona"
)

// Generator produces an answer to a customer question given retrieved context.
type Generator interface {
	Generate(ctx context.Context, question, background string) (string, error)
	// Live reports whether answers come from a real model.
	Live() bool
}

// NewGenerator builds the generator selected by cfg. gemini may be nil unless
// the Gemini provider is selected.
func NewGenerator(ctx context.Context, cfg config.AIConfig, p persona.Persona, gemini *genai.Client) (Generator, error) {
	prompts := NewPromptBuilder(p)

	switch cfg.ResolvedProvider() {
	case config.ProviderGemini:
		if gemini == nil {
			return nil, fmt.Errorf("gemini provider selected but GEMINI_API_KEY is not configured")
		}
		return NewGeminiGenerator(gemini, cfg, prompts), nil

	case config.ProviderArk:
		chatModel, err := cfg.NewArkChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewArkGenerator(ctx, chatModel, prompts)

	default:
		return MockGenerator{}, nil
	}
}

// MockGenerator answers without a model. It is used when no provider is
// configured so the API keeps working end to end.
type MockGenerator struct{}

// Generate echoes the question with a configuration hint.
func (MockGenerator) Generate(_ context.Context, question, _ string) (string, error) {
	return fmt.Sprintf("Mock response for: %s. (Note: Gemini AI is not configured. Please set up your API key to get real AI responses.)", question), nil
}

// Live is always false.
func (MockGenerator) Live() bool { return false }
