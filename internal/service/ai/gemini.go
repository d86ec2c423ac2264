package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/lee-electronics/assistant/internal/config"
)

// GeminiGenerator answers with a Gemini generative model.
type GeminiGenerator struct {
	model   *genai.GenerativeModel
	prompts *PromptBuilder
}

// NewGeminiGenerator configures cfg.GeminiModel on client.
func NewGeminiGenerator(client *genai.Client, cfg config.AIConfig, prompts *PromptBuilder) *GeminiGenerator {
	model := client.GenerativeModel(cfg.GeminiModel)
	applySampling(model, cfg)
	return &GeminiGenerator{model: model, prompts: prompts}
}

// applySampling copies the optional sampling settings; unset ones keep the
// model defaults.
func applySampling(model *genai.GenerativeModel, cfg config.AIConfig) {
	if cfg.Temperature != nil {
		model.SetTemperature(float32(*cfg.Temperature))
	}
	if cfg.TopP != nil {
		model.SetTopP(float32(*cfg.TopP))
	}
	if cfg.MaxTokens != nil {
		model.SetMaxOutputTokens(int32(*cfg.MaxTokens))
	}
}

// Generate sends the rendered prompt and returns the text parts of the reply.
func (g *GeminiGenerator) Generate(ctx context.Context, question, background string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(g.prompts.Single(question, background)))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

// Live is always true.
func (g *GeminiGenerator) Live() bool { return true }

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	return text.String()
}
