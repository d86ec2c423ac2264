package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ArkGenerator answers through an eino chain: chat template, then chat model.
type ArkGenerator struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	prompts *PromptBuilder
}

// NewArkGenerator compiles the chain around chatModel.
func NewArkGenerator(ctx context.Context, chatModel model.ChatModel, prompts *PromptBuilder) (*ArkGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ArkGenerator{chain: runnable, prompts: prompts}, nil
}

// Generate runs the chain once.
func (g *ArkGenerator) Generate(ctx context.Context, question, background string) (string, error) {
	// Values are substituted verbatim, so braces in the knowledge base are safe.
	input := map[string]any{
		"system": g.prompts.System(background),
		"query":  g.prompts.User(question),
	}

	response, err := g.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil || response.Content == "" {
		return "", fmt.Errorf("chat model returned an empty response")
	}
	return response.Content, nil
}

// Live is always true.
func (g *ArkGenerator) Live() bool { return true }
