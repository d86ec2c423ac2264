package ai

import (
	"fmt"
	"strings"

	"github.com/lee-electronics/assistant/internal/model/persona"
)

// PromptBuilder renders model prompts for a persona.
type PromptBuilder struct {
	persona persona.Persona
}

// NewPromptBuilder returns a builder for p.
func NewPromptBuilder(p persona.Persona) *PromptBuilder {
	return &PromptBuilder{persona: p}
}

// Single renders the whole exchange as one prompt, for models without a
// system role.
func (b *PromptBuilder) Single(question, background string) string {
	return fmt.Sprintf(`%s

Context:
%s

Customer Question: %s

%s`,
		b.persona.Preamble,
		background,
		question,
		b.persona.Guidance,
	)
}

// System renders the system message for chat models.
func (b *PromptBuilder) System(background string) string {
	var sb strings.Builder
	sb.WriteString(b.persona.Preamble)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(background)
	sb.WriteString("\n\n")
	sb.WriteString(b.persona.Guidance)
	return sb.String()
}

// User renders the user message for chat models.
func (b *PromptBuilder) User(question string) string {
	return "Customer Question: " + question
}
