package ai

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lee-electronics/assistant/internal/config"
	"github.com/lee-electronics/assistant/internal/model/persona"
)

type recordingModel struct {
	reply string
	err   error
	seen  []*schema.Message
}

func (m *recordingModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.seen = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *recordingModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *recordingModel) BindTools([]*schema.ToolInfo) error { return nil }

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string, string) (string, error) {
	return "", errors.New("quota exceeded")
}

func (failingGenerator) Live() bool { return true }

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSinglePrompt(t *testing.T) {
	b := NewPromptBuilder(persona.LeeElectronics())

	got := b.Single("Do you sell TVs?", "TVs from 32 to 85 inches.")

	assert.True(t, strings.HasPrefix(got, "Lee Electronics offers a wide range"))
	assert.Contains(t, got, "\n\nContext:\nTVs from 32 to 85 inches.\n\n")
	assert.Contains(t, got, "Customer Question: Do you sell TVs?")
	assert.True(t, strings.HasSuffix(got, "suggest contacting customer support."))
}

func TestMockGenerator(t *testing.T) {
	got, err := MockGenerator{}.Generate(context.Background(), "Hi", "ignored")

	require.NoError(t, err)
	assert.Equal(t, "Mock response for: Hi. (Note: Gemini AI is not configured. Please set up your API key to get real AI responses.)", got)
	assert.False(t, MockGenerator{}.Live())
}

func TestArkGeneratorRunsChain(t *testing.T) {
	ctx := context.Background()
	cm := &recordingModel{reply: "Yes, we stock TVs."}

	gen, err := NewArkGenerator(ctx, cm, NewPromptBuilder(persona.LeeElectronics()))
	require.NoError(t, err)

	got, err := gen.Generate(ctx, "Do you sell {TVs}?", "Catalog: {tv}")
	require.NoError(t, err)
	assert.Equal(t, "Yes, we stock TVs.", got)

	require.Len(t, cm.seen, 2)
	assert.Equal(t, schema.System, cm.seen[0].Role)
	assert.Contains(t, cm.seen[0].Content, "Context:\nCatalog: {tv}")
	assert.Equal(t, schema.User, cm.seen[1].Role)
	assert.Equal(t, "Customer Question: Do you sell {TVs}?", cm.seen[1].Content)
}

func TestArkGeneratorPropagatesModelError(t *testing.T) {
	ctx := context.Background()
	gen, err := NewArkGenerator(ctx, &recordingModel{err: errors.New("rate limited")}, NewPromptBuilder(persona.LeeElectronics()))
	require.NoError(t, err)

	_, err = gen.Generate(ctx, "q", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestServiceApologisesOnFailure(t *testing.T) {
	svc := NewService(failingGenerator{}, quiet())

	assert.Equal(t, Apology, svc.Answer(context.Background(), "q", "c"))
	assert.True(t, svc.Configured())
}

func TestNewGeneratorSelection(t *testing.T) {
	ctx := context.Background()
	p := persona.LeeElectronics()

	gen, err := NewGenerator(ctx, config.AIConfig{}, p, nil)
	require.NoError(t, err)
	assert.IsType(t, MockGenerator{}, gen)

	_, err = NewGenerator(ctx, config.AIConfig{Provider: config.ProviderGemini}, p, nil)
	assert.Error(t, err)

	_, err = NewGenerator(ctx, config.AIConfig{Provider: config.ProviderArk}, p, nil)
	assert.Error(t, err)
}
