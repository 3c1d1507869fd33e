package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/raphaelgruber/docchat/internal/config"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel records the prompt it received and returns a fixed answer.
type fakeModel struct {
	prompt string
	answer string
	err    error
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.prompt += text.Text
			}
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.answer}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.prompt = prompt
	return f.answer, nil
}

func TestGenerate_RendersAllSections(t *testing.T) {
	model := &fakeModel{answer: "Paris."}
	g := &Generator{llm: model, prompt: newQuestionPrompt()}

	result, err := g.Generate(context.Background(), GenerationRequest{
		Question: "What is the capital of France?",
		Context:  "Paris is the capital of France.",
		History:  "Human: hello\nAssistant: hi",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if result.Text != "Paris." {
		t.Errorf("Text = %q, want %q", result.Text, "Paris.")
	}
	for _, want := range []string{
		"CONTEXT: Paris is the capital of France.",
		"CHAT HISTORY: Human: hello\nAssistant: hi",
		"QUESTION: What is the capital of France?",
		"Helpful Answer:",
	} {
		if !strings.Contains(model.prompt, want) {
			t.Errorf("prompt missing %q\nprompt: %s", want, model.prompt)
		}
	}
}

func TestGenerate_EmptyHistoryAndContext(t *testing.T) {
	model := &fakeModel{answer: "I don't know."}
	g := &Generator{llm: model, prompt: newQuestionPrompt()}

	result, err := g.Generate(context.Background(), GenerationRequest{Question: "anything?"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Text != "I don't know." {
		t.Errorf("Text = %q, want %q", result.Text, "I don't know.")
	}
	if !strings.Contains(model.prompt, "CHAT HISTORY: \n") {
		t.Errorf("prompt should render an empty chat history section\nprompt: %s", model.prompt)
	}
}

func TestGenerate_PropagatesModelError(t *testing.T) {
	modelErr := errors.New("rate limited")
	g := &Generator{llm: &fakeModel{err: modelErr}, prompt: newQuestionPrompt()}

	_, err := g.Generate(context.Background(), GenerationRequest{Question: "q"})
	if err == nil {
		t.Fatal("Generate() expected error, got nil")
	}
	if !errors.Is(err, modelErr) {
		t.Errorf("Generate() error = %v, want wrapped %v", err, modelErr)
	}
}

func TestNewGenerator_UnsupportedProvider(t *testing.T) {
	_, err := NewGenerator(config.Config{LLMProvider: "bogus"})
	if err == nil {
		t.Error("NewGenerator() with unknown provider expected error, got nil")
	}
}

func TestNewGenerator_OpenAIRequiresKey(t *testing.T) {
	_, err := NewGenerator(config.Config{LLMProvider: config.ProviderOpenAI})
	if err == nil {
		t.Error("NewGenerator() without API key expected error, got nil")
	}
}
