// Package llm provides answer generation over langchaingo chat models.
package llm

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/docchat/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"
)

// questionTemplate conditions the model on retrieved context and prior
// conversation before the question. The chat history section may be empty.
const questionTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.
----------
CONTEXT: {{.context}}
----------
CHAT HISTORY: {{.chatHistory}}
----------
QUESTION: {{.question}}
----------
Helpful Answer:`

// GenerationRequest carries one fused generation input. Context and History
// are pre-serialized strings; History is "" when the session has none.
type GenerationRequest struct {
	Question string
	Context  string
	History  string
}

// GenerationResult is the model's answer text.
type GenerationResult struct {
	Text string
}

// Generator renders the question template and invokes a chat model.
type Generator struct {
	llm       llms.Model
	prompt    prompts.PromptTemplate
	modelName string
}

// NewGenerator creates a generator for the configured provider.
func NewGenerator(cfg config.Config) (*Generator, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Generator{
		llm:       model,
		prompt:    newQuestionPrompt(),
		modelName: cfg.LLMModel,
	}, nil
}

func newQuestionPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(questionTemplate, []string{"context", "chatHistory", "question"})
}

// Generate renders the prompt and waits for the model's answer.
func (g *Generator) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	prompt, err := g.prompt.Format(map[string]any{
		"context":     req.Context,
		"chatHistory": req.History,
		"question":    req.Question,
	})
	if err != nil {
		return GenerationResult{}, fmt.Errorf("format prompt: %w", err)
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generate: %w", err)
	}
	return GenerationResult{Text: text}, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return g.modelName
}
