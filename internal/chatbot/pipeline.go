// Package chatbot orchestrates one question through retrieval, history
// fusion, generation and persistence.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raphaelgruber/docchat/internal/llm"
	"github.com/raphaelgruber/docchat/internal/models"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/sync/errgroup"
)

// Memory is the conversation memory collaborator.
type Memory interface {
	Messages(ctx context.Context, sessionID string) ([]models.Message, error)
	Append(ctx context.Context, sessionID, question, answer string) error
}

// Retriever answers nearest-neighbor queries over the document corpus.
type Retriever interface {
	Search(ctx context.Context, query string) ([]schema.Document, error)
}

// Generator produces an answer from a fused generation request.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerationRequest) (llm.GenerationResult, error)
}

// Pipeline runs the question-answering flow for one session at a time.
// It holds no per-request state and is safe for concurrent use; concurrent
// questions for the same session are not serialized.
type Pipeline struct {
	memory    Memory
	retriever Retriever
	generator Generator
	logger    *slog.Logger
}

// NewPipeline wires the collaborators. All three are required.
func NewPipeline(memory Memory, retriever Retriever, generator Generator, logger *slog.Logger) (*Pipeline, error) {
	if memory == nil {
		return nil, errors.New("chatbot: memory must not be nil")
	}
	if retriever == nil {
		return nil, errors.New("chatbot: retriever must not be nil")
	}
	if generator == nil {
		return nil, errors.New("chatbot: generator must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		memory:    memory,
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}, nil
}

// Answer runs one question through the pipeline and returns the full
// updated history: the prior messages followed by the new question and
// generated answer as the final human/assistant pair.
//
// Prior history and retrieved context are fetched concurrently; neither
// depends on the other. A failed generation leaves history untouched.
func (p *Pipeline) Answer(ctx context.Context, sessionID, question string) ([]models.Message, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	var (
		history []models.Message
		docs    []schema.Document
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = p.memory.Messages(gctx, sessionID)
		if err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		docs, err = p.retriever.Search(gctx, question)
		if err != nil {
			return fmt.Errorf("retrieve context: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Debug("context assembled",
		"session", sessionID,
		"history_messages", len(history),
		"context_documents", len(docs),
	)

	result, err := p.generator.Generate(ctx, llm.GenerationRequest{
		Question: question,
		Context:  SerializeDocuments(docs),
		History:  SerializeMessages(history),
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	if err := p.memory.Append(ctx, sessionID, question, result.Text); err != nil {
		return nil, fmt.Errorf("persist exchange: %w", err)
	}

	updated, err := p.memory.Messages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reload history: %w", err)
	}
	return updated, nil
}
