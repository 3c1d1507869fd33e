package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/raphaelgruber/docchat/internal/chatbot"
	"github.com/raphaelgruber/docchat/internal/docs"
	"github.com/raphaelgruber/docchat/internal/index"
	"github.com/raphaelgruber/docchat/internal/llm"
	"github.com/raphaelgruber/docchat/internal/models"
	"github.com/spf13/cobra"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question against the document corpus",
	Long: `Ask a question and print the generated answer.

Without --session a fresh session id is generated and printed, so a
follow-up question can continue the same conversation:

  docchat ask "What is the capital of France?"
  docchat ask --session 3f2a... "And its population?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session id to continue")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx := context.Background()

	sessionID := askSession
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	loader := docs.NewLoader(cfg.DocumentsDir, cfg.ChunkSize, cfg.ChunkOverlap, nil)
	documents, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	embedder, err := index.NewEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}
	idx := index.NewMemory(embedder, cfg.TopK)
	if err := idx.Index(ctx, documents); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	generator, err := llm.NewGenerator(cfg)
	if err != nil {
		return fmt.Errorf("create generator: %w", err)
	}

	pipeline, err := chatbot.NewPipeline(store, idx, generator, nil)
	if err != nil {
		return err
	}

	messages, err := pipeline.Answer(ctx, sessionID, question)
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}

	if len(messages) > 0 {
		last := messages[len(messages)-1]
		if last.Role == models.RoleAssistant {
			fmt.Println(last.Content)
		}
	}
	fmt.Printf("\nsession: %s\n", sessionID)
	return nil
}
