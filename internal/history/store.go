// Package history implements conversation memory over the SurrealDB
// message table. It is the only writer of chat history.
package history

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/docchat/internal/db"
	"github.com/raphaelgruber/docchat/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// Store persists per-session chat history. History is append-only: reads
// always return the full sequence in insertion order.
type Store struct {
	client *db.Client
}

// NewStore creates a history store over an established database client.
func NewStore(client *db.Client) *Store {
	return &Store{client: client}
}

// Messages returns the full history for a session in insertion order.
// A session with no prior history yields an empty slice, not an error.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]models.Message, error) {
	results, err := surrealdb.Query[[]models.StoredMessage](ctx, s.client.DB(), `
		SELECT * FROM message WHERE session = $session ORDER BY seq ASC
	`, map[string]any{"session": sessionID})
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Message{}, nil
	}

	rows := (*results)[0].Result
	messages := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.ToMessage())
	}
	return messages, nil
}

// Append durably writes one exchange: the human question followed by the
// assistant answer, with consecutive sequence numbers, in a single
// transaction. A caller may re-read immediately and observe both messages.
func (s *Store) Append(ctx context.Context, sessionID, question, answer string) error {
	_, err := surrealdb.Query[any](ctx, s.client.DB(), `
		BEGIN TRANSACTION;
		LET $n = (SELECT VALUE count() FROM message WHERE session = $session GROUP ALL)[0] ?? 0;
		CREATE message SET session = $session, role = 'human', content = $question, seq = $n;
		CREATE message SET session = $session, role = 'assistant', content = $answer, seq = $n + 1;
		COMMIT TRANSACTION;
	`, map[string]any{
		"session":  sessionID,
		"question": question,
		"answer":   answer,
	})
	if err != nil {
		return fmt.Errorf("append exchange: %w", err)
	}
	return nil
}
