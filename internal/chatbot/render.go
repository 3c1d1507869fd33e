package chatbot

import (
	"strings"

	"github.com/raphaelgruber/docchat/internal/models"
	"github.com/tmc/langchaingo/schema"
)

// SerializeDocuments joins retrieved document contents in index order,
// separated by blank lines. Deterministic for a given result set.
func SerializeDocuments(docs []schema.Document) string {
	if len(docs) == 0 {
		return ""
	}
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.PageContent
	}
	return strings.Join(parts, "\n\n")
}

// SerializeMessages renders chat history one line per message, roles
// labeled Human/Assistant, other roles passed through unlabeled. An empty
// history yields "" so the prompt's history section stays blank.
func SerializeMessages(messages []models.Message) string {
	if len(messages) == 0 {
		return ""
	}
	lines := make([]string, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case models.RoleHuman:
			lines[i] = "Human: " + msg.Content
		case models.RoleAssistant:
			lines[i] = "Assistant: " + msg.Content
		default:
			lines[i] = msg.Content
		}
	}
	return strings.Join(lines, "\n")
}
