// Package models defines the persistent data shapes for chat history.
package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Role tags a message with its author.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	RoleOther     Role = "other"
)

// ParseRole maps a stored role string to a Role, defaulting to RoleOther
// for anything unrecognized so foreign rows never fail a read.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleHuman:
		return RoleHuman
	case RoleAssistant:
		return RoleAssistant
	default:
		return RoleOther
	}
}

// StoredMessage is one chat turn as persisted in SurrealDB. Seq orders
// messages within a session; it is assigned at append time and never
// rewritten.
type StoredMessage struct {
	ID        surrealmodels.RecordID `json:"id"`
	Session   string                 `json:"session"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Seq       int                    `json:"seq"`
	CreatedAt time.Time              `json:"created_at"`
}

// Message is one chat turn as exposed to callers and serialized on the
// wire as {role, content}.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToMessage converts a stored row to its wire shape.
func (m StoredMessage) ToMessage() Message {
	return Message{
		Role:    ParseRole(m.Role),
		Content: m.Content,
	}
}
