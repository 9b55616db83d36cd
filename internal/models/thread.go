// Package models defines data structures for the AI surrogate backend.
package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Thread is a conversation container owning an ordered sequence of messages.
type Thread struct {
	ID            surrealmodels.RecordID `json:"id"`
	UserID        string                 `json:"user_id"`
	Title         string                 `json:"title"`
	LastMessageAt time.Time              `json:"last_message_at"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}
