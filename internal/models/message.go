package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation turn. Immutable once created;
// belongs to exactly one thread.
type Message struct {
	ID        surrealmodels.RecordID `json:"id"`
	Thread    surrealmodels.RecordID `json:"thread"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Emotion   *string                `json:"emotion,omitempty"`
	AudioURL  *string                `json:"audio_url,omitempty"`
	Metadata  map[string]any         `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
