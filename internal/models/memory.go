package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Memory importance bounds. Entries below MinImportance are never written.
const (
	MinImportance = 1
	MaxImportance = 10
)

// MemoryEntry is a durable, importance-scored fact about a user.
// Independent of thread lifecycle - it survives thread deletion.
type MemoryEntry struct {
	ID              surrealmodels.RecordID `json:"id"`
	UserID          string                 `json:"user_id"`
	Summary         string                 `json:"summary"`
	Context         *string                `json:"context,omitempty"`
	ImportanceScore int                    `json:"importance_score"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}
