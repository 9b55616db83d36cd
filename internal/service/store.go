// Package service provides business logic for the surrogate backend:
// the chat turn flow, thread management and memory recall.
package service

import (
	"context"

	"github.com/maliksaad1/ai-surrogate/internal/models"
)

// Store is the persistence capability consumed by the services.
// Satisfied by db.Client.
type Store interface {
	CreateThread(ctx context.Context, userID, title string) (*models.Thread, error)
	GetThread(ctx context.Context, id, userID string) (*models.Thread, error)
	ListThreads(ctx context.Context, userID string) ([]models.Thread, error)
	UpdateThreadTitle(ctx context.Context, id, userID, title string) (*models.Thread, error)
	TouchThread(ctx context.Context, id string) error
	DeleteThreadCascade(ctx context.Context, id string) (int, error)

	AppendMessage(ctx context.Context, threadID, role, content string, emotion *string, audioURL *string, metadata map[string]any) (*models.Message, error)
	ListMessages(ctx context.Context, threadID string, limit int) ([]models.Message, error)
	ListRecentMessages(ctx context.Context, threadID string, limit int) ([]models.Message, error)

	UpsertMemory(ctx context.Context, userID, summary string, memContext *string, importance int) (*models.MemoryEntry, error)
	ListMemories(ctx context.Context, userID string, limit int) ([]models.MemoryEntry, error)
	DeleteMemory(ctx context.Context, id, userID string) (int, error)
}

// MemorySink adapts a Store to the orchestrator's write-only memory
// capability, discarding the created record.
type MemorySink struct {
	Store Store
}

// UpsertMemory writes a memory entry and drops the returned record.
func (s MemorySink) UpsertMemory(ctx context.Context, userID, summary string, memContext *string, importance int) error {
	_, err := s.Store.UpsertMemory(ctx, userID, summary, memContext, importance)
	return err
}
