package service

import (
	"context"
	"log/slog"

	"github.com/maliksaad1/ai-surrogate/internal/models"
)

// MemoryService manages a user's durable memories.
type MemoryService struct {
	store  Store
	logger *slog.Logger
}

// NewMemoryService creates the memory service.
func NewMemoryService(store Store, logger *slog.Logger) *MemoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryService{store: store, logger: logger}
}

// List returns a user's memories, most important first. limit <= 0
// returns all of them.
func (s *MemoryService) List(ctx context.Context, userID string, limit int) ([]models.MemoryEntry, error) {
	return s.store.ListMemories(ctx, userID, limit)
}

// Remember writes a memory entry directly, outside the orchestrated
// chat flow. The store clamps the importance score.
func (s *MemoryService) Remember(ctx context.Context, userID, summary string, memContext *string, importance int) (*models.MemoryEntry, error) {
	entry, err := s.store.UpsertMemory(ctx, userID, summary, memContext, importance)
	if err != nil {
		return nil, err
	}

	s.logger.Info("memory stored",
		"user_id", userID,
		"importance", entry.ImportanceScore)
	return entry, nil
}

// Forget deletes a memory entry owned by the user. Returns db.ErrNotFound
// semantics via the deleted count: deleting a missing entry reports false.
func (s *MemoryService) Forget(ctx context.Context, id, userID string) (bool, error) {
	deleted, err := s.store.DeleteMemory(ctx, id, userID)
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}
