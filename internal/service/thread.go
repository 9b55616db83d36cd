package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/maliksaad1/ai-surrogate/internal/db"
	"github.com/maliksaad1/ai-surrogate/internal/models"
)

// titleMaxLen bounds thread titles derived from the first message.
const titleMaxLen = 60

// defaultThreadTitle is used when no title can be derived.
const defaultThreadTitle = "New Conversation"

// ThreadService manages conversation threads.
type ThreadService struct {
	store  Store
	logger *slog.Logger
}

// NewThreadService creates the thread service.
func NewThreadService(store Store, logger *slog.Logger) *ThreadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThreadService{store: store, logger: logger}
}

// Create opens a new thread. An empty title falls back to a default.
func (s *ThreadService) Create(ctx context.Context, userID, title string) (*models.Thread, error) {
	title = DeriveTitle(title)
	thread, err := s.store.CreateThread(ctx, userID, title)
	if err != nil {
		return nil, err
	}

	s.logger.Info("thread created",
		"user_id", userID,
		"thread_id", models.MustRecordIDString(thread.ID))
	return thread, nil
}

// Get returns a thread scoped to its owner.
func (s *ThreadService) Get(ctx context.Context, id, userID string) (*models.Thread, error) {
	return s.store.GetThread(ctx, id, userID)
}

// List returns all threads of a user, most recently active first.
func (s *ThreadService) List(ctx context.Context, userID string) ([]models.Thread, error) {
	return s.store.ListThreads(ctx, userID)
}

// Rename updates a thread's title.
func (s *ThreadService) Rename(ctx context.Context, id, userID, title string) (*models.Thread, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("rename thread: title must not be empty")
	}
	return s.store.UpdateThreadTitle(ctx, id, userID, title)
}

// Delete removes a thread and all its messages. Deleting a missing
// thread is not an error.
func (s *ThreadService) Delete(ctx context.Context, id, userID string) error {
	// Ownership check before the cascade.
	if _, err := s.store.GetThread(ctx, id, userID); err != nil {
		return err
	}

	deleted, err := s.store.DeleteThreadCascade(ctx, id)
	if errors.Is(err, db.ErrTransactionConflict) {
		// The cascade transaction raced a concurrent append; one retry
		// settles it.
		s.logger.Warn("thread delete hit a transaction conflict, retrying", "thread_id", id)
		deleted, err = s.store.DeleteThreadCascade(ctx, id)
	}
	if err != nil {
		return err
	}

	s.logger.Info("thread deleted", "thread_id", id, "count", deleted)
	return nil
}

// Messages returns a thread's messages in conversation order, after
// verifying ownership. limit <= 0 returns all messages.
func (s *ThreadService) Messages(ctx context.Context, id, userID string, limit int) ([]models.Message, error) {
	if _, err := s.store.GetThread(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, id, limit)
}

// DeriveTitle normalizes a requested thread title: trimmed, first line
// only, bounded length, defaulting when empty.
func DeriveTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	if title == "" {
		return defaultThreadTitle
	}
	if utf8.RuneCountInString(title) > titleMaxLen {
		runes := []rune(title)
		title = strings.TrimSpace(string(runes[:titleMaxLen-3])) + "..."
	}
	return title
}
