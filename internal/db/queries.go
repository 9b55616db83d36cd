// Package db provides SurrealDB query functions for threads, messages and memories.
package db

import (
	"context"
	"fmt"

	"github.com/maliksaad1/ai-surrogate/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// CreateThread creates a new conversation thread for a user.
func (c *Client) CreateThread(ctx context.Context, userID, title string) (*models.Thread, error) {
	sql := `
		CREATE thread SET
			user_id = $user_id,
			title = $title,
			last_message_at = time::now()
		RETURN AFTER
	`
	results, err := surrealdb.Query[[]models.Thread](ctx, c.db, sql, map[string]any{
		"user_id": userID,
		"title":   title,
	})
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create thread: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// GetThread retrieves a thread by ID, scoped to its owner.
// Returns ErrNotFound if the thread does not exist or belongs to another user.
func (c *Client) GetThread(ctx context.Context, id, userID string) (*models.Thread, error) {
	results, err := surrealdb.Query[[]models.Thread](ctx, c.db, `
		SELECT * FROM type::record("thread", $id) WHERE user_id = $user_id
	`, map[string]any{"id": id, "user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("get thread: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, ErrNotFound
	}
	return &(*results)[0].Result[0], nil
}

// ListThreads returns all threads of a user, most recently active first.
func (c *Client) ListThreads(ctx context.Context, userID string) ([]models.Thread, error) {
	results, err := surrealdb.Query[[]models.Thread](ctx, c.db, `
		SELECT * FROM thread WHERE user_id = $user_id ORDER BY last_message_at DESC
	`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Thread{}, nil
	}
	return (*results)[0].Result, nil
}

// UpdateThreadTitle renames a thread. Returns ErrNotFound if the thread
// does not exist or belongs to another user.
func (c *Client) UpdateThreadTitle(ctx context.Context, id, userID, title string) (*models.Thread, error) {
	sql := `
		UPDATE type::record("thread", $id) SET
			title = $title,
			updated_at = time::now()
		WHERE user_id = $user_id
		RETURN AFTER
	`
	results, err := surrealdb.Query[[]models.Thread](ctx, c.db, sql, map[string]any{
		"id":      id,
		"user_id": userID,
		"title":   title,
	})
	if err != nil {
		return nil, fmt.Errorf("update thread title: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, ErrNotFound
	}
	return &(*results)[0].Result[0], nil
}

// TouchThread bumps a thread's last_message_at. Called after every append.
func (c *Client) TouchThread(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("thread", $id) SET
			last_message_at = time::now(),
			updated_at = time::now()
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("touch thread: %w", wrapQueryError(err))
	}
	return nil
}

// DeleteThreadCascade deletes a thread and all its messages in a single
// transaction, so a deleted thread can never leave orphan messages.
// Returns the number of threads deleted (0 if not found - idempotent).
func (c *Client) DeleteThreadCascade(ctx context.Context, id string) (int, error) {
	sql := `
		BEGIN TRANSACTION;
		DELETE message WHERE thread = type::record("thread", $id);
		DELETE type::record("thread", $id) RETURN BEFORE;
		COMMIT TRANSACTION;
	`
	results, err := surrealdb.Query[[]models.Thread](ctx, c.db, sql, map[string]any{
		"id": id,
	})
	if err != nil {
		return 0, fmt.Errorf("delete thread: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return 0, nil
	}
	// The thread delete is the last statement in the transaction.
	last := (*results)[len(*results)-1]
	return len(last.Result), nil
}

// AppendMessage appends a message to a thread.
func (c *Client) AppendMessage(
	ctx context.Context,
	threadID string,
	role string,
	content string,
	emotion *string,
	audioURL *string,
	metadata map[string]any,
) (*models.Message, error) {
	sql := `
		CREATE message SET
			thread = type::record("thread", $thread),
			role = $role,
			content = $content,
			emotion = $emotion,
			audio_url = $audio_url,
			metadata = $metadata
		RETURN AFTER
	`
	results, err := surrealdb.Query[[]models.Message](ctx, c.db, sql, map[string]any{
		"thread":    threadID,
		"role":      role,
		"content":   content,
		"emotion":   emotion,
		"audio_url": audioURL,
		"metadata":  metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("append message: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// ListMessages returns a thread's messages in conversation order.
// limit <= 0 returns all messages.
func (c *Client) ListMessages(ctx context.Context, threadID string, limit int) ([]models.Message, error) {
	sql := `
		SELECT * FROM message
		WHERE thread = type::record("thread", $thread)
		ORDER BY created_at ASC
	`
	vars := map[string]any{"thread": threadID}
	if limit > 0 {
		sql += " LIMIT $limit"
		vars["limit"] = limit
	}

	results, err := surrealdb.Query[[]models.Message](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Message{}, nil
	}
	return (*results)[0].Result, nil
}

// ListRecentMessages returns the last `limit` messages of a thread in
// conversation order (oldest of the window first).
func (c *Client) ListRecentMessages(ctx context.Context, threadID string, limit int) ([]models.Message, error) {
	results, err := surrealdb.Query[[]models.Message](ctx, c.db, `
		SELECT * FROM message
		WHERE thread = type::record("thread", $thread)
		ORDER BY created_at DESC
		LIMIT $limit
	`, map[string]any{"thread": threadID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Message{}, nil
	}

	msgs := (*results)[0].Result
	// Query returns newest-first; flip to conversation order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// UpsertMemory writes a new durable memory entry for a user.
// The importance score is clamped into the valid range.
func (c *Client) UpsertMemory(
	ctx context.Context,
	userID string,
	summary string,
	memContext *string,
	importance int,
) (*models.MemoryEntry, error) {
	if importance < models.MinImportance {
		importance = models.MinImportance
	}
	if importance > models.MaxImportance {
		importance = models.MaxImportance
	}

	sql := `
		CREATE memory SET
			user_id = $user_id,
			summary = $summary,
			context = $context,
			importance_score = $importance
		RETURN AFTER
	`
	results, err := surrealdb.Query[[]models.MemoryEntry](ctx, c.db, sql, map[string]any{
		"user_id":    userID,
		"summary":    summary,
		"context":    memContext,
		"importance": importance,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert memory: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("upsert memory: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// ListMemories returns a user's top memories ordered by importance,
// newest first within the same score.
func (c *Client) ListMemories(ctx context.Context, userID string, limit int) ([]models.MemoryEntry, error) {
	sql := `
		SELECT * FROM memory
		WHERE user_id = $user_id
		ORDER BY importance_score DESC, created_at DESC
	`
	vars := map[string]any{"user_id": userID}
	if limit > 0 {
		sql += " LIMIT $limit"
		vars["limit"] = limit
	}

	results, err := surrealdb.Query[[]models.MemoryEntry](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.MemoryEntry{}, nil
	}
	return (*results)[0].Result, nil
}

// DeleteMemory deletes a memory entry owned by a user.
// Returns the number of records deleted (0 if not found - idempotent).
func (c *Client) DeleteMemory(ctx context.Context, id, userID string) (int, error) {
	sql := `DELETE type::record("memory", $id) WHERE user_id = $user_id RETURN BEFORE`

	results, err := surrealdb.Query[[]models.MemoryEntry](ctx, c.db, sql, map[string]any{
		"id":      id,
		"user_id": userID,
	})
	if err != nil {
		return 0, fmt.Errorf("delete memory: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return 0, nil
	}
	return len((*results)[0].Result), nil
}
