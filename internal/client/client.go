// Package client provides a REST client for the surrogate server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/models"
)

// Thread is a conversation thread as returned by the server. Record ids
// arrive as plain strings.
type Thread struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Message is one message of a thread as returned by the server.
type Message struct {
	ID        string         `json:"id"`
	ThreadID  string         `json:"thread_id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Emotion   *string        `json:"emotion,omitempty"`
	AudioURL  *string        `json:"audio_url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// MemoryEntry is a stored memory as returned by the server.
type MemoryEntry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Summary         string    `json:"summary"`
	Context         *string   `json:"context,omitempty"`
	ImportanceScore int       `json:"importance_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ChatTurn is the result of one chat exchange.
type ChatTurn struct {
	Reply            models.AgentReply `json:"reply"`
	ThreadID         string            `json:"thread_id"`
	UserMessageID    string            `json:"user_message_id"`
	AssistantMessage *Message          `json:"assistant_message"`
}

// Client is an HTTP client for the surrogate server API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses SURROGATE_SERVER_URL env var or defaults to
// localhost:8090. Timeout can be configured via SURROGATE_CLIENT_TIMEOUT
// (chat turns wait on the language model, so the default is generous).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("SURROGATE_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}

	timeout := 2 * time.Minute
	if t := os.Getenv("SURROGATE_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiError is the echo error envelope.
type apiError struct {
	Message any `json:"message"`
}

// do executes one request and decodes the JSON response into result.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != nil {
			return fmt.Errorf("server error: %s - %v", resp.Status, apiErr.Message)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, string(raw))
	}

	if result != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// Health checks the server's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// SendMessage sends a chat message into a thread.
func (c *Client) SendMessage(ctx context.Context, userID, threadID, message string) (*ChatTurn, error) {
	var turn ChatTurn
	err := c.do(ctx, http.MethodPost, "/api/v1/chat", map[string]string{
		"user_id":   userID,
		"thread_id": threadID,
		"message":   message,
	}, &turn)
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// CreateThread opens a new conversation thread.
func (c *Client) CreateThread(ctx context.Context, userID, title string) (*Thread, error) {
	var thread Thread
	err := c.do(ctx, http.MethodPost, "/api/v1/threads", map[string]string{
		"user_id": userID,
		"title":   title,
	}, &thread)
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// ListThreads lists a user's threads, most recently active first.
func (c *Client) ListThreads(ctx context.Context, userID string) ([]Thread, error) {
	var threads []Thread
	path := "/api/v1/threads?" + url.Values{"user_id": {userID}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// RenameThread updates a thread's title.
func (c *Client) RenameThread(ctx context.Context, userID, threadID, title string) (*Thread, error) {
	var thread Thread
	err := c.do(ctx, http.MethodPut, "/api/v1/threads/"+url.PathEscape(threadID), map[string]string{
		"user_id": userID,
		"title":   title,
	}, &thread)
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// DeleteThread removes a thread and its messages.
func (c *Client) DeleteThread(ctx context.Context, userID, threadID string) error {
	path := "/api/v1/threads/" + url.PathEscape(threadID) + "?" + url.Values{"user_id": {userID}}.Encode()
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListMessages returns a thread's messages in conversation order.
func (c *Client) ListMessages(ctx context.Context, userID, threadID string, limit int) ([]Message, error) {
	vals := url.Values{"user_id": {userID}}
	if limit > 0 {
		vals.Set("limit", fmt.Sprint(limit))
	}

	var msgs []Message
	path := "/api/v1/threads/" + url.PathEscape(threadID) + "/messages?" + vals.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListMemories returns a user's memories, most important first.
func (c *Client) ListMemories(ctx context.Context, userID string, limit int) ([]MemoryEntry, error) {
	vals := url.Values{"user_id": {userID}}
	if limit > 0 {
		vals.Set("limit", fmt.Sprint(limit))
	}

	var memories []MemoryEntry
	if err := c.do(ctx, http.MethodGet, "/api/v1/memories?"+vals.Encode(), nil, &memories); err != nil {
		return nil, err
	}
	return memories, nil
}

// DeleteMemory removes one memory entry.
func (c *Client) DeleteMemory(ctx context.Context, userID, memoryID string) error {
	path := "/api/v1/memories/" + url.PathEscape(memoryID) + "?" + url.Values{"user_id": {userID}}.Encode()
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Stats returns the server's in-process metrics snapshot.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	var snap map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/v1/stats", nil, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}
