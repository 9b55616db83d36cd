package server

import (
	"fmt"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/models"
	"github.com/maliksaad1/ai-surrogate/internal/service"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// ThreadResponse is the wire shape of a conversation thread. Record ids
// are flattened to plain strings at the API boundary.
type ThreadResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MessageResponse is the wire shape of a conversation message.
type MessageResponse struct {
	ID        string         `json:"id"`
	ThreadID  string         `json:"thread_id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Emotion   *string        `json:"emotion,omitempty"`
	AudioURL  *string        `json:"audio_url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// MemoryResponse is the wire shape of a stored memory entry.
type MemoryResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Summary         string    `json:"summary"`
	Context         *string   `json:"context,omitempty"`
	ImportanceScore int       `json:"importance_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ChatResponse is the wire shape of one completed chat turn.
type ChatResponse struct {
	Reply            models.AgentReply `json:"reply"`
	ThreadID         string            `json:"thread_id"`
	UserMessageID    string            `json:"user_message_id"`
	AssistantMessage *MessageResponse  `json:"assistant_message"`
}

// recordIDToString flattens a SurrealDB record id for the wire.
func recordIDToString(id surrealmodels.RecordID) string {
	s, err := models.RecordIDString(id)
	if err != nil {
		return fmt.Sprintf("%v", id.ID)
	}
	return s
}

func threadToResponse(t *models.Thread) *ThreadResponse {
	if t == nil {
		return nil
	}
	return &ThreadResponse{
		ID:            recordIDToString(t.ID),
		UserID:        t.UserID,
		Title:         t.Title,
		LastMessageAt: t.LastMessageAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func threadsToResponse(threads []models.Thread) []ThreadResponse {
	out := make([]ThreadResponse, len(threads))
	for i := range threads {
		out[i] = *threadToResponse(&threads[i])
	}
	return out
}

func messageToResponse(m *models.Message) *MessageResponse {
	if m == nil {
		return nil
	}
	return &MessageResponse{
		ID:        recordIDToString(m.ID),
		ThreadID:  recordIDToString(m.Thread),
		Role:      m.Role,
		Content:   m.Content,
		Emotion:   m.Emotion,
		AudioURL:  m.AudioURL,
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
	}
}

func messagesToResponse(msgs []models.Message) []MessageResponse {
	out := make([]MessageResponse, len(msgs))
	for i := range msgs {
		out[i] = *messageToResponse(&msgs[i])
	}
	return out
}

func memoryToResponse(m *models.MemoryEntry) *MemoryResponse {
	if m == nil {
		return nil
	}
	return &MemoryResponse{
		ID:              recordIDToString(m.ID),
		UserID:          m.UserID,
		Summary:         m.Summary,
		Context:         m.Context,
		ImportanceScore: m.ImportanceScore,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func memoriesToResponse(memories []models.MemoryEntry) []MemoryResponse {
	out := make([]MemoryResponse, len(memories))
	for i := range memories {
		out[i] = *memoryToResponse(&memories[i])
	}
	return out
}

func turnToResponse(turn *service.ChatTurn) *ChatResponse {
	if turn == nil {
		return nil
	}
	return &ChatResponse{
		Reply:            turn.Reply,
		ThreadID:         turn.ThreadID,
		UserMessageID:    turn.UserMessageID,
		AssistantMessage: messageToResponse(turn.AssistantMessage),
	}
}
