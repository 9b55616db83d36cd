package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/agents"
	"github.com/maliksaad1/ai-surrogate/internal/metrics"
	"github.com/maliksaad1/ai-surrogate/internal/models"
)

// ChatService runs one conversational turn end to end: it verifies the
// thread, persists both sides of the exchange and delegates the reply to
// the agent orchestrator.
type ChatService struct {
	store         Store
	orchestrator  *agents.Orchestrator
	collector     *metrics.Collector
	logger        *slog.Logger
	historyWindow int
	memoryLimit   int
}

// ChatOption configures a ChatService.
type ChatOption func(*ChatService)

// WithChatLogger sets the logger. Defaults to slog.Default().
func WithChatLogger(logger *slog.Logger) ChatOption {
	return func(s *ChatService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithChatCollector attaches a metrics collector for turn timings.
func WithChatCollector(c *metrics.Collector) ChatOption {
	return func(s *ChatService) {
		s.collector = c
	}
}

// WithHistoryWindow sets how many recent messages are fed to the agents.
func WithHistoryWindow(n int) ChatOption {
	return func(s *ChatService) {
		if n > 0 {
			s.historyWindow = n
		}
	}
}

// WithMemoryLimit sets how many top memories are fed to the agents.
func WithMemoryLimit(n int) ChatOption {
	return func(s *ChatService) {
		if n > 0 {
			s.memoryLimit = n
		}
	}
}

// NewChatService creates the chat service.
func NewChatService(store Store, orchestrator *agents.Orchestrator, opts ...ChatOption) *ChatService {
	s := &ChatService{
		store:         store,
		orchestrator:  orchestrator,
		logger:        slog.Default(),
		historyWindow: 10,
		memoryLimit:   3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChatTurn is the persisted outcome of one exchange.
type ChatTurn struct {
	Reply            models.AgentReply `json:"reply"`
	ThreadID         string            `json:"thread_id"`
	UserMessageID    string            `json:"user_message_id"`
	AssistantMessage *models.Message   `json:"assistant_message"`
}

// SendMessage handles one user message in a thread:
//
//  1. verify the thread exists and belongs to the user
//  2. load the recent history window and top memories
//  3. persist the user message
//  4. orchestrate the reply
//  5. persist the assistant message with emotion and provenance
//  6. bump the thread's last activity
//
// The orchestrator never fails a turn; SendMessage only returns an error
// when persistence does.
func (s *ChatService) SendMessage(ctx context.Context, userID, threadID, content string) (*ChatTurn, error) {
	start := time.Now()

	thread, err := s.store.GetThread(ctx, threadID, userID)
	if err != nil {
		return nil, fmt.Errorf("verify thread: %w", err)
	}

	// History is loaded before the new message is written so the agents
	// see only prior turns as context.
	history, err := s.store.ListRecentMessages(ctx, threadID, s.historyWindow)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	memories, err := s.store.ListMemories(ctx, userID, s.memoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load memories: %w", err)
	}

	userMsg, err := s.store.AppendMessage(ctx, threadID, models.RoleUser, content, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	reply := s.orchestrator.Handle(ctx, agents.Request{
		UserID:   userID,
		Message:  content,
		History:  history,
		Memories: memories,
	})

	assistantMsg, err := s.store.AppendMessage(ctx, threadID,
		models.RoleAssistant, reply.ResponseText, &reply.Emotion, nil,
		replyMetadata(reply))
	if err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}

	if err := s.store.TouchThread(ctx, threadID); err != nil {
		// The exchange is already persisted; a stale last_message_at is
		// not worth failing the turn over.
		s.logger.Warn("bump thread activity failed", "thread_id", threadID, "error", err)
	}

	if s.collector != nil {
		s.collector.RecordTiming(metrics.OpChatTurn, time.Since(start))
	}

	s.logger.Info("chat turn complete",
		"user_id", userID,
		"thread_id", threadID,
		"agent", reply.Agent,
		"emotion", reply.Emotion,
		"duration_ms", time.Since(start).Milliseconds())

	return &ChatTurn{
		Reply:            reply,
		ThreadID:         models.MustRecordIDString(thread.ID),
		UserMessageID:    models.MustRecordIDString(userMsg.ID),
		AssistantMessage: assistantMsg,
	}, nil
}

// replyMetadata flattens reply provenance into the message metadata field.
func replyMetadata(reply models.AgentReply) map[string]any {
	meta := map[string]any{
		"agent_used":         reply.Agent,
		"agent_name":         reply.AgentName,
		"memory_updated":     reply.Metadata.MemoryUpdated,
		"processing_time_ms": reply.Metadata.ProcessingTimeMs,
		"confidence":         reply.Metadata.Confidence,
		"agents_involved":    reply.Metadata.AgentsInvolved,
	}
	if len(reply.Metadata.Trace) > 0 {
		meta["trace"] = reply.Metadata.Trace
	}
	if v, ok := reply.Metadata.Detail["upstream_error"]; ok {
		meta["upstream_error"] = v
	}
	return meta
}
