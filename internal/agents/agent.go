// Package agents implements the multi-agent message router and orchestrator.
//
// An incoming user message is routed to one primary agent by keyword
// priority, while the emotion and memory-significance agents always run
// concurrently alongside it. All executions are recorded in a per-request
// execution trace and merged into a single reply.
//
//	User message
//	    |
//	 Router ------ primary: chat | scheduler | docs | memory
//	    |
//	    +-- primary.Handle   \
//	    +-- emotion.Analyze   > concurrent, jointly awaited
//	    +-- memory.Check     /
//	    |
//	 merge -> AgentReply (text, emotion, provenance, trace)
package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/models"
)

// Kind identifies one specialized agent.
type Kind string

// The closed set of agent kinds.
const (
	KindChat      Kind = "chat"
	KindEmotion   Kind = "emotion"
	KindMemory    Kind = "memory"
	KindScheduler Kind = "scheduler"
	KindDocs      Kind = "docs"
)

// Style is the human-readable presentation of an agent.
type Style struct {
	Name string
	Icon string
}

// DefaultStyles maps each agent kind to its display name and icon.
var DefaultStyles = map[Kind]Style{
	KindChat:      {Name: "Companion", Icon: "💬"},
	KindEmotion:   {Name: "Emotion", Icon: "💝"},
	KindMemory:    {Name: "Memory", Icon: "🧠"},
	KindScheduler: {Name: "Scheduler", Icon: "📅"},
	KindDocs:      {Name: "Docs", Icon: "📚"},
}

// Input carries one user message plus the conversation context an agent
// may use. History is already windowed by the caller.
type Input struct {
	Message  string
	History  []models.Message
	Memories []models.MemoryEntry
}

// Result is the outcome of one agent execution.
type Result struct {
	Text       string
	Confidence float64
}

// Agent is a stateless unit of work mapping (message, context) to a result.
type Agent interface {
	Kind() Kind
	Handle(ctx context.Context, in Input) (Result, error)
}

// Completer is the external language-model completion capability
// consumed by the agents. Implemented by llm.Model.
type Completer interface {
	CompanionReply(ctx context.Context, message, historyContext, memoryContext string) (string, error)
	AnalyzeEmotion(ctx context.Context, text string) (string, error)
	SchedulerReply(ctx context.Context, message, now, historyContext string) (string, error)
	DocsReply(ctx context.Context, message, historyContext string) (string, error)
}

// Registry holds the constructed agent instances for the closed set of
// kinds. Built once at startup and injected into the Orchestrator; never
// mutated afterwards.
type Registry struct {
	agents  map[Kind]Agent
	Emotion *EmotionAgent
	Memory  *MemoryAgent
}

// NewRegistry constructs all agents against one completion capability.
// clock supplies "now" for the scheduler agent; nil means time.Now.
func NewRegistry(llm Completer, clock func() time.Time) *Registry {
	if clock == nil {
		clock = time.Now
	}

	emotion := NewEmotionAgent()
	memory := NewMemoryAgent(llm)

	return &Registry{
		agents: map[Kind]Agent{
			KindChat:      NewChatAgent(llm),
			KindEmotion:   emotion,
			KindMemory:    memory,
			KindScheduler: NewSchedulerAgent(llm, clock),
			KindDocs:      NewDocsAgent(llm),
		},
		Emotion: emotion,
		Memory:  memory,
	}
}

// Get returns the agent registered for a kind.
func (r *Registry) Get(k Kind) (Agent, bool) {
	a, ok := r.agents[k]
	return a, ok
}

// formatHistory renders a message window as alternating "User:"/"AI:"
// lines, the shape the completion prompts expect.
func formatHistory(history []models.Message) string {
	if len(history) == 0 {
		return ""
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		role := "AI"
		if msg.Role == models.RoleUser {
			role = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, msg.Content))
	}
	return strings.Join(lines, "\n")
}

// formatMemories renders memory summaries as one block for prompt injection.
func formatMemories(memories []models.MemoryEntry) string {
	if len(memories) == 0 {
		return ""
	}

	lines := make([]string, 0, len(memories))
	for _, mem := range memories {
		if mem.Summary != "" {
			lines = append(lines, mem.Summary)
		}
	}
	return strings.Join(lines, "\n")
}
