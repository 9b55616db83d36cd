package agents

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Importance scores assigned by the significance heuristic.
const (
	importancePersonalFact = 7
	importanceDetailedTurn = 4

	// detailedTurnRunes is the user-message length above which a turn is
	// considered detailed enough to remember even without a keyword hit.
	detailedTurnRunes = 100

	// summaryMaxLen bounds the stored conversation summary.
	summaryMaxLen = 500
)

// significanceKeywords mark personal facts, preferences and commitments.
// Any hit in the combined user+assistant text makes the turn worth
// remembering at importancePersonalFact.
var significanceKeywords = []string{
	"important", "remember", "don't forget", "my name", "birthday",
	"favorite", "prefer", "like", "dislike", "family", "work", "hobby",
	"allergic", "anniversary", "goal", "deadline", "promise",
}

// Judgment is the outcome of a memory-significance check.
type Judgment struct {
	Remember   bool
	Importance int
	Reason     string
}

// MemoryAgent decides which conversation turns are worth keeping as
// durable user memories, and answers recall-style messages.
type MemoryAgent struct {
	llm Completer
}

// NewMemoryAgent creates the memory agent.
func NewMemoryAgent(llm Completer) *MemoryAgent {
	return &MemoryAgent{llm: llm}
}

// Kind returns KindMemory.
func (a *MemoryAgent) Kind() Kind {
	return KindMemory
}

// ShouldRemember judges whether a conversation turn is significant enough
// to persist. The heuristic is deterministic: the same (message, response)
// pair always yields the same judgment.
//
//  1. Any significance keyword in the combined text -> importance 7.
//  2. Otherwise a user message longer than 100 runes -> importance 4.
//  3. Otherwise the turn is not remembered.
func (a *MemoryAgent) ShouldRemember(userMessage, response string) Judgment {
	combined := strings.ToLower(userMessage + " " + response)

	for _, kw := range significanceKeywords {
		if strings.Contains(combined, kw) {
			return Judgment{
				Remember:   true,
				Importance: importancePersonalFact,
				Reason:     "contains personal information or commitment",
			}
		}
	}

	if utf8.RuneCountInString(userMessage) > detailedTurnRunes {
		return Judgment{
			Remember:   true,
			Importance: importanceDetailedTurn,
			Reason:     "detailed conversation",
		}
	}

	return Judgment{}
}

// Summarize builds the bounded summary text stored with a memory entry.
func (a *MemoryAgent) Summarize(userMessage, response string) string {
	summary := "User: " + userMessage + "\nAI: " + response
	if utf8.RuneCountInString(summary) > summaryMaxLen {
		runes := []rune(summary)
		summary = string(runes[:summaryMaxLen])
	}
	return summary
}

// Handle answers recall-style messages ("remember", "you said") as a
// conversational reply grounded in the user's stored memories.
func (a *MemoryAgent) Handle(ctx context.Context, in Input) (Result, error) {
	text, err := a.llm.CompanionReply(ctx, in.Message, formatHistory(in.History), formatMemories(in.Memories))
	if err != nil {
		return Result{}, wrapUpstream(err)
	}

	return Result{Text: text, Confidence: 0.8}, nil
}
