package agents_test

import (
	"testing"

	"github.com/maliksaad1/ai-surrogate/internal/agents"
	"github.com/stretchr/testify/assert"
)

func TestRouterSelect(t *testing.T) {
	r := agents.NewRouter()

	tests := []struct {
		name    string
		message string
		want    agents.Kind
	}{
		{"scheduler keyword", "Schedule a meeting tomorrow at 3pm", agents.KindScheduler},
		{"calendar keyword", "what's on my CALENDAR", agents.KindScheduler},
		{"docs keyword", "explain how photosynthesis works", agents.KindDocs},
		{"how to", "how to make pasta carbonara", agents.KindDocs},
		{"memory keyword", "do you recall what I told you", agents.KindMemory},
		{"you said", "you said it would rain", agents.KindMemory},
		{"plain chat", "hello there, nice evening", agents.KindChat},
		{"empty message", "", agents.KindChat},
		{"whitespace only", "   \t\n", agents.KindChat},
		// Priority: scheduler wins over docs and memory when keyword sets overlap.
		{"scheduler beats docs", "remind me how to reset my password", agents.KindScheduler},
		{"scheduler beats memory", "remember my appointment tomorrow", agents.KindScheduler},
		{"docs beats memory", "find what we talked about", agents.KindDocs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, secondary := r.Select(tt.message)
			assert.Equal(t, tt.want, primary)
			assert.Equal(t, []agents.Kind{agents.KindEmotion, agents.KindMemory}, secondary,
				"secondary agents are always scheduled")
		})
	}
}

func TestRouterNeverEmptyPrimary(t *testing.T) {
	r := agents.NewRouter()

	samples := []string{
		"", " ", "...", "🙂", "asdfghjkl", "HELLO", "schedule", "explain",
		"remember", "a very long message with no special keywords whatsoever in it",
	}
	for _, msg := range samples {
		primary, _ := r.Select(msg)
		assert.NotEmpty(t, string(primary), "message %q must route somewhere", msg)
	}
}
