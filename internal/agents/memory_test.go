package agents_test

import (
	"strings"
	"testing"

	"github.com/maliksaad1/ai-surrogate/internal/agents"
	"github.com/stretchr/testify/assert"
)

func TestShouldRememberHeuristic(t *testing.T) {
	a := agents.NewMemoryAgent(nil)

	tests := []struct {
		name       string
		message    string
		response   string
		remember   bool
		importance int
	}{
		{"personal fact", "my name is Saad", "Nice to meet you, Saad!", true, 7},
		{"birthday", "Remember my birthday is June 15th", "I'll remember that.", true, 7},
		{"preference", "I prefer tea over coffee", "Noted!", true, 7},
		{"keyword in response", "what should I do", "That's important to your family situation.", true, 7},
		{"keyword in casual response", "thanks", "Sounds like a plan.", true, 7},
		{"trivial chit-chat", "hi", "Hello!", false, 0},
		{"short question", "what's up?", "Not much!", false, 0},
		{
			"long detailed message",
			strings.Repeat("today I went around the pond and thought about things ", 3),
			"That sounds calm.",
			true, 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := a.ShouldRemember(tt.message, tt.response)
			assert.Equal(t, tt.remember, j.Remember)
			if tt.remember {
				assert.Equal(t, tt.importance, j.Importance)
				assert.NotEmpty(t, j.Reason)
			}
		})
	}
}

func TestShouldRememberIsDeterministic(t *testing.T) {
	a := agents.NewMemoryAgent(nil)

	msg := "Remember my birthday is June 15th"
	resp := "Got it!"

	first := a.ShouldRemember(msg, resp)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, a.ShouldRemember(msg, resp), "judgment must be stable")
	}
}

func TestSummarizeBounded(t *testing.T) {
	a := agents.NewMemoryAgent(nil)

	t.Run("short turn unchanged", func(t *testing.T) {
		got := a.Summarize("hello", "hi there")
		assert.Equal(t, "User: hello\nAI: hi there", got)
	})

	t.Run("long turn truncated", func(t *testing.T) {
		long := strings.Repeat("x", 1000)
		got := a.Summarize(long, long)
		assert.LessOrEqual(t, len([]rune(got)), 500)
		assert.True(t, strings.HasPrefix(got, "User: x"))
	})
}
