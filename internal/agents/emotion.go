package agents

import (
	"context"
	"strings"
)

// emotionKeywords maps each label to the words that signal it. Checked in
// order; the first label with a hit wins.
var emotionKeywords = []struct {
	label    string
	keywords []string
}{
	{"happy", []string{"happy", "great", "awesome", "wonderful", "excellent", "glad"}},
	{"sad", []string{"sad", "sorry", "disappointed", "upset", "miss", "lonely"}},
	{"excited", []string{"excited", "amazing", "fantastic", "thrilled", "can't wait"}},
	{"concerned", []string{"concerned", "worried", "trouble", "problem", "anxious", "afraid"}},
}

// EmotionAgent classifies the emotional tone of a message. Pure keyword
// matching, no network calls, so it never dominates the parallel phase.
type EmotionAgent struct{}

// NewEmotionAgent creates the emotion classification agent.
func NewEmotionAgent() *EmotionAgent {
	return &EmotionAgent{}
}

// Kind returns KindEmotion.
func (a *EmotionAgent) Kind() Kind {
	return KindEmotion
}

// Analyze returns the emotion label for a piece of text, "neutral" when
// nothing matches.
func (a *EmotionAgent) Analyze(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range emotionKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.label
			}
		}
	}
	return "neutral"
}

// Handle classifies the input message. Never fails.
func (a *EmotionAgent) Handle(_ context.Context, in Input) (Result, error) {
	return Result{Text: a.Analyze(in.Message), Confidence: 0.7}, nil
}
