package agents_test

import (
	"context"
	"testing"

	"github.com/maliksaad1/ai-surrogate/internal/agents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmotionAnalyze(t *testing.T) {
	a := agents.NewEmotionAgent()

	tests := []struct {
		text string
		want string
	}{
		{"I'm so happy today!", "happy"},
		{"this is AWESOME", "happy"},
		{"I feel sad and lonely", "sad"},
		{"I'm thrilled about the trip", "excited"},
		{"I'm worried about the exam", "concerned"},
		{"the weather is fine", "neutral"},
		{"", "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Analyze(tt.text))
		})
	}
}

func TestEmotionHandleNeverFails(t *testing.T) {
	a := agents.NewEmotionAgent()

	res, err := a.Handle(context.Background(), agents.Input{Message: "I am so happy"})
	require.NoError(t, err)
	assert.Equal(t, "happy", res.Text)
	assert.Greater(t, res.Confidence, 0.0)
}
