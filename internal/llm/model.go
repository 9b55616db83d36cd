// Package llm provides the language-model completion capability using langchaingo.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/maliksaad1/ai-surrogate/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// DefaultSystemPrompt is the companion persona used for chat replies
// unless a persona file overrides it.
const DefaultSystemPrompt = `You are an AI Surrogate - a compassionate, intelligent companion designed to provide emotional support, engaging conversation, and helpful assistance.

Your personality traits:
- Empathetic and understanding
- Supportive but not overly sentimental
- Curious and engaging
- Helpful and informative
- Maintains appropriate boundaries

Guidelines:
- Keep responses conversational and natural
- Show genuine interest in the user's wellbeing
- Be emotionally supportive during difficult times
- Keep responses under 150 words unless specifically asked for more detail`

// ValidEmotions is the closed label set for emotion classification.
var ValidEmotions = []string{
	"happy", "sad", "neutral", "excited", "concerned", "supportive", "curious", "thoughtful",
}

// Model wraps a langchaingo LLM for text generation.
type Model struct {
	llm          llms.Model
	modelName    string
	systemPrompt string
}

// NewModel creates an LLM model based on configuration.
func NewModel(ctx context.Context, cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderGoogleAI:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("Gemini API key required")
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create googleai model: %w", err)
		}

	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:          model,
		modelName:    cfg.LLMModel,
		systemPrompt: DefaultSystemPrompt,
	}, nil
}

// SetPersonaPrompt replaces the companion system prompt. Empty input keeps the default.
func (m *Model) SetPersonaPrompt(prompt string) {
	if prompt != "" {
		m.systemPrompt = prompt
	}
}

// Generate generates text based on a single prompt.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return response, nil
}

// GenerateWithSystem generates text with a system prompt.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, err := m.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate with system: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return response.Choices[0].Content, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// CompanionReply generates a chat reply with the companion persona,
// conversation history and memory context.
func (m *Model) CompanionReply(ctx context.Context, message, historyContext, memoryContext string) (string, error) {
	var parts []string

	if memoryContext != "" {
		parts = append(parts, fmt.Sprintf("User context and memory:\n%s", memoryContext))
	}
	if historyContext != "" {
		parts = append(parts, fmt.Sprintf("Recent conversation:\n%s", historyContext))
	}
	parts = append(parts, fmt.Sprintf("User message: %s", message))
	parts = append(parts, "Respond as the AI Surrogate:")

	return m.GenerateWithSystem(ctx, m.systemPrompt, strings.Join(parts, "\n\n"))
}

// AnalyzeEmotion classifies the emotional tone of text into the closed
// label set. Anything the model returns outside the set maps to "neutral".
func (m *Model) AnalyzeEmotion(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Analyze the emotional tone of this message and return only one word from this list: %s.

Message: %q

Emotion:`, strings.Join(ValidEmotions, ", "), text)

	response, err := m.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	return NormalizeEmotion(response), nil
}

// SchedulerReply generates a scheduling-framed reply. now is the resolved
// current time, injected so relative date words can be grounded.
func (m *Model) SchedulerReply(ctx context.Context, message, now, historyContext string) (string, error) {
	systemPrompt := `You are a helpful scheduling assistant. Provide specific, actionable responses for
scheduling, time management, or calendar-related requests. You cannot write to any calendar;
acknowledge requests conversationally and resolve relative dates explicitly.`

	userPrompt := fmt.Sprintf(`Current date and time: %s

Context: %s

User message: %s

Response:`, now, orNone(historyContext), message)

	return m.GenerateWithSystem(ctx, systemPrompt, userPrompt)
}

// DocsReply generates an informational answer for knowledge requests.
func (m *Model) DocsReply(ctx context.Context, message, historyContext string) (string, error) {
	systemPrompt := `You are a knowledgeable assistant helping with information requests.
Provide accurate, helpful information. If you're not certain about specific facts,
be honest about your limitations.`

	userPrompt := fmt.Sprintf(`Context: %s

User question: %s

Helpful response:`, orNone(historyContext), message)

	return m.GenerateWithSystem(ctx, systemPrompt, userPrompt)
}

// NormalizeEmotion lowercases and validates a label against ValidEmotions,
// defaulting to "neutral".
func NormalizeEmotion(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, valid := range ValidEmotions {
		if label == valid {
			return label
		}
	}
	return "neutral"
}

func orNone(s string) string {
	if s == "" {
		return "No previous context"
	}
	return s
}
