package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/maliksaad1/ai-surrogate/internal/client"
	"github.com/spf13/cobra"
)

var (
	chatThreadID  string
	chatShowTrace bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively with the companion",
	Long: `Open an interactive chat session.

Without --thread a new conversation thread is created. Each reply shows
which agent answered and the detected emotional tone; --trace additionally
prints the execution steps behind every reply.

Examples:
  surrogate chat
  surrogate chat --thread thread123 --trace`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatThreadID, "thread", "", "continue an existing thread")
	chatCmd.Flags().BoolVar(&chatShowTrace, "trace", false, "show agent execution traces")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	threadID := chatThreadID
	if threadID == "" {
		thread, err := api.CreateThread(ctx, userID, "")
		if err != nil {
			return fmt.Errorf("create thread: %w", err)
		}
		threadID = thread.ID
		fmt.Printf("Started thread %s\n", threadID)
	}

	p := tea.NewProgram(newChatModel(api, userID, threadID, chatShowTrace))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}

// chatTheme holds the color scheme for the chat display.
type chatTheme struct {
	User    lipgloss.Color
	Agent   lipgloss.Color
	Emotion lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

var defaultChatTheme = chatTheme{
	User:    lipgloss.Color("#5FAFD7"), // light blue
	Agent:   lipgloss.Color("#00D787"), // green
	Emotion: lipgloss.Color("#D7AF5F"), // amber
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t chatTheme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t chatTheme) agentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Agent).Bold(true)
}

func (t chatTheme) emotionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Emotion)
}

func (t chatTheme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t chatTheme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// replyMsg carries one completed chat turn back into the UI loop.
type replyMsg struct {
	turn *client.ChatTurn
	err  error
}

// chatModel is the bubbletea model for the interactive chat session.
type chatModel struct {
	client    *client.Client
	userID    string
	threadID  string
	showTrace bool

	input   textinput.Model
	spinner spinner.Model
	theme   chatTheme

	transcript []string
	waiting    bool
	quitting   bool
}

func newChatModel(c *client.Client, userID, threadID string, showTrace bool) chatModel {
	input := textinput.New()
	input.Placeholder = "Say something..."
	input.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return chatModel{
		client:    c,
		userID:    userID,
		threadID:  threadID,
		showTrace: showTrace,
		input:     input,
		spinner:   sp,
		theme:     defaultChatTheme,
	}
}

// Init returns the initial command.
func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.transcript = append(m.transcript,
				m.theme.userStyle().Render("You: ")+text)
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, m.send(text))
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.transcript = append(m.transcript,
				m.theme.errorStyle().Render(fmt.Sprintf("✗ %s", msg.err)))
			return m, nil
		}
		m.transcript = append(m.transcript, m.renderTurn(msg.turn)...)
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat display.
func (m chatModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m chatModel) renderContent() string {
	var b strings.Builder

	for _, line := range m.transcript {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.quitting {
		return b.String()
	}

	if m.waiting {
		b.WriteString(m.spinner.View())
		b.WriteString(" thinking...\n")
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString(m.theme.hintStyle().Render("Enter to send, Esc to quit"))
	b.WriteString("\n")
	return b.String()
}

// renderTurn formats one server reply for the transcript.
func (m chatModel) renderTurn(turn *client.ChatTurn) []string {
	reply := turn.Reply

	header := m.theme.agentStyle().Render(
		fmt.Sprintf("%s %s: ", reply.AgentIcon, reply.AgentName))
	lines := []string{header + reply.ResponseText}

	tone := fmt.Sprintf("  tone: %s", reply.Emotion)
	if reply.Metadata.MemoryUpdated {
		tone += "  ・ remembered"
	}
	lines = append(lines, m.theme.emotionStyle().Render(tone))

	if m.showTrace {
		for _, step := range reply.Metadata.Trace {
			lines = append(lines, m.theme.hintStyle().Render(
				fmt.Sprintf("  · %-24s %-9s %dms", step.Name, step.Status, step.DurationMs)))
		}
	}

	return lines
}

// send posts the message to the server off the UI loop.
func (m chatModel) send(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		turn, err := m.client.SendMessage(ctx, m.userID, m.threadID, text)
		return replyMsg{turn: turn, err: err}
	}
}
