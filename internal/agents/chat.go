package agents

import "context"

// ChatAgent handles general conversation by delegating to the completion
// capability with the companion persona, windowed history and memory context.
type ChatAgent struct {
	llm Completer
}

// NewChatAgent creates the default conversational agent.
func NewChatAgent(llm Completer) *ChatAgent {
	return &ChatAgent{llm: llm}
}

// Kind returns KindChat.
func (a *ChatAgent) Kind() Kind {
	return KindChat
}

// Handle generates a conversational reply.
func (a *ChatAgent) Handle(ctx context.Context, in Input) (Result, error) {
	text, err := a.llm.CompanionReply(ctx, in.Message, formatHistory(in.History), formatMemories(in.Memories))
	if err != nil {
		return Result{}, wrapUpstream(err)
	}

	return Result{Text: text, Confidence: 0.9}, nil
}
