package agents

import "context"

// DocsAgent handles information and explanation requests with a prompt
// framed for factual answers.
type DocsAgent struct {
	llm Completer
}

// NewDocsAgent creates the documentation/information agent.
func NewDocsAgent(llm Completer) *DocsAgent {
	return &DocsAgent{llm: llm}
}

// Kind returns KindDocs.
func (a *DocsAgent) Kind() Kind {
	return KindDocs
}

// Handle generates an informational answer.
func (a *DocsAgent) Handle(ctx context.Context, in Input) (Result, error) {
	text, err := a.llm.DocsReply(ctx, in.Message, formatHistory(in.History))
	if err != nil {
		return Result{}, wrapUpstream(err)
	}

	return Result{Text: text, Confidence: 0.8}, nil
}
