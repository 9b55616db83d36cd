package agents

import (
	"context"
	"time"
)

// SchedulerAgent handles scheduling and time-related requests. It grounds
// relative date words against "now" and answers conversationally; it
// deliberately performs no calendar writes - that is a documented
// limitation carried over from the system this replaces, not a bug.
type SchedulerAgent struct {
	llm   Completer
	clock func() time.Time
}

// NewSchedulerAgent creates the scheduling agent. clock supplies the
// current time so tests can pin it.
func NewSchedulerAgent(llm Completer, clock func() time.Time) *SchedulerAgent {
	if clock == nil {
		clock = time.Now
	}
	return &SchedulerAgent{llm: llm, clock: clock}
}

// Kind returns KindScheduler.
func (a *SchedulerAgent) Kind() Kind {
	return KindScheduler
}

// Handle generates a time-aware scheduling reply.
func (a *SchedulerAgent) Handle(ctx context.Context, in Input) (Result, error) {
	now := a.clock().Format("Monday, January 2, 2006 at 3:04 PM")

	text, err := a.llm.SchedulerReply(ctx, in.Message, now, formatHistory(in.History))
	if err != nil {
		return Result{}, wrapUpstream(err)
	}

	return Result{Text: text, Confidence: 0.8}, nil
}
