package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/metrics"
	"github.com/maliksaad1/ai-surrogate/internal/models"
)

// FallbackText is the degraded reply used when the primary agent fails.
const FallbackText = "I'm sorry, I'm having trouble processing your message right now. Could you please try again?"

// fallbackConfidence is attached to degraded replies.
const fallbackConfidence = 0.3

// MemoryWriter is the persistence capability for best-effort memory
// writes. Implemented by the service layer on top of db.Client.
type MemoryWriter interface {
	UpsertMemory(ctx context.Context, userID, summary string, memContext *string, importance int) error
}

// Request is one orchestrated turn. History and Memories are already
// windowed by the caller.
type Request struct {
	UserID   string
	Message  string
	History  []models.Message
	Memories []models.MemoryEntry
}

// Orchestrator is the composition root: it owns the router and, per
// request, an execution tracker. Stateless across requests - safe to
// invoke concurrently.
type Orchestrator struct {
	router    *Router
	registry  *Registry
	memories  MemoryWriter
	styles    map[Kind]Style
	logger    *slog.Logger
	collector *metrics.Collector
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCollector attaches a metrics collector for agent timings.
func WithCollector(c *metrics.Collector) Option {
	return func(o *Orchestrator) {
		o.collector = c
	}
}

// WithStyles overrides agent display names/icons (persona file).
func WithStyles(overrides map[Kind]Style) Option {
	return func(o *Orchestrator) {
		for kind, style := range overrides {
			base := o.styles[kind]
			if style.Name != "" {
				base.Name = style.Name
			}
			if style.Icon != "" {
				base.Icon = style.Icon
			}
			o.styles[kind] = base
		}
	}
}

// NewOrchestrator wires the router and agent registry together.
// memories may be nil, in which case significance judgments are still
// made but nothing is persisted.
func NewOrchestrator(registry *Registry, memories MemoryWriter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		router:   NewRouter(),
		registry: registry,
		memories: memories,
		styles:   make(map[Kind]Style, len(DefaultStyles)),
		logger:   slog.Default(),
	}
	for kind, style := range DefaultStyles {
		o.styles[kind] = style
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Style returns the display style for an agent kind.
func (o *Orchestrator) Style(kind Kind) Style {
	return o.styles[kind]
}

// Handle routes the message, runs the primary agent concurrently with
// the emotion and memory-significance agents, joins all of them, and
// merges their outputs into one reply. It never returns an error: any
// individual failure is recorded in the trace and degrades the reply.
func (o *Orchestrator) Handle(ctx context.Context, req Request) models.AgentReply {
	start := time.Now()
	tracker := NewTracker()

	log := o.logger.With("user_id", req.UserID)

	// Routing always completes before any agent execution begins.
	routingStep := tracker.Begin("routing")
	primary, _ := o.router.Select(req.Message)
	tracker.Complete(routingStep, nil)
	o.observe(metrics.OpRouting, start, nil)

	log.Debug("message routed", "primary", string(primary))

	agent, ok := o.registry.Get(primary)
	if !ok {
		// Cannot happen with a registry built by NewRegistry; chat is
		// the safety default regardless.
		primary = KindChat
		agent, _ = o.registry.Get(KindChat)
	}

	in := Input{Message: req.Message, History: req.History, Memories: req.Memories}

	var (
		wg         sync.WaitGroup
		primaryRes Result
		primaryErr error
		emotion    string
		judgment   Judgment
	)

	// Fan out: the primary agent and both secondary agents run
	// concurrently and are all joined before the reply is assembled.
	// A failing leg settles its own trace step and never cancels the
	// siblings.
	wg.Add(3)

	go func() {
		defer wg.Done()
		stepStart := time.Now()
		step := tracker.Begin(fmt.Sprintf("%s.respond", primary))
		primaryRes, primaryErr = agent.Handle(ctx, in)
		if primaryErr != nil {
			tracker.Fail(step, primaryErr)
		} else {
			conf := primaryRes.Confidence
			tracker.Complete(step, &conf)
		}
		o.observe(opForKind(primary), stepStart, primaryErr)
	}()

	go func() {
		defer wg.Done()
		stepStart := time.Now()
		step := tracker.Begin("emotion.analyze")
		emotion = o.registry.Emotion.Analyze(req.Message)
		tracker.Complete(step, nil)
		o.observe(metrics.OpEmotion, stepStart, nil)
	}()

	go func() {
		defer wg.Done()
		stepStart := time.Now()
		step := tracker.Begin("memory.shouldRemember")
		judgment = o.registry.Memory.ShouldRemember(req.Message, "")
		tracker.Complete(step, nil)
		o.observe(metrics.OpMemoryCheck, stepStart, nil)
	}()

	wg.Wait()

	detail := map[string]string{}
	responseText := primaryRes.Text
	confidence := primaryRes.Confidence
	agentUsed := primary

	if primaryErr != nil {
		log.Warn("primary agent failed, returning degraded reply",
			"agent", string(primary), "error", primaryErr)
		responseText = FallbackText
		confidence = fallbackConfidence
		if errors.Is(primaryErr, ErrUpstream) {
			detail["upstream_error"] = primaryErr.Error()
		} else {
			detail["agent_error"] = primaryErr.Error()
		}
	}

	// Re-judge against the actual response: a turn may only become
	// significant once the reply is known. The judgment stays
	// deterministic for a fixed (message, response) pair.
	if !judgment.Remember && primaryErr == nil {
		step := tracker.Begin("memory.recheck")
		judgment = o.registry.Memory.ShouldRemember(req.Message, responseText)
		tracker.Complete(step, nil)
	}

	memoryUpdated := false
	if judgment.Remember && primaryErr == nil && o.memories != nil {
		step := tracker.Begin("memory.update")
		summary := o.registry.Memory.Summarize(req.Message, responseText)
		memContext := "agent_orchestrator"
		if err := o.memories.UpsertMemory(ctx, req.UserID, summary, &memContext, judgment.Importance); err != nil {
			// Best effort: a failed write degrades nothing.
			log.Warn("memory write failed", "error", err)
			tracker.Fail(step, err)
		} else {
			tracker.Complete(step, nil)
			memoryUpdated = true
		}
	}

	if len(detail) == 0 {
		detail = nil
	}

	style := o.styles[agentUsed]
	reply := models.AgentReply{
		ResponseText: responseText,
		Emotion:      emotion,
		Agent:        string(agentUsed),
		AgentName:    style.Name,
		AgentIcon:    style.Icon,
		Metadata: models.ReplyMetadata{
			MemoryUpdated:    memoryUpdated,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			Confidence:       confidence,
			Trace:            tracker.Snapshot(),
			AgentsInvolved:   []string{string(primary), string(KindEmotion), string(KindMemory)},
			Detail:           detail,
		},
	}

	log.Info("turn orchestrated",
		"agent", string(agentUsed),
		"emotion", emotion,
		"memory_updated", memoryUpdated,
		"duration_ms", reply.Metadata.ProcessingTimeMs)

	return reply
}

func (o *Orchestrator) observe(op string, start time.Time, err error) {
	if o.collector == nil {
		return
	}
	if err != nil {
		o.collector.RecordError(op, time.Since(start))
		return
	}
	o.collector.RecordTiming(op, time.Since(start))
}

func opForKind(kind Kind) string {
	switch kind {
	case KindScheduler:
		return metrics.OpScheduler
	case KindDocs:
		return metrics.OpDocs
	case KindMemory:
		return metrics.OpMemory
	default:
		return metrics.OpChat
	}
}
