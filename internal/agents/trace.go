package agents

import (
	"sync"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/models"
)

// StepHandle identifies a started step within one Tracker.
type StepHandle int

// Tracker records the ordered execution timeline of one request. Safe
// for concurrent use by the fan-out goroutines of a single Handle call;
// discarded when the reply has been assembled.
//
// Invariant: every step that begins is eventually completed or failed.
// Snapshot is only meaningful once all scheduled steps have settled,
// which the orchestrator guarantees by joining every task first.
type Tracker struct {
	mu    sync.Mutex
	steps []models.TraceStep
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin records the start of a named step and returns its handle.
func (t *Tracker) Begin(name string) StepHandle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.steps = append(t.steps, models.TraceStep{
		Name:      name,
		Status:    models.StepStarted,
		StartedAt: time.Now(),
	})
	return StepHandle(len(t.steps) - 1)
}

// Complete marks a step as finished, with an optional confidence score.
func (t *Tracker) Complete(h StepHandle, confidence *float64) {
	t.settle(h, models.StepComplete, confidence, "")
}

// Fail marks a step as failed, recording the error text.
func (t *Tracker) Fail(h StepHandle, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	t.settle(h, models.StepError, nil, msg)
}

func (t *Tracker) settle(h StepHandle, status string, confidence *float64, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if h < 0 || int(h) >= len(t.steps) {
		return
	}

	step := &t.steps[int(h)]
	if step.Status != models.StepStarted {
		// Already terminal; first transition wins.
		return
	}

	step.Status = status
	step.DurationMs = time.Since(step.StartedAt).Milliseconds()
	step.Confidence = confidence
	step.Error = errMsg
}

// Snapshot returns a copy of the recorded steps in begin order.
func (t *Tracker) Snapshot() []models.TraceStep {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.TraceStep, len(t.steps))
	copy(out, t.steps)
	return out
}
