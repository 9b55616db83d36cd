package agents_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/maliksaad1/ai-surrogate/internal/agents"
	"github.com/maliksaad1/ai-surrogate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerTerminalStatuses(t *testing.T) {
	tr := agents.NewTracker()

	routing := tr.Begin("routing")
	tr.Complete(routing, nil)

	conf := 0.9
	chat := tr.Begin("chat.respond")
	tr.Complete(chat, &conf)

	failed := tr.Begin("docs.respond")
	tr.Fail(failed, errors.New("upstream timeout"))

	steps := tr.Snapshot()
	require.Len(t, steps, 3)

	assert.Equal(t, "routing", steps[0].Name)
	assert.Equal(t, models.StepComplete, steps[0].Status)

	assert.Equal(t, models.StepComplete, steps[1].Status)
	require.NotNil(t, steps[1].Confidence)
	assert.Equal(t, 0.9, *steps[1].Confidence)

	assert.Equal(t, models.StepError, steps[2].Status)
	assert.Equal(t, "upstream timeout", steps[2].Error)

	for _, step := range steps {
		assert.NotEqual(t, models.StepStarted, step.Status, "no dangling started steps")
		assert.False(t, step.StartedAt.IsZero())
	}
}

func TestTrackerFirstTransitionWins(t *testing.T) {
	tr := agents.NewTracker()

	h := tr.Begin("chat.respond")
	tr.Complete(h, nil)
	tr.Fail(h, errors.New("too late"))

	steps := tr.Snapshot()
	require.Len(t, steps, 1)
	assert.Equal(t, models.StepComplete, steps[0].Status)
	assert.Empty(t, steps[0].Error)
}

func TestTrackerIgnoresInvalidHandle(t *testing.T) {
	tr := agents.NewTracker()
	tr.Complete(agents.StepHandle(42), nil)
	tr.Fail(agents.StepHandle(-1), errors.New("nope"))
	assert.Empty(t, tr.Snapshot())
}

func TestTrackerConcurrentSteps(t *testing.T) {
	tr := agents.NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := tr.Begin("step")
			tr.Complete(h, nil)
		}()
	}
	wg.Wait()

	steps := tr.Snapshot()
	require.Len(t, steps, 20)
	for _, step := range steps {
		assert.Equal(t, models.StepComplete, step.Status)
	}
}

func TestTrackerSnapshotIsCopy(t *testing.T) {
	tr := agents.NewTracker()
	h := tr.Begin("routing")

	snap := tr.Snapshot()
	snap[0].Name = "mutated"

	tr.Complete(h, nil)
	steps := tr.Snapshot()
	assert.Equal(t, "routing", steps[0].Name)
}
