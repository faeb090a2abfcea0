package orchestrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/wikigen/internal/core"
)

func drain(ch <-chan ProgressEvent) []ProgressEvent {
	var out []ProgressEvent
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestProgressReporter_CoalescesToOnePerTenItems(t *testing.T) {
	broker := NewProgressBroker()
	events, cancel := broker.Subscribe()
	defer cancel()

	o := &Orchestrator{Progress: broker}
	r := o.startPhase(core.PhaseFiles, 25, "summarizing files")
	for i := 0; i < 25; i++ {
		r.item("file")
	}

	got := drain(events)
	// Phase start (step 0) + steps 10, 20 and the final 25.
	require.Len(t, got, 4)
	assert.Equal(t, 0, got[0].Step)
	assert.Equal(t, 10, got[1].Step)
	assert.Equal(t, 20, got[2].Step)
	assert.Equal(t, 25, got[3].Step)
	for _, ev := range got {
		assert.Equal(t, core.PhaseFiles, ev.Phase)
		assert.Equal(t, 25, ev.TotalSteps)
	}
}

func TestProgressReporter_StepsAreMonotonic(t *testing.T) {
	broker := NewProgressBroker()
	events, cancel := broker.Subscribe()
	defer cancel()

	o := &Orchestrator{Progress: broker}
	r := o.startPhase(core.PhaseDirectories, 40, "")
	for i := 0; i < 40; i++ {
		r.item("")
	}

	last := -1
	for _, ev := range drain(events) {
		assert.Greater(t, ev.Step, last)
		last = ev.Step
	}
}

func TestProgressBroker_SlowSubscriberNeverBlocksPublisher(t *testing.T) {
	broker := NewProgressBroker()
	_, cancel := broker.Subscribe() // never drained
	defer cancel()

	// Publishing far more events than the subscriber buffer holds must not
	// deadlock the pipeline.
	for i := 0; i < 1000; i++ {
		broker.publish(ProgressEvent{Phase: core.PhaseFiles, Step: i})
	}
}

func TestProgressBroker_NilBrokerIsSafe(t *testing.T) {
	o := &Orchestrator{} // no Progress attached
	r := o.startPhase(core.PhaseFiles, 5, "start")
	r.item("one")
	r.done("finished")
}

func TestProgressBroker_CancelClosesChannel(t *testing.T) {
	broker := NewProgressBroker()
	events, cancel := broker.Subscribe()
	cancel()

	_, open := <-events
	assert.False(t, open)

	// Publishing after cancellation must not panic on the closed channel.
	broker.publish(ProgressEvent{Phase: core.PhaseFiles})
}
