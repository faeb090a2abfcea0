package orchestrate

import (
	"sync"

	"github.com/sevigo/wikigen/internal/core"
)

// ProgressEvent is one update on a generation run's event stream.
type ProgressEvent struct {
	Phase      core.Phase `json:"phase"`
	Step       int        `json:"step"`
	TotalSteps int        `json:"total_steps"`
	Message    string     `json:"message"`
}

// progressCoalesceEvery caps the event rate within a phase: at most one
// event per this many completed items, plus the final item.
const progressCoalesceEvery = 10

// ProgressBroker fans ProgressEvents out to any number of subscribers (the
// CLI's live status line, the HTTP SSE endpoint). Publishing never blocks:
// a subscriber that stops draining its channel misses events rather than
// stalling the pipeline.
type ProgressBroker struct {
	mu   sync.Mutex
	subs map[chan ProgressEvent]struct{}
}

func NewProgressBroker() *ProgressBroker {
	return &ProgressBroker{subs: make(map[chan ProgressEvent]struct{})}
}

// Subscribe registers a new consumer. The returned cancel func must be
// called when the consumer is done; it closes the channel.
func (b *ProgressBroker) Subscribe() (<-chan ProgressEvent, func()) {
	ch := make(chan ProgressEvent, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
}

func (b *ProgressBroker) publish(ev ProgressEvent) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// progressReporter tracks one phase's step counter and emits coalesced
// events: the phase-start announcement, then one event per
// progressCoalesceEvery completed items, then the completion event. Safe
// for use from the fan-out goroutines within a phase; emitted steps are
// monotonic.
type progressReporter struct {
	broker *ProgressBroker
	phase  core.Phase
	total  int

	mu   sync.Mutex
	step int
}

func (o *Orchestrator) startPhase(phase core.Phase, total int, message string) *progressReporter {
	r := &progressReporter{broker: o.Progress, phase: phase, total: total}
	r.broker.publish(ProgressEvent{Phase: phase, Step: 0, TotalSteps: total, Message: message})
	return r
}

// item records one completed unit of work and emits an event when the
// counter crosses a coalescing boundary or finishes the phase.
func (r *progressReporter) item(message string) {
	r.mu.Lock()
	r.step++
	step := r.step
	r.mu.Unlock()

	if step%progressCoalesceEvery == 0 || step == r.total {
		r.broker.publish(ProgressEvent{Phase: r.phase, Step: step, TotalSteps: r.total, Message: message})
	}
}

// done emits a final event for phases whose work is a single indivisible
// unit (synthesis, architecture) or that were skipped entirely.
func (r *progressReporter) done(message string) {
	r.mu.Lock()
	step := r.step
	r.mu.Unlock()
	r.broker.publish(ProgressEvent{Phase: r.phase, Step: step, TotalSteps: r.total, Message: message})
}
