// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"context"
)

// GenerationRequest asks the job dispatcher to run (or re-run) the wiki
// generation pipeline for a repository. It is the async counterpart to a
// direct Orchestrator.Run call.
type GenerationRequest struct {
	RepoRoot string
	Force    bool
}

// JobDispatcher defines the contract for a system that can accept and queue
// background jobs for asynchronous processing. This interface decouples the
// request source (CLI, scheduled re-run, API) from the job execution
// mechanism.
type JobDispatcher interface {
	// Dispatch accepts a GenerationRequest and queues it for processing.
	// It returns an error if the job cannot be queued, for example, if the
	// queue is full, providing a mechanism for backpressure.
	Dispatch(ctx context.Context, req *GenerationRequest) error

	// Stop shuts the dispatcher down, draining in-flight jobs before
	// returning. Dispatch must not be called after Stop.
	Stop()
}

// Job represents a single, executable unit of work that can be processed by
// the application's job dispatcher. Each job is triggered by a
// GenerationRequest and performs a specific task, such as a full wiki
// generation run.
type Job interface {
	// Run executes the job's logic. It receives a context for managing its
	// lifecycle and a GenerationRequest containing the data needed to
	// perform its task. It returns an error if the job fails to complete
	// successfully.
	Run(ctx context.Context, req *GenerationRequest) error
}
