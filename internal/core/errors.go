package core

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrEvidenceGate is returned by the Q&A engine in gated mode when fewer
	// than two retrieved results clear the minimum relevance threshold.
	ErrEvidenceGate = errors.New("insufficient grounded evidence to answer")

	// ErrRunInProgress is returned when a generation run is requested for
	// a repository that already holds the generation lock.
	ErrRunInProgress = errors.New("a generation run is already in progress for this repository")

	// ErrFirewallTripped is returned by the prompt firewall when a text
	// fails the language-density check.
	ErrFirewallTripped = errors.New("model response failed the prompt firewall")
)
