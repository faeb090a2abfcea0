package llmadapt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/wikigen/internal/metrics"
)

// ErrorClass buckets an LLM call failure so callers (phase generators, the
// orchestrator's retry policy, the Q&A engine) can react differently to a
// transient network blip than to a malformed response or a cancellation.
type ErrorClass string

const (
	ErrorClassNone      ErrorClass = ""
	ErrorClassAuth      ErrorClass = "auth"
	ErrorClassRateLimit ErrorClass = "rate_limit"
	ErrorClassTransient ErrorClass = "transient"
	ErrorClassMalformed ErrorClass = "malformed_output"
	ErrorClassCancelled ErrorClass = "cancelled"
)

// CallError wraps an LLM call failure with its classification.
type CallError struct {
	Class ErrorClass
	Err   error
}

func (e *CallError) Error() string { return fmt.Sprintf("%s: %v", e.Class, e.Err) }
func (e *CallError) Unwrap() error { return e.Err }

// Caller is the narrow call surface the phase generators and the Q&A
// engine consume. *Client is the production implementation; tests
// substitute a canned-response fake.
type Caller interface {
	Call(ctx context.Context, prompt string, timeout time.Duration) (string, error)
}

// Default retry policy for rate-limited and transient failures. Auth
// errors, cancellations and malformed output are never retried.
const (
	defaultMaxAttempts = 3
	defaultBaseBackoff = 500 * time.Millisecond
)

// Client wraps a goframe llms.Model, adding call-timeout enforcement,
// error classification and exponential-backoff retries on top of the raw
// Call.
type Client struct {
	model       llms.Model
	logger      *slog.Logger
	maxAttempts int
	baseBackoff time.Duration
}

func NewClient(model llms.Model, logger *slog.Logger) *Client {
	return &Client{
		model:       model,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
		baseBackoff: defaultBaseBackoff,
	}
}

// NewModel constructs a goframe llms.Model for the given provider/model
// name pair, grounded on the teacher's provider-switch in
// ragService.getOrCreateLLM and app.createGeneratorLLM.
func NewModel(ctx context.Context, provider, modelName, ollamaHost, geminiAPIKey string) (llms.Model, error) {
	switch provider {
	case "gemini":
		return gemini.New(ctx, gemini.WithModel(modelName), gemini.WithAPIKey(geminiAPIKey))
	default:
		return ollama.New(ollama.WithServerURL(ollamaHost), ollama.WithModel(modelName))
	}
}

// Call invokes the model with a hard per-attempt timeout, classifying any
// failure and retrying rate-limited/transient errors with exponential
// backoff up to the configured attempt budget. The last classification is
// returned on exhaustion so callers can tell a skippable target apart
// from a run-fatal condition.
func (c *Client) Call(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts(); attempt++ {
		if attempt > 0 {
			backoff := c.baseBackoff << (attempt - 1)
			c.logger.Warn("retrying LLM call after backoff", "attempt", attempt+1, "backoff", backoff, "error", lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", &CallError{Class: ErrorClassCancelled, Err: ctx.Err()}
			}
		}

		resp, err := c.callOnce(ctx, prompt, timeout)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var callErr *CallError
		if !errors.As(err, &callErr) || !callErr.Retriable() {
			return "", err
		}
	}
	return "", lastErr
}

func (c *Client) attempts() int {
	if c.maxAttempts <= 0 {
		return 1
	}
	return c.maxAttempts
}

// Retriable reports whether the failure class is worth another attempt.
func (e *CallError) Retriable() bool {
	return e.Class == ErrorClassRateLimit || e.Class == ErrorClassTransient
}

func (c *Client) callOnce(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		resp string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		resp, err := c.model.Call(tctx, prompt)
		select {
		case resultCh <- result{resp, err}:
		case <-tctx.Done():
		}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			classified := classify(res.err)
			if ctx.Err() == nil && tctx.Err() != nil {
				// The per-attempt timeout, not the caller, ended this call.
				classified = &CallError{Class: ErrorClassTransient, Err: res.err}
			}
			var callErr *CallError
			if errors.As(classified, &callErr) {
				metrics.LLMCalls.WithLabelValues(string(callErr.Class)).Inc()
			}
			return "", classified
		}
		metrics.LLMCalls.WithLabelValues("ok").Inc()
		return res.resp, nil
	case <-tctx.Done():
		// A caller cancellation propagates; a per-attempt timeout is just a
		// transient failure subject to the retry policy.
		if ctx.Err() != nil {
			metrics.LLMCalls.WithLabelValues(string(ErrorClassCancelled)).Inc()
			return "", &CallError{Class: ErrorClassCancelled, Err: ctx.Err()}
		}
		metrics.LLMCalls.WithLabelValues(string(ErrorClassTransient)).Inc()
		return "", &CallError{Class: ErrorClassTransient, Err: tctx.Err()}
	}
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &CallError{Class: ErrorClassCancelled, Err: err}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "api key") || strings.Contains(msg, "401"):
		return &CallError{Class: ErrorClassAuth, Err: err}
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429") || strings.Contains(msg, "quota"):
		return &CallError{Class: ErrorClassRateLimit, Err: err}
	case strings.Contains(msg, "connection") || strings.Contains(msg, "timeout") || strings.Contains(msg, "eof"):
		return &CallError{Class: ErrorClassTransient, Err: err}
	default:
		return &CallError{Class: ErrorClassTransient, Err: err}
	}
}
