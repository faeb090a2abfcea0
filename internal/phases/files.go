// Package phases implements the Files, Directories, Architecture, Overview
// and Workflows pipeline stages (C8): each phase renders a prompt from the
// upstream phase's output, calls the LLM client adapter, runs the response
// through the prompt firewall, and parses the structured markdown result
// back into a core type.
package phases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/llmadapt"
	"github.com/sevigo/wikigen/internal/summary"
)

// Deps bundles the collaborators every phase generator needs. A single
// instance is constructed by the orchestrator's composition root and shared
// across phases.
type Deps struct {
	Client   llmadapt.Caller
	Prompts  *llmadapt.PromptManager
	Firewall *llmadapt.Firewall
	Provider llmadapt.ModelProvider
	Timeout  time.Duration
	Logger   *slog.Logger
}

// reinforcedLanguageInstruction is appended to the prompt on the firewall's
// one retry attempt after a language-density violation.
const reinforcedLanguageInstruction = "\n\nIMPORTANT: respond only in English. Do not include any other language in your answer."

// generate renders key's template, calls the LLM, and runs the response
// through the prompt firewall (C4). A firewall violation gets exactly one
// reinforced retry; if the retry still trips the firewall the response is
// accepted as-is with a logged warning rather than failing the phase,
// matching the language-firewall disposition in the error taxonomy.
func (d *Deps) generate(ctx context.Context, key llmadapt.PromptKey, data any) (string, error) {
	prompt, err := d.Prompts.Render(key, d.Provider, data)
	if err != nil {
		return "", fmt.Errorf("could not render prompt %q: %w", key, err)
	}
	// Symmetric outbound check: a rendered prompt dominated by non-English
	// content would push the model off the target output language.
	if err := d.Firewall.Check(prompt); err != nil {
		d.logger().Warn("rendered prompt exceeds the non-ASCII density threshold", "prompt", key, "error", err)
	}
	resp, err := d.Client.Call(ctx, prompt, d.Timeout)
	if err != nil {
		return "", fmt.Errorf("generation failed for prompt %q: %w", key, err)
	}
	if err := d.Firewall.Check(resp); err != nil {
		d.logger().Warn("prompt firewall tripped, retrying with reinforced instruction", "prompt", key, "error", err)
		retryResp, retryErr := d.Client.Call(ctx, prompt+reinforcedLanguageInstruction, d.Timeout)
		if retryErr != nil {
			return "", fmt.Errorf("generation failed for prompt %q on firewall retry: %w", key, retryErr)
		}
		if err := d.Firewall.Check(retryResp); err != nil {
			d.logger().Warn("prompt firewall tripped again after reinforced retry, accepting response as-is", "prompt", key, "error", err)
		}
		return retryResp, nil
	}
	return resp, nil
}

// Generate exposes the render-call-firewall pipeline to other packages
// (the Synthesis builder issues its own LLM calls through it).
func (d *Deps) Generate(ctx context.Context, key llmadapt.PromptKey, data any) (string, error) {
	return d.generate(ctx, key, data)
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// fileSummaryPromptData is the template data for file_summary*.prompt.
type fileSummaryPromptData struct {
	Path               string
	Language           string
	ParseError         string
	Symbols            []core.ParsedSymbol
	Imports            []string
	Content            string
	CustomInstructions []string
	Notes              []string
}

// Files runs the Files phase (C8) for a single scanned file: it folds the
// Parser Registry's analysis and the file's raw content into a prompt,
// extracts the delimited metadata block from the model's response into a
// core.FileSummary, and keeps the remaining markdown as the file's wiki
// page. notes holds any developer corrections targeting this file; when
// empty the "Developer Corrections" prompt section is omitted entirely. A
// response with no extractable block never fails the phase: it is logged
// and downgraded to the fallback summary (purpose "Unknown", layer
// "utility") with the whole response kept as page content, per the
// Summary Schema & Parser's fallback contract.
func Files(ctx context.Context, d *Deps, file core.ScannedFile, analysis *core.AnalysisResult, content string, customInstructions []string, notes []string) (*core.GeneratedPage, *core.FileSummary, error) {
	data := fileSummaryPromptData{
		Path:               file.Path,
		Language:           analysis.Language,
		ParseError:         analysis.ParseError,
		Symbols:            analysis.Symbols,
		Imports:            analysis.Imports,
		Content:            content,
		CustomInstructions: customInstructions,
		Notes:              notes,
	}

	raw, err := d.generate(ctx, llmadapt.FileSummaryPrompt, data)
	if err != nil {
		return nil, nil, err
	}

	parsed, body, err := summary.ParseFile(raw)
	if err != nil {
		d.logger().Warn("malformed file summary output, using fallback", "file", file.Path, "error", err)
		parsed = &summary.File{Purpose: "Unknown", Layer: core.LayerUtility}
	}
	if strings.TrimSpace(body) == "" {
		body = parsed.Purpose
	}

	now := time.Now()
	page := &core.GeneratedPage{
		Kind:        core.PageKindFile,
		Target:      file.Path,
		Slug:        llmadapt.Slug(file.Path),
		Content:     body,
		WordCount:   core.WordCount(body),
		SourceHash:  file.ContentHash,
		GeneratedAt: now,
	}
	fileSummary := &core.FileSummary{
		Path:         file.Path,
		ContentHash:  file.ContentHash,
		Purpose:      parsed.Purpose,
		Layer:        parsed.Layer,
		KeySymbols:   analysis.Symbols,
		Dependencies: parsed.Dependencies,
		Pitfalls:     parsed.Pitfalls,
		GeneratedAt:  now,
	}
	return page, fileSummary, nil
}
