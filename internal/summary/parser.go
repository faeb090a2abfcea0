package summary

import (
	"bufio"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sevigo/wikigen/internal/core"
)

// File is the structured metadata extracted from a Files-phase response.
type File struct {
	Purpose      string
	Layer        core.Layer
	Dependencies []string
	Pitfalls     string
}

// ParseFile separates a Files-phase response into its structured metadata
// block and the remaining markdown page body (with the block removed). It
// is permissive: unknown keys are ignored, a scalar where a list was
// expected is coerced, and missing keys simply stay empty. It returns an
// error only when no delimited block could be located at all — callers
// then fall back to a default summary and keep the whole response as the
// page body.
func ParseFile(raw string) (*File, string, error) {
	fields, body, ok := extractBlock(raw)
	if !ok {
		return nil, raw, fmt.Errorf("no delimited metadata block found in response")
	}

	f := &File{
		Purpose:      scalar(fields, KeyPurpose),
		Layer:        core.CoerceLayer(scalar(fields, KeyLayer)),
		Dependencies: list(fields, KeyDependencies),
		Pitfalls:     scalar(fields, KeyPitfalls),
	}
	return f, body, nil
}

// Directory is the structured metadata extracted from a Directories-phase
// response.
type Directory struct {
	Purpose string
	Layer   string
}

// ParseDirectory separates a Directories-phase response into its metadata
// block and the page body, with the same permissive semantics as
// ParseFile.
func ParseDirectory(raw string) (*Directory, string, error) {
	fields, body, ok := extractBlock(raw)
	if !ok {
		return nil, raw, fmt.Errorf("no delimited metadata block found in response")
	}

	d := &Directory{
		Purpose: scalar(fields, KeyPurpose),
		Layer:   scalar(fields, KeyLayer),
	}
	return d, body, nil
}

// extractBlock locates the first pair of BlockDelimiter lines, parses the
// key/value body between them, and returns the response with the block
// (and its delimiters) removed. A response without a complete pair
// reports ok=false and is returned unmodified.
func extractBlock(raw string) (fields map[string][]string, body string, ok bool) {
	lines := strings.Split(raw, "\n")

	open := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == BlockDelimiter {
			open = i
			break
		}
	}
	if open < 0 {
		return nil, raw, false
	}
	closing := -1
	for i := open + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == BlockDelimiter {
			closing = i
			break
		}
	}
	if closing < 0 {
		return nil, raw, false
	}

	fields = parseKeyValues(lines[open+1 : closing])
	rest := append(append([]string{}, lines[:open]...), lines[closing+1:]...)
	body = strings.TrimSpace(strings.Join(rest, "\n"))
	return fields, body, true
}

// parseKeyValues reads a YAML-like key/value body line by line: "key:
// value" starts an entry, "- item" lines append to the most recent key.
// It never fails; unparseable lines are skipped.
func parseKeyValues(lines []string) map[string][]string {
	fields := make(map[string][]string)
	lastKey := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if item, isItem := strings.CutPrefix(trimmed, "- "); isItem {
			if lastKey != "" && strings.TrimSpace(item) != "" {
				fields[lastKey] = append(fields[lastKey], strings.TrimSpace(item))
			}
			continue
		}
		key, value, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		lastKey = key
		if v := strings.TrimSpace(value); v != "" {
			fields[key] = append(fields[key], v)
		} else if _, exists := fields[key]; !exists {
			fields[key] = nil
		}
	}
	return fields
}

func scalar(fields map[string][]string, key string) string {
	values := fields[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// list returns key's values, coercing a single comma-separated scalar
// into a list when the model flattened one.
func list(fields map[string][]string, key string) []string {
	values := fields[key]
	if len(values) == 1 && strings.Contains(values[0], ",") {
		var out []string
		for _, v := range strings.Split(values[0], ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	return values
}

// Citation points at the evidence span backing one claim in a Q&A answer.
type Citation struct {
	Path      string
	LineStart int
	LineEnd   int
}

// Answer is the parsed form of a Q&A engine response.
type Answer struct {
	Text      string
	Citations []Citation
}

// reCitation matches "- path/to/file.go:10-20" or "- path/to/file.go:10".
var reCitation = regexp.MustCompile(`^-\s+(.+?):(\d+)(?:-(\d+))?$`)

// ParseAnswer parses a Q&A engine markdown response into an Answer with
// its supporting citations. Like ParseFile/ParseDirectory it degrades
// gracefully: a response with no "# CITATIONS" section still yields an
// Answer with an empty Citations slice; the Q&A engine then cites its top
// retrieved paths instead.
func ParseAnswer(raw string) (*Answer, error) {
	const (
		stateNone = iota
		stateAnswer
		stateCitations
	)
	state := stateNone
	a := &Answer{}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, AnswerSectionAnswer):
			state = stateAnswer
			continue
		case strings.HasPrefix(line, AnswerSectionCitations):
			state = stateCitations
			continue
		}

		switch state {
		case stateAnswer:
			a.Text = appendLine(a.Text, line, trimmed)
		case stateCitations:
			if m := reCitation.FindStringSubmatch(trimmed); m != nil {
				start, _ := strconv.Atoi(m[2])
				end := start
				if m[3] != "" {
					end, _ = strconv.Atoi(m[3])
				}
				a.Citations = append(a.Citations, Citation{Path: m[1], LineStart: start, LineEnd: end})
			}
		}
	}
	a.Text = strings.TrimSpace(a.Text)

	if a.Text == "" {
		return nil, fmt.Errorf("failed to parse answer: no \"# ANSWER\" section found")
	}
	return a, nil
}

// SynthesisComponent is one entry of a Synthesis-phase LLM response's
// key_components array.
type SynthesisComponent struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Role  string `json:"role"`
	Layer string `json:"layer"`
}

// Synthesis is the parsed form of a Synthesis-builder LLM response: the
// structured JSON body the synthesis prompt instructs the model to emit,
// transport-agnostic per the Summary Schema's "delimited, permissively
// parsed" design (a JSON body is the variant used here, per §4.7/§9).
type Synthesis struct {
	KeyComponents   []SynthesisComponent `json:"key_components"`
	DependencyGraph map[string][]string  `json:"dependency_graph"`
	ProjectSummary  string               `json:"project_summary"`
}

// reJSONFence matches a ```json ... ``` or bare ``` ... ``` fenced block.
var reJSONFence = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n```")

// ParseSynthesis extracts and decodes the Synthesis phase's structured JSON
// response. It looks for the first fenced code block and falls back to
// treating the entire response as JSON when no fence is present, so a model
// that forgets the fence markers still parses. Unknown JSON keys are
// ignored by json.Unmarshal's normal behavior.
func ParseSynthesis(raw string) (*Synthesis, error) {
	body := strings.TrimSpace(raw)
	if m := reJSONFence.FindStringSubmatch(raw); m != nil {
		body = strings.TrimSpace(m[1])
	}

	var s Synthesis
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		return nil, fmt.Errorf("failed to parse synthesis response: %w", err)
	}
	return &s, nil
}

func appendLine(acc, line, trimmed string) string {
	if trimmed == "" && acc == "" {
		return acc
	}
	if acc != "" {
		acc += "\n"
	}
	return acc + line
}
