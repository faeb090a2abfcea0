package llmadapt

import (
	"unicode"

	"github.com/sevigo/wikigen/internal/core"
)

// Firewall guards against a model drifting into a language the prompt
// never asked for (a known failure mode of small local models under
// Ollama): it measures the fraction of non-ASCII runes in a response and
// trips when that ratio exceeds the configured threshold, 1% by default.
type Firewall struct {
	maxNonASCIIRatio float64
}

func NewFirewall(maxNonASCIIRatio float64) *Firewall {
	if maxNonASCIIRatio <= 0 {
		maxNonASCIIRatio = 0.01
	}
	return &Firewall{maxNonASCIIRatio: maxNonASCIIRatio}
}

// Check returns core.ErrFirewallTripped when text's non-ASCII rune density
// exceeds the configured threshold. Code fences are excluded from the
// measurement since source snippets legitimately contain non-ASCII
// literals and comments.
func (f *Firewall) Check(text string) error {
	total, nonASCII := 0, 0
	inFence := false
	for _, line := range splitLines(text) {
		if isFenceDelimiter(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, r := range line {
			if unicode.IsSpace(r) {
				continue
			}
			total++
			if r > unicode.MaxASCII {
				nonASCII++
			}
		}
	}
	if total == 0 {
		return nil
	}
	if float64(nonASCII)/float64(total) > f.maxNonASCIIRatio {
		return core.ErrFirewallTripped
	}
	return nil
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i, r := range text {
		if r == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	lines = append(lines, text[start:])
	return lines
}

func isFenceDelimiter(line string) bool {
	trimmed := 0
	for trimmed < len(line) && line[trimmed] == ' ' {
		trimmed++
	}
	return len(line)-trimmed >= 3 && line[trimmed:trimmed+3] == "```"
}
