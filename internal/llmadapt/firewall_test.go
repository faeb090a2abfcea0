package llmadapt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/wikigen/internal/core"
)

func TestFirewall_PassesPlainEnglish(t *testing.T) {
	f := NewFirewall(0.01)
	assert.NoError(t, f.Check("This package parses configuration files and returns typed records."))
}

func TestFirewall_TripsOnForeignLanguageDrift(t *testing.T) {
	f := NewFirewall(0.01)
	err := f.Check("Этот файл отвечает за разбор конфигурации и возврат записей.")
	assert.ErrorIs(t, err, core.ErrFirewallTripped)
}

func TestFirewall_ToleratesDensityBelowThreshold(t *testing.T) {
	f := NewFirewall(0.15)
	// One accented word in a long English paragraph stays under 15%.
	text := strings.Repeat("plain english words here ", 20) + "café"
	assert.NoError(t, f.Check(text))
}

func TestFirewall_IgnoresCodeFences(t *testing.T) {
	f := NewFirewall(0.01)
	text := "The function prints a greeting.\n```go\nfmt.Println(\"日本語のリテラル文字列です\")\n```\nNothing else to note."
	assert.NoError(t, f.Check(text), "non-ASCII inside code fences is legitimate source content")
}

func TestFirewall_EmptyResponsePasses(t *testing.T) {
	f := NewFirewall(0.01)
	assert.NoError(t, f.Check(""))
}
