package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  AIConfig
		wantErr bool
	}{
		{
			name:    "no comparison models is valid",
			config:  AIConfig{},
			wantErr: false,
		},
		{
			name:    "distinct comparison models are valid",
			config:  AIConfig{ComparisonModels: []string{"gemini-1.5-pro", "deepseek-chat"}},
			wantErr: false,
		},
		{
			name: "more than ten comparison models is rejected",
			config: AIConfig{ComparisonModels: []string{
				"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9", "m10", "m11",
			}},
			wantErr: true,
		},
		{
			name:    "duplicate comparison models are rejected",
			config:  AIConfig{ComparisonModels: []string{"gemini-pro", "gemini-pro"}},
			wantErr: true,
		},
		{
			name:    "blank comparison model names are rejected",
			config:  AIConfig{ComparisonModels: []string{"gemini-pro", "  "}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_ValidateForCLI_RequiresGeminiKey(t *testing.T) {
	cfg := &Config{AI: AIConfig{LLMProvider: "gemini"}}
	assert.Error(t, cfg.ValidateForCLI())

	cfg.AI.GeminiAPIKey = "key"
	assert.NoError(t, cfg.ValidateForCLI())

	ollamaCfg := &Config{AI: AIConfig{LLMProvider: "ollama", EmbedderProvider: "ollama"}}
	assert.NoError(t, ollamaCfg.ValidateForCLI())
}

func TestDBConfig_GetDSN(t *testing.T) {
	cfg := DBConfig{
		Host: "localhost", Port: 5432, Username: "postgres",
		Password: "secret", Database: "wikigen", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=wikigen sslmode=disable",
		cfg.GetDSN())
}
