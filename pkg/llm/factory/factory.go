package factory

import (
	"context"
	"fmt"

	"enterprise-assistant-be/pkg/llm"
	"enterprise-assistant-be/pkg/llm/gemini"
	"enterprise-assistant-be/pkg/llm/ollama"
	"enterprise-assistant-be/pkg/llm/openai"
)

// Settings carries what any provider may need; unused fields are ignored.
type Settings struct {
	Provider string // "ollama", "openai", "groq", "gemini"
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(s.BaseURL, s.Model), nil
	case "openai":
		return openai.NewProvider(s.APIKey, s.BaseURL, s.Model), nil
	case "groq":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = openai.GroqBaseURL
		}
		return openai.NewProvider(s.APIKey, baseURL, s.Model), nil
	case "gemini":
		return gemini.NewProvider(ctx, s.APIKey, s.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
