package embedding

import "fmt"

// NewProvider picks the embedding backend by name ("ollama" or "gemini").
// Jina lives in its own package and is selected by the bootstrap container.
func NewProvider(name, apiKey, baseURL, model string) (EmbeddingProvider, error) {
	switch name {
	case "ollama":
		return NewOllamaProvider(baseURL, model), nil
	case "gemini", "":
		return NewGeminiProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", name)
	}
}
