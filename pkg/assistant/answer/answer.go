// Package answer produces grounded answers from retrieved passages.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/pkg/assistant/prompts"
	"enterprise-assistant-be/pkg/llm"
	"enterprise-assistant-be/pkg/retrieval"
)

// Fixed user-facing messages. OutOfDocuments is matched byte for byte by
// clients, do not reword it.
const (
	OutOfDocuments       = "This question is OUT OF DOCUMENTS - I can only answer questions related to the provided enterprise documents."
	KnowledgeUnavailable = "Knowledge base unavailable."
	GenerationFailed     = "I could not generate an answer right now. Please try again later."
)

type CitationStyle string

const (
	// CitationPages relies on the model's [Page X] markers.
	CitationPages CitationStyle = "pages"
	// CitationSimple additionally appends a "Source: ..." line.
	CitationSimple CitationStyle = "simple"
)

type Config struct {
	K                int // passages requested from the provider
	TopN             int // passages placed in the prompt
	PassageCharLimit int
	RetrievalTimeout time.Duration
	LLMTimeout       time.Duration
	Citation         CitationStyle
}

func DefaultConfig() Config {
	return Config{
		K:                10,
		TopN:             3,
		PassageCharLimit: 1000,
		RetrievalTimeout: 10 * time.Second,
		LLMTimeout:       60 * time.Second,
		Citation:         CitationPages,
	}
}

type Result struct {
	Output   string              `json:"output"`
	Passages []retrieval.Passage `json:"passages,omitempty"`
}

type Synthesizer struct {
	retriever retrieval.Provider
	provider  llm.LLMProvider
	catalog   *prompts.Catalog
	cfg       Config
	logger    logger.ILogger
}

func New(retriever retrieval.Provider, provider llm.LLMProvider, catalog *prompts.Catalog, cfg Config, log logger.ILogger) *Synthesizer {
	def := DefaultConfig()
	if cfg.K <= 0 {
		cfg.K = def.K
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.PassageCharLimit <= 0 {
		cfg.PassageCharLimit = def.PassageCharLimit
	}
	if cfg.RetrievalTimeout <= 0 {
		cfg.RetrievalTimeout = def.RetrievalTimeout
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = def.LLMTimeout
	}
	if cfg.Citation == "" {
		cfg.Citation = def.Citation
	}
	if catalog == nil {
		catalog = prompts.Default()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Synthesizer{retriever: retriever, provider: provider, catalog: catalog, cfg: cfg, logger: log}
}

// Answer retrieves context for query and makes at most one model call.
func (s *Synthesizer) Answer(ctx context.Context, query string) Result {
	if s.retriever == nil {
		return Result{Output: KnowledgeUnavailable}
	}

	retrieveCtx, cancel := context.WithTimeout(ctx, s.cfg.RetrievalTimeout)
	passages, err := s.retriever.Search(retrieveCtx, query, s.cfg.K)
	cancel()
	if err != nil {
		level := s.logger.Error
		if errors.Is(err, retrieval.ErrUnavailable) {
			level = s.logger.Warn
		}
		level(logger.ModuleAnswer, "Retrieval failed", map[string]interface{}{"error": err.Error()})
		return Result{Output: KnowledgeUnavailable}
	}

	if len(passages) == 0 {
		return Result{Output: OutOfDocuments}
	}

	top := passages
	if len(top) > s.cfg.TopN {
		top = top[:s.cfg.TopN]
	}

	prompt := s.catalog.AnswerPrompt(BuildContext(top, s.cfg.PassageCharLimit), query, OutOfDocuments)

	if s.provider == nil {
		return Result{Output: GenerationFailed, Passages: top}
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.cfg.LLMTimeout)
	defer cancel()

	text, err := s.provider.Generate(llmCtx, prompt, llm.WithTemperature(0))
	if err != nil {
		s.logger.Error(logger.ModuleAnswer, "Answer generation failed", map[string]interface{}{
			"error":    err.Error(),
			"passages": len(top),
		})
		return Result{Output: GenerationFailed, Passages: top}
	}

	output := strings.TrimSpace(text)
	if s.cfg.Citation == CitationSimple && output != OutOfDocuments {
		output = fmt.Sprintf("%s\n\nSource: %s", output, Sources(top))
	}

	return Result{Output: output, Passages: top}
}

// BuildContext joins passages with page annotations, each cut to limit runes.
func BuildContext(passages []retrieval.Passage, limit int) string {
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		text := p.Text
		if r := []rune(text); limit > 0 && len(r) > limit {
			text = string(r[:limit])
		}
		parts = append(parts, fmt.Sprintf("[Page %s] %s", p.PageLabel(), strings.TrimSpace(text)))
	}
	return strings.Join(parts, "\n---\n")
}

// Sources lists distinct source ids in first-seen order.
func Sources(passages []retrieval.Passage) string {
	seen := make(map[string]bool, len(passages))
	var out []string
	for _, p := range passages {
		id := p.SourceID
		if id == "" {
			id = "Unknown"
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return strings.Join(out, ", ")
}
