// Package classifier turns one user message into a routing decision with a
// single model call.
package classifier

import (
	"context"
	"strings"
	"time"

	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/pkg/assistant/prompts"
	"enterprise-assistant-be/pkg/jsonx"
	"enterprise-assistant-be/pkg/llm"
	"enterprise-assistant-be/pkg/store"
)

type Type string

const (
	TypeIssue Type = "issue"
	TypeQuery Type = "query"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Decision is always fully populated.
type Decision struct {
	Type           Type           `json:"type"`
	Severity       Severity       `json:"severity"`
	Category       store.Category `json:"category"`
	RequiresAction bool           `json:"requires_action"`
	HasAbuse       bool           `json:"has_abuse"`
}

// SafeDefault is substituted whenever the model output cannot be used.
func SafeDefault() Decision {
	return Decision{
		Type:     TypeQuery,
		Severity: SeverityLow,
		Category: store.CategoryGeneralQuery,
	}
}

// NeedsConfirmation reports whether the decision leads to the yes/no prompt.
func (d Decision) NeedsConfirmation() bool {
	return d.Type == TypeIssue && d.RequiresAction && d.Category.Actionable()
}

const DefaultTimeout = 20 * time.Second

type Classifier struct {
	provider llm.LLMProvider
	catalog  *prompts.Catalog
	timeout  time.Duration
	logger   logger.ILogger
}

func New(provider llm.LLMProvider, catalog *prompts.Catalog, timeout time.Duration, log logger.ILogger) *Classifier {
	if catalog == nil {
		catalog = prompts.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Classifier{provider: provider, catalog: catalog, timeout: timeout, logger: log}
}

// Classify calls the model exactly once. It never fails: model errors,
// timeouts and unusable output all yield SafeDefault.
func (c *Classifier) Classify(ctx context.Context, userText string) Decision {
	if c.provider == nil {
		return SafeDefault()
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.provider.Generate(callCtx, c.catalog.ClassificationPrompt(userText), llm.WithTemperature(0))
	if err != nil {
		c.logger.Warn(logger.ModuleClassifier, "Model call failed, using safe default", map[string]interface{}{
			"error": err.Error(),
		})
		return SafeDefault()
	}

	decision, ok := Parse(raw)
	if !ok {
		c.logger.Warn(logger.ModuleClassifier, "Unusable classification output, using safe default", map[string]interface{}{
			"raw": truncate(raw, 200),
		})
		return SafeDefault()
	}

	c.logger.Debug(logger.ModuleClassifier, "Message classified", map[string]interface{}{
		"type":            decision.Type,
		"category":        decision.Category,
		"requires_action": decision.RequiresAction,
		"has_abuse":       decision.HasAbuse,
	})
	return decision
}

// Parse extracts a decision from raw model output. ok is false when no JSON
// object is present, it does not decode, or type/requires_action are absent.
func Parse(raw string) (Decision, bool) {
	var out struct {
		Type           string `json:"type"`
		Severity       string `json:"severity"`
		Category       string `json:"category"`
		RequiresAction bool   `json:"requires_action"`
		HasAbuse       bool   `json:"has_abuse"`
	}

	present, err := jsonx.DecodeFields(raw, &out)
	if err != nil || !present["type"] || !present["requires_action"] {
		return SafeDefault(), false
	}

	d := Decision{
		Type:           Type(strings.ToLower(strings.TrimSpace(out.Type))),
		Severity:       Severity(strings.ToLower(strings.TrimSpace(out.Severity))),
		Category:       store.Category(strings.ToLower(strings.TrimSpace(out.Category))),
		RequiresAction: out.RequiresAction,
		HasAbuse:       out.HasAbuse,
	}

	if d.Type != TypeIssue && d.Type != TypeQuery {
		return SafeDefault(), false
	}

	switch d.Severity {
	case SeverityHigh, SeverityMedium, SeverityLow:
	default:
		d.Severity = SeverityLow
	}

	switch d.Category {
	case store.CategoryITIssue, store.CategoryHRMeeting, store.CategoryGeneralQuery, store.CategoryPolicyQuestion:
	default:
		d.Category = store.CategoryGeneralQuery
	}

	// An issue with nothing we can create is answered like a question.
	if d.Type == TypeIssue && d.RequiresAction && !d.Category.Actionable() {
		d.Type = TypeQuery
		d.RequiresAction = false
	}

	return d, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
