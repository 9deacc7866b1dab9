// Package conversation routes each user turn: it resolves a pending
// confirmation, or classifies the message and either asks for confirmation
// or answers from documents.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/pkg/assistant/action"
	"enterprise-assistant-be/pkg/assistant/answer"
	"enterprise-assistant-be/pkg/assistant/classifier"
	"enterprise-assistant-be/pkg/assistant/prompts"
	"enterprise-assistant-be/pkg/retrieval"
	"enterprise-assistant-be/pkg/store"
)

const (
	Refusal   = "I cannot assist with that request. Please keep our conversation professional and respectful."
	Reprompt  = "Please reply with **yes** or **no**."
	Cancelled = "Action cancelled. How else can I help?"
)

// Kind tells clients how to style a reply.
type Kind string

const (
	KindRefusal       Kind = "refusal"
	KindConfirmPrompt Kind = "confirm_prompt"
	KindReprompt      Kind = "reprompt"
	KindCancelled     Kind = "cancelled"
	KindAction        Kind = "action"
	KindAnswer        Kind = "answer"
)

type Reply struct {
	Output   string              `json:"output"`
	Kind     Kind                `json:"kind"`
	Action   *action.Result      `json:"action,omitempty"`
	Passages []retrieval.Passage `json:"passages,omitempty"`
}

type Classifier interface {
	Classify(ctx context.Context, userText string) classifier.Decision
}

type Answerer interface {
	Answer(ctx context.Context, query string) answer.Result
}

type Executor interface {
	Execute(ctx context.Context, category store.Category, description string, requester store.Requester) action.Result
}

type Controller struct {
	classifier Classifier
	answerer   Answerer
	executor   Executor
	catalog    *prompts.Catalog
	logger     logger.ILogger
	now        func() time.Time
}

func NewController(c Classifier, a Answerer, e Executor, catalog *prompts.Catalog, log logger.ILogger) *Controller {
	if catalog == nil {
		catalog = prompts.Default()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Controller{
		classifier: c,
		answerer:   a,
		executor:   e,
		catalog:    catalog,
		logger:     log,
		now:        time.Now,
	}
}

// HandleTurn processes one user message. The caller must serialise turns for
// the same session; session is mutated in place.
func (c *Controller) HandleTurn(ctx context.Context, session *store.Session, userText string, requester store.Requester) Reply {
	if session.HasPending() {
		return c.Resolve(ctx, session, userText, requester)
	}

	decision := c.classifier.Classify(ctx, userText)

	if decision.HasAbuse {
		c.logger.Info(logger.ModuleAssistant, "Refused abusive message", map[string]interface{}{"session_id": session.ID})
		return Reply{Output: Refusal, Kind: KindRefusal}
	}

	if decision.NeedsConfirmation() {
		session.SetPending(decision.Category, userText, c.now())
		return Reply{Output: c.confirmPrompt(decision.Category), Kind: KindConfirmPrompt}
	}

	res := c.answerer.Answer(ctx, userText)
	return Reply{Output: res.Output, Kind: KindAnswer, Passages: res.Passages}
}

func normalizeReply(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsConfirmation reports whether text answers a confirmation prompt, i.e.
// whether Resolve would clear the pending action.
func IsConfirmation(text string) bool {
	switch normalizeReply(text) {
	case "yes", "no":
		return true
	}
	return false
}

// Resolve handles the reply to a confirmation prompt without calling the model.
func (c *Controller) Resolve(ctx context.Context, session *store.Session, replyText string, requester store.Requester) Reply {
	switch normalizeReply(replyText) {
	case "yes":
		// Cleared before executing so a failed action cannot leave the
		// session stuck waiting for confirmation.
		pending := session.TakePending()
		res := c.executor.Execute(ctx, pending.Category, pending.OriginalText, requester)
		return Reply{Output: res.Message, Kind: KindAction, Action: &res}
	case "no":
		session.TakePending()
		return Reply{Output: Cancelled, Kind: KindCancelled}
	default:
		return Reply{Output: Reprompt, Kind: KindReprompt}
	}
}

func (c *Controller) confirmPrompt(category store.Category) string {
	return fmt.Sprintf("I detected this as an issue. Do you want me to %s?\n\nReply **yes** or **no**.",
		c.catalog.ActionLabel(string(category)))
}
