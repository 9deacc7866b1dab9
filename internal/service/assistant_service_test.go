package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/internal/repository/contract"
	"enterprise-assistant-be/internal/repository/memory"
	"enterprise-assistant-be/pkg/assistant/action"
	"enterprise-assistant-be/pkg/assistant/answer"
	"enterprise-assistant-be/pkg/assistant/classifier"
	"enterprise-assistant-be/pkg/assistant/conversation"
	"enterprise-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier flags every message as the given decision except plain
// replies, which classify as queries.
type stubClassifier struct {
	decision classifier.Decision
}

func (s stubClassifier) Classify(_ context.Context, text string) classifier.Decision {
	if text == "yes" || text == "no" {
		return classifier.SafeDefault()
	}
	return s.decision
}

type stubAnswerer struct{}

func (stubAnswerer) Answer(context.Context, string) answer.Result {
	return answer.Result{Output: answer.OutOfDocuments}
}

type stubExecutor struct {
	mu    sync.Mutex
	calls int
}

func (e *stubExecutor) Execute(_ context.Context, category store.Category, _ string, _ store.Requester) action.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return action.Result{ID: "TICKET-1001", Status: action.TicketStatusSubmitted, Message: "created " + string(category)}
}

var itIssue = classifier.Decision{
	Type:           classifier.TypeIssue,
	Severity:       classifier.SeverityHigh,
	Category:       store.CategoryITIssue,
	RequiresAction: true,
}

// failingSaves fails the n-th Save call (1-based) and passes everything else through.
type failingSaves struct {
	contract.SessionRepository
	mu     sync.Mutex
	saves  int
	failOn int
}

func (f *failingSaves) Save(ctx context.Context, session *store.Session) error {
	f.mu.Lock()
	f.saves++
	fail := f.saves == f.failOn
	f.mu.Unlock()
	if fail {
		return errors.New("redis down")
	}
	return f.SessionRepository.Save(ctx, session)
}

func newAssistantService(decision classifier.Decision, exec *stubExecutor) IAssistantService {
	return newAssistantServiceWith(memory.NewSessionRepository(time.Hour, time.Minute), decision, exec)
}

func newAssistantServiceWith(sessions contract.SessionRepository, decision classifier.Decision, exec *stubExecutor) IAssistantService {
	log := logger.NewNopLogger()
	controller := conversation.NewController(stubClassifier{decision}, stubAnswerer{}, exec, nil, log)
	return NewAssistantService(sessions, controller, AssistantServiceConfig{
		LockTimeout:      time.Second,
		MaxMessageLength: 50,
	}, log)
}

func TestAssistantService_PendingActionSurvivesBetweenTurns(t *testing.T) {
	exec := &stubExecutor{}
	svc := newAssistantService(itIssue, exec)
	ctx := context.Background()

	first, err := svc.Invoke(ctx, "", "My laptop is broken", store.Requester{})
	require.NoError(t, err)
	require.NotEmpty(t, first.SessionId)
	assert.Equal(t, string(conversation.KindConfirmPrompt), first.Kind)
	require.NotNil(t, first.PendingAction)
	assert.Equal(t, "My laptop is broken", first.PendingAction.OriginalText)

	view, err := svc.GetSession(ctx, first.SessionId)
	require.NoError(t, err)
	require.NotNil(t, view.PendingAction)
	assert.Equal(t, "My laptop is broken", view.LastQuery)

	second, err := svc.Invoke(ctx, first.SessionId, "  YES ", store.Requester{})
	require.NoError(t, err)
	assert.Equal(t, string(conversation.KindAction), second.Kind)
	assert.Nil(t, second.PendingAction)
	require.NotNil(t, second.Action)
	assert.Equal(t, "TICKET-1001", second.Action.ID)
	assert.Equal(t, 1, exec.calls)
}

func TestAssistantService_RejectsEmptyAndOversizedMessages(t *testing.T) {
	svc := newAssistantService(classifier.SafeDefault(), &stubExecutor{})
	ctx := context.Background()

	_, err := svc.Invoke(ctx, "", "   ", store.Requester{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	long := make([]rune, 51)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Invoke(ctx, "", string(long), store.Requester{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssistantService_QueryKeepsNoPendingAction(t *testing.T) {
	svc := newAssistantService(classifier.SafeDefault(), &stubExecutor{})

	res, err := svc.Invoke(context.Background(), "", "What is the leave policy?", store.Requester{})
	require.NoError(t, err)
	assert.Equal(t, string(conversation.KindAnswer), res.Kind)
	assert.Equal(t, answer.OutOfDocuments, res.Output)
	assert.Nil(t, res.PendingAction)
}

func TestAssistantService_ConcurrentYesOnOneSessionExecutesOnce(t *testing.T) {
	exec := &stubExecutor{}
	svc := newAssistantService(itIssue, exec)
	ctx := context.Background()

	first, err := svc.Invoke(ctx, "", "VPN is down", store.Requester{})
	require.NoError(t, err)

	const replies = 8
	var wg sync.WaitGroup
	for i := 0; i < replies; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Invoke(ctx, first.SessionId, "yes", store.Requester{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Only the first yes finds a pending action; the rest are answered as queries.
	assert.Equal(t, 1, exec.calls)
}

func TestAssistantService_ResetAndCreateSession(t *testing.T) {
	svc := newAssistantService(itIssue, &stubExecutor{})
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, store.Requester{ID: "u-7"})
	require.NoError(t, err)

	_, err = svc.Invoke(ctx, created.SessionId, "Printer is on fire", store.Requester{})
	require.NoError(t, err)

	require.NoError(t, svc.ResetSession(ctx, created.SessionId))

	_, err = svc.GetSession(ctx, created.SessionId)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssistantService_FailedSaveNeverReplaysConfirmation(t *testing.T) {
	tests := []struct {
		name         string
		failOn       int
		wantYesErr   bool
		wantRetry    conversation.Kind
		wantExecuted int
	}{
		// Saves: 1 = confirm prompt, 2 = cleared slot before executing, 3 = end of turn.
		{"save before executing fails", 2, true, conversation.KindAction, 1},
		{"save after executing fails", 3, false, conversation.KindAnswer, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &stubExecutor{}
			sessions := &failingSaves{SessionRepository: memory.NewSessionRepository(time.Hour, time.Minute), failOn: tt.failOn}
			svc := newAssistantServiceWith(sessions, itIssue, exec)
			ctx := context.Background()

			first, err := svc.Invoke(ctx, "", "VPN is down", store.Requester{})
			require.NoError(t, err)

			yes, err := svc.Invoke(ctx, first.SessionId, "yes", store.Requester{})
			if tt.wantYesErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, string(conversation.KindAction), yes.Kind)
				assert.NotEmpty(t, yes.Output)
			}

			again, err := svc.Invoke(ctx, first.SessionId, "yes", store.Requester{})
			require.NoError(t, err)
			assert.Equal(t, string(tt.wantRetry), again.Kind)
			assert.Equal(t, tt.wantExecuted, exec.calls)
		})
	}
}

func TestAssistantService_BlankReplyWhilePendingIsReprompted(t *testing.T) {
	exec := &stubExecutor{}
	svc := newAssistantService(itIssue, exec)
	ctx := context.Background()

	first, err := svc.Invoke(ctx, "", "VPN is down", store.Requester{})
	require.NoError(t, err)

	res, err := svc.Invoke(ctx, first.SessionId, "   ", store.Requester{})
	require.NoError(t, err)
	assert.Equal(t, string(conversation.KindReprompt), res.Kind)
	assert.Equal(t, conversation.Reprompt, res.Output)
	require.NotNil(t, res.PendingAction)
	assert.Zero(t, exec.calls)
}

func TestAssistantService_PendingActionKeepsOriginalTextVerbatim(t *testing.T) {
	svc := newAssistantService(itIssue, &stubExecutor{})
	raw := "  My laptop is broken\n"

	res, err := svc.Invoke(context.Background(), "", raw, store.Requester{})
	require.NoError(t, err)
	require.NotNil(t, res.PendingAction)
	assert.Equal(t, raw, res.PendingAction.OriginalText)
}
