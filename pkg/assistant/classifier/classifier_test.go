package classifier

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"enterprise-assistant-be/pkg/llm"
	"enterprise-assistant-be/pkg/store"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply  string
	err    error
	delay  time.Duration
	calls  atomic.Int32
	prompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.calls.Add(1)
	f.prompt = prompt
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  Decision
	}{
		{
			name:  "it issue",
			reply: `{"type":"issue","severity":"high","category":"it_issue","requires_action":true,"has_abuse":false}`,
			want:  Decision{Type: TypeIssue, Severity: SeverityHigh, Category: store.CategoryITIssue, RequiresAction: true},
		},
		{
			name:  "hr meeting wrapped in a markdown fence",
			reply: "```json\n{\"type\":\"issue\",\"severity\":\"medium\",\"category\":\"hr_meeting\",\"requires_action\":true,\"has_abuse\":false}\n```",
			want:  Decision{Type: TypeIssue, Severity: SeverityMedium, Category: store.CategoryHRMeeting, RequiresAction: true},
		},
		{
			name:  "query with commentary",
			reply: `Here you go: {"type":"query","severity":"low","category":"policy_question","requires_action":false,"has_abuse":false} Thanks`,
			want:  Decision{Type: TypeQuery, Severity: SeverityLow, Category: store.CategoryPolicyQuestion},
		},
		{
			name:  "abuse flag kept independent of type",
			reply: `{"type":"query","severity":"low","category":"general_query","requires_action":false,"has_abuse":true}`,
			want:  Decision{Type: TypeQuery, Severity: SeverityLow, Category: store.CategoryGeneralQuery, HasAbuse: true},
		},
		{
			name:  "no braces",
			reply: "This is an IT issue.",
			want:  SafeDefault(),
		},
		{
			name:  "malformed json",
			reply: `{"type":"issue", requires_action: yes}`,
			want:  SafeDefault(),
		},
		{
			name:  "missing requires_action",
			reply: `{"type":"issue","severity":"high","category":"it_issue","has_abuse":false}`,
			want:  SafeDefault(),
		},
		{
			name:  "missing type",
			reply: `{"severity":"high","category":"it_issue","requires_action":true}`,
			want:  SafeDefault(),
		},
		{
			name:  "unknown type",
			reply: `{"type":"complaint","requires_action":true,"category":"it_issue"}`,
			want:  SafeDefault(),
		},
		{
			name:  "unknown severity and category normalised",
			reply: `{"type":"query","severity":"urgent","category":"banana","requires_action":false,"has_abuse":false}`,
			want:  SafeDefault(),
		},
		{
			name:  "actionable issue without a creatable category becomes a query",
			reply: `{"type":"issue","severity":"high","category":"policy_question","requires_action":true,"has_abuse":false}`,
			want:  Decision{Type: TypeQuery, Severity: SeverityHigh, Category: store.CategoryPolicyQuestion},
		},
		{
			name: "model error",
			err:  errors.New("rate limited"),
			want: SafeDefault(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeLLM{reply: tt.reply, err: tt.err}
			c := New(provider, nil, time.Second, nil)

			got := c.Classify(context.Background(), "My VPN keeps dropping")

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, int32(1), provider.calls.Load(), "exactly one model call")
		})
	}
}

func TestClassify_PromptEmbedsUserText(t *testing.T) {
	provider := &fakeLLM{reply: `{"type":"query","requires_action":false}`}
	New(provider, nil, time.Second, nil).Classify(context.Background(), "Can I book a meeting with HR?")

	assert.Contains(t, provider.prompt, "User input: Can I book a meeting with HR?")
}

func TestClassify_TimeoutYieldsSafeDefault(t *testing.T) {
	provider := &fakeLLM{
		reply: `{"type":"issue","category":"it_issue","requires_action":true}`,
		delay: time.Second,
	}
	c := New(provider, nil, 20*time.Millisecond, nil)

	start := time.Now()
	got := c.Classify(context.Background(), "printer on fire")

	assert.Equal(t, SafeDefault(), got)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestClassify_NilProvider(t *testing.T) {
	got := New(nil, nil, 0, nil).Classify(context.Background(), "hello")
	assert.Equal(t, SafeDefault(), got)
}

func TestDecision_NeedsConfirmation(t *testing.T) {
	d, ok := Parse(`{"type":"issue","category":"hr_meeting","requires_action":true}`)
	require.True(t, ok)
	assert.True(t, d.NeedsConfirmation())

	d, ok = Parse(`{"type":"issue","category":"it_issue","requires_action":false}`)
	require.True(t, ok)
	assert.False(t, d.NeedsConfirmation())

	assert.False(t, SafeDefault().NeedsConfirmation())
}
