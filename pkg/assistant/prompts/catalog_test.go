package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	require.Len(t, c.Classification.Rules, 4)
	assert.Equal(t, "create an IT ticket", c.ActionLabel("it_issue"))
	assert.Equal(t, "schedule an HR meeting", c.ActionLabel("hr_meeting"))
	assert.Equal(t, "proceed with this request", c.ActionLabel("general_query"))
}

func TestClassificationPrompt(t *testing.T) {
	prompt := Default().ClassificationPrompt("My laptop screen is flickering")

	assert.Contains(t, prompt, "User input: My laptop screen is flickering")
	assert.Contains(t, prompt, `category: "hr_meeting"`)
	assert.Contains(t, prompt, `category: "it_issue"`)
	assert.Contains(t, prompt, "5. Check for abusive language")
	assert.Contains(t, prompt, `"requires_action":true|false`)
	assert.NotContains(t, prompt, "{{")
}

func TestClassificationPrompt_DoesNotExpandUserPlaceholders(t *testing.T) {
	prompt := Default().ClassificationPrompt("what is {{rules}}?")
	assert.Contains(t, prompt, "User input: what is {{rules}}?")
}

func TestAnswerPrompt(t *testing.T) {
	prompt := Default().AnswerPrompt("[Page 2] Leave is 20 days.", "How much leave?", "OUT")

	assert.Contains(t, prompt, "[Page 2] Leave is 20 days.")
	assert.Contains(t, prompt, "Question: How much leave?")
	assert.Contains(t, prompt, "\"OUT\"")
	assert.Contains(t, prompt, "[Page X]")
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "classification: [unclosed"},
		{"missing query placeholder", "classification:\n  template: hi\n  rules: [{category: it_issue}]\nanswer:\n  template: '{{context}} {{query}}'\n"},
		{"no rules", "classification:\n  template: '{{query}}'\nanswer:\n  template: '{{context}} {{query}}'\n"},
		{"answer without context", "classification:\n  template: '{{query}}'\n  rules: [{category: it_issue}]\nanswer:\n  template: '{{query}}'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	c, err := LoadFile("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Classification.Template)

	path := filepath.Join(t.TempDir(), "prompts.yaml")
	custom := "classification:\n  template: 'classify {{query}}'\n  rules: [{category: it_issue, type: issue, requires_action: true, when: broken}]\nanswer:\n  template: '{{context}} / {{query}}'\nactions:\n  it_issue: open a ticket\n"
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))

	c, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "open a ticket", c.ActionLabel("it_issue"))
	assert.Equal(t, "classify hello", c.ClassificationPrompt("hello"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
