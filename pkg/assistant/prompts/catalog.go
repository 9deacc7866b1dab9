// Package prompts holds the model instructions used by the assistant. The
// catalogue is YAML so rules can be reviewed and overridden without a rebuild.
package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Rule maps a kind of request onto a decision.
type Rule struct {
	Category       string `yaml:"category"`
	Type           string `yaml:"type"`
	RequiresAction bool   `yaml:"requires_action"`
	When           string `yaml:"when"`
}

type Classification struct {
	Preamble string `yaml:"preamble"`
	Rules    []Rule `yaml:"rules"`
	Abuse    string `yaml:"abuse"`
	Template string `yaml:"template"`
}

type Answer struct {
	Template string `yaml:"template"`
}

type Catalog struct {
	Classification Classification    `yaml:"classification"`
	Answer         Answer            `yaml:"answer"`
	Actions        map[string]string `yaml:"actions"`
}

// Default returns the catalogue compiled into the binary.
func Default() *Catalog {
	c, err := Parse(embeddedCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded prompt catalogue is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalogue from disk. An empty path yields Default.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt catalogue: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse prompt catalogue: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if !strings.Contains(c.Classification.Template, "{{query}}") {
		return fmt.Errorf("classification template must contain {{query}}")
	}
	if len(c.Classification.Rules) == 0 {
		return fmt.Errorf("classification needs at least one rule")
	}
	for _, placeholder := range []string{"{{context}}", "{{query}}"} {
		if !strings.Contains(c.Answer.Template, placeholder) {
			return fmt.Errorf("answer template must contain %s", placeholder)
		}
	}
	return nil
}

// ClassificationPrompt renders the instruction for one user message.
func (c *Catalog) ClassificationPrompt(userText string) string {
	var rules strings.Builder
	for i, r := range c.Classification.Rules {
		fmt.Fprintf(&rules, "%d. If %s -> type: %q, category: %q, requires_action: %t\n",
			i+1, r.When, r.Type, r.Category, r.RequiresAction)
	}

	return render(c.Classification.Template, map[string]string{
		"preamble": strings.TrimSpace(c.Classification.Preamble),
		"rules":    strings.TrimRight(rules.String(), "\n"),
		"abuse":    fmt.Sprintf("%d. %s", len(c.Classification.Rules)+1, c.Classification.Abuse),
		"query":    userText,
	})
}

// AnswerPrompt renders the grounded answering instruction.
func (c *Catalog) AnswerPrompt(context, query, outOfDocuments string) string {
	return render(c.Answer.Template, map[string]string{
		"context":          context,
		"query":            query,
		"out_of_documents": outOfDocuments,
	})
}

// ActionLabel describes what confirming an issue of this category will do.
func (c *Catalog) ActionLabel(category string) string {
	if label, ok := c.Actions[category]; ok && label != "" {
		return label
	}
	return "proceed with this request"
}

// render substitutes in a single pass so user text containing a
// placeholder is never expanded.
func render(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
