// Package taskgen derives task lists from a short free-text prompt.
// It is a deterministic rule table of keyword sets mapped to task
// blueprints, with a generic fallback, not language understanding.
package taskgen

import (
	"strings"

	"github.com/mtran/planhub/internal/model"
)

// Rule maps a keyword set to the task blueprints it produces. The
// first rule with any keyword appearing in the prompt wins.
type Rule struct {
	Name     string
	Keywords []string
	Tasks    []model.TemplateTask
}

// Generator matches prompts against its rule table.
type Generator struct {
	rules []Rule
}

// New creates a generator with the built-in rule table.
func New() *Generator {
	return &Generator{rules: defaultRules}
}

// NewWithRules creates a generator with a custom rule table.
func NewWithRules(rules []Rule) *Generator {
	return &Generator{rules: rules}
}

// Generate returns the task blueprints for the prompt: the first
// matching rule's tasks, or the generic fallback when nothing matches.
// Matching is case-insensitive substring over the whole prompt.
func (g *Generator) Generate(prompt string) []model.TemplateTask {
	lowered := strings.ToLower(prompt)

	for _, rule := range g.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return cloneTasks(rule.Tasks)
			}
		}
	}

	return fallbackTasks(prompt)
}

// MatchedRule returns the name of the rule the prompt would hit, or ""
// when the fallback applies. Useful for surfacing which template fired.
func (g *Generator) MatchedRule(prompt string) string {
	lowered := strings.ToLower(prompt)
	for _, rule := range g.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Name
			}
		}
	}
	return ""
}

// fallbackTasks derives a generic plan/execute/review breakdown from
// the prompt itself.
func fallbackTasks(prompt string) []model.TemplateTask {
	subject := strings.TrimSpace(prompt)
	if subject == "" {
		subject = "the work"
	}
	return []model.TemplateTask{
		{
			Title:          "Plan " + subject,
			Description:    "Break down scope and decide the approach.",
			Priority:       model.PriorityHigh,
			Effort:         2,
			EstimatedHours: 2,
		},
		{
			Title:          "Execute " + subject,
			Description:    "Do the main body of work.",
			Priority:       model.PriorityMedium,
			Effort:         3,
			EstimatedHours: 6,
		},
		{
			Title:          "Review " + subject,
			Description:    "Check results and tie off loose ends.",
			Priority:       model.PriorityMedium,
			Effort:         1,
			EstimatedHours: 1,
		},
	}
}

func cloneTasks(tasks []model.TemplateTask) []model.TemplateTask {
	out := make([]model.TemplateTask, len(tasks))
	copy(out, tasks)
	return out
}
