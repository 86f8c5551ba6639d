package taskgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/taskgen"
)

func TestGenerateMatchesKeywordsCaseInsensitively(t *testing.T) {
	g := taskgen.New()

	testCases := []struct {
		name     string
		prompt   string
		wantRule string
	}{
		{"plain keyword", "build a website for the bakery", "website"},
		{"uppercase prompt", "LAUNCH THE NEW LANDING PAGE", "website"},
		{"keyword mid-sentence", "we should plan the Q4 marketing push", "marketing"},
		{"event keyword", "organize a team workshop in May", "event"},
		{"research keyword", "competitive analysis of rivals", "report"},
		{"release keyword", "deploy v2 to production", "release"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.wantRule, g.MatchedRule(tc.prompt))
			tasks := g.Generate(tc.prompt)
			require.NotEmpty(t, tasks)
		})
	}
}

func TestGenerateFallbackBreakdown(t *testing.T) {
	g := taskgen.New()

	prompt := "reorganize the garage"
	require.Empty(t, g.MatchedRule(prompt))

	tasks := g.Generate(prompt)
	require.Len(t, tasks, 3)
	require.Equal(t, "Plan "+prompt, tasks[0].Title)
	require.True(t, strings.HasPrefix(tasks[1].Title, "Execute "))
	require.True(t, strings.HasPrefix(tasks[2].Title, "Review "))
}

func TestGenerateFallbackEmptyPrompt(t *testing.T) {
	tasks := taskgen.New().Generate("   ")
	require.Len(t, tasks, 3)
	require.Equal(t, "Plan the work", tasks[0].Title)
}

func TestGenerateReturnsIndependentCopies(t *testing.T) {
	g := taskgen.New()

	first := g.Generate("ship the release")
	first[0].Title = "mutated"

	second := g.Generate("ship the release")
	require.NotEqual(t, "mutated", second[0].Title, "callers must not share rule state")
}

func TestCustomRuleTable(t *testing.T) {
	g := taskgen.NewWithRules([]taskgen.Rule{
		{
			Name:     "garden",
			Keywords: []string{"garden", "plant"},
			Tasks:    []model.TemplateTask{{Title: "buy seeds", Priority: model.PriorityLow}},
		},
	})

	require.Equal(t, "garden", g.MatchedRule("plant tomatoes"))
	tasks := g.Generate("plant tomatoes")
	require.Len(t, tasks, 1)
	require.Equal(t, "buy seeds", tasks[0].Title)
}
