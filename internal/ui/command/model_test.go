package command_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/ui/command"
)

func TestSuggestFiltersByPrefix(t *testing.T) {
	all := command.Suggest("")
	require.Len(t, all, 10)
	require.Equal(t, "new task", all[0].Name)

	p := command.Suggest("p")
	require.Len(t, p, 2)
	require.Equal(t, "projects", p[0].Name)
	require.Equal(t, "planner", p[1].Name)

	require.Empty(t, command.Suggest("archive"))
}

func TestSuggestIgnoresCaseAndPadding(t *testing.T) {
	got := command.Suggest("  Dig ")
	require.Len(t, got, 1)
	require.Equal(t, "digest", got[0].Name)
}

func TestCompleteNeedsASingleMatch(t *testing.T) {
	got, ok := command.Complete("dig")
	require.True(t, ok)
	require.Equal(t, "digest", got)

	_, ok = command.Complete("p")
	require.False(t, ok, "ambiguous prefix must not complete")

	_, ok = command.Complete("")
	require.False(t, ok)

	got, ok = command.Complete("quit")
	require.True(t, ok)
	require.Equal(t, "quit", got)
}
