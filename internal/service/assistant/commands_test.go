package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func noopHandler(context.Context, string) error { return nil }

func testTable() []Category {
	return []Category{
		{Key: "auxilio", Phrases: []string{"auxilio", "socorro"}, Handler: noopHandler},
		{Key: "hora", Phrases: []string{"qué hora es"}, Handler: noopHandler},
	}
}

func TestBuildCommandTableExtendsBuiltinCategory(t *testing.T) {
	t.Parallel()

	table := buildCommandTable(testTable(), map[string][]string{
		"hora": {"dime la hora por favor"},
	})

	require.Len(t, table, 2)
	require.Equal(t, []string{"qué hora es", "dime la hora por favor"}, table[1].Phrases)
	require.NotNil(t, table[1].Handler, "extension keeps the built-in handler")
}

func TestBuildCommandTableDoesNotMutateBuiltins(t *testing.T) {
	t.Parallel()

	builtins := testTable()
	buildCommandTable(builtins, map[string][]string{"hora": {"extra"}})

	require.Equal(t, []string{"qué hora es"}, builtins[1].Phrases)
}

func TestBuildCommandTableAppendsUnknownKeysSorted(t *testing.T) {
	t.Parallel()

	table := buildCommandTable(testTable(), map[string][]string{
		"zeta":  {"frase zeta"},
		"alfa":  {"frase alfa"},
		"medio": {"frase medio"},
	})

	require.Len(t, table, 5)
	require.Equal(t, "alfa", table[2].Key)
	require.Equal(t, "medio", table[3].Key)
	require.Equal(t, "zeta", table[4].Key)
}

func TestMatchCategoryFirstTableOrderWins(t *testing.T) {
	t.Parallel()

	table := testTable()

	// Both categories match; the earlier one wins.
	category, ok := matchCategory(table, "socorro qué hora es")

	require.True(t, ok)
	require.Equal(t, "auxilio", category.Key)
}

func TestMatchCategorySubstringContainment(t *testing.T) {
	t.Parallel()

	category, ok := matchCategory(testTable(), "oye, ¿me dices qué hora es ahora mismo?")

	require.True(t, ok)
	require.Equal(t, "hora", category.Key)
}

func TestMatchCategoryIsCaseSensitive(t *testing.T) {
	t.Parallel()

	_, ok := matchCategory(testTable(), "SOCORRO")

	require.False(t, ok)
}

func TestMatchCategoryEmptyUtterance(t *testing.T) {
	t.Parallel()

	_, ok := matchCategory(testTable(), "")

	require.False(t, ok)
}

func TestBuiltinTablePanicCategoryComesFirst(t *testing.T) {
	t.Parallel()

	f := newFixture()

	require.Equal(t, "auxilio", f.session.table[0].Key)
}
