package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceAll_ReplacesContents(t *testing.T) {
	db := testDB(t)

	require.NoError(t, ReplaceAll(db, []widget{
		{Code: "a", Label: "alpha"},
		{Code: "b", Label: "beta"},
	}))
	assert.Equal(t, []string{"a", "b"}, persistedCodes(t, db))

	require.NoError(t, ReplaceAll(db, []widget{
		{Code: "c", Label: "gamma"},
	}))
	assert.Equal(t, []string{"c"}, persistedCodes(t, db))
}

func TestReplaceAll_EmptyInputWipesTable(t *testing.T) {
	db := testDB(t)

	require.NoError(t, ReplaceAll(db, []widget{{Code: "a", Label: "alpha"}}))
	require.NoError(t, ReplaceAll(db, []widget(nil)))
	assert.Empty(t, persistedCodes(t, db))
}

func TestReplaceAll_DeterministicContent(t *testing.T) {
	db := testDB(t)

	records := []widget{
		{Code: "a", Label: "alpha"},
		{Code: "b", Label: "beta"},
	}

	require.NoError(t, ReplaceAll(db, records))
	var first []widget
	require.NoError(t, db.Order("code").Find(&first).Error)

	require.NoError(t, ReplaceAll(db, records))
	var second []widget
	require.NoError(t, db.Order("code").Find(&second).Error)

	// Identity columns may differ, the table content may not.
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Code, second[i].Code)
		assert.Equal(t, first[i].Label, second[i].Label)
	}
}
