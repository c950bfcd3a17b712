package analysis

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdoc/internal/analyzer"
	"cdoc/internal/git"
	"cdoc/internal/storage"
)

func TestAffectedDeclarations(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "cdoc.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SaveDeclarations(ctx, "src/a.cpp", []analyzer.Declaration{
		{Name: "hit", Type: "int", Line: 5},
		{Name: "missed", Type: "int", Line: 20},
	}))

	changes := []git.ChangedFile{
		{Path: "src/a.cpp", ChangedLines: []int{4, 5, 6}},
		{Path: "src/untracked.cpp", ChangedLines: []int{1}},
		{Path: "src/deleted.cpp"},
	}

	report, err := AffectedDeclarations(ctx, store, changes)
	require.NoError(t, err)

	require.Len(t, report.Affected, 1)
	assert.Equal(t, "src/a.cpp", report.Affected[0].File)
	assert.Equal(t, "hit", report.Affected[0].Declaration.Name)
}
