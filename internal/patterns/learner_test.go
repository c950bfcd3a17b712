package patterns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `/**
 * @file render.cpp
 * Terminal renderer internals.
 */

#include "render.h"

int frame_budget = 16; // Milliseconds per frame
uint32_t palette[256]; // Color lookup table
int retry_count = 3;   // Milliseconds per frame

// Reset the accumulator before the pass
for (int i = 0; i < n; i++) {
}

/* Draws one glyph cell. */
void draw_cell(int x, int y) {
}

/* Tile payload shared with the server. */
struct TilePacket {
};
`

func TestLearner_Classification(t *testing.T) {
	l := NewLearner()
	l.LearnFile("render.cpp", sampleSource)
	set := l.Result()

	t.Run("stats", func(t *testing.T) {
		assert.Equal(t, 1, set.Stats.FilesScanned)
		assert.GreaterOrEqual(t, set.Stats.CommentsFound, 6)
	})

	t.Run("header comment", func(t *testing.T) {
		require.NotEmpty(t, set.Header)
		assert.Contains(t, set.Header[0], "@file")
	})

	t.Run("variable comments keyed by base type", func(t *testing.T) {
		assert.Equal(t, []string{"Milliseconds per frame", "Milliseconds per frame"}, set.Variable["int"])
		assert.Equal(t, []string{"Color lookup table"}, set.Variable["uint32_t"])
	})

	t.Run("control flow comment keyed by keyword", func(t *testing.T) {
		assert.Equal(t, []string{"Reset the accumulator before the pass"}, set.ControlFlow["for"])
	})

	t.Run("function comment captures the signature", func(t *testing.T) {
		require.Len(t, set.Function, 1)
		assert.Equal(t, "/* Draws one glyph cell. */", set.Function[0].Comment)
		assert.Contains(t, set.Function[0].Signature, "draw_cell")
	})

	t.Run("struct comment", func(t *testing.T) {
		require.Len(t, set.DataStructures, 1)
		assert.Contains(t, set.DataStructures[0].Struct, "TilePacket")
	})
}

func TestSet_MostCommonVariableComment(t *testing.T) {
	set := NewSet()
	set.Variable["int"] = []string{"Counter", "Timer", "Counter"}

	comment, ok := set.MostCommonVariableComment("int")
	require.True(t, ok)
	assert.Equal(t, "Counter", comment)

	_, ok = set.MostCommonVariableComment("float")
	assert.False(t, ok)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	l := NewLearner()
	l.LearnFile("render.cpp", sampleSource)

	path := filepath.Join(t.TempDir(), "comment_patterns.json")
	require.NoError(t, Save(l.Result(), path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, l.Result(), loaded)
}

func TestLoad_RejectsMalformedFile(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("wrong shape fails schema validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wrong.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"header": "not an array"}`), 0o644))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation")
	})
}
