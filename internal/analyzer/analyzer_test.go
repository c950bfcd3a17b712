package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdoc/internal/lexer"
)

func TestAnalyze_SimpleDeclaration(t *testing.T) {
	decls := Analyze("int x = 10;")

	require.Len(t, decls, 1)
	assert.Equal(t, Declaration{
		Name:        "x",
		Type:        "int",
		Initializer: "10",
		Line:        1,
	}, decls[0])
}

func TestAnalyze_Modifiers(t *testing.T) {
	decls := Analyze("static const float kEpsilon = 0.001;")

	require.Len(t, decls, 1)
	assert.True(t, decls[0].IsStatic)
	assert.True(t, decls[0].IsConst)
	assert.Equal(t, "float", decls[0].Type)
	assert.Equal(t, "0.001", decls[0].Initializer)
}

func TestAnalyze_SignQualifiersJoinType(t *testing.T) {
	decls := Analyze("void f() { if (true) { unsigned int count = 0; } }")

	require.Len(t, decls, 1)
	assert.Equal(t, "count", decls[0].Name)
	assert.Equal(t, "unsigned int", decls[0].Type)
	assert.False(t, decls[0].IsStatic)
	assert.False(t, decls[0].IsConst)
}

func TestAnalyze_PointersAndReferences(t *testing.T) {
	t.Run("single pointer", func(t *testing.T) {
		decls := Analyze("char* name;")
		require.Len(t, decls, 1)
		assert.Equal(t, "char*", decls[0].Type)
	})

	t.Run("multi-level and mixed sigils", func(t *testing.T) {
		decls := Analyze("int** pp; float*& rp;")
		require.Len(t, decls, 2)
		assert.Equal(t, "int**", decls[0].Type)
		assert.Equal(t, "float*&", decls[1].Type)
	})
}

func TestAnalyze_ArraySuffix(t *testing.T) {
	t.Run("size expression is discarded", func(t *testing.T) {
		decls := Analyze("uint8_t buffer[16];")
		require.Len(t, decls, 1)
		assert.Equal(t, "uint8_t[]", decls[0].Type)
		assert.Equal(t, "", decls[0].Initializer)
	})

	t.Run("unclosed bracket aborts without a declaration", func(t *testing.T) {
		decls := Analyze("uint8_t buffer[16")
		assert.Empty(t, decls)
	})
}

func TestAnalyze_Initializers(t *testing.T) {
	t.Run("tokens are space-joined", func(t *testing.T) {
		decls := Analyze("int mask = FLAG_A | FLAG_B;")
		require.Len(t, decls, 1)
		assert.Equal(t, "FLAG_A | FLAG_B", decls[0].Initializer)
	})

	t.Run("capture stops at comma", func(t *testing.T) {
		decls := Analyze("int a = 1, b = 2;")
		require.Len(t, decls, 1)
		assert.Equal(t, "a", decls[0].Name)
		assert.Equal(t, "1", decls[0].Initializer)
	})

	t.Run("missing terminator rejects the whole match", func(t *testing.T) {
		decls := Analyze("int x = 10")
		assert.Empty(t, decls)
	})
}

func TestAnalyze_ScopeResilience(t *testing.T) {
	t.Run("stray closing brace is ignored", func(t *testing.T) {
		decls := Analyze("} int after = 1;")
		require.Len(t, decls, 1)
		assert.Equal(t, "after", decls[0].Name)
	})

	t.Run("deep nesting does not crash", func(t *testing.T) {
		depth := 5000
		src := strings.Repeat("{", depth) + " int deep = 1; " + strings.Repeat("}", depth)
		decls := Analyze(src)
		require.Len(t, decls, 1)
		assert.Equal(t, "deep", decls[0].Name)
	})
}

func TestAnalyze_NonDeclarations(t *testing.T) {
	t.Run("function call extracts nothing", func(t *testing.T) {
		assert.Empty(t, Analyze("foo(bar);"))
	})

	t.Run("control flow extracts nothing", func(t *testing.T) {
		assert.Empty(t, Analyze("if (a < b) { foo(); }"))
	})

	t.Run("failed match leaves later declarations intact", func(t *testing.T) {
		decls := Analyze("garbage !! ~~ ;;; int ok = 5;")
		require.Len(t, decls, 1)
		assert.Equal(t, "ok", decls[0].Name)
	})
}

func TestAnalyze_ScopeMembership(t *testing.T) {
	src := `
int global_var = 10;
void main() {
	static float kEpsilon = 0.001;
	if (true) {
		unsigned int count = 0;
	}
}
`
	ext := NewExtractor(lexer.Tokenize(src))
	decls := ext.Extract()

	require.Len(t, decls, 3)
	assert.Equal(t, "global_var", decls[0].Name)
	assert.Equal(t, "kEpsilon", decls[1].Name)
	assert.Equal(t, "count", decls[2].Name)

	// Only the global scope survives the pass; nested facts surface through
	// the flat list, not a scope tree.
	require.Len(t, ext.scopes, 1)
	require.Len(t, ext.scopes[0].Declarations, 1)
	assert.Equal(t, "global_var", ext.scopes[0].Declarations[0].Name)
}

func TestAnalyze_Idempotent(t *testing.T) {
	src := "static int a = 1; void f() { const char* s = \"x\"; }"
	first := Analyze(src)
	second := Analyze(src)
	assert.Equal(t, first, second)
}

func TestAnalyze_LineNumbers(t *testing.T) {
	decls := Analyze("int a;\n\nfloat b = 1.5f;")
	require.Len(t, decls, 2)
	assert.Equal(t, 1, decls[0].Line)
	assert.Equal(t, 3, decls[1].Line)
}
