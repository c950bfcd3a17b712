package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Classification(t *testing.T) {
	tokens := Tokenize("static int count = 0x1F;")

	require.Len(t, tokens, 6)
	assert.Equal(t, Token{Kind: Keyword, Text: "static", Line: 1, Col: 1}, tokens[0])
	assert.Equal(t, Token{Kind: Keyword, Text: "int", Line: 1, Col: 8}, tokens[1])
	assert.Equal(t, Token{Kind: Identifier, Text: "count", Line: 1, Col: 12}, tokens[2])
	assert.Equal(t, Token{Kind: Operator, Text: "=", Line: 1, Col: 18}, tokens[3])
	assert.Equal(t, Token{Kind: Literal, Text: "0x1F", Line: 1, Col: 20}, tokens[4])
	assert.Equal(t, Token{Kind: Operator, Text: ";", Line: 1, Col: 24}, tokens[5])
}

func TestTokenize_Comments(t *testing.T) {
	t.Run("line comment produces no token", func(t *testing.T) {
		tokens := Tokenize("int a; // trailing note\nint b;")
		var texts []string
		for _, tok := range tokens {
			texts = append(texts, tok.Text)
		}
		assert.Equal(t, []string{"int", "a", ";", "int", "b", ";"}, texts)
		assert.Equal(t, 2, tokens[3].Line, "line tracking continues past the comment")
	})

	t.Run("block comment with newlines updates line tracking", func(t *testing.T) {
		tokens := Tokenize("/* one\ntwo\nthree */ int x;")
		require.NotEmpty(t, tokens)
		assert.Equal(t, "int", tokens[0].Text)
		assert.Equal(t, 3, tokens[0].Line)
	})

	t.Run("unterminated block comment consumes to end of input", func(t *testing.T) {
		tokens := Tokenize("int a; /* never closed")
		require.Len(t, tokens, 3)
	})
}

func TestTokenize_StringLiterals(t *testing.T) {
	t.Run("escapes stay inside the literal", func(t *testing.T) {
		tokens := Tokenize(`const char* s = "a \" b";`)
		require.Len(t, tokens, 7)
		assert.Equal(t, `"a \" b"`, tokens[5].Text)
		assert.Equal(t, Literal, tokens[5].Kind)
	})

	t.Run("escaped newline does not close the literal", func(t *testing.T) {
		tokens := Tokenize("\"ab\\\ncd\" x")
		require.Len(t, tokens, 2)
		assert.Equal(t, "\"ab\\\ncd\"", tokens[0].Text)
		assert.Equal(t, "x", tokens[1].Text)
	})

	t.Run("unterminated literal runs to end of input", func(t *testing.T) {
		tokens := Tokenize(`int a = "oops`)
		require.Len(t, tokens, 4)
		assert.Equal(t, `"oops`, tokens[3].Text)
	})

	t.Run("char literal", func(t *testing.T) {
		tokens := Tokenize(`char c = 'x';`)
		require.Len(t, tokens, 5)
		assert.Equal(t, `'x'`, tokens[3].Text)
	})
}

func TestTokenize_PermissiveNumbers(t *testing.T) {
	// Numeric scanning accepts any run of alphanumerics and dots; consumers
	// only substring-match literal text, never evaluate it.
	for _, lit := range []string{"1.2.3abc", "0xDEADbeef", "1e10f", "42u", "3.14"} {
		tokens := Tokenize(lit)
		require.Len(t, tokens, 1, lit)
		assert.Equal(t, Literal, tokens[0].Kind)
		assert.Equal(t, lit, tokens[0].Text)
	}
}

func TestTokenize_Operators(t *testing.T) {
	t.Run("multi-character operators are not merged", func(t *testing.T) {
		tokens := Tokenize("a << b == c")
		var texts []string
		for _, tok := range tokens {
			texts = append(texts, tok.Text)
		}
		assert.Equal(t, []string{"a", "<", "<", "b", "=", "=", "c"}, texts)
	})

	t.Run("lone slash is an operator", func(t *testing.T) {
		tokens := Tokenize("a / b")
		require.Len(t, tokens, 3)
		assert.Equal(t, Operator, tokens[1].Kind)
	})
}

func TestTokenize_UnclassifiableBytesSkipped(t *testing.T) {
	tokens := Tokenize("#include @ $ int x;")
	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	// '#', '@' and '$' are not in the operator set and vanish silently.
	assert.Equal(t, []string{"include", "int", "x", ";"}, texts)
}

func TestTokenize_NoEmptyTokens(t *testing.T) {
	inputs := []string{
		"",
		"   \t\n\r ",
		"int x = 10;",
		"\"unterminated",
		"/* unterminated",
		"\x00\x01\xff",
		"a+b-c*d/e%f",
	}
	for _, in := range inputs {
		for _, tok := range Tokenize(in) {
			assert.NotEmpty(t, tok.Text)
		}
	}
}

func TestTokenize_TextSlicesAppearInSourceOrder(t *testing.T) {
	// Every token text is an exact source slice; scanning forward through the
	// source must find each one past the previous, with only whitespace and
	// comments in the gaps.
	src := "int a = 10; /* gap */ float b = 2.5f; // tail\nchar c;"
	cursor := 0
	for _, tok := range Tokenize(src) {
		idx := strings.Index(src[cursor:], tok.Text)
		require.GreaterOrEqual(t, idx, 0, "token %q not found after offset %d", tok.Text, cursor)
		cursor += idx + len(tok.Text)
	}
}

func TestTokenize_PositionTracking(t *testing.T) {
	tokens := Tokenize("int a;\n  float b;")
	require.Len(t, tokens, 6)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 2, tokens[3].Line)
	assert.Equal(t, 3, tokens[3].Col, "indentation advances the column")
	assert.Equal(t, 9, tokens[4].Col)
}
