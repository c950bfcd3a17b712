// Package lexer converts raw C/C++ source text into a flat stream of
// classified tokens. It is deliberately forgiving: bytes it cannot classify
// are skipped, unterminated literals and comments run to end of input, and no
// input ever produces an error. Downstream consumers are heuristic and prefer
// noisy output over no output.
package lexer

// Lexer scans a single in-memory source buffer. One pass, linear time.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize scans the whole buffer and returns the token sequence.
// Whitespace and comments are consumed without producing tokens.
func Tokenize(src string) []Token {
	return New(src).Tokenize()
}

// Tokenize runs the scan. Calling it twice on the same Lexer returns an empty
// slice the second time; use the package-level Tokenize for one-shot use.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			if c == '\n' {
				l.line++
				l.col = 1
			} else {
				l.col++
			}
			l.pos++
		case isIdentStart(c):
			tokens = append(tokens, l.scanWord())
		case isDigit(c):
			tokens = append(tokens, l.scanNumber())
		case c == '"' || c == '\'':
			tokens = append(tokens, l.scanQuoted(c))
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			l.skipLineComment()
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			l.skipBlockComment()
		case operatorChars[c]:
			tokens = append(tokens, Token{Kind: Operator, Text: l.src[l.pos : l.pos+1], Line: l.line, Col: l.col})
			l.pos++
			l.col++
		default:
			// Unclassifiable byte: skip silently.
			l.pos++
			l.col++
		}
	}
	return tokens
}

// scanWord consumes [A-Za-z_][A-Za-z0-9_]* and classifies it against the
// reserved-word set.
func (l *Lexer) scanWord() Token {
	start, line, col := l.pos, l.line, l.col
	l.pos++
	l.col++
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
		l.col++
	}
	text := l.src[start:l.pos]
	kind := Identifier
	if keywords[text] {
		kind = Keyword
	}
	return Token{Kind: kind, Text: text, Line: line, Col: col}
}

// scanNumber consumes a digit followed by a maximal run of alphanumerics and
// dots. Hex prefixes, suffixes like f/u/L and exponents all land in one
// Literal without any well-formedness check; consumers only substring-match
// literal text.
func (l *Lexer) scanNumber() Token {
	start, line, col := l.pos, l.line, l.col
	for l.pos < len(l.src) && (isAlnum(l.src[l.pos]) || l.src[l.pos] == '.') {
		l.pos++
		l.col++
	}
	return Token{Kind: Literal, Text: l.src[start:l.pos], Line: line, Col: col}
}

// scanQuoted consumes a string or char literal delimited by quote. A
// backslash skips the next character, newline included. Unterminated
// literals run to end of input.
func (l *Lexer) scanQuoted(quote byte) Token {
	start, line, col := l.pos, l.line, l.col
	l.pos++
	l.col++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' {
			l.pos += 2
			l.col += 2
			continue
		}
		if c == quote {
			l.pos++
			l.col++
			break
		}
		if c == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
	if l.pos > len(l.src) {
		l.pos = len(l.src)
	}
	return Token{Kind: Literal, Text: l.src[start:l.pos], Line: line, Col: col}
}

// skipLineComment consumes "//" up to (not including) the newline.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
		l.col++
	}
}

// skipBlockComment consumes "/*" up to and including "*/", or to end of
// input when unterminated.
func (l *Lexer) skipBlockComment() {
	l.pos += 2
	l.col += 2
	for l.pos+1 < len(l.src) && !(l.src[l.pos] == '*' && l.src[l.pos+1] == '/') {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
	l.pos += 2 // eat */
	l.col += 2
	if l.pos > len(l.src) {
		l.pos = len(l.src)
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
