package analyzer

import "cdoc/internal/lexer"

// Analyze tokenizes src and extracts all variable-declaration facts in
// source order. It never returns an error: malformed input degrades to fewer
// facts, not a failure. Each call is independent, so callers may analyze
// many files concurrently as long as each owns its input buffer.
func Analyze(src string) []Declaration {
	return NewExtractor(lexer.Tokenize(src)).Extract()
}
