// Package analyzer extracts variable-declaration facts from C/C++ token
// streams without a real grammar. It tracks brace-nested scopes and runs a
// speculative, backtracking matcher at every token that could start a
// declaration. Non-matches rewind silently; the contract is best-effort
// extraction, never a raised fault.
package analyzer

import (
	"strings"

	"cdoc/internal/lexer"
)

// modifiers are the declaration prefix keywords the matcher consumes.
// Unordered and repeatable; duplicates are harmless.
var modifiers = map[string]bool{
	"static":   true,
	"const":    true,
	"unsigned": true,
	"signed":   true,
}

// Extractor walks a token sequence once, maintaining a scope stack keyed by
// brace nesting. It owns all state for a single pass; create a new Extractor
// per token sequence.
type Extractor struct {
	tokens []lexer.Token
	pos    int
	scopes []*Scope
	decls  []Declaration
}

// NewExtractor creates an Extractor with the implicit global scope already
// on the stack.
func NewExtractor(tokens []lexer.Token) *Extractor {
	return &Extractor{
		tokens: tokens,
		scopes: []*Scope{{Kind: Global, StartLine: 1}},
	}
}

// Extract runs the single forward pass and returns every declaration found,
// in source encounter order. The scope stack never underflows: a stray `}`
// with only the global scope left is ignored.
func (e *Extractor) Extract() []Declaration {
	for e.pos < len(e.tokens) {
		tok := e.tokens[e.pos]
		switch {
		case tok.Kind == lexer.Operator && tok.Text == "{":
			e.scopes = append(e.scopes, &Scope{Kind: Block, StartLine: tok.Line})
		case tok.Kind == lexer.Operator && tok.Text == "}":
			if len(e.scopes) > 1 {
				e.scopes = e.scopes[:len(e.scopes)-1]
			}
		case tok.Kind == lexer.Identifier || tok.Kind == lexer.Keyword:
			e.tryDeclaration()
		}
		e.pos++
	}
	return e.decls
}

// tryDeclaration attempts the speculative match
//
//	[modifiers] type [*|&]... name [\[...\]] [= init] (; or ,)
//
// at the current position. On success it records the fact and leaves the
// cursor just before the terminator so the outer loop's advance lands on it.
// On any failure it rewinds to the entry position with no side effects.
func (e *Extractor) tryDeclaration() {
	start := e.pos

	var isStatic, isConst bool
	var typePrefix string
	for e.pos < len(e.tokens) && modifiers[e.tokens[e.pos].Text] {
		switch e.tokens[e.pos].Text {
		case "static":
			isStatic = true
		case "const":
			isConst = true
		case "unsigned", "signed":
			// Sign qualifiers are part of the type spelling.
			typePrefix += e.tokens[e.pos].Text + " "
		}
		e.pos++
	}
	if e.pos >= len(e.tokens) {
		e.pos = start
		return
	}

	typeTok := e.tokens[e.pos]
	if typeTok.Kind != lexer.Identifier && typeTok.Kind != lexer.Keyword && !lexer.IsKeyword(typeTok.Text) {
		e.pos = start
		return
	}
	typ := typePrefix + typeTok.Text
	e.pos++

	// Pointer and reference sigils, multi-level spellings included.
	for e.pos < len(e.tokens) && (e.tokens[e.pos].Text == "*" || e.tokens[e.pos].Text == "&") {
		typ += e.tokens[e.pos].Text
		e.pos++
	}

	if e.pos >= len(e.tokens) || e.tokens[e.pos].Kind != lexer.Identifier {
		e.pos = start
		return
	}
	nameTok := e.tokens[e.pos]
	e.pos++

	// Array suffix: skip to the first `]` with no nesting awareness. The
	// size expression is discarded. A `[` that never closes leaves the
	// suffix unconsumed and the match continues without it.
	if e.pos < len(e.tokens) && e.tokens[e.pos].Text == "[" {
		probe := e.pos
		for probe < len(e.tokens) && e.tokens[probe].Text != "]" {
			probe++
		}
		if probe < len(e.tokens) {
			e.pos = probe + 1
			typ += "[]"
		}
	}

	var initializer string
	if e.pos < len(e.tokens) && e.tokens[e.pos].Text == "=" {
		e.pos++
		var parts []string
		for e.pos < len(e.tokens) && e.tokens[e.pos].Text != ";" && e.tokens[e.pos].Text != "," {
			parts = append(parts, e.tokens[e.pos].Text)
			e.pos++
		}
		initializer = strings.Join(parts, " ")
	}

	if e.pos >= len(e.tokens) || (e.tokens[e.pos].Text != ";" && e.tokens[e.pos].Text != ",") {
		e.pos = start
		return
	}

	decl := Declaration{
		Name:        nameTok.Text,
		Type:        typ,
		Initializer: initializer,
		Line:        nameTok.Line,
		IsStatic:    isStatic,
		IsConst:     isConst,
	}
	top := e.scopes[len(e.scopes)-1]
	top.Declarations = append(top.Declarations, decl)
	e.decls = append(e.decls, decl)
	e.pos-- // let the outer loop's advance consume the terminator
}
