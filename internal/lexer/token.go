package lexer

// Kind classifies a token.
type Kind int

const (
	Identifier Kind = iota
	Keyword
	Literal
	Operator
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	case Literal:
		return "literal"
	case Operator:
		return "operator"
	default:
		return "unknown"
	}
}

// Token is a single classified lexical unit. Text is the exact source slice;
// Line and Col are 1-based and refer to the first character of the token.
// Whitespace and comments never appear as tokens.
type Token struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

// keywords is the closed reserved-word set: basic types, storage and access
// modifiers, control-flow words and class-like words. Not derived from any
// grammar table.
var keywords = map[string]bool{
	"int": true, "float": true, "double": true, "char": true, "void": true,
	"bool": true, "auto": true,
	"const": true, "static": true, "unsigned": true, "signed": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"class": true, "struct": true, "enum": true, "namespace": true, "template": true,
	"if": true, "else": true, "for": true, "while": true, "switch": true,
	"case": true, "return": true, "break": true,
	"public": true, "private": true, "protected": true, "virtual": true, "override": true,
}

// IsKeyword reports whether text is in the reserved-word set.
func IsKeyword(text string) bool {
	return keywords[text]
}

// operatorChars holds the fixed single-character punctuation set. Multi
// character operators are never merged; "<<" lexes as two Operator tokens.
var operatorChars = [256]bool{}

func init() {
	for _, c := range []byte("{}[]()=<>!+-*/%&|^~?:.,;") {
		operatorChars[c] = true
	}
}
