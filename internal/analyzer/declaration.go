package analyzer

// Declaration is one fuzzy-matched variable-declaration fact. Declarations
// are plain data: append-only, never mutated after creation, and carry no
// behavior for consumers.
type Declaration struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Initializer string `json:"initializer,omitempty"`
	Line        int    `json:"line"`
	IsStatic    bool   `json:"is_static"`
	IsConst     bool   `json:"is_const"`
}

// ScopeKind distinguishes the implicit global scope from brace-delimited
// blocks. Function and class bodies are not told apart structurally; every
// `{...}` nesting level is a generic block.
type ScopeKind int

const (
	Global ScopeKind = iota
	Block
)

// Scope is one lexical nesting level. Declarations holds only the facts found
// directly inside it, not those of nested sub-scopes.
type Scope struct {
	Kind         ScopeKind
	StartLine    int
	Declarations []Declaration
}
