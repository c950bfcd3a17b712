// Package suggest turns extracted declaration facts into comment
// suggestions. Priority order: domain dictionary, learned patterns from the
// codebase itself, then fixed heuristics. A declaration with no good match
// yields no suggestion at all; silence beats noise in a review report.
package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"cdoc/internal/analyzer"
	"cdoc/internal/patterns"
)

// operatorDescriptions maps initializer operator symbols to the behavior
// they imply. Order matters: the first symbol found wins.
var operatorDescriptions = []struct {
	op   string
	desc string
}{
	{"&", "Bitwise MASK"},
	{"|", "Bitwise MERGE"},
	{"<<", "Bitwise SHIFT LEFT"},
	{">>", "Bitwise SHIFT RIGHT"},
	{"%", "Modulo / Wrap Around"},
}

// LoadDictionary reads a domain-term dictionary (term → description) from a
// JSON file. A missing file yields an empty dictionary, not an error: domain
// knowledge is optional.
func LoadDictionary(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	dict := map[string]string{}
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("invalid dictionary JSON in %s: %w", path, err)
	}
	return dict, nil
}

// Generator produces comment suggestions for declarations.
type Generator struct {
	dictionary map[string]string
	sortedKeys []string // longest first, so specific terms beat generic ones
	patterns   *patterns.Set
}

// NewGenerator creates a generator. Either argument may be nil/empty; the
// corresponding lookup stage is simply skipped.
func NewGenerator(dictionary map[string]string, set *patterns.Set) *Generator {
	g := &Generator{dictionary: dictionary, patterns: set}
	if g.dictionary == nil {
		g.dictionary = map[string]string{}
	}

	g.sortedKeys = make([]string, 0, len(g.dictionary))
	for key := range g.dictionary {
		g.sortedKeys = append(g.sortedKeys, key)
	}
	sort.Slice(g.sortedKeys, func(i, j int) bool {
		if len(g.sortedKeys[i]) != len(g.sortedKeys[j]) {
			return len(g.sortedKeys[i]) > len(g.sortedKeys[j])
		}
		return g.sortedKeys[i] < g.sortedKeys[j]
	})
	return g
}

// ForDeclaration returns a comment suggestion for one declaration, or false
// when nothing applies.
func (g *Generator) ForDeclaration(d analyzer.Declaration) (string, bool) {
	// 1. Dictionary lookup, highest priority. Exact initializer values
	// first: magic numbers often carry the most domain meaning.
	if d.Initializer != "" {
		if desc, ok := g.dictionary[strings.TrimSpace(d.Initializer)]; ok {
			return "// " + desc, true
		}
	}

	nameLower := strings.ToLower(d.Name)
	for _, key := range g.sortedKeys {
		if isAllDigits(key) {
			continue
		}
		desc := g.dictionary[key]
		if len(key) < 3 {
			// Short keys need an exact or word-boundary-ish hit to avoid
			// matching random letter pairs.
			if key == nameLower || strings.Contains(nameLower, "_"+key) || strings.Contains(nameLower, key+"_") {
				return fmt.Sprintf("// %s (%s)", desc, d.Name), true
			}
		} else if strings.Contains(nameLower, key) {
			return fmt.Sprintf("// %s (%s)", desc, d.Name), true
		}
	}

	// 2. Patterns learned from the codebase.
	if g.patterns != nil {
		if comment, ok := g.patterns.MostCommonVariableComment(d.Type); ok {
			return fmt.Sprintf("// %s (Suggested)", comment), true
		}
	}

	// 3. Fixed heuristics.
	if strings.Contains(nameLower, "flags") || strings.Contains(nameLower, "mask") {
		return "// Bitmask configuration", true
	}
	if strings.HasPrefix(d.Type, "uint") && strings.Contains(d.Type, "[") {
		return fmt.Sprintf("// Buffer for %s", d.Name), true
	}
	if d.Initializer != "" {
		for _, entry := range operatorDescriptions {
			if strings.Contains(d.Initializer, entry.op) {
				return fmt.Sprintf("// %s operation", entry.desc), true
			}
		}
	}

	return "", false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Suggestion is one annotated declaration.
type Suggestion struct {
	Declaration analyzer.Declaration
	Comment     string
}

// String renders the suggestion the way the report prints it.
func (s Suggestion) String() string {
	d := s.Declaration
	init := ""
	if d.Initializer != "" {
		init = fmt.Sprintf("= %s ", d.Initializer)
	}
	return fmt.Sprintf("Line %d: %s %s %s;  %s", d.Line, d.Type, d.Name, init, s.Comment)
}

// ForSource analyzes one file's source and returns suggestions for every
// declaration that produced one.
func (g *Generator) ForSource(source string) []Suggestion {
	var out []Suggestion
	for _, d := range analyzer.Analyze(source) {
		if comment, ok := g.ForDeclaration(d); ok {
			out = append(out, Suggestion{Declaration: d, Comment: comment})
		}
	}
	return out
}
