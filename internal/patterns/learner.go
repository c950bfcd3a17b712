// Package patterns learns how a codebase writes its comments. It scans C/C++
// sources, classifies block and inline comments by the code they annotate,
// and persists the result as JSON for the suggestion generator.
package patterns

import (
	"regexp"
	"strings"
)

// Line-shape regexes for C++ constructs. These classify the code next to a
// comment; they are not a parser.
var (
	funcStartRE   = regexp.MustCompile(`^([\w:]+)\s+(\w+)\s*\([^)]*\)\s*{`)
	varDeclRE     = regexp.MustCompile(`^\s*(static\s+|const\s+)?([\w:<>*&]+)\s+(\w+)(\[[^\]]+\])?(?:\s*=\s*[^;]+)?;`)
	controlFlowRE = regexp.MustCompile(`^\s*(if|for|while|switch|else)\s*\(?`)
	structClassRE = regexp.MustCompile(`^\s*(struct|class|enum)\s+(\w+)`)
)

// FunctionPattern pairs a comment with the function signature it documents.
type FunctionPattern struct {
	Comment   string `json:"comment"`
	Signature string `json:"signature"`
}

// StructPattern pairs a comment with the struct/class/enum line it documents.
type StructPattern struct {
	Comment string `json:"comment"`
	Struct  string `json:"struct"`
}

// Stats counts what a learning run covered.
type Stats struct {
	FilesScanned  int `json:"files_scanned"`
	CommentsFound int `json:"comments_found"`
}

// Set is the learned comment corpus. Variable comments are keyed by the base
// type spelled in the declaration; control-flow comments by keyword.
type Set struct {
	Header         []string            `json:"header"`
	Function       []FunctionPattern   `json:"function"`
	Variable       map[string][]string `json:"variable"`
	ControlFlow    map[string][]string `json:"control_flow"`
	DataStructures []StructPattern     `json:"data_structures"`
	Stats          Stats               `json:"stats"`
}

// NewSet returns an empty Set with initialized maps.
func NewSet() *Set {
	return &Set{
		Header:         []string{},
		Function:       []FunctionPattern{},
		Variable:       map[string][]string{},
		ControlFlow:    map[string][]string{},
		DataStructures: []StructPattern{},
	}
}

// MostCommonVariableComment returns the most frequent learned comment for a
// base type. Ties go to the earliest-seen comment.
func (s *Set) MostCommonVariableComment(typ string) (string, bool) {
	comments := s.Variable[typ]
	if len(comments) == 0 {
		return "", false
	}

	counts := make(map[string]int, len(comments))
	best, bestCount := "", 0
	for _, c := range comments {
		counts[c]++
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best, true
}

// Learner accumulates classified comments across files. Comments that match
// no construct land in a general bucket, which is kept for stats but not
// persisted.
type Learner struct {
	set     *Set
	general []string
}

// NewLearner creates an empty learner.
func NewLearner() *Learner {
	return &Learner{set: NewSet()}
}

// Result returns the accumulated pattern set.
func (l *Learner) Result() *Set {
	return l.set
}

// LearnFile classifies every comment in one file's source. The path is only
// counted, never stored; learned patterns are project-wide.
func (l *Learner) LearnFile(path, source string) {
	l.set.Stats.FilesScanned++
	lines := strings.Split(source, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if strings.HasPrefix(line, "/*") {
			var block []string
			for i < len(lines) {
				stripped := strings.TrimSpace(lines[i])
				block = append(block, stripped)
				if strings.Contains(stripped, "*/") {
					break
				}
				i++
			}
			l.classifyBlock(block, lines, i+1)
		} else if strings.Contains(line, "//") {
			l.classifyInline(line, lines, i)
		}
	}
}

// nextCodeLine finds the first non-comment, non-empty line in a small window
// after from.
func nextCodeLine(lines []string, from, window int) string {
	end := from + window
	if end > len(lines) {
		end = len(lines)
	}
	for j := from; j < end; j++ {
		clean := strings.TrimSpace(lines[j])
		if clean != "" && !strings.HasPrefix(clean, "//") && !strings.HasPrefix(clean, "/*") {
			return clean
		}
	}
	return ""
}

func (l *Learner) classifyBlock(block []string, lines []string, nextIdx int) {
	l.set.Stats.CommentsFound++
	fullText := strings.Join(block, "\n")
	next := nextCodeLine(lines, nextIdx, 5)

	switch {
	case strings.Contains(fullText, "@file") || nextIdx < 10:
		// File headers: either tagged or near the top of the file.
		l.set.Header = append(l.set.Header, fullText)
	case funcStartRE.MatchString(next):
		l.set.Function = append(l.set.Function, FunctionPattern{Comment: fullText, Signature: next})
	case structClassRE.MatchString(next):
		l.set.DataStructures = append(l.set.DataStructures, StructPattern{Comment: fullText, Struct: next})
	default:
		l.general = append(l.general, fullText)
	}
}

func (l *Learner) classifyInline(line string, lines []string, idx int) {
	l.set.Stats.CommentsFound++
	parts := strings.SplitN(line, "//", 2)
	codePart := strings.TrimSpace(parts[0])
	commentPart := strings.TrimSpace(parts[1])
	if commentPart == "" {
		return
	}

	// Comment on its own line: classify by the code that follows it.
	if codePart == "" {
		next := nextCodeLine(lines, idx+1, 5)
		if m := controlFlowRE.FindStringSubmatch(next); m != nil {
			l.set.ControlFlow[m[1]] = append(l.set.ControlFlow[m[1]], commentPart)
		} else if funcStartRE.MatchString(next) {
			l.set.Function = append(l.set.Function, FunctionPattern{Comment: commentPart, Signature: next})
		} else {
			l.general = append(l.general, commentPart)
		}
		return
	}

	// End-of-line comment: classify by the code on the same line.
	if m := varDeclRE.FindStringSubmatch(codePart); m != nil {
		varType := m[2]
		l.set.Variable[varType] = append(l.set.Variable[varType], commentPart)
	} else if m := controlFlowRE.FindStringSubmatch(codePart); m != nil {
		l.set.ControlFlow[m[1]] = append(l.set.ControlFlow[m[1]], commentPart)
	} else {
		l.general = append(l.general, commentPart)
	}
}
