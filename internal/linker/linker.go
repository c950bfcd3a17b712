// Package linker indexes class/struct/enum definition sites and rewrites
// markdown prose so bare mentions of those names become links into the
// source tree. The scan is a lightweight per-line regex, independent of the
// declaration analyzer: it only needs top-level type names, not scope facts.
package linker

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"cdoc/internal/crawler"
)

// Symbol records where a class, struct or enum is defined.
type Symbol struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Line int    `json:"line"`
}

// Index maps a symbol name to its definition site. Duplicate names keep the
// last definition encountered, matching scan order.
type Index map[string]Symbol

var definitionRE = regexp.MustCompile(`^\s*(class|struct|enum)\s+(\w+)`)

// ScanSource extracts type-definition symbols from one file's source. Paths
// are recorded as given.
func ScanSource(path, source string) []Symbol {
	var syms []Symbol
	for i, line := range strings.Split(source, "\n") {
		if m := definitionRE.FindStringSubmatch(line); m != nil {
			syms = append(syms, Symbol{Name: m[2], Path: path, Line: i + 1})
		}
	}
	return syms
}

// BuildIndex crawls root and collects every type definition, with paths
// stored relative to root so generated links stay portable.
func BuildIndex(c *crawler.Crawler, root string) (Index, error) {
	idx := make(Index)
	err := c.ScanProject(root, func(path, source string) {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		for _, sym := range ScanSource(filepath.ToSlash(rel), source) {
			idx[sym.Name] = sym
		}
	})
	if err != nil {
		return nil, fmt.Errorf("symbol scan failed: %w", err)
	}
	return idx, nil
}

// minNameLen filters out short names that would link common words.
const minNameLen = 4

// Linker rewrites markdown using a prebuilt symbol index.
type Linker struct {
	index Index
}

// New creates a Linker over index.
func New(index Index) *Linker {
	return &Linker{index: index}
}

// LinkFile rewrites target in place and reports how many distinct symbols
// were linked. The file is left untouched when nothing changes.
func (l *Linker) LinkFile(target string) (int, error) {
	content, err := os.ReadFile(target)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", target, err)
	}

	linked, count := l.LinkText(string(content))
	if count == 0 {
		return 0, nil
	}

	if err := os.WriteFile(target, []byte(linked), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", target, err)
	}
	return count, nil
}

// LinkText returns content with unlinked symbol mentions replaced by
// markdown links, plus the number of distinct symbols that got linked.
// Symbols are applied longest-name-first so a name embedded in a longer one
// never clobbers it.
func (l *Linker) LinkText(content string) (string, int) {
	names := make([]string, 0, len(l.index))
	for name := range l.index {
		if len(name) >= minNameLen {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	out := content
	linked := 0
	for _, name := range names {
		sym := l.index[name]
		link := fmt.Sprintf("[%s](%s#L%d)", name, sym.Path, sym.Line)
		if !strings.Contains(out, name) || strings.Contains(out, link) {
			continue
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		replaced, n := replaceUnlinked(out, re, link)
		if n > 0 {
			out = replaced
			linked++
		}
	}
	return out, linked
}

// replaceUnlinked substitutes every regex match that is not already part of
// a markdown link or a path. Go's regexp has no lookbehind, so the guard is
// a check on the byte preceding each match.
func replaceUnlinked(s string, re *regexp.Regexp, link string) (string, int) {
	matches := re.FindAllStringIndex(s, -1)
	if matches == nil {
		return s, 0
	}

	var b strings.Builder
	last, n := 0, 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 {
			switch s[start-1] {
			case '[', '(', '/', '.':
				continue
			}
		}
		b.WriteString(s[last:start])
		b.WriteString(link)
		last = end
		n++
	}
	b.WriteString(s[last:])
	return b.String(), n
}
