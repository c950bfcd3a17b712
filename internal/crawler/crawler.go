// Package crawler walks a project tree and streams C/C++ source files to a
// callback. Exclusions are glob patterns; an optional .gitignore is honored.
package crawler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/text/encoding/charmap"
)

// DefaultExcludes are the directory names skipped when no explicit exclude
// list is configured.
var DefaultExcludes = []string{"third-party", "vendor", "build", "scripts"}

var sourceExtensions = map[string]bool{
	".cpp": true,
	".h":   true,
	".hpp": true,
}

// Crawler scans a directory tree for C/C++ source files.
type Crawler struct {
	excludes []glob.Glob
	ignored  *ignore.GitIgnore
}

// New creates a crawler. Each exclude entry is a glob matched against
// directory base names; invalid patterns fail construction.
func New(excludePatterns []string) (*Crawler, error) {
	if len(excludePatterns) == 0 {
		excludePatterns = DefaultExcludes
	}
	c := &Crawler{}
	for _, pat := range excludePatterns {
		g, err := glob.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pat, err)
		}
		c.excludes = append(c.excludes, g)
	}
	return c, nil
}

// UseGitignore loads root/.gitignore, if present, and applies it to every
// visited file. Missing or unreadable ignore files are not an error.
func (c *Crawler) UseGitignore(root string) {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return
	}
	c.ignored = gi
}

// IsSourceFile reports whether name carries a recognized C/C++ extension.
func IsSourceFile(name string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(name))]
}

// ScanProject walks root and invokes onFile for every readable source file.
// The callback streams results to avoid buffering whole trees in memory.
// Files that cannot be read or decoded are skipped; a broken file never
// fails the whole scan.
func (c *Crawler) ScanProject(root string, onFile func(path string, source string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			for _, g := range c.excludes {
				if g.Match(d.Name()) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !IsSourceFile(d.Name()) {
			return nil
		}
		if c.ignored != nil {
			if rel, relErr := filepath.Rel(root, path); relErr == nil && c.ignored.MatchesPath(rel) {
				return nil
			}
		}

		source, err := ReadSource(path)
		if err != nil {
			// Unreadable file: skip and keep scanning.
			return nil
		}
		onFile(path, source)
		return nil
	})
}

// ReadSource reads path as UTF-8, falling back to a Latin-1 decode when the
// bytes are not valid UTF-8. Legacy C++ trees routinely mix encodings, and a
// lossy-but-complete decode beats dropping the file.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return string(decoded), nil
}
