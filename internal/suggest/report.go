package suggest

import (
	"fmt"
	"strings"
)

// FileSuggestions groups suggestions under the file they came from, in scan
// encounter order.
type FileSuggestions struct {
	File        string
	Suggestions []Suggestion
}

// FormatReport renders the markdown suggestions report. Files with no
// suggestions are omitted.
func FormatReport(files []FileSuggestions) string {
	var b strings.Builder
	b.WriteString("# Comment Suggestions Report\n")

	for _, fs := range files {
		if len(fs.Suggestions) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## File: `%s`\n", fs.File)
		for _, s := range fs.Suggestions {
			b.WriteString(s.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}
