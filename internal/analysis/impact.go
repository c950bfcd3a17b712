// Package analysis reports which stored declaration facts a set of edits
// touched, giving the update command something concrete to print besides
// file counts.
package analysis

import (
	"context"

	"cdoc/internal/analyzer"
	"cdoc/internal/git"
	"cdoc/internal/storage"
)

// AffectedDeclaration is one stored fact that sits on a changed line.
type AffectedDeclaration struct {
	File        string
	Declaration analyzer.Declaration
}

// Report summarizes the declarations affected by a change set.
type Report struct {
	Affected []AffectedDeclaration
}

// AffectedDeclarations cross-references changed lines against the stored
// facts for each touched file.
func AffectedDeclarations(ctx context.Context, store *storage.Store, changes []git.ChangedFile) (*Report, error) {
	report := &Report{}

	for _, change := range changes {
		if len(change.ChangedLines) == 0 {
			continue
		}
		changed := make(map[int]bool, len(change.ChangedLines))
		for _, line := range change.ChangedLines {
			changed[line] = true
		}

		decls, err := store.FindDeclarationsByFile(ctx, change.Path)
		if err != nil {
			return nil, err
		}
		for _, d := range decls {
			if changed[d.Line] {
				report.Affected = append(report.Affected, AffectedDeclaration{File: change.Path, Declaration: d})
			}
		}
	}

	return report, nil
}
