// Package git shells out to git to find which files changed, so scans can be
// incremental instead of whole-tree.
package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// ChangedFile is one file touched since the base ref, with the 1-based line
// numbers of its added or modified lines.
type ChangedFile struct {
	Path         string
	ChangedLines []int
}

// ChangedFiles runs `git diff -U0 <baseRef>` and parses the result.
func ChangedFiles(baseRef string) ([]ChangedFile, error) {
	cmd := exec.Command("git", "diff", "-U0", baseRef)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}
	return parseDiff(output), nil
}

// hunkHeaderRE captures the new-side start line and length from a hunk
// header: @@ -old,+len +newStart,newLen @@
var hunkHeaderRE = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

func parseDiff(output []byte) []ChangedFile {
	var changes []ChangedFile
	var current *ChangedFile

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "diff --git") {
			if current != nil {
				changes = append(changes, *current)
			}
			current = nil

			// "diff --git a/path b/path": take the new-side path.
			fields := strings.Fields(line)
			if len(fields) >= 4 {
				current = &ChangedFile{Path: strings.TrimPrefix(fields[3], "b/")}
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := hunkHeaderRE.FindStringSubmatch(line); m != nil {
			start, _ := strconv.Atoi(m[1])
			count := 1
			if m[2] != "" {
				count, _ = strconv.Atoi(m[2])
			}
			// count 0 means pure deletion; no new-side lines to record.
			for i := 0; i < count; i++ {
				current.ChangedLines = append(current.ChangedLines, start+i)
			}
		}
	}

	if current != nil {
		changes = append(changes, *current)
	}
	return changes
}
