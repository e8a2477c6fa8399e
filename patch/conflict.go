package patch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	oursMarker   = "<<<<<<<"
	splitMarker  = "======="
	theirsMarker = ">>>>>>>"
)

// FindConflicts scans the files git reports as unmerged for conflict
// marker blocks and extracts both sides of each. Files that cannot be
// read are skipped without failing the scan.
func FindConflicts(ctx context.Context, root string, g Git) []ConflictInfo {
	if g == nil {
		return nil
	}
	files, err := g.UnmergedFiles(ctx)
	if err != nil {
		logger().Debug("list unmerged files", "error", err)
		return nil
	}

	var conflicts []ConflictInfo
	for _, file := range files {
		raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(file)))
		if err != nil {
			continue
		}
		conflicts = append(conflicts, scanConflicts(file, string(raw))...)
	}
	return conflicts
}

// scanConflicts extracts every marker block from one file's content. The
// "ours" span runs from the <<<<<<< line to the ======= separator, the
// "theirs" span from there to the >>>>>>> line.
func scanConflicts(file, content string) []ConflictInfo {
	lines := strings.Split(content, "\n")
	var conflicts []ConflictInfo

	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], oursMarker) {
			continue
		}
		start := i
		var ours, theirs []string
		i++
		for i < len(lines) && !strings.HasPrefix(lines[i], splitMarker) {
			ours = append(ours, lines[i])
			i++
		}
		i++
		for i < len(lines) && !strings.HasPrefix(lines[i], theirsMarker) {
			theirs = append(theirs, lines[i])
			i++
		}
		conflicts = append(conflicts, ConflictInfo{
			File:     file,
			Line:     start + 1,
			Kind:     ConflictMerge,
			Message:  fmt.Sprintf("merge conflict at line %d", start+1),
			Original: strings.Join(ours, "\n"),
			Incoming: strings.Join(theirs, "\n"),
		})
	}
	return conflicts
}
