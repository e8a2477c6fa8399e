package patch

import (
	"fmt"
	"strings"
)

// HunkResult reports one hunk application attempt. NewOffset carries the
// cumulative line-count drift forward to the next hunk in the same file.
type HunkResult struct {
	Success   bool
	NewOffset int
	Conflicts []ConflictInfo
	Warnings  []string
	Err       error
}

// ApplyHunk splices one hunk into the line buffer and returns the updated
// buffer. Hunk headers address original line numbers, but every applied
// hunk shifts the coordinate space of the ones after it, so the caller
// threads the running offset through all hunks of a file. On any context
// mismatch beyond the fuzzy threshold the whole hunk fails and the buffer
// comes back unchanged.
func ApplyHunk(file string, lines []string, hunk Hunk, offset int) ([]string, HunkResult) {
	res := HunkResult{NewOffset: offset}

	startIdx := hunk.OldStart - 1 + offset
	if startIdx < 0 {
		// Creation hunks use oldStart 0.
		startIdx = 0
	}

	// Verify every context and removed line before touching the buffer.
	idx := startIdx
	for _, dl := range hunk.Lines {
		if dl.Kind == LineAdd {
			continue
		}
		if idx >= len(lines) {
			res.Err = fmt.Errorf("%s: hunk @@ -%d,%d expects %q at line %d but the file ends at line %d",
				file, hunk.OldStart, hunk.OldCount, dl.Content, idx+1, len(lines))
			res.Conflicts = append(res.Conflicts, ConflictInfo{
				File: file, Line: idx + 1, Kind: ConflictContext, Message: res.Err.Error(),
			})
			return lines, res
		}

		expected := strings.TrimSpace(dl.Content)
		actual := strings.TrimSpace(lines[idx])
		if expected != actual {
			score := Similarity(expected, actual)
			if !withinFuzz(expected, actual) {
				res.Err = fmt.Errorf("%s: context mismatch at line %d: expected %q, found %q (similarity %.2f)",
					file, idx+1, dl.Content, lines[idx], score)
				res.Conflicts = append(res.Conflicts, ConflictInfo{
					File: file, Line: idx + 1, Kind: ConflictContext, Message: res.Err.Error(),
				})
				return lines, res
			}

			logger().Debug("fuzzy match", "file", file, "line", idx+1, "similarity", score)
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: fuzzy matched line %d (similarity %.2f)", file, idx+1, score))
			if collapseWhitespace(dl.Content) == collapseWhitespace(lines[idx]) {
				res.Conflicts = append(res.Conflicts, ConflictInfo{
					File: file, Line: idx + 1, Kind: ConflictWhitespace,
					Message: fmt.Sprintf("whitespace drift on line %d", idx+1),
				})
			}
		}
		idx++
	}
	removed := idx - startIdx

	// Replacement block: surviving context plus added lines, in hunk
	// order. Context entries keep the buffer's actual text so a
	// fuzzy-accepted drifted line survives application unchanged.
	replacement := make([]string, 0, len(hunk.Lines))
	at := startIdx
	for _, dl := range hunk.Lines {
		switch dl.Kind {
		case LineContext:
			replacement = append(replacement, lines[at])
			at++
		case LineRemove:
			at++
		case LineAdd:
			replacement = append(replacement, dl.Content)
		}
	}

	out := make([]string, 0, len(lines)-removed+len(replacement))
	out = append(out, lines[:startIdx]...)
	out = append(out, replacement...)
	out = append(out, lines[startIdx+removed:]...)

	res.Success = true
	res.NewOffset = offset + len(replacement) - removed
	return out, res
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
