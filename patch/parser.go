package patch

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	fileHeaderRe = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)
)

// Parse turns raw unified-diff text into structured file diffs. It is
// deliberately permissive: LLM replies often wrap the diff in prose, so
// anything outside a recognized file block is skipped rather than
// rejected. An unparsable patch yields an empty slice, never an error.
func Parse(patchText string) []FileDiff {
	lines := strings.Split(patchText, "\n")
	var files []FileDiff

	i := 0
	for i < len(lines) {
		m := fileHeaderRe.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}

		fd := FileDiff{OldPath: m[1], NewPath: m[2], Operation: OpModify}
		i++

		// Extended header lines up to the first hunk or the next file.
		for i < len(lines) {
			line := lines[i]
			if strings.HasPrefix(line, "diff --git ") || strings.HasPrefix(line, "@@ ") {
				break
			}
			switch {
			case strings.HasPrefix(line, "new file mode"):
				fd.Operation = OpCreate
			case strings.HasPrefix(line, "deleted file mode"):
				fd.Operation = OpDelete
			case strings.HasPrefix(line, "rename from "):
				fd.OldPath = strings.TrimPrefix(line, "rename from ")
				fd.Operation = OpRename
			case strings.HasPrefix(line, "rename to "):
				fd.NewPath = strings.TrimPrefix(line, "rename to ")
				fd.Operation = OpRename
			}
			i++
		}

		if fd.Operation == OpModify && fd.OldPath != fd.NewPath {
			fd.Operation = OpRename
		}
		fd.File = fd.NewPath
		if fd.Operation == OpDelete {
			fd.File = fd.OldPath
		}

		for i < len(lines) {
			if strings.HasPrefix(lines[i], "diff --git ") {
				break
			}
			hm := hunkHeaderRe.FindStringSubmatch(lines[i])
			if hm == nil {
				i++
				continue
			}
			i++
			fd.Hunks = append(fd.Hunks, parseHunk(fd.File, hm, lines, &i))
		}

		files = append(files, fd)
	}

	return files
}

// parseHunk reads one hunk's body starting at *i, advancing *i past every
// line it consumes. Body lines are classified by their leading character;
// anything else ends the hunk.
func parseHunk(file string, hm []string, lines []string, i *int) Hunk {
	h := Hunk{
		OldStart: atoiDefault(hm[1], 1),
		OldCount: atoiDefault(hm[2], 1),
		NewStart: atoiDefault(hm[3], 1),
		NewCount: atoiDefault(hm[4], 1),
		Context:  strings.TrimSpace(hm[5]),
	}

	oldNum := h.OldStart
	newNum := h.NewStart

scan:
	for *i < len(lines) {
		line := lines[*i]
		if strings.HasPrefix(line, "@@ ") || strings.HasPrefix(line, "diff --git ") {
			break
		}
		if strings.HasPrefix(line, `\ No newline at end of file`) {
			*i++
			continue
		}
		if len(line) == 0 {
			// Blank source lines sometimes lose their leading space in
			// LLM output. Consume them as empty context while the
			// declared counts say the hunk is still open.
			if gotOld, gotNew := h.tagCounts(); gotOld < h.OldCount || gotNew < h.NewCount {
				h.Lines = append(h.Lines, DiffLine{Kind: LineContext, Content: "", OldLine: oldNum, NewLine: newNum})
				oldNum++
				newNum++
				*i++
				continue
			}
			break
		}
		switch line[0] {
		case ' ':
			h.Lines = append(h.Lines, DiffLine{Kind: LineContext, Content: line[1:], OldLine: oldNum, NewLine: newNum})
			oldNum++
			newNum++
		case '+':
			h.Lines = append(h.Lines, DiffLine{Kind: LineAdd, Content: line[1:], NewLine: newNum})
			newNum++
		case '-':
			h.Lines = append(h.Lines, DiffLine{Kind: LineRemove, Content: line[1:], OldLine: oldNum})
			oldNum++
		default:
			break scan
		}
		*i++
	}

	// Declared counts are advisory for LLM-generated diffs; context
	// matching at apply time is the real gate.
	if gotOld, gotNew := h.tagCounts(); gotOld != h.OldCount || gotNew != h.NewCount {
		logger().Debug("hunk count mismatch",
			"file", file,
			"declared_old", h.OldCount, "actual_old", gotOld,
			"declared_new", h.NewCount, "actual_new", gotNew)
	}

	return h
}

// tagCounts returns the line totals implied by the hunk body: context and
// removed lines on the old side, context and added lines on the new side.
func (h Hunk) tagCounts() (oldLines, newLines int) {
	for _, dl := range h.Lines {
		switch dl.Kind {
		case LineContext:
			oldLines++
			newLines++
		case LineRemove:
			oldLines++
		case LineAdd:
			newLines++
		}
	}
	return oldLines, newLines
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
