package patch

import (
	"fmt"
	"strings"
)

// ParseForReview parses a patch into per-hunk selections, all selected by
// default. IDs are <file>#<ordinal> and stay stable for the lifetime of
// the review.
func ParseForReview(patchText string) []*HunkSelection {
	files := Parse(patchText)
	var sels []*HunkSelection
	for fi := range files {
		fd := &files[fi]
		for i, h := range fd.Hunks {
			sels = append(sels, &HunkSelection{
				ID:       fmt.Sprintf("%s#%d", fd.File, i+1),
				FilePath: fd.File,
				Hunk:     h,
				Selected: true,
				file:     fd,
			})
		}
	}
	return sels
}

// Toggle flips one selection by ID and reports whether it was found.
func Toggle(sels []*HunkSelection, id string) bool {
	for _, s := range sels {
		if s.ID == id {
			s.Selected = !s.Selected
			return true
		}
	}
	return false
}

// SetAll sets every selection to the given state.
func SetAll(sels []*HunkSelection, selected bool) {
	for _, s := range sels {
		s.Selected = selected
	}
}

// RenderFiltered regenerates patch text containing only the selected
// hunks, with headers and line content reproduced verbatim. The output
// feeds straight back into Parse and ApplyPatch; the selector never
// applies anything itself. Files with no selected hunks are dropped.
func RenderFiltered(sels []*HunkSelection) string {
	var order []*FileDiff
	byFile := make(map[*FileDiff][]*HunkSelection)
	for _, s := range sels {
		if s.file == nil {
			continue
		}
		if _, seen := byFile[s.file]; !seen {
			order = append(order, s.file)
		}
		byFile[s.file] = append(byFile[s.file], s)
	}

	var sb strings.Builder
	for _, fd := range order {
		var kept []*HunkSelection
		for _, s := range byFile[fd] {
			if s.Selected {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", fd.OldPath, fd.NewPath)
		switch fd.Operation {
		case OpCreate:
			sb.WriteString("new file mode 100644\n")
			fmt.Fprintf(&sb, "--- /dev/null\n+++ b/%s\n", fd.NewPath)
		case OpDelete:
			sb.WriteString("deleted file mode 100644\n")
			fmt.Fprintf(&sb, "--- a/%s\n+++ /dev/null\n", fd.OldPath)
		case OpRename:
			fmt.Fprintf(&sb, "rename from %s\nrename to %s\n", fd.OldPath, fd.NewPath)
			fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", fd.OldPath, fd.NewPath)
		default:
			fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", fd.OldPath, fd.NewPath)
		}

		for _, s := range kept {
			writeHunk(&sb, s.Hunk)
		}
	}

	return sb.String()
}

func writeHunk(sb *strings.Builder, h Hunk) {
	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
	if h.Context != "" {
		sb.WriteString(" " + h.Context)
	}
	sb.WriteString("\n")
	for _, dl := range h.Lines {
		switch dl.Kind {
		case LineAdd:
			sb.WriteString("+" + dl.Content + "\n")
		case LineRemove:
			sb.WriteString("-" + dl.Content + "\n")
		default:
			sb.WriteString(" " + dl.Content + "\n")
		}
	}
}
