package patch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Git is the narrow view of the version-control collaborator the engine
// delegates to. A nil Git disables the delegated three-way attempt and
// conflict scanning.
type Git interface {
	Apply(ctx context.Context, patchFile string, threeWay, whitespaceFix bool) error
	StagedFiles(ctx context.Context) ([]string, error)
	UnmergedFiles(ctx context.Context) ([]string, error)
}

// Applier applies unified-diff patches to the work tree rooted at Root.
type Applier struct {
	Root string
	Git  Git
}

// ApplyPatch applies a unified-diff blob to the work tree. The patch is
// first handed to git's three-way apply; only when that fails does the
// engine parse the patch and splice hunks itself. All failures are
// file-scoped and collected: one bad file never blocks the rest of the
// batch, and the call itself never errors.
func (a *Applier) ApplyPatch(ctx context.Context, patchText string) DiffResult {
	result := DiffResult{Strategy: StrategyNone}
	if strings.TrimSpace(patchText) == "" {
		return result
	}

	if a.Git != nil {
		r, err := a.applyDelegated(ctx, patchText)
		if err == nil {
			return r
		}
		logger().Debug("three-way apply failed", "error", err)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("three-way merge failed, falling back to manual application: %v", err))
	}

	files := Parse(patchText)
	if len(files) == 0 {
		return result
	}

	result.Strategy = StrategyManual
	for _, fd := range files {
		outcome := a.applyFile(fd)
		result.Conflicts = append(result.Conflicts, outcome.Conflicts...)
		result.Warnings = append(result.Warnings, outcome.Warnings...)
		if outcome.Success {
			result.Applied = append(result.Applied, fd.File)
		} else {
			result.Rejected = append(result.Rejected, fd.File)
		}
	}
	return result
}

// applyDelegated writes the patch to a temp file and hands it to git
// apply --3way. The temp file is removed regardless of outcome. A
// successful three-way apply can still leave conflict markers behind, so
// the result is scanned for them.
func (a *Applier) applyDelegated(ctx context.Context, patchText string) (DiffResult, error) {
	result := DiffResult{Strategy: StrategyThreeWay}

	tmp, err := os.CreateTemp("", "termcoder-*.patch")
	if err != nil {
		return result, fmt.Errorf("create temp patch: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(patchText); err != nil {
		tmp.Close()
		return result, fmt.Errorf("write temp patch: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return result, fmt.Errorf("close temp patch: %w", err)
	}

	if err := a.Git.Apply(ctx, tmp.Name(), true, true); err != nil {
		return result, err
	}

	applied, err := a.Git.StagedFiles(ctx)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("list staged files: %v", err))
	}
	result.Applied = applied
	result.Conflicts = FindConflicts(ctx, a.Root, a.Git)
	return result, nil
}

// applyFile performs one file's operation. The line buffer lives only for
// the duration of this call; on any hunk failure it is discarded without
// writing, so a rejected file is left exactly as it was.
func (a *Applier) applyFile(fd FileDiff) ApplyOutcome {
	var out ApplyOutcome

	fail := func(err error) ApplyOutcome {
		out.Err = err
		out.Warnings = append(out.Warnings, err.Error())
		return out
	}

	target, err := a.resolve(fd.File)
	if err != nil {
		return fail(err)
	}

	if fd.Operation == OpDelete {
		if err := os.Remove(target); err != nil {
			return fail(fmt.Errorf("delete %s: %w", fd.File, err))
		}
		out.Success = true
		return out
	}

	source := target
	if fd.Operation == OpRename {
		if source, err = a.resolve(fd.OldPath); err != nil {
			return fail(err)
		}
	}

	content := ""
	if raw, err := os.ReadFile(source); err == nil {
		content = string(raw)
	} else if fd.Operation != OpCreate {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("%s: expected existing file, treating as empty: %v", fd.File, err))
	}

	lines := splitLines(content)
	offset := 0
	for _, h := range fd.Hunks {
		var hres HunkResult
		lines, hres = ApplyHunk(fd.File, lines, h, offset)
		out.Warnings = append(out.Warnings, hres.Warnings...)
		out.Conflicts = append(out.Conflicts, hres.Conflicts...)
		if !hres.Success {
			out.Err = hres.Err
			out.Warnings = append(out.Warnings, hres.Err.Error())
			return out
		}
		offset = hres.NewOffset
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fail(fmt.Errorf("create directories for %s: %w", fd.File, err))
	}
	if err := os.WriteFile(target, []byte(joinLines(lines)), 0o644); err != nil {
		return fail(fmt.Errorf("write %s: %w", fd.File, err))
	}
	if fd.Operation == OpRename && source != target {
		if err := os.Remove(source); err != nil {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("%s: remove renamed source %s: %v", fd.File, fd.OldPath, err))
		}
	}

	out.Success = true
	return out
}

// resolve maps a patch-relative path onto the work tree, rejecting paths
// that would escape it.
func (a *Applier) resolve(rel string) (string, error) {
	rel = filepath.FromSlash(rel)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("path %q escapes the work tree", rel)
	}
	return filepath.Join(a.Root, rel), nil
}

// splitLines breaks file content into a line buffer, dropping the element
// a trailing newline would otherwise produce.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// joinLines is the inverse of splitLines; non-empty files always end with
// a newline.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
