package patch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGit scripts the collaborator so orchestrator tests never touch a
// real repository.
type stubGit struct {
	applyErr     error
	staged       []string
	unmerged     []string
	appliedFiles []string
}

func (s *stubGit) Apply(ctx context.Context, patchFile string, threeWay, whitespaceFix bool) error {
	s.appliedFiles = append(s.appliedFiles, patchFile)
	return s.applyErr
}

func (s *stubGit) StagedFiles(ctx context.Context) ([]string, error) {
	return s.staged, nil
}

func (s *stubGit) UnmergedFiles(ctx context.Context) ([]string, error) {
	return s.unmerged, nil
}

func writeFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestApplyPatch_ManualModify(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, root, "greet.go", "package main\n\nfunc greet() string {\n\treturn \"hi\"\n}\n")

	a := &Applier{Root: root}
	result := a.ApplyPatch(context.Background(), samplePatch)

	assert.Equal(t, StrategyManual, result.Strategy)
	assert.Equal(t, []string{"greet.go"}, result.Applied)
	assert.Empty(t, result.Rejected)
	assert.Equal(t,
		"package main\n\nfunc greet(name string) string {\n\treturn \"hi \" + name\n}\n",
		readFile(t, target))
}

func TestApplyPatch_BatchIndependence(t *testing.T) {
	root := t.TempDir()
	okPath := writeFile(t, root, "ok.txt", "a\nb\nc\n")
	badPath := writeFile(t, root, "bad.txt", "totally unrelated content\nmore\n")

	text := "diff --git a/ok.txt b/ok.txt\n" +
		"--- a/ok.txt\n+++ b/ok.txt\n" +
		"@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n" +
		"diff --git a/bad.txt b/bad.txt\n" +
		"--- a/bad.txt\n+++ b/bad.txt\n" +
		"@@ -1,2 +1,2 @@\n expected line that is absent\n-more\n+MORE\n"

	a := &Applier{Root: root}
	result := a.ApplyPatch(context.Background(), text)

	assert.Equal(t, []string{"ok.txt"}, result.Applied)
	assert.Equal(t, []string{"bad.txt"}, result.Rejected)
	assert.Equal(t, "a\nB\nc\n", readFile(t, okPath))
	// The rejected file is untouched.
	assert.Equal(t, "totally unrelated content\nmore\n", readFile(t, badPath))
	assert.NotEmpty(t, result.Warnings)
}

func TestApplyPatch_CreateFile(t *testing.T) {
	root := t.TempDir()
	text := "diff --git a/pkg/util/new.txt b/pkg/util/new.txt\n" +
		"new file mode 100644\n" +
		"--- /dev/null\n+++ b/pkg/util/new.txt\n" +
		"@@ -0,0 +1,2 @@\n+first\n+second\n"

	a := &Applier{Root: root}
	result := a.ApplyPatch(context.Background(), text)

	assert.Equal(t, []string{"pkg/util/new.txt"}, result.Applied)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "first\nsecond\n", readFile(t, filepath.Join(root, "pkg", "util", "new.txt")))
}

func TestApplyPatch_DeleteFile(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, root, "gone.txt", "bye\n")

	text := "diff --git a/gone.txt b/gone.txt\n" +
		"deleted file mode 100644\n" +
		"--- a/gone.txt\n+++ /dev/null\n" +
		"@@ -1,1 +0,0 @@\n-bye\n"

	a := &Applier{Root: root}
	result := a.ApplyPatch(context.Background(), text)

	assert.Equal(t, []string{"gone.txt"}, result.Applied)
	assert.NoFileExists(t, target)
}

func TestApplyPatch_DeleteMissingFileIsRejected(t *testing.T) {
	root := t.TempDir()
	text := "diff --git a/gone.txt b/gone.txt\n" +
		"deleted file mode 100644\n" +
		"--- a/gone.txt\n+++ /dev/null\n"

	a := &Applier{Root: root}
	result := a.ApplyPatch(context.Background(), text)

	assert.Empty(t, result.Applied)
	assert.Equal(t, []string{"gone.txt"}, result.Rejected)
	assert.NotEmpty(t, result.Warnings)
}

func TestApplyPatch_Rename(t *testing.T) {
	root := t.TempDir()
	oldPath := writeFile(t, root, "before.txt", "keep\nchange\n")

	text := "diff --git a/before.txt b/after.txt\n" +
		"rename from before.txt\n" +
		"rename to after.txt\n" +
		"--- a/before.txt\n+++ b/after.txt\n" +
		"@@ -1,2 +1,2 @@\n keep\n-change\n+changed\n"

	a := &Applier{Root: root}
	result := a.ApplyPatch(context.Background(), text)

	assert.Equal(t, []string{"after.txt"}, result.Applied)
	assert.NoFileExists(t, oldPath)
	assert.Equal(t, "keep\nchanged\n", readFile(t, filepath.Join(root, "after.txt")))
}

func TestApplyPatch_ModifyMissingFileWarns(t *testing.T) {
	root := t.TempDir()
	text := "diff --git a/absent.txt b/absent.txt\n" +
		"--- a/absent.txt\n+++ b/absent.txt\n" +
		"@@ -0,0 +1,1 @@\n+content\n"

	a := &Applier{Root: root}
	result := a.ApplyPatch(context.Background(), text)

	assert.Equal(t, []string{"absent.txt"}, result.Applied)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "treating as empty")
}

func TestApplyPatch_PathEscapeIsRejected(t *testing.T) {
	root := t.TempDir()
	text := "diff --git a/../escape.txt b/../escape.txt\n" +
		"--- a/../escape.txt\n+++ b/../escape.txt\n" +
		"@@ -0,0 +1,1 @@\n+nope\n"

	a := &Applier{Root: root}
	result := a.ApplyPatch(context.Background(), text)

	assert.Empty(t, result.Applied)
	assert.Equal(t, []string{"../escape.txt"}, result.Rejected)
	assert.NoFileExists(t, filepath.Join(root, "..", "escape.txt"))
}

func TestApplyPatch_EmptyPatch(t *testing.T) {
	a := &Applier{Root: t.TempDir()}
	result := a.ApplyPatch(context.Background(), "   \n")

	assert.Equal(t, StrategyNone, result.Strategy)
	assert.Empty(t, result.Applied)
	assert.Empty(t, result.Rejected)
}

func TestApplyPatch_DelegatedSuccess(t *testing.T) {
	g := &stubGit{staged: []string{"greet.go"}}
	a := &Applier{Root: t.TempDir(), Git: g}

	result := a.ApplyPatch(context.Background(), samplePatch)

	assert.Equal(t, StrategyThreeWay, result.Strategy)
	assert.Equal(t, []string{"greet.go"}, result.Applied)
	assert.Empty(t, result.Rejected)
	require.Len(t, g.appliedFiles, 1)
	// The temp handoff file is removed regardless of outcome.
	assert.NoFileExists(t, g.appliedFiles[0])
}

func TestApplyPatch_DelegatedFailureFallsBack(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "greet.go", "package main\n\nfunc greet() string {\n\treturn \"hi\"\n}\n")

	g := &stubGit{applyErr: errors.New("patch does not apply")}
	a := &Applier{Root: root, Git: g}

	result := a.ApplyPatch(context.Background(), samplePatch)

	assert.Equal(t, StrategyManual, result.Strategy)
	assert.Equal(t, []string{"greet.go"}, result.Applied)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "falling back to manual application")
}

func TestApplyPatch_DelegatedSuccessReportsLeftoverConflicts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "merged.txt", "<<<<<<< HEAD\nA\n=======\nB\n>>>>>>> branch\n")

	g := &stubGit{staged: []string{"merged.txt"}, unmerged: []string{"merged.txt"}}
	a := &Applier{Root: root, Git: g}

	result := a.ApplyPatch(context.Background(), samplePatch)

	assert.Equal(t, StrategyThreeWay, result.Strategy)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, ConflictMerge, result.Conflicts[0].Kind)
	assert.Equal(t, "A", result.Conflicts[0].Original)
	assert.Equal(t, "B", result.Conflicts[0].Incoming)
}

func TestSplitJoinLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		lines   []string
	}{
		{"empty", "", nil},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"single line", "a\n", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lines, splitLines(tt.content))
		})
	}

	assert.Equal(t, "a\nb\n", joinLines([]string{"a", "b"}))
	assert.Equal(t, "", joinLines(nil))
}
