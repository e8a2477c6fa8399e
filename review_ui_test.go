package main

import (
	"testing"

	"github.com/dhrxv8/TermCoder-sub000/patch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewPatch = "diff --git a/list.txt b/list.txt\n" +
	"--- a/list.txt\n+++ b/list.txt\n" +
	"@@ -1,2 +1,2 @@\n-a\n+A\n b\n" +
	"@@ -5,2 +5,2 @@\n-c\n+C\n d\n"

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m reviewModel, msg tea.Msg) reviewModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(reviewModel)
	require.True(t, ok)
	return out
}

func TestReviewModel_ToggleAndNavigate(t *testing.T) {
	sels := patch.ParseForReview(reviewPatch)
	require.Len(t, sels, 2)
	m := newReviewModel(sels)

	m = update(t, m, keyMsg("s"))
	assert.False(t, sels[0].Selected)
	assert.True(t, sels[1].Selected)

	m = update(t, m, keyMsg("n"))
	assert.Equal(t, 1, m.cursor)
	m = update(t, m, keyMsg("s"))
	assert.False(t, sels[1].Selected)

	// Navigation clamps at both ends.
	m = update(t, m, keyMsg("n"))
	assert.Equal(t, 1, m.cursor)
	m = update(t, m, keyMsg("p"))
	m = update(t, m, keyMsg("p"))
	assert.Equal(t, 0, m.cursor)
}

func TestReviewModel_ToggleAll(t *testing.T) {
	sels := patch.ParseForReview(reviewPatch)
	m := newReviewModel(sels)

	// All selected, so "a" deselects everything.
	m = update(t, m, keyMsg("a"))
	for _, s := range sels {
		assert.False(t, s.Selected)
	}

	// Any deselected hunk flips "a" back to select-all.
	m = update(t, m, keyMsg("a"))
	for _, s := range sels {
		assert.True(t, s.Selected)
	}
}

func TestReviewModel_QuitAndAbort(t *testing.T) {
	sels := patch.ParseForReview(reviewPatch)

	m := newReviewModel(sels)
	next, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.False(t, next.(reviewModel).aborted)

	m = newReviewModel(sels)
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, next.(reviewModel).aborted)
}

func TestReviewModel_ViewShowsState(t *testing.T) {
	sels := patch.ParseForReview(reviewPatch)
	m := newReviewModel(sels)

	view := m.View()
	assert.Contains(t, view, "Reviewing 2 hunk(s), 2 selected")
	assert.Contains(t, view, "list.txt @@ -1,2 +1,2 @@")

	m = update(t, m, keyMsg("s"))
	assert.Contains(t, m.View(), "1 selected")
}
