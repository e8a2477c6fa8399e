package main

import (
	"fmt"
	"strings"

	"github.com/dhrxv8/TermCoder-sub000/patch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	selectedMarkStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10"))

	deselectedMarkStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("8"))

	addLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	removeLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	contextLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("7"))
)

// reviewModel is the interactive hunk selector. It only flips Selected
// flags; parsing and patch regeneration stay in the patch package.
type reviewModel struct {
	selections []*patch.HunkSelection
	cursor     int
	aborted    bool
}

func newReviewModel(sels []*patch.HunkSelection) reviewModel {
	return reviewModel{selections: sels}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit

	case "q":
		return m, tea.Quit

	case "s", " ":
		if len(m.selections) > 0 {
			patch.Toggle(m.selections, m.selections[m.cursor].ID)
		}

	case "n", "down", "j":
		if m.cursor < len(m.selections)-1 {
			m.cursor++
		}

	case "p", "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "a":
		all := true
		for _, s := range m.selections {
			if !s.Selected {
				all = false
				break
			}
		}
		patch.SetAll(m.selections, !all)
	}

	return m, nil
}

func (m reviewModel) View() string {
	var s strings.Builder

	selected := 0
	for _, sel := range m.selections {
		if sel.Selected {
			selected++
		}
	}
	s.WriteString(headerStyle.Render(
		fmt.Sprintf("Reviewing %d hunk(s), %d selected", len(m.selections), selected)) + "\n")
	s.WriteString(dimStyle.Render("  s toggle · n/p move · a toggle all · q apply · esc abort") + "\n\n")

	for i, sel := range m.selections {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		mark := deselectedMarkStyle.Render("[ ]")
		if sel.Selected {
			mark = selectedMarkStyle.Render("[x]")
		}

		h := sel.Hunk
		label := fmt.Sprintf("%s @@ -%d,%d +%d,%d @@", sel.FilePath, h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		if h.Context != "" {
			label += " " + h.Context
		}
		s.WriteString(cursor + mark + " " + label + "\n")

		// Only the hunk under the cursor shows its body.
		if i != m.cursor {
			continue
		}
		for _, dl := range h.Lines {
			switch dl.Kind {
			case patch.LineAdd:
				s.WriteString("      " + addLineStyle.Render("+"+dl.Content) + "\n")
			case patch.LineRemove:
				s.WriteString("      " + removeLineStyle.Render("-"+dl.Content) + "\n")
			default:
				s.WriteString("      " + contextLineStyle.Render(" "+dl.Content) + "\n")
			}
		}
	}

	return s.String()
}
