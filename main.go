package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dhrxv8/TermCoder-sub000/git"
	"github.com/dhrxv8/TermCoder-sub000/patch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)

	appliedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	rejectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func main() {
	patch.SetLogger(patch.NewLoggerFromEnv())

	app := &cli.App{
		Name:  "termcoder",
		Usage: "Turn natural-language tasks and LLM diffs into source-tree edits",
		Commands: []*cli.Command{
			applyCommand(),
			reviewCommand(),
			showCommand(),
			conflictsCommand(),
			taskCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"C"},
		Usage:   "repository root to operate on",
		Value:   ".",
	}
}

// readPatchInput reads the patch text from the first argument, or stdin
// when no file is given.
func readPatchInput(c *cli.Context) (string, error) {
	if path := c.Args().First(); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read patch: %w", err)
		}
		return string(raw), nil
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read patch from stdin: %w", err)
	}
	return string(raw), nil
}

func newApplier(c *cli.Context) *patch.Applier {
	applier := &patch.Applier{Root: c.String("dir")}
	if !c.Bool("no-3way") {
		applier.Git = &git.Client{Dir: c.String("dir")}
	}
	return applier
}

func applyCommand() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Apply a unified diff to the work tree",
		ArgsUsage: "[patch-file]",
		Flags: []cli.Flag{
			dirFlag(),
			&cli.BoolFlag{
				Name:  "no-3way",
				Usage: "skip the delegated git three-way attempt",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the result as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			text, err := readPatchInput(c)
			if err != nil {
				return err
			}

			result := newApplier(c).ApplyPatch(c.Context, text)

			if c.Bool("json") {
				fmt.Println(result.JSON())
				return nil
			}
			printResult(result)
			return nil
		},
	}
}

func reviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "Select hunks interactively, then apply the filtered patch",
		ArgsUsage: "[patch-file]",
		Flags: []cli.Flag{
			dirFlag(),
			&cli.BoolFlag{
				Name:  "no-3way",
				Usage: "skip the delegated git three-way attempt",
			},
		},
		Action: func(c *cli.Context) error {
			text, err := readPatchInput(c)
			if err != nil {
				return err
			}

			sels := patch.ParseForReview(text)
			if len(sels) == 0 {
				fmt.Println("No hunks found in patch.")
				return nil
			}

			accepted, err := runReview(sels)
			if err != nil {
				return err
			}
			if !accepted {
				fmt.Println("Review aborted, nothing applied.")
				return nil
			}

			filtered := patch.RenderFiltered(sels)
			if filtered == "" {
				fmt.Println("No hunks selected, nothing applied.")
				return nil
			}

			printResult(newApplier(c).ApplyPatch(c.Context, filtered))
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a parsed summary of a patch",
		ArgsUsage: "[patch-file]",
		Action: func(c *cli.Context) error {
			text, err := readPatchInput(c)
			if err != nil {
				return err
			}

			files := patch.Parse(text)
			if len(files) == 0 {
				fmt.Println("No file diffs found in patch.")
				return nil
			}

			for _, fd := range files {
				adds, removes := 0, 0
				for _, h := range fd.Hunks {
					for _, dl := range h.Lines {
						switch dl.Kind {
						case patch.LineAdd:
							adds++
						case patch.LineRemove:
							removes++
						}
					}
				}
				name := fd.File
				if fd.Operation == patch.OpRename {
					name = fd.OldPath + " -> " + fd.NewPath
				}
				fmt.Printf("%s %s\n", headerStyle.Render(string(fd.Operation)), name)
				fmt.Println(dimStyle.Render(fmt.Sprintf("  %d hunk(s), +%d -%d", len(fd.Hunks), adds, removes)))
			}
			return nil
		},
	}
}

func conflictsCommand() *cli.Command {
	return &cli.Command{
		Name:  "conflicts",
		Usage: "List unresolved merge conflicts in the work tree",
		Flags: []cli.Flag{dirFlag()},
		Action: func(c *cli.Context) error {
			root := c.String("dir")
			conflicts := patch.FindConflicts(c.Context, root, &git.Client{Dir: root})
			if len(conflicts) == 0 {
				fmt.Println("No conflicts found.")
				return nil
			}

			for _, cf := range conflicts {
				fmt.Println(rejectedStyle.Render(fmt.Sprintf("%s:%d %s", cf.File, cf.Line, cf.Message)))
				printSpan("ours", cf.Original)
				printSpan("theirs", cf.Incoming)
			}
			return nil
		},
	}
}

func printSpan(label, span string) {
	fmt.Println(dimStyle.Render("  " + label + ":"))
	for _, line := range strings.Split(span, "\n") {
		fmt.Println(dimStyle.Render("    " + line))
	}
}

func taskCommand() *cli.Command {
	return &cli.Command{
		Name:      "task",
		Usage:     "Ask the model for a diff implementing a task, then apply it",
		ArgsUsage: "<task description>",
		Flags: []cli.Flag{
			dirFlag(),
			&cli.StringFlag{
				Name:  "model",
				Usage: "Anthropic model to use",
				Value: defaultModel,
			},
			&cli.BoolFlag{
				Name:  "no-3way",
				Usage: "skip the delegated git three-way attempt",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print the returned diff without applying it",
			},
		},
		Action: func(c *cli.Context) error {
			task := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if task == "" {
				return fmt.Errorf("a task description is required")
			}

			fmt.Println(dimStyle.Render("Asking " + c.String("model") + "..."))
			patchText, err := requestDiff(c.Context, c.String("model"), task)
			if err != nil {
				return err
			}
			if patchText == "" {
				return fmt.Errorf("the model reply contained no unified diff")
			}

			if c.Bool("dry-run") {
				fmt.Print(patchText)
				return nil
			}

			printResult(newApplier(c).ApplyPatch(c.Context, patchText))
			return nil
		},
	}
}

func printResult(r patch.DiffResult) {
	fmt.Println(headerStyle.Render(
		fmt.Sprintf("%d applied, %d rejected (%s)", len(r.Applied), len(r.Rejected), r.Strategy)))
	for _, f := range r.Applied {
		fmt.Println(appliedStyle.Render("  + " + f))
	}
	for _, f := range r.Rejected {
		fmt.Println(rejectedStyle.Render("  x " + f))
	}
	for _, w := range r.Warnings {
		fmt.Println(warnStyle.Render("  ! " + w))
	}
	for _, cf := range r.Conflicts {
		fmt.Println(rejectedStyle.Render(fmt.Sprintf("  conflict %s:%d [%s] %s", cf.File, cf.Line, cf.Kind, cf.Message)))
	}
}

// runReview drives the interactive hunk selector and reports whether the
// user finished the review rather than aborting it.
func runReview(sels []*patch.HunkSelection) (bool, error) {
	p := tea.NewProgram(newReviewModel(sels))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(reviewModel)
	if !ok {
		return false, fmt.Errorf("unexpected review model type")
	}
	return !m.aborted, nil
}
