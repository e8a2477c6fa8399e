// Package git shells out to the git binary for the narrow set of
// primitives the patch engine delegates to.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Client runs git commands in a fixed working directory.
type Client struct {
	Dir string
}

// Apply runs git apply on a patch file.
func (c *Client) Apply(ctx context.Context, patchFile string, threeWay, whitespaceFix bool) error {
	out, err := c.run(ctx, applyArgs(patchFile, threeWay, whitespaceFix)...)
	if err != nil {
		if msg := strings.TrimSpace(out); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func applyArgs(patchFile string, threeWay, whitespaceFix bool) []string {
	args := []string{"apply"}
	if threeWay {
		args = append(args, "--3way")
	}
	if whitespaceFix {
		args = append(args, "--whitespace=fix")
	}
	return append(args, patchFile)
}

// StagedFiles lists files with staged changes.
func (c *Client) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "diff", "--name-only", "--cached")
	if err != nil {
		return nil, err
	}
	return splitFiles(out), nil
}

// UnmergedFiles lists files left in an unmerged state.
func (c *Client) UnmergedFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	return splitFiles(out), nil
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

func splitFiles(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files
}
