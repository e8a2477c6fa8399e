package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = "claude-sonnet-4-5-20250929"

const taskSystemPrompt = `You are a coding assistant working on the repository the user describes.
Respond with a single unified diff implementing the requested change, inside one fenced code block:

` + "```diff" + `
diff --git a/path/to/file b/path/to/file
--- a/path/to/file
+++ b/path/to/file
@@ -1,3 +1,4 @@
 ...
` + "```" + `

Use "new file mode 100644" for created files and "deleted file mode 100644" for removed ones.
Do not include any other code blocks.`

// requestDiff asks the model for a unified diff implementing the task and
// extracts it from the reply.
func requestDiff(ctx context.Context, model, task string) (string, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 8192,
		System: []anthropic.TextBlockParam{
			{Text: taskSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(task)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}

	var reply strings.Builder
	for _, content := range resp.Content {
		if content.Type == "text" {
			reply.WriteString(content.Text)
		}
	}

	return extractDiff(reply.String()), nil
}

var diffFenceRe = regexp.MustCompile("(?s)```[a-z]*\\n(.*?)```")

// extractDiff pulls the unified diff out of a model reply: the first
// fenced block containing a diff header wins, then a bare diff header
// anywhere in the text. Returns "" when the reply holds no diff.
func extractDiff(reply string) string {
	for _, m := range diffFenceRe.FindAllStringSubmatch(reply, -1) {
		if strings.Contains(m[1], "diff --git ") {
			return m[1]
		}
	}
	if idx := strings.Index(reply, "diff --git "); idx >= 0 {
		return reply[idx:]
	}
	return ""
}
