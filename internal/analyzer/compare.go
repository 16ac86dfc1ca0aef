package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/drpaneas/redditpersona/internal/llm"
	"github.com/drpaneas/redditpersona/internal/reddit"
	"github.com/drpaneas/redditpersona/internal/textutil"
)

const (
	compareItems     = 15
	compareItemChars = 200
)

// Subject is one side of a comparison.
type Subject struct {
	Username string
	Data     *reddit.UserData
	Signals  string
}

// Compare asks the LLM for a six-section Markdown report contrasting two users.
func (a *Analyzer) Compare(ctx context.Context, first, second Subject) (string, error) {
	slog.Info("comparing users", "first", first.Username, "second", second.Username)
	prompt := fmt.Sprintf(comparePrompt,
		first.Username, orNone(first.Signals), truncateChunk(compareContent(first.Data)),
		second.Username, orNone(second.Signals), truncateChunk(compareContent(second.Data)),
	)
	out, err := a.provider.Complete(ctx, compareSystemPrompt, prompt, llm.WithTemperature(a.temperature))
	if err != nil {
		return "", fmt.Errorf("comparing %s and %s: %w", first.Username, second.Username, err)
	}
	return strings.TrimSpace(out), nil
}

// compareContent lists up to compareItems items per section, each cut to
// compareItemChars characters.
func compareContent(data *reddit.UserData) string {
	if data == nil {
		return "No content."
	}
	var b strings.Builder
	for _, sec := range data.Sections() {
		if len(sec.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(sec.Name))
		for _, it := range sec.Items[:min(compareItems, len(sec.Items))] {
			text := textutil.CleanText(it.Text())
			if r := []rune(text); len(r) > compareItemChars {
				text = string(r[:compareItemChars]) + "..."
			}
			fmt.Fprintf(&b, "- [r/%s] %s\n", it.Subreddit, text)
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "No content."
	}
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None computed."
	}
	return s
}
