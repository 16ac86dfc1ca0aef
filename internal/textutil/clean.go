package textutil

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	markdownLink = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// CleanText normalizes Reddit markdown for LLM input: links are reduced to
// their label and runs of whitespace collapse to a single space.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = markdownLink.ReplaceAllString(s, "$1")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ChunkText greedily packs texts into chunks shorter than size characters.
// A text that is longer than size on its own becomes a chunk by itself.
func ChunkText(texts []string, size int) []string {
	var chunks []string
	var current strings.Builder
	for _, t := range texts {
		if current.Len()+len(t)+2 < size {
			if current.Len() > 0 {
				current.WriteString("\n\n")
			}
			current.WriteString(t)
			continue
		}
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
		}
		current.Reset()
		current.WriteString(t)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// Citation is a quoted piece of content with its source link.
type Citation struct {
	Text      string
	Permalink string
}

// FormatCitations renders one markdown bullet per citation, quoting at most
// the first 150 characters of the cleaned text. An ellipsis marks any source
// text longer than 150 characters.
func FormatCitations(items []Citation) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		content := CleanText(it.Text)
		if utf8.RuneCountInString(it.Text) > 150 {
			content = Truncate(content, 150, "") + "..."
		}
		lines = append(lines, fmt.Sprintf("- \"%s\" ([source](%s))", content, it.Permalink))
	}
	return strings.Join(lines, "\n")
}
