package textutil

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{
			name:  "newlines and extra spaces",
			input: "This is a sample text.\nIt has line breaks.   And   extra spaces.",
			want:  "This is a sample text. It has line breaks. And extra spaces.",
		},
		{
			name:  "markdown link reduced to label",
			input: "see [the docs](https://go.dev/doc) first",
			want:  "see the docs first",
		},
		{"surrounding whitespace", "  \t hi \n", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestChunkText(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := ChunkText(nil, 100); len(got) != 0 {
			t.Errorf("expected no chunks, got %v", got)
		}
	})

	t.Run("small texts share a chunk", func(t *testing.T) {
		got := ChunkText([]string{"a", "b", "c"}, 100)
		if len(got) != 1 {
			t.Fatalf("expected 1 chunk, got %d: %v", len(got), got)
		}
		if got[0] != "a\n\nb\n\nc" {
			t.Errorf("chunk = %q", got[0])
		}
	})

	t.Run("oversize texts split", func(t *testing.T) {
		text := strings.Repeat("word ", 50)
		got := ChunkText([]string{text, text, text}, 100)
		if len(got) != 3 {
			t.Fatalf("expected 3 chunks, got %d", len(got))
		}
	})

	t.Run("chunks stay under size", func(t *testing.T) {
		var texts []string
		for i := 0; i < 40; i++ {
			texts = append(texts, "twelve chars")
		}
		for _, c := range ChunkText(texts, 100) {
			if len(c) >= 100 {
				t.Errorf("chunk of length %d exceeds size", len(c))
			}
		}
	})
}

func TestFormatCitations(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := FormatCitations([]Citation{
		{Text: "short [link](http://a)", Permalink: "https://www.reddit.com/r/go/1"},
		{Text: long, Permalink: "https://www.reddit.com/r/go/2"},
	})
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"short link"`) || !strings.Contains(lines[0], "([source](https://www.reddit.com/r/go/1))") {
		t.Errorf("unexpected first citation: %q", lines[0])
	}
	if !strings.Contains(lines[1], "...") {
		t.Errorf("expected long citation to be truncated: %q", lines[1])
	}

	// Cleaning can shrink a long text below the limit; the ellipsis still
	// marks that the source was longer.
	spaced := "word" + strings.Repeat(" ", 200) + "end"
	got = FormatCitations([]Citation{{Text: spaced, Permalink: "p"}})
	if got != `- "word end..." ([source](p))` {
		t.Errorf("spaced citation = %q", got)
	}

	got = FormatCitations([]Citation{{Text: `he said "go"`, Permalink: "p"}})
	if got != `- "he said "go"" ([source](p))` {
		t.Errorf("embedded quotes must not be escaped: %q", got)
	}
}
