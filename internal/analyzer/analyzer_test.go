package analyzer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/drpaneas/redditpersona/internal/llm"
	"github.com/drpaneas/redditpersona/internal/reddit"
	"github.com/drpaneas/redditpersona/internal/textutil"
)

type fakeProvider struct {
	mu      sync.Mutex
	prompts []string
	respond func(prompt string) (string, error)
}

func (f *fakeProvider) Complete(_ context.Context, _, prompt string, _ *llm.CompleteOptions) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(prompt)
}

const synthesisJSON = `{"summary":"A home cook.","demographics":"Unknown","interests":["cooking","cycling"],"motivations":"sharing recipes","personality":"warm","behaviours_and_habits":"posts at night","frustrations":"soggy bread","goals_and_needs":"better sourdough","communication_style":"friendly","notable_quotes":"\"Just add salt\" (source: https://www.reddit.com/r/Cooking/comments/1/)"}`

func testData() *reddit.UserData {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &reddit.UserData{
		Posts: []reddit.Item{
			{Kind: reddit.KindPost, Subreddit: "Cooking", Title: "My sourdough", Body: "It came out flat.", Permalink: "https://www.reddit.com/r/Cooking/comments/1/", CreatedAt: at},
			{Kind: reddit.KindPost, Subreddit: "bicycling", Title: "New bike day", Permalink: "https://www.reddit.com/r/bicycling/comments/2/", CreatedAt: at},
		},
		Comments: []reddit.Item{
			{Kind: reddit.KindComment, Subreddit: "Cooking", LinkTitle: "Salt question", Body: "Just add salt.", Permalink: "https://www.reddit.com/r/Cooking/comments/3/c/", CreatedAt: at},
		},
	}
}

func TestRoundRobin(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := roundRobin(nil); len(got) != 0 {
			t.Errorf("expected empty, got %v", got)
		}
	})

	t.Run("round robin across buckets", func(t *testing.T) {
		got := strings.Join(roundRobin([][]string{
			{"A1-", "A2-", "A3-"},
			{"B1-", "B2-"},
			{"C1-"},
		}), "")
		want := "A1-B1-C1-A2-B2-A3-"
		if got != want {
			t.Errorf("roundRobin = %q, want %q", got, want)
		}
	})

	t.Run("small subreddit appears early", func(t *testing.T) {
		var big []string
		for i := 0; i < 100; i++ {
			big = append(big, "A-")
		}
		got := roundRobin([][]string{big, {"B1-", "B2-"}})
		if len(got) < 2 || got[1] != "B1-" {
			t.Errorf("B1 should be the second item, got %v", got[:min(4, len(got))])
		}
	})
}

func TestParseSynthesis(t *testing.T) {
	t.Run("raw json with array value", func(t *testing.T) {
		result, err := ParseSynthesis(synthesisJSON)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Summary != "A home cook." {
			t.Errorf("Summary = %q", result.Summary)
		}
		if result.Interests != "cooking\ncycling" {
			t.Errorf("Interests = %q, want joined lines", result.Interests)
		}
		if result.BehavioursAndHabits != "posts at night" {
			t.Errorf("BehavioursAndHabits = %q", result.BehavioursAndHabits)
		}
	})

	t.Run("json in code fence with preamble", func(t *testing.T) {
		input := "Here is the persona:\n```json\n{\"summary\":\"lurker\",\"goals_and_needs\":\"advice\"}\n```"
		result, err := ParseSynthesis(input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Summary != "lurker" || result.GoalsAndNeeds != "advice" {
			t.Errorf("got %+v", result)
		}
	})

	t.Run("fence inside string value is kept", func(t *testing.T) {
		input := "{\"communication_style\":\"uses ``` blocks\"}"
		result, err := ParseSynthesis(input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.CommunicationStyle != "uses ``` blocks" {
			t.Errorf("CommunicationStyle = %q", result.CommunicationStyle)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseSynthesis("  "); err == nil {
			t.Error("expected error for empty input")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseSynthesis("not json at all"); err == nil {
			t.Error("expected error for non-JSON input")
		}
	})
}

func TestBuildContent(t *testing.T) {
	got := BuildContent(testData(), 1)
	parts := strings.Split(got, "\n---\n")
	if len(parts) != 2 {
		t.Fatalf("expected 2 items (1 per section), got %d: %q", len(parts), got)
	}
	if !strings.HasPrefix(parts[0], "[POSTS] My sourdough It came out flat.\nSource: https://www.reddit.com/r/Cooking/comments/1/") {
		t.Errorf("unexpected post chunk %q", parts[0])
	}
	if !strings.HasPrefix(parts[1], "[COMMENTS] Just add salt.\nSource: ") {
		t.Errorf("unexpected comment chunk %q", parts[1])
	}
}

func TestBuildSubredditText(t *testing.T) {
	got := buildSubredditText(testData())
	want := "  r/Cooking: 2\n  r/bicycling: 1\n"
	if got != want {
		t.Errorf("buildSubredditText = %q, want %q", got, want)
	}
	if got := buildSubredditText(&reddit.UserData{}); got != "No subreddit information." {
		t.Errorf("empty data = %q", got)
	}
}

func TestAnalyze(t *testing.T) {
	fp := &fakeProvider{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "unified user persona"):
			return "```json\n" + synthesisJSON + "\n```", nil
		case strings.Contains(prompt, "interests and community involvement"):
			return "likes cooking", nil
		default:
			return "friendly voice", nil
		}
	}}

	persona, err := New(fp).Analyze(context.Background(), "cook42", testData(), "Items analyzed: 2 posts, 1 comments\n")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if persona.Interests != "likes cooking" || persona.Voice != "friendly voice" {
		t.Errorf("sub-analyses = %q / %q", persona.Interests, persona.Voice)
	}
	if len(persona.Sources) != 3 {
		t.Errorf("expected 3 sources, got %d", len(persona.Sources))
	}
	if persona.Synthesis == nil || persona.Synthesis.Frustrations != "soggy bread" {
		t.Fatalf("unexpected synthesis %+v", persona.Synthesis)
	}
	if len(fp.prompts) != 3 {
		t.Fatalf("expected 3 LLM calls, got %d", len(fp.prompts))
	}
	last := fp.prompts[2]
	for _, want := range []string{"Items analyzed: 2 posts", "likes cooking", "friendly voice", "[POSTS] My sourdough"} {
		if !strings.Contains(last, want) {
			t.Errorf("synthesis prompt missing %q", want)
		}
	}
}

func TestAnalyze_NoComments(t *testing.T) {
	data := testData()
	data.Comments = nil
	fp := &fakeProvider{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "unified user persona") {
			return synthesisJSON, nil
		}
		return "interests", nil
	}}

	persona, err := New(fp).Analyze(context.Background(), "cook42", data, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !strings.HasPrefix(persona.Voice, "Insufficient data") {
		t.Errorf("Voice = %q, want placeholder", persona.Voice)
	}
	if len(fp.prompts) != 2 {
		t.Errorf("expected 2 LLM calls, got %d", len(fp.prompts))
	}
	if !strings.Contains(fp.prompts[len(fp.prompts)-1], "None computed.") {
		t.Error("synthesis prompt should mark missing signals")
	}
}

func TestAnalyze_ProviderError(t *testing.T) {
	boom := errors.New("rate limited")
	fp := &fakeProvider{respond: func(string) (string, error) { return "", boom }}
	_, err := New(fp).Analyze(context.Background(), "cook42", testData(), "")
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}

func TestPersonaMarkdown(t *testing.T) {
	synth, err := ParseSynthesis(synthesisJSON)
	if err != nil {
		t.Fatal(err)
	}
	synth.Demographics = ""
	md := (&Persona{Username: "cook42", Synthesis: synth}).Markdown()

	if !strings.HasPrefix(md, "### User Persona: u/cook42\n") {
		t.Errorf("missing title: %q", md)
	}
	if !strings.Contains(md, "**Interests**\n- cooking\n- cycling\n") {
		t.Errorf("interests not rendered as bullets:\n%s", md)
	}
	if strings.Contains(md, "**Demographics**") {
		t.Error("empty section should be skipped")
	}
	if !strings.Contains(md, "**Behaviours & Habits**\n- posts at night") {
		t.Errorf("missing behaviours section:\n%s", md)
	}
}

func TestBulletLines(t *testing.T) {
	got := bulletLines("- one\n\n * two\nthree  ")
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("bulletLines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompare(t *testing.T) {
	long := strings.Repeat("word ", 100)
	second := &reddit.UserData{Comments: []reddit.Item{{Kind: reddit.KindComment, Subreddit: "golang", Body: long}}}

	fp := &fakeProvider{respond: func(string) (string, error) { return "  ## Report\n", nil }}
	out, err := New(fp).Compare(context.Background(),
		Subject{Username: "cook42", Data: testData(), Signals: "sig-one"},
		Subject{Username: "gopher", Data: second},
	)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if out != "## Report" {
		t.Errorf("Compare = %q", out)
	}
	prompt := fp.prompts[0]
	for _, want := range []string{"u/cook42", "u/gopher", "sig-one", "None computed.", "[r/golang]", "Overall Compatibility Assessment"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, long) {
		t.Error("long comment should be truncated")
	}
}

func TestCompareContent_Limits(t *testing.T) {
	data := &reddit.UserData{}
	for i := 0; i < 20; i++ {
		data.Comments = append(data.Comments, reddit.Item{Kind: reddit.KindComment, Subreddit: "x", Body: "hi"})
	}
	got := compareContent(data)
	if n := strings.Count(got, "- [r/x] hi"); n != compareItems {
		t.Errorf("expected %d items, got %d", compareItems, n)
	}
	if compareContent(&reddit.UserData{}) != "No content." {
		t.Error("empty data should say no content")
	}
}

func TestTopSources(t *testing.T) {
	data := &reddit.UserData{
		Posts: []reddit.Item{
			{Kind: reddit.KindPost, Title: "low", Score: 1, Permalink: "p1"},
			{Kind: reddit.KindPost, Title: "no link", Score: 100},
		},
		Comments: []reddit.Item{
			{Kind: reddit.KindComment, Body: "high", Score: 50, Permalink: "c1"},
			{Kind: reddit.KindComment, Body: "  ", Score: 70, Permalink: "c2"},
		},
	}
	got := topSources(data, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 sources, got %d: %+v", len(got), got)
	}
	if got[0].Permalink != "c1" || got[1].Permalink != "p1" {
		t.Errorf("sources out of order: %+v", got)
	}
	if n := len(topSources(data, 1)); n != 1 {
		t.Errorf("limit not applied, got %d", n)
	}
}

func TestFirstChunk(t *testing.T) {
	if got := firstChunk("posts", nil); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	block := strings.Repeat("x", maxChunkSize/2)
	got := firstChunk("posts", []string{block, block, block})
	if got != block {
		t.Errorf("expected only the first whole block, got %d bytes", len(got))
	}
}

func TestPersonaMarkdown_Sources(t *testing.T) {
	p := &Persona{
		Username:  "cook42",
		Synthesis: &SynthesisResult{Summary: "A home cook."},
		Sources:   []textutil.Citation{{Text: "Just add salt", Permalink: "https://www.reddit.com/c1"}},
	}
	md := p.Markdown()
	if !strings.Contains(md, "**Top Sources**\n- \"Just add salt\" ([source](https://www.reddit.com/c1))") {
		t.Errorf("sources not rendered:\n%s", md)
	}
}
