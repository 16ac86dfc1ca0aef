package benchmark

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/drpaneas/redditpersona/internal/analyzer"
	"github.com/drpaneas/redditpersona/internal/llm"
	"github.com/drpaneas/redditpersona/internal/reddit"
)

var longBody = strings.Repeat("sourdough needs time ", 5)

type scriptedProvider struct {
	mu      sync.Mutex
	scores  []string
	refines int
	calls   int
	temps   map[string][]float32
}

func (p *scriptedProvider) Complete(_ context.Context, system, _ string, opts *llm.CompleteOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if opts != nil && opts.Temperature != nil {
		if p.temps == nil {
			p.temps = map[string][]float32{}
		}
		p.temps[system] = append(p.temps[system], *opts.Temperature)
	}
	switch system {
	case dryRunSystemPrompt:
		return "  generated comment  ", nil
	case compareSystemPrompt:
		s := p.scores[0]
		if len(p.scores) > 1 {
			p.scores = p.scores[1:]
		}
		return s, nil
	case refineSystemPrompt:
		p.refines++
		return `{"summary":"refined","communication_style":""}`, nil
	}
	return "", errors.New("unexpected system prompt")
}

func testPersona() *analyzer.Persona {
	return &analyzer.Persona{
		Username: "cook42",
		Synthesis: &analyzer.SynthesisResult{
			Summary:            "original",
			CommunicationStyle: "friendly",
		},
	}
}

func TestSplitComments(t *testing.T) {
	data := &reddit.UserData{Comments: []reddit.Item{
		{ID: "a", LinkTitle: "Thread", Body: "short"},
		{ID: "b", LinkTitle: "", Body: longBody},
		{ID: "c", LinkTitle: "Bread", Body: longBody, Subreddit: "Baking", Permalink: "https://www.reddit.com/c"},
		{ID: "d", LinkTitle: "Bread 2", Body: longBody},
		{ID: "e", LinkTitle: "Bread 3", Body: longBody},
	}}

	heldOut := SplitComments(data, 2)
	if len(heldOut) != 2 {
		t.Fatalf("expected 2 held out, got %d", len(heldOut))
	}
	if heldOut[0].LinkTitle != "Bread" || heldOut[0].Subreddit != "Baking" || heldOut[0].Permalink != "https://www.reddit.com/c" {
		t.Errorf("unexpected first held-out comment %+v", heldOut[0])
	}
	var ids []string
	for _, c := range data.Comments {
		ids = append(ids, c.ID)
	}
	if got := strings.Join(ids, ","); got != "a,b,e" {
		t.Errorf("remaining comments = %s, want a,b,e", got)
	}
}

func TestSplitComments_None(t *testing.T) {
	data := &reddit.UserData{}
	if got := SplitComments(data, MaxHeldOut); len(got) != 0 {
		t.Errorf("expected nothing held out, got %d", len(got))
	}
}

func TestRun_NoHeldOut(t *testing.T) {
	p := &scriptedProvider{}
	res, persona, err := New(p).Run(context.Background(), testPersona(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalScore != -1 || p.calls != 0 {
		t.Errorf("expected skipped benchmark, got score %.1f with %d calls", res.FinalScore, p.calls)
	}
	if persona.Synthesis.Summary != "original" {
		t.Error("persona should be returned unchanged")
	}
}

func TestRun_TargetReached(t *testing.T) {
	p := &scriptedProvider{scores: []string{`{"score": 90, "feedback": "close"}`}}
	heldOut := []HeldOutComment{{Subreddit: "Baking", LinkTitle: "Bread", Body: longBody}}

	res, persona, err := New(p).Run(context.Background(), testPersona(), heldOut)
	if err != nil {
		t.Fatal(err)
	}
	if res.Iterations != 1 || res.FinalScore != 90 {
		t.Errorf("got iterations=%d score=%.1f", res.Iterations, res.FinalScore)
	}
	if p.refines != 0 {
		t.Errorf("expected no refinement, got %d", p.refines)
	}
	if res.History[0].Pairs[0].Generated != "generated comment" {
		t.Errorf("Generated = %q", res.History[0].Pairs[0].Generated)
	}
	if persona.Synthesis.Summary != "original" {
		t.Error("persona should not be refined")
	}
}

func TestRun_RefinesUntilMaxIterations(t *testing.T) {
	p := &scriptedProvider{scores: []string{`{"score": 40, "feedback": "too formal"}`}}
	heldOut := []HeldOutComment{
		{Subreddit: "Baking", LinkTitle: "Bread", Body: longBody},
		{Subreddit: "Baking", LinkTitle: "Rye", Body: longBody},
	}
	original := testPersona()

	res, persona, err := New(p).Run(context.Background(), original, heldOut)
	if err != nil {
		t.Fatal(err)
	}
	if res.Iterations != MaxIterations || len(res.History) != MaxIterations {
		t.Errorf("expected %d iterations, got %d", MaxIterations, res.Iterations)
	}
	if p.refines != MaxIterations-1 {
		t.Errorf("expected %d refinements, got %d", MaxIterations-1, p.refines)
	}
	if persona.Synthesis.Summary != "refined" {
		t.Errorf("Summary = %q, want refined", persona.Synthesis.Summary)
	}
	if persona.Synthesis.CommunicationStyle != "friendly" {
		t.Errorf("empty refined field should keep previous value, got %q", persona.Synthesis.CommunicationStyle)
	}
	if original.Synthesis.Summary != "original" {
		t.Error("input persona must not be modified")
	}
	if !strings.Contains(res.History[0].Feedback, "too formal\n---\ntoo formal") {
		t.Errorf("Feedback = %q", res.History[0].Feedback)
	}
}

func TestRun_UsesTemperature(t *testing.T) {
	p := &scriptedProvider{scores: []string{`{"score": 10, "feedback": "off"}`}}
	heldOut := []HeldOutComment{{Subreddit: "Baking", LinkTitle: "Bread", Body: longBody}}

	b := New(p)
	b.SetTemperature(1.3)
	b.SetTemperature(5) // out of range, ignored
	if _, _, err := b.Run(context.Background(), testPersona(), heldOut); err != nil {
		t.Fatal(err)
	}

	for _, system := range []string{dryRunSystemPrompt, refineSystemPrompt} {
		temps := p.temps[system]
		if len(temps) == 0 {
			t.Fatalf("no temperature passed for %.30q", system)
		}
		for _, got := range temps {
			if got != 1.3 {
				t.Errorf("temperature = %v, want 1.3", got)
			}
		}
	}
}

func TestParseComparisonResult(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		score float64
	}{
		{"plain", `{"score": 72.5, "feedback": "ok"}`, 72.5},
		{"fenced", "Result:\n```json\n{\"score\": 60, \"feedback\": \"ok\"}\n```", 60},
		{"trailing commentary", `{"score": 55, "feedback": "ok"} I hope this helps.`, 55},
		{"trailing comma", `{"score": 30, "feedback": "ok",}`, 30},
		{"clamped", `{"score": 130, "feedback": "ok"}`, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseComparisonResult(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.score != tt.score {
				t.Errorf("score = %v, want %v", got.score, tt.score)
			}
		})
	}

	if _, err := parseComparisonResult("no idea"); err == nil {
		t.Error("expected error for non-JSON input")
	}
}

func TestStripCodeFences(t *testing.T) {
	if got := stripCodeFences("```\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
	if got := stripCodeFences("{\"a\":\"```\"}"); got != "{\"a\":\"```\"}" {
		t.Errorf("JSON starting with brace should be untouched, got %q", got)
	}
}
