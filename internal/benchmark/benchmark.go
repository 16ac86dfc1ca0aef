package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/drpaneas/redditpersona/internal/analyzer"
	"github.com/drpaneas/redditpersona/internal/llm"
	"github.com/drpaneas/redditpersona/internal/reddit"
	"github.com/drpaneas/redditpersona/internal/textutil"
)

const (
	MaxHeldOut    = 3
	MaxIterations = 3
	TargetScore   = 75.0
	// MinBodyChars is the shortest comment body worth holding out.
	MinBodyChars = 80
)

// HeldOutComment is a comment withheld from persona building for validation.
type HeldOutComment struct {
	Subreddit string
	LinkTitle string
	Body      string
	Permalink string
}

// CommentPair pairs a held-out original comment with its dry-run counterpart.
type CommentPair struct {
	Original  string
	Generated string
	Permalink string
	Score     float64
}

// IterationResult holds the outcome of a single benchmark iteration.
type IterationResult struct {
	Iteration int
	Score     float64
	Feedback  string
	Pairs     []CommentPair
}

// Result holds the overall benchmark outcome. FinalScore is -1 when nothing
// was held out.
type Result struct {
	FinalScore float64
	Iterations int
	History    []IterationResult
}

// SplitComments removes up to max comments with a thread title and a body of
// at least MinBodyChars characters from data and returns them. The remaining
// comments keep their order.
func SplitComments(data *reddit.UserData, max int) []HeldOutComment {
	var heldOut []HeldOutComment
	var kept []reddit.Item
	for _, c := range data.Comments {
		body := strings.TrimSpace(c.Body)
		if len(heldOut) < max && c.LinkTitle != "" && utf8.RuneCountInString(body) >= MinBodyChars {
			heldOut = append(heldOut, HeldOutComment{
				Subreddit: c.Subreddit,
				LinkTitle: c.LinkTitle,
				Body:      body,
				Permalink: c.Permalink,
			})
			continue
		}
		kept = append(kept, c)
	}
	data.Comments = kept
	return heldOut
}

// Benchmarker validates persona quality by generating dry-run comments and
// comparing them against held-out originals.
type Benchmarker struct {
	provider    llm.Provider
	temperature float32
}

// New returns a Benchmarker that uses the given LLM provider.
func New(provider llm.Provider) *Benchmarker {
	return &Benchmarker{provider: provider, temperature: analyzer.DefaultTemperature}
}

// SetTemperature sets the sampling temperature for dry-run comments and
// refinement. Values outside 0..2 are ignored.
func (b *Benchmarker) SetTemperature(t float32) {
	if t >= 0 && t <= 2 {
		b.temperature = t
	}
}

// Run scores the persona against the held-out comments and refines it until
// the average reaches TargetScore or MaxIterations runs out. It returns the
// result and the possibly refined persona; the input persona is not modified.
func (b *Benchmarker) Run(ctx context.Context, persona *analyzer.Persona, heldOut []HeldOutComment) (*Result, *analyzer.Persona, error) {
	if len(heldOut) == 0 {
		slog.Warn("no held-out comments available, skipping benchmark")
		return &Result{FinalScore: -1}, persona, nil
	}
	if persona.Synthesis == nil {
		return nil, nil, fmt.Errorf("persona for %s has no synthesis", persona.Username)
	}

	result := &Result{}
	current := clonePersona(persona)

	for iter := 1; iter <= MaxIterations; iter++ {
		slog.Info("benchmark iteration", "iteration", iter, "max", MaxIterations)

		ir, err := b.runIteration(ctx, current, heldOut, iter)
		if err != nil {
			return nil, nil, fmt.Errorf("benchmark iteration %d: %w", iter, err)
		}
		result.History = append(result.History, *ir)
		result.FinalScore = ir.Score
		result.Iterations = iter
		slog.Info("benchmark score", "iteration", iter, "score", fmt.Sprintf("%.1f", ir.Score))

		if ir.Score >= TargetScore {
			break
		}
		if iter == MaxIterations {
			break
		}
		refined, err := b.refinePersona(ctx, current, ir)
		if err != nil {
			return nil, nil, fmt.Errorf("refining persona (iter %d): %w", iter, err)
		}
		current = refined
	}

	return result, current, nil
}

func (b *Benchmarker) runIteration(ctx context.Context, persona *analyzer.Persona, heldOut []HeldOutComment, iter int) (*IterationResult, error) {
	ir := &IterationResult{Iteration: iter}
	var total float64
	var feedback []string

	for _, ho := range heldOut {
		prompt := fmt.Sprintf(dryRunPrompt, persona.Username, persona.Markdown(), ho.Subreddit, ho.LinkTitle)
		generated, err := b.provider.Complete(ctx, dryRunSystemPrompt, prompt, llm.WithTemperature(b.temperature))
		if err != nil {
			return nil, fmt.Errorf("dry-run comment: %w", err)
		}
		generated = strings.TrimSpace(generated)

		raw, err := b.provider.Complete(ctx, compareSystemPrompt,
			fmt.Sprintf(comparePrompt, ho.Subreddit, ho.LinkTitle, ho.Body, generated), nil)
		if err != nil {
			return nil, fmt.Errorf("comparison: %w", err)
		}
		comp, err := parseComparisonResult(raw)
		if err != nil {
			return nil, err
		}

		ir.Pairs = append(ir.Pairs, CommentPair{
			Original:  ho.Body,
			Generated: generated,
			Permalink: ho.Permalink,
			Score:     comp.score,
		})
		total += comp.score
		feedback = append(feedback, comp.feedback)
	}

	ir.Score = total / float64(len(heldOut))
	ir.Feedback = strings.Join(feedback, "\n---\n")
	return ir, nil
}

func (b *Benchmarker) refinePersona(ctx context.Context, persona *analyzer.Persona, ir *IterationResult) (*analyzer.Persona, error) {
	slog.Info("refining persona", "iteration", ir.Iteration)

	var pairs strings.Builder
	for i, p := range ir.Pairs {
		fmt.Fprintf(&pairs, "--- Pair %d (%s, score: %.0f) ---\n", i+1, p.Permalink, p.Score)
		fmt.Fprintf(&pairs, "ORIGINAL:\n%s\n\nGENERATED:\n%s\n\n", p.Original, p.Generated)
	}

	current, err := json.MarshalIndent(persona.Synthesis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding persona: %w", err)
	}

	prompt := fmt.Sprintf(refinePrompt, persona.Username, ir.Score, current, ir.Feedback, pairs.String())
	raw, err := b.provider.Complete(ctx, refineSystemPrompt, prompt, llm.WithTemperature(b.temperature))
	if err != nil {
		return nil, err
	}
	synthesis, err := analyzer.ParseSynthesis(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing refined synthesis: %w", err)
	}

	refined := clonePersona(persona)
	refined.Synthesis = mergeSynthesis(persona.Synthesis, synthesis)
	return refined, nil
}

// mergeSynthesis keeps the previous value of any field the refinement left empty.
func mergeSynthesis(prev, next *analyzer.SynthesisResult) *analyzer.SynthesisResult {
	merged := *next
	fill := func(dst *string, old string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = old
		}
	}
	fill(&merged.Summary, prev.Summary)
	fill(&merged.Demographics, prev.Demographics)
	fill(&merged.Interests, prev.Interests)
	fill(&merged.Motivations, prev.Motivations)
	fill(&merged.Personality, prev.Personality)
	fill(&merged.BehavioursAndHabits, prev.BehavioursAndHabits)
	fill(&merged.Frustrations, prev.Frustrations)
	fill(&merged.GoalsAndNeeds, prev.GoalsAndNeeds)
	fill(&merged.CommunicationStyle, prev.CommunicationStyle)
	fill(&merged.NotableQuotes, prev.NotableQuotes)
	return &merged
}

func clonePersona(p *analyzer.Persona) *analyzer.Persona {
	clone := *p
	if p.Synthesis != nil {
		s := *p.Synthesis
		clone.Synthesis = &s
	}
	return &clone
}

type comparisonResult struct {
	score    float64
	feedback string
}

func parseComparisonResult(raw string) (*comparisonResult, error) {
	text := stripCodeFences(raw)

	var parsed struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	// Decode only the first object; judges sometimes append commentary.
	if err := json.NewDecoder(strings.NewReader(text)).Decode(&parsed); err != nil {
		sanitized := textutil.SanitizeJSON(text)
		if err2 := json.NewDecoder(strings.NewReader(sanitized)).Decode(&parsed); err2 != nil {
			return nil, fmt.Errorf("invalid comparison JSON: %w\nraw (first 500 bytes): %s",
				err, textutil.Truncate(raw, 500, "..."))
		}
	}
	score := min(max(parsed.Score, 0), 100)
	return &comparisonResult{score: score, feedback: parsed.Feedback}, nil
}

func stripCodeFences(s string) string {
	text := strings.TrimSpace(s)
	if text == "" || text[0] == '{' {
		return text
	}
	idx := strings.Index(text, "```")
	if idx < 0 {
		return text
	}
	text = strings.TrimPrefix(text[idx+3:], "json")
	if end := strings.LastIndex(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}
