package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/drpaneas/redditpersona/internal/llm"
	"github.com/drpaneas/redditpersona/internal/reddit"
	"github.com/drpaneas/redditpersona/internal/textutil"
)

const (
	maxChunkSize = 30000 // bytes per LLM input chunk
	// MaxSources caps the cited items appended to a persona.
	MaxSources = 5
	// ItemsPerSection caps how many posts and how many comments go into the
	// raw content sample.
	ItemsPerSection = 20
	// DefaultTemperature is used for persona and comparison generation.
	DefaultTemperature = 0.5
)

// SynthesisResult holds the structured fields produced by the LLM synthesis step.
type SynthesisResult struct {
	Summary             string `json:"summary"`
	Demographics        string `json:"demographics"`
	Interests           string `json:"interests"`
	Motivations         string `json:"motivations"`
	Personality         string `json:"personality"`
	BehavioursAndHabits string `json:"behaviours_and_habits"`
	Frustrations        string `json:"frustrations"`
	GoalsAndNeeds       string `json:"goals_and_needs"`
	CommunicationStyle  string `json:"communication_style"`
	NotableQuotes       string `json:"notable_quotes"`
}

// Persona holds all analysis results for a Reddit user.
type Persona struct {
	Username  string
	Interests string
	Voice     string
	Synthesis *SynthesisResult
	// Sources are the user's highest-scored items, cited verbatim.
	Sources []textutil.Citation
}

// Analyzer uses an LLM provider to extract a user persona from scraped data.
type Analyzer struct {
	provider    llm.Provider
	temperature float32
}

// New returns an Analyzer that uses the given LLM provider.
func New(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider, temperature: DefaultTemperature}
}

// SetTemperature overrides the sampling temperature. Values outside 0..2
// are ignored.
func (a *Analyzer) SetTemperature(t float32) {
	if t >= 0 && t <= 2 {
		a.temperature = t
	}
}

// Analyze runs parallel LLM analyses on the scraped data and synthesizes a
// Persona. signals is a plain-text block of precomputed statistics passed to
// the synthesis step; it may be empty.
func (a *Analyzer) Analyze(ctx context.Context, username string, data *reddit.UserData, signals string) (*Persona, error) {
	persona := &Persona{Username: username, Sources: topSources(data, MaxSources)}

	postsText := buildPostsText(data)
	commentsText := buildCommentsText(data)
	subreddits := buildSubredditText(data)
	opts := llm.WithTemperature(a.temperature)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if postsText == "" {
			slog.Warn("no posts found, skipping interests analysis")
			persona.Interests = "Insufficient data for interests analysis."
			return nil
		}
		slog.Info("analyzing interests and communities")
		prompt := fmt.Sprintf(interestsPrompt, username, subreddits, postsText)
		result, err := a.provider.Complete(gCtx, systemPrompt, prompt, opts)
		if err != nil {
			return fmt.Errorf("interests analysis: %w", err)
		}
		persona.Interests = result
		return nil
	})

	g.Go(func() error {
		if commentsText == "" {
			slog.Warn("no comments found, skipping voice analysis")
			persona.Voice = "Insufficient data for voice analysis."
			return nil
		}
		slog.Info("analyzing voice and behavior")
		prompt := fmt.Sprintf(voicePrompt, username, commentsText)
		result, err := a.provider.Complete(gCtx, systemPrompt, prompt, opts)
		if err != nil {
			return fmt.Errorf("voice analysis: %w", err)
		}
		persona.Voice = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(signals) == "" {
		signals = "None computed."
	}

	slog.Info("synthesizing user persona")
	synthesisInput := fmt.Sprintf(synthesisPrompt,
		username,
		signals,
		truncateChunk(persona.Interests),
		truncateChunk(persona.Voice),
		truncateChunk(BuildContent(data, ItemsPerSection)),
	)
	raw, err := a.provider.Complete(ctx, systemPrompt, synthesisInput, opts)
	if err != nil {
		return nil, fmt.Errorf("persona synthesis: %w", err)
	}

	synthesis, err := ParseSynthesis(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing synthesis JSON: %w", err)
	}
	persona.Synthesis = synthesis

	return persona, nil
}

// ParseSynthesis extracts a SynthesisResult from the LLM response. It handles
// both raw JSON and JSON wrapped in markdown code fences.
func ParseSynthesis(raw string) (*SynthesisResult, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("empty response from LLM")
	}

	// Only strip code fences when the response has non-JSON preamble.
	// If it already starts with '{', a ``` may sit inside a string value.
	if text[0] != '{' {
		if idx := strings.Index(text, "```"); idx >= 0 {
			text = text[idx+3:]
			text = strings.TrimPrefix(text, "json")
			if end := strings.LastIndex(text, "```"); end >= 0 {
				text = text[:end]
			}
			text = strings.TrimSpace(text)
		}
	}

	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &rawMap); err != nil {
		sanitized := textutil.SanitizeJSON(text)
		if err2 := json.Unmarshal([]byte(sanitized), &rawMap); err2 != nil {
			return nil, fmt.Errorf("invalid JSON from LLM: %w\nraw response (first 500 bytes): %s",
				err, textutil.Truncate(raw, 500, "..."))
		}
	}

	for k, v := range rawMap {
		trimmed := strings.TrimSpace(string(v))
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var items []string
			if err := json.Unmarshal(v, &items); err == nil {
				joined, _ := json.Marshal(strings.Join(items, "\n"))
				rawMap[k] = joined
			}
		}
	}

	normalized, err := json.Marshal(rawMap)
	if err != nil {
		return nil, fmt.Errorf("re-marshaling normalized JSON: %w", err)
	}

	var result SynthesisResult
	if err := json.Unmarshal(normalized, &result); err != nil {
		return nil, fmt.Errorf("invalid JSON from LLM after normalization: %w\nraw response (first 500 bytes): %s",
			err, textutil.Truncate(raw, 500, "..."))
	}
	return &result, nil
}

// BuildContent formats up to perSection posts and comments as
// "[POSTS] text\nSource: permalink" blocks joined by "\n---\n".
func BuildContent(data *reddit.UserData, perSection int) string {
	var chunks []string
	for _, sec := range data.Sections() {
		items := sec.Items[:min(perSection, len(sec.Items))]
		for _, it := range items {
			chunks = append(chunks, fmt.Sprintf("[%s] %s\nSource: %s\n",
				strings.ToUpper(sec.Name), textutil.CleanText(it.Text()), it.Permalink))
		}
	}
	return strings.Join(chunks, "\n---\n")
}

func buildPostsText(data *reddit.UserData) string {
	// Group by subreddit, then round-robin so every community gets fair
	// representation within the context window.
	return firstChunk("posts", roundRobin(bySubreddit(data.Posts, func(it reddit.Item) string {
		return fmt.Sprintf("=== r/%s (score %d, %d comments) ===\n%s\n%s\nSource: %s\n\n",
			it.Subreddit, it.Score, it.NumComments, it.Title, textutil.CleanText(it.Body), it.Permalink)
	})))
}

func buildCommentsText(data *reddit.UserData) string {
	return firstChunk("comments", roundRobin(bySubreddit(data.Comments, func(it reddit.Item) string {
		return fmt.Sprintf("=== r/%s, replying in %q (score %d) ===\n%s\nSource: %s\n\n",
			it.Subreddit, it.LinkTitle, it.Score, textutil.CleanText(it.Body), it.Permalink)
	})))
}

// firstChunk packs whole blocks into the first maxChunkSize chunk and drops
// the rest.
func firstChunk(section string, blocks []string) string {
	chunks := textutil.ChunkText(blocks, maxChunkSize)
	if len(chunks) == 0 {
		return ""
	}
	if len(chunks) > 1 {
		slog.Debug("content exceeds context window", "section", section, "chunks", len(chunks), "used", 1)
	}
	return truncateChunk(chunks[0])
}

func bySubreddit(items []reddit.Item, format func(reddit.Item) string) [][]string {
	groups := make(map[string][]string)
	var order []string
	for _, it := range items {
		if _, ok := groups[it.Subreddit]; !ok {
			order = append(order, it.Subreddit)
		}
		groups[it.Subreddit] = append(groups[it.Subreddit], format(it))
	}
	buckets := make([][]string, 0, len(order))
	for _, sub := range order {
		buckets = append(buckets, groups[sub])
	}
	return buckets
}

func buildSubredditText(data *reddit.UserData) string {
	counts := make(map[string]int)
	for _, it := range data.All() {
		if it.Subreddit != "" {
			counts[it.Subreddit]++
		}
	}
	if len(counts) == 0 {
		return "No subreddit information."
	}
	subs := make([]string, 0, len(counts))
	for s := range counts {
		subs = append(subs, s)
	}
	sort.Slice(subs, func(i, j int) bool {
		if counts[subs[i]] != counts[subs[j]] {
			return counts[subs[i]] > counts[subs[j]]
		}
		return subs[i] < subs[j]
	})
	var b strings.Builder
	for _, s := range subs {
		fmt.Fprintf(&b, "  r/%s: %d\n", s, counts[s])
	}
	return b.String()
}

// roundRobin takes one item from each bucket per round so every source gets
// fair representation.
func roundRobin(buckets [][]string) []string {
	var out []string
	maxLen := 0
	for _, bucket := range buckets {
		maxLen = max(maxLen, len(bucket))
	}
	for round := 0; round < maxLen; round++ {
		for _, bucket := range buckets {
			if round < len(bucket) {
				out = append(out, bucket[round])
			}
		}
	}
	return out
}

// topSources returns up to n items with a permalink, highest score first.
func topSources(data *reddit.UserData, n int) []textutil.Citation {
	items := data.All()
	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
	var out []textutil.Citation
	for _, it := range items {
		if len(out) == n {
			break
		}
		if it.Permalink == "" || strings.TrimSpace(it.Text()) == "" {
			continue
		}
		out = append(out, textutil.Citation{Text: it.Text(), Permalink: it.Permalink})
	}
	return out
}

func truncateChunk(s string) string {
	return textutil.Truncate(s, maxChunkSize, "\n... (data truncated to fit context window)")
}
