// Package stats computes descriptive analytics over a Reddit user's posts
// and comments: sentiment, activity, writing style, topics, Big Five
// personality heuristics and social behavior.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/drpaneas/redditpersona/internal/reddit"
)

// Options tunes Analyze. Zero values select defaults.
type Options struct {
	Topics        int
	WordCloudSize int
}

// Report bundles every analysis for one user.
type Report struct {
	Username    string       `json:"username" yaml:"username"`
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
	Posts       int          `json:"posts" yaml:"posts"`
	Comments    int          `json:"comments" yaml:"comments"`
	Sentiment   Sentiment    `json:"sentiment" yaml:"sentiment"`
	Activity    Activity     `json:"activity" yaml:"activity"`
	Writing     WritingStyle `json:"writing_style" yaml:"writing_style"`
	Topics      Topics       `json:"topics" yaml:"topics"`
	Personality Personality  `json:"personality" yaml:"personality"`
	Social      Social       `json:"social" yaml:"social"`
	WordCloud   []Count      `json:"word_cloud" yaml:"word_cloud"`
}

// Analyze runs every analyzer over data.
func Analyze(data *reddit.UserData, opts Options) *Report {
	if opts.Topics < 1 {
		opts.Topics = DefaultTopics
	}
	if opts.WordCloudSize < 1 {
		opts.WordCloudSize = DefaultWordCloudSize
	}

	items := data.All()
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text()
	}

	return &Report{
		Username:    data.Profile.Name,
		GeneratedAt: time.Now().UTC(),
		Posts:       len(data.Posts),
		Comments:    len(data.Comments),
		Sentiment:   AnalyzeSentiment(items),
		Activity:    AnalyzeActivity(items),
		Writing:     AnalyzeWritingStyle(texts),
		Topics:      AnalyzeTopics(texts, opts.Topics),
		Personality: AnalyzePersonality(texts),
		Social:      AnalyzeSocial(items),
		WordCloud:   WordFrequencies(texts, opts.WordCloudSize),
	}
}

// Section is a titled list of insights.
type Section struct {
	Title    string
	Insights []string
}

// Sections returns the insights of each analysis in display order.
func (r *Report) Sections() []Section {
	return []Section{
		{"Sentiment", r.Sentiment.Insights},
		{"Activity", r.Activity.Insights},
		{"Writing Style", r.Writing.Insights},
		{"Topics", r.Topics.Insights},
		{"Personality", r.Personality.Insights},
		{"Social", r.Social.Insights},
	}
}

// Insights flattens the insights of every section.
func (r *Report) Insights() []string {
	var out []string
	for _, s := range r.Sections() {
		out = append(out, s.Insights...)
	}
	return out
}

// Signals renders a compact plain-text summary used as quantitative
// context for persona generation.
func (r *Report) Signals() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Items analyzed: %d posts, %d comments\n", r.Posts, r.Comments)
	fmt.Fprintf(&b, "Average sentiment: %.2f (-1 negative to 1 positive)\n", r.Sentiment.Average)

	if len(r.Sentiment.Subreddits) > 0 {
		parts := make([]string, 0, len(r.Sentiment.Subreddits))
		for _, c := range r.Sentiment.Subreddits {
			parts = append(parts, fmt.Sprintf("r/%s (%d)", c.Name, c.Count))
		}
		fmt.Fprintf(&b, "Top subreddits: %s\n", strings.Join(parts, ", "))
	}

	if r.Activity.HasTimestamps {
		peaks := make([]string, len(r.Activity.PeakHours))
		for i, h := range r.Activity.PeakHours {
			peaks[i] = fmt.Sprintf("%02d:00", h)
		}
		fmt.Fprintf(&b, "Peak hours (UTC): %s; %s, %s\n", strings.Join(peaks, ", "),
			r.Activity.TimePreference, r.Activity.ScheduleType)
	}

	w := r.Writing
	fmt.Fprintf(&b, "Writing: %.1f words per sentence, readability %.0f, vocabulary richness %.2f, %s register\n",
		w.Linguistic.AvgSentenceLength, w.Linguistic.Readability, w.Vocabulary.Richness, w.Formality.Level)

	if len(r.Personality.Traits) > 0 {
		parts := make([]string, 0, len(r.Personality.Traits))
		for _, t := range r.Personality.Traits {
			parts = append(parts, fmt.Sprintf("%s %.0f (%s)", t.Name, t.Score, t.Level))
		}
		fmt.Fprintf(&b, "Big Five heuristic: %s\n", strings.Join(parts, ", "))
	}

	for _, t := range r.Topics.Topics {
		fmt.Fprintf(&b, "Topic %q: %s\n", t.Label, strings.Join(t.Keywords[:min(5, len(t.Keywords))], ", "))
	}

	fmt.Fprintf(&b, "Social style: %s", r.Social.Replies.Style)
	if r.Social.Community.CrossType != "" {
		fmt.Fprintf(&b, "; community spread: %s", r.Social.Community.CrossType)
	}
	b.WriteString("\n")
	return b.String()
}
