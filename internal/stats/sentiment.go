package stats

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/drpaneas/redditpersona/internal/reddit"
	"github.com/drpaneas/redditpersona/internal/textutil"
)

var (
	positiveWords = []string{"love", "great", "awesome", "amazing", "excellent", "fantastic",
		"wonderful", "good", "best", "happy", "excited", "perfect"}
	negativeWords = []string{"hate", "terrible", "awful", "bad", "worst", "horrible",
		"disgusting", "annoying", "frustrated", "angry", "disappointed"}
)

// emotionLexicon is ordered so reports list emotions consistently.
var emotionLexicon = []struct {
	name     string
	keywords []string
}{
	{"joy", []string{"happy", "excited", "thrilled", "delighted", "cheerful", "joyful"}},
	{"anger", []string{"angry", "furious", "mad", "irritated", "annoyed", "frustrated"}},
	{"sadness", []string{"sad", "depressed", "disappointed", "upset", "down", "blue"}},
	{"fear", []string{"scared", "afraid", "worried", "anxious", "nervous", "terrified"}},
	{"surprise", []string{"surprised", "shocked", "amazed", "astonished", "stunned"}},
	{"disgust", []string{"disgusted", "revolted", "sick", "nauseated", "repulsed"}},
}

var (
	questionOpeners = []string{"how", "what", "why", "when", "where", "who"}
	adviceMarkers   = []string{"you should", "try this", "i recommend", "advice"}
	storyMarkers    = []string{"story", "happened", "experience"}
	debateMarkers   = []string{"disagree", "wrong", "actually", "however", "but"}
	supportMarkers  = []string{"agree", "exactly", "this", "support", "yes"}

	subredditInPermalink = regexp.MustCompile(`/r/(\w+)`)
)

// ItemSentiment is the lexicon score of one item, in [-1, 1].
type ItemSentiment struct {
	Preview string  `json:"preview" yaml:"preview"`
	Kind    string  `json:"kind" yaml:"kind"`
	Score   float64 `json:"score" yaml:"score"`
}

// DailySentiment is the mean item score for one UTC day.
type DailySentiment struct {
	Date  string  `json:"date" yaml:"date"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Count int     `json:"count" yaml:"count"`
}

// Count pairs a label with an occurrence count.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Percent pairs a label with a percentage of items.
type Percent struct {
	Name    string  `json:"name" yaml:"name"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Engagement summarizes how much the user writes in posts versus comments.
type Engagement struct {
	AvgPostLength    float64 `json:"avg_post_length" yaml:"avg_post_length"`
	AvgCommentLength float64 `json:"avg_comment_length" yaml:"avg_comment_length"`
	TotalPosts       int     `json:"total_posts" yaml:"total_posts"`
	TotalComments    int     `json:"total_comments" yaml:"total_comments"`
	// Ratio is comments over all items.
	Ratio            float64 `json:"engagement_ratio" yaml:"engagement_ratio"`
}

// Sentiment is the output of AnalyzeSentiment.
type Sentiment struct {
	Items      []ItemSentiment  `json:"items" yaml:"items"`
	Average    float64          `json:"average" yaml:"average"`
	Emotions   []Percent        `json:"emotions" yaml:"emotions"`
	Behaviors  []Percent        `json:"behavioral_patterns" yaml:"behavioral_patterns"`
	Subreddits []Count          `json:"subreddits" yaml:"subreddits"`
	Engagement Engagement       `json:"engagement" yaml:"engagement"`
	Timeline   []DailySentiment `json:"timeline" yaml:"timeline"`
	Insights   []string         `json:"insights" yaml:"insights"`
}

// ScoreSentiment returns (pos-neg)/(pos+neg) where pos and neg count the
// lexicon words occurring in text, or 0 when none occur.
func ScoreSentiment(text string) float64 {
	lower := strings.ToLower(text)
	pos := countContained(lower, positiveWords)
	neg := countContained(lower, negativeWords)
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// AnalyzeSentiment scores tone, emotions and behavioral patterns over items.
func AnalyzeSentiment(items []reddit.Item) Sentiment {
	s := Sentiment{}
	if len(items) == 0 {
		s.Insights = []string{"No content available for sentiment analysis"}
		return s
	}

	var (
		sum      float64
		emotions = make([]int, len(emotionLexicon))
		behavior = map[string]int{}
		days     = map[string]*DailySentiment{}
	)
	for _, it := range items {
		text := it.Text()
		lower := strings.ToLower(text)
		score := ScoreSentiment(text)
		sum += score
		s.Items = append(s.Items, ItemSentiment{
			Preview: textutil.Truncate(text, 100, ""),
			Kind:    it.Kind,
			Score:   score,
		})

		for i, e := range emotionLexicon {
			if countContained(lower, e.keywords) > 0 {
				emotions[i]++
			}
		}

		if strings.Contains(lower, "?") || hasAnyPrefix(lower, questionOpeners) {
			behavior["question_asker"]++
		}
		if countContained(lower, adviceMarkers) > 0 {
			behavior["advice_giver"]++
		}
		if len(lower) > 200 && countContained(lower, storyMarkers) > 0 {
			behavior["storyteller"]++
		}
		if countContained(lower, debateMarkers) > 0 {
			behavior["debater"]++
		}
		if countContained(lower, supportMarkers) > 0 {
			behavior["supporter"]++
		}

		if !it.CreatedAt.IsZero() {
			day := it.CreatedAt.UTC().Format("2006-01-02")
			d, ok := days[day]
			if !ok {
				d = &DailySentiment{Date: day}
				days[day] = d
			}
			d.Mean += score
			d.Count++
		}
	}

	total := float64(len(items))
	s.Average = sum / total
	for i, e := range emotionLexicon {
		s.Emotions = append(s.Emotions, Percent{Name: e.name, Percent: float64(emotions[i]) / total * 100})
	}
	for _, name := range []string{"question_asker", "advice_giver", "storyteller", "debater", "supporter"} {
		s.Behaviors = append(s.Behaviors, Percent{Name: name, Percent: float64(behavior[name]) / total * 100})
	}

	for _, d := range days {
		d.Mean /= float64(d.Count)
		s.Timeline = append(s.Timeline, *d)
	}
	sort.Slice(s.Timeline, func(i, j int) bool { return s.Timeline[i].Date < s.Timeline[j].Date })

	s.Subreddits = topSubreddits(items, 10)
	s.Engagement = engagement(items)
	s.Insights = sentimentInsights(s)
	return s
}

func sentimentInsights(s Sentiment) []string {
	var insights []string
	switch {
	case s.Average > 0.2:
		insights = append(insights, fmt.Sprintf("Overall tone is positive (average %.2f)", s.Average))
	case s.Average < -0.2:
		insights = append(insights, fmt.Sprintf("Overall tone is negative (average %.2f)", s.Average))
	default:
		insights = append(insights, fmt.Sprintf("Overall tone is neutral (average %.2f)", s.Average))
	}

	top := Percent{}
	for _, e := range s.Emotions {
		if e.Percent > top.Percent {
			top = e
		}
	}
	if top.Percent > 0 {
		insights = append(insights, fmt.Sprintf("Most expressed emotion: %s (%.0f%% of items)", top.Name, top.Percent))
	}
	return insights
}

// subredditOf prefers the API field and falls back to the permalink.
func subredditOf(it reddit.Item) string {
	if it.Subreddit != "" {
		return it.Subreddit
	}
	if m := subredditInPermalink.FindStringSubmatch(it.Permalink); m != nil {
		return m[1]
	}
	return ""
}

// topSubreddits returns the n most frequent subreddits, ties broken by name.
func topSubreddits(items []reddit.Item, n int) []Count {
	counts := map[string]int{}
	for _, it := range items {
		if sub := subredditOf(it); sub != "" {
			counts[sub]++
		}
	}
	return topCounts(counts, n)
}

func engagement(items []reddit.Item) Engagement {
	var (
		e                      Engagement
		postChars, commentChar int
	)
	for _, it := range items {
		if it.IsPost() {
			e.TotalPosts++
			postChars += len(it.Text())
		} else {
			e.TotalComments++
			commentChar += len(it.Text())
		}
	}
	if e.TotalPosts > 0 {
		e.AvgPostLength = float64(postChars) / float64(e.TotalPosts)
	}
	if e.TotalComments > 0 {
		e.AvgCommentLength = float64(commentChar) / float64(e.TotalComments)
	}
	if n := e.TotalPosts + e.TotalComments; n > 0 {
		e.Ratio = float64(e.TotalComments) / float64(n)
	}
	return e
}

// countContained counts how many of words occur in text as substrings.
func countContained(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// topCounts sorts counts descending (ties by name) and keeps the first n.
func topCounts(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for k, v := range counts {
		out = append(out, Count{Name: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
