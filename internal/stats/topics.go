package stats

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"

	"github.com/drpaneas/redditpersona/internal/textutil"
)

const (
	// DefaultTopics is the number of LDA topics requested when unset.
	DefaultTopics  = 5
	ldaIterations  = 10
	minDocChars    = 50
	minDocWords    = 5
	topicKeywords  = 10
	labelKeywords  = 5
	previewChars   = 100
	fallbackSample = 3
)

var (
	urlPattern  = regexp.MustCompile(`http\S+|www\S+|https\S+`)
	nonLetters  = regexp.MustCompile(`[^a-zA-Z\s]`)
	stopPhrases = map[string]bool{"i think": true, "you know": true, "i mean": true, "i guess": true, "i feel": true, "i want": true, "i need": true}
)

// topicSeeds are the categories used when LDA cannot be fitted.
var topicSeeds = []struct {
	name     string
	keywords []string
}{
	{"Technology", []string{"tech", "software", "computer", "programming", "code", "app", "digital", "ai", "machine learning", "data"}},
	{"Gaming", []string{"game", "gaming", "play", "player", "console", "pc", "xbox", "playstation", "nintendo", "steam"}},
	{"Sports", []string{"sport", "team", "player", "game", "match", "season", "league", "football", "basketball", "soccer"}},
	{"Entertainment", []string{"movie", "film", "show", "tv", "series", "actor", "music", "song", "album", "concert"}},
	{"Politics", []string{"political", "government", "election", "vote", "policy", "president", "congress", "law", "rights"}},
	{"Finance", []string{"money", "investment", "stock", "market", "crypto", "bitcoin", "trading", "economy", "financial"}},
	{"Health", []string{"health", "medical", "doctor", "hospital", "medicine", "fitness", "exercise", "diet", "wellness"}},
	{"Education", []string{"school", "university", "student", "teacher", "education", "learning", "study", "course", "degree"}},
	{"Relationships", []string{"relationship", "dating", "marriage", "family", "friend", "love", "partner", "couple"}},
	{"Lifestyle", []string{"life", "lifestyle", "hobby", "travel", "food", "cooking", "home", "fashion", "style"}},
}

// Topic is one discovered theme.
type Topic struct {
	ID       int       `json:"id" yaml:"id"`
	Label    string    `json:"label" yaml:"label"`
	Keywords []string  `json:"keywords" yaml:"keywords"`
	Weights  []float64 `json:"weights" yaml:"weights"`
}

// TopicShare is the normalized weight of a topic across all documents.
type TopicShare struct {
	Label string  `json:"label" yaml:"label"`
	Share float64 `json:"share" yaml:"share"`
}

// Topics is the output of AnalyzeTopics.
type Topics struct {
	// Method is "lda", "keywords", or empty when there was too little text.
	Method         string              `json:"method" yaml:"method"`
	Topics         []Topic             `json:"topics" yaml:"topics"`
	Distribution   []TopicShare        `json:"distribution" yaml:"distribution"`
	Dominant       string              `json:"dominant,omitempty" yaml:"dominant,omitempty"`
	Categorization map[string][]string `json:"categorization,omitempty" yaml:"categorization,omitempty"`
	KeyPhrases     []Count             `json:"key_phrases,omitempty" yaml:"key_phrases,omitempty"`
	Insights       []string            `json:"insights" yaml:"insights"`
}

// AnalyzeTopics models up to n topics over texts with LDA. When the model
// cannot be fitted it falls back to predefined keyword categories.
func AnalyzeTopics(texts []string, n int) Topics {
	if n < 1 {
		n = DefaultTopics
	}
	var docs []string
	for _, t := range texts {
		if len(strings.TrimSpace(t)) > minDocChars {
			docs = append(docs, t)
		}
	}
	if len(docs) < 3 {
		return Topics{Insights: []string{"Not enough content for meaningful topic analysis"}}
	}

	res, err := ldaTopics(docs, n)
	if err != nil {
		slog.Debug("lda failed, using keyword categories", "error", err)
		res = keywordTopics(docs)
	}
	res.KeyPhrases = KeyPhrases(docs, 20)
	res.Insights = topicInsights(res)
	return res
}

// PreprocessForTopics lowercases text, strips URLs and everything but
// ASCII letters and whitespace, and collapses whitespace.
func PreprocessForTopics(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = nonLetters.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

func ldaTopics(docs []string, n int) (res Topics, err error) {
	// The nlp package panics on degenerate input such as an empty vocabulary.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lda panicked: %v", r)
		}
	}()

	var corpus []string
	for _, d := range docs {
		p := PreprocessForTopics(d)
		if len(strings.Fields(p)) > minDocWords {
			corpus = append(corpus, p)
		}
	}
	if len(corpus) < 3 {
		return Topics{Method: "lda"}, nil
	}

	k := min(n, len(corpus))
	vectoriser := nlp.NewCountVectoriser(textutil.Stopwords()...)
	lda := nlp.NewLatentDirichletAllocation(k)
	lda.Iterations = ldaIterations
	lda.TransformationPasses = ldaIterations

	pipeline := nlp.NewPipeline(vectoriser, lda)
	docsOverTopics, err := pipeline.FitTransform(corpus...)
	if err != nil {
		return Topics{}, fmt.Errorf("fitting lda: %w", err)
	}
	if len(vectoriser.Vocabulary) == 0 {
		return Topics{}, fmt.Errorf("empty vocabulary")
	}

	res = Topics{Method: "lda", Categorization: map[string][]string{}}
	res.Topics = topicKeywordsFrom(lda.Components(), vectoriser.Vocabulary)

	topics, ndocs := docsOverTopics.Dims()
	sums := make([]float64, topics)
	var total float64
	for d := 0; d < ndocs; d++ {
		best := 0
		for t := 0; t < topics; t++ {
			v := docsOverTopics.At(t, d)
			sums[t] += v
			total += v
			if v > docsOverTopics.At(best, d) {
				best = t
			}
		}
		label := topicLabel(best)
		res.Categorization[label] = append(res.Categorization[label], textutil.Truncate(corpus[d], previewChars, "")+"...")
	}

	dominant := 0
	for t, s := range sums {
		share := 0.0
		if total > 0 {
			share = s / total
		}
		res.Distribution = append(res.Distribution, TopicShare{Label: topicLabel(t), Share: share})
		if s > sums[dominant] {
			dominant = t
		}
	}
	res.Dominant = topicLabel(dominant)
	return res, nil
}

func topicLabel(i int) string { return fmt.Sprintf("Topic %d", i+1) }

// topicKeywordsFrom picks the heaviest words of each row of a
// topics-by-words matrix.
func topicKeywordsFrom(topicsOverWords mat.Matrix, vocabulary map[string]int) []Topic {
	rows, cols := topicsOverWords.Dims()
	vocab := make([]string, cols)
	for w, i := range vocabulary {
		if i < cols {
			vocab[i] = w
		}
	}

	out := make([]Topic, 0, rows)
	for t := 0; t < rows; t++ {
		idx := make([]int, cols)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return topicsOverWords.At(t, idx[a]) > topicsOverWords.At(t, idx[b])
		})
		topic := Topic{ID: t, Label: topicLabel(t)}
		for _, i := range idx[:min(topicKeywords, cols)] {
			topic.Keywords = append(topic.Keywords, vocab[i])
			topic.Weights = append(topic.Weights, topicsOverWords.At(t, i))
		}
		out = append(out, topic)
	}
	return out
}

// keywordTopics assigns each document to the predefined category whose
// keywords it mentions most.
func keywordTopics(docs []string) Topics {
	res := Topics{Method: "keywords", Categorization: map[string][]string{}}
	scores := make([]int, len(topicSeeds))
	content := make([][]string, len(topicSeeds))

	for _, d := range docs {
		lower := strings.ToLower(d)
		best, bestScore := -1, 0
		for i, seed := range topicSeeds {
			s := countContained(lower, seed.keywords)
			scores[i] += s
			if s > bestScore {
				best, bestScore = i, s
			}
		}
		if best >= 0 {
			content[best] = append(content[best], textutil.Truncate(d, previewChars, "")+"...")
		}
	}

	total := 0
	var active []int
	for i, s := range scores {
		if s > 0 {
			total += s
			active = append(active, i)
		}
	}
	if total == 0 {
		return res
	}
	sort.SliceStable(active, func(a, b int) bool { return scores[active[a]] > scores[active[b]] })

	for rank, i := range active {
		seed := topicSeeds[i]
		share := float64(scores[i]) / float64(total)
		kw := seed.keywords[:labelKeywords]
		weights := make([]float64, len(kw))
		for j := range weights {
			weights[j] = share
		}
		res.Topics = append(res.Topics, Topic{ID: rank, Label: seed.name, Keywords: kw, Weights: weights})
		res.Distribution = append(res.Distribution, TopicShare{Label: seed.name, Share: share})
		res.Categorization[seed.name] = content[i][:min(fallbackSample, len(content[i]))]
	}
	res.Dominant = topicSeeds[active[0]].name
	return res
}

// KeyPhrases returns the n most frequent bigrams and trigrams that occur
// more than once.
func KeyPhrases(docs []string, n int) []Count {
	words := textutil.Words(strings.Join(docs, " "))
	counts := map[string]int{}
	for i := 0; i+1 < len(words); i++ {
		if bi := words[i] + " " + words[i+1]; len(bi) > 6 {
			counts[bi]++
		}
		if i+2 < len(words) {
			if tri := words[i] + " " + words[i+1] + " " + words[i+2]; len(tri) > 10 {
				counts[tri]++
			}
		}
	}
	for p, c := range counts {
		if c <= 1 || stopPhrases[p] {
			delete(counts, p)
		}
	}
	return topCounts(counts, n)
}

func topicInsights(t Topics) []string {
	if len(t.Topics) == 0 {
		return []string{"Unable to identify distinct topics from the content"}
	}

	var insights []string
	if t.Method == "lda" {
		for _, topic := range t.Topics {
			if topic.Label == t.Dominant {
				insights = append(insights, "Primary discussion topics include: "+strings.Join(topic.Keywords[:min(3, len(topic.Keywords))], ", "))
			}
		}
	} else if t.Dominant != "" {
		insights = append(insights, "Most frequently discusses: "+t.Dominant)
	}

	active := 0
	for _, d := range t.Distribution {
		if d.Share > 0.1 {
			active++
		}
	}
	switch {
	case active > 3:
		insights = append(insights, "Shows diverse interests across multiple topics")
	case active <= 2:
		insights = append(insights, "Tends to focus on specific topic areas")
	}

	withContent := 0
	for _, c := range t.Categorization {
		if len(c) > 0 {
			withContent++
		}
	}
	if withContent > 1 {
		insights = append(insights, fmt.Sprintf("Active in %d different topic areas", withContent))
	}
	return insights
}
