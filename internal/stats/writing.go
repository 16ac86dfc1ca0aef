package stats

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/drpaneas/redditpersona/internal/textutil"
)

var (
	sentenceBreak = regexp.MustCompile(`[.!?]+`)
	emojiRun      = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}]+`)
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	contractions = []string{"don't", "won't", "can't", "shouldn't", "wouldn't", "couldn't",
		"isn't", "aren't", "wasn't", "weren't", "haven't", "hasn't", "hadn't",
		"i'm", "you're", "he's", "she's", "it's", "we're", "they're",
		"i'll", "you'll", "he'll", "she'll", "it'll", "we'll", "they'll"}
	formalWords = []string{"therefore", "however", "furthermore", "moreover", "consequently",
		"nevertheless", "nonetheless", "accordingly", "subsequently", "thus",
		"hence", "indeed", "certainly", "particularly", "specifically"}
	slangWords = []string{"lol", "omg", "wtf", "tbh", "imo", "imho", "fyi", "btw", "afaik",
		"gonna", "wanna", "gotta", "kinda", "sorta", "yeah", "nah", "yep"}

	assertivePatterns = []string{"i think", "i believe", "in my opinion", "clearly", "obviously",
		"definitely", "absolutely", "certainly", "must", "should"}
	politePatterns = []string{"please", "thank you", "thanks", "sorry", "excuse me",
		"would you", "could you", "may i", "if you don't mind"}
	enthusiasticPatterns = []string{"amazing", "awesome", "fantastic", "incredible", "love",
		"excited", "thrilled", "wonderful", "brilliant", "excellent"}
	analyticalPatterns = []string{"analysis", "data", "research", "study", "evidence",
		"statistics", "conclusion", "hypothesis", "methodology"}
	storytellingPatterns = []string{"story", "happened", "experience", "remember", "once",
		"suddenly", "then", "after", "before", "during"}
)

type Linguistic struct {
	AvgSentenceLength float64 `json:"avg_sentence_length" yaml:"avg_sentence_length"`
	AvgWordLength     float64 `json:"avg_word_length" yaml:"avg_word_length"`
	SentencesPerText  float64 `json:"sentences_per_text" yaml:"sentences_per_text"`
	WordsPerText      float64 `json:"words_per_text" yaml:"words_per_text"`
	// Readability is a Flesch-like ease score; higher is easier.
	Readability       float64 `json:"readability" yaml:"readability"`
}

type Vocabulary struct {
	UniqueWords       int     `json:"unique_words" yaml:"unique_words"`
	Richness          float64 `json:"richness" yaml:"richness"`
	ComplexWordsRatio float64 `json:"complex_words_ratio" yaml:"complex_words_ratio"`
	MostCommon        []Count `json:"most_common" yaml:"most_common"`
	RareWords         int     `json:"rare_words" yaml:"rare_words"`
}

type Punctuation struct {
	ExclamationRatio float64 `json:"exclamation_ratio" yaml:"exclamation_ratio"`
	QuestionRatio    float64 `json:"question_ratio" yaml:"question_ratio"`
	EllipsisPerText  float64 `json:"ellipsis_per_text" yaml:"ellipsis_per_text"`
	EmojiPerText     float64 `json:"emoji_per_text" yaml:"emoji_per_text"`
	CapsRatio        float64 `json:"caps_ratio" yaml:"caps_ratio"`
	Density          float64 `json:"density" yaml:"density"`
}

type Formality struct {
	Score             float64 `json:"score" yaml:"score"`
	ContractionsRatio float64 `json:"contractions_ratio" yaml:"contractions_ratio"`
	SlangRatio        float64 `json:"slang_ratio" yaml:"slang_ratio"`
	FormalWordsRatio  float64 `json:"formal_words_ratio" yaml:"formal_words_ratio"`
	Level             string  `json:"level" yaml:"level"`
}

// CommunicationStyle holds per-text averages of marker phrases.
type CommunicationStyle struct {
	Assertiveness float64 `json:"assertiveness" yaml:"assertiveness"`
	Politeness    float64 `json:"politeness" yaml:"politeness"`
	Enthusiasm    float64 `json:"enthusiasm" yaml:"enthusiasm"`
	Analytical    float64 `json:"analytical" yaml:"analytical"`
	Storytelling  float64 `json:"storytelling" yaml:"storytelling"`
	Questions     float64 `json:"questions" yaml:"questions"`
}

// WritingStyle is the output of AnalyzeWritingStyle.
type WritingStyle struct {
	Linguistic    Linguistic         `json:"linguistic" yaml:"linguistic"`
	Vocabulary    Vocabulary         `json:"vocabulary" yaml:"vocabulary"`
	Punctuation   Punctuation        `json:"punctuation" yaml:"punctuation"`
	Formality     Formality          `json:"formality" yaml:"formality"`
	Communication CommunicationStyle `json:"communication" yaml:"communication"`
	Insights      []string           `json:"insights" yaml:"insights"`
}

// AnalyzeWritingStyle measures sentence structure, vocabulary, punctuation,
// formality and communication markers across texts.
func AnalyzeWritingStyle(texts []string) WritingStyle {
	var w WritingStyle
	if len(texts) == 0 {
		return w
	}
	w.Linguistic = linguistic(texts)
	w.Vocabulary = vocabulary(texts)
	w.Punctuation = punctuation(texts)
	w.Formality = formality(texts)
	w.Communication = communication(texts)
	w.Insights = writingInsights(w)
	return w
}

// Readability returns 206.835 - 1.015*avgSentence - 84.6*(avgWord/4.7).
func Readability(avgSentence, avgWord float64) float64 {
	return 206.835 - 1.015*avgSentence - 84.6*(avgWord/4.7)
}

// SplitSentences splits on runs of . ! and ? and drops blank pieces.
func SplitSentences(text string) []string {
	var out []string
	for _, s := range sentenceBreak.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func linguistic(texts []string) Linguistic {
	var (
		m                  Linguistic
		sentences, words   int
		sentWords, wordLen int
	)
	for _, t := range texts {
		for _, s := range SplitSentences(t) {
			sentences++
			sentWords += len(strings.Fields(s))
		}
		for _, word := range textutil.Words(t) {
			words++
			wordLen += utf8.RuneCountInString(word)
		}
	}
	n := float64(len(texts))
	if sentences > 0 {
		m.AvgSentenceLength = float64(sentWords) / float64(sentences)
		m.SentencesPerText = float64(sentences) / n
	}
	if words > 0 {
		m.AvgWordLength = float64(wordLen) / float64(words)
		m.WordsPerText = float64(words) / n
		m.Readability = Readability(m.AvgSentenceLength, m.AvgWordLength)
	}
	return m
}

func vocabulary(texts []string) Vocabulary {
	var (
		v            Vocabulary
		counts       = map[string]int{}
		total        int
		complexWords int
	)
	for _, t := range texts {
		for _, word := range textutil.Words(t) {
			counts[word]++
			total++
			if utf8.RuneCountInString(word) > 6 {
				complexWords++
			}
		}
	}
	if total == 0 {
		return v
	}
	v.UniqueWords = len(counts)
	v.Richness = float64(len(counts)) / float64(total)
	v.ComplexWordsRatio = float64(complexWords) / float64(total)

	filtered := map[string]int{}
	for word, c := range counts {
		if c == 1 {
			v.RareWords++
		}
		if len(word) > 2 && !textutil.IsStopword(word) {
			filtered[word] = c
		}
	}
	v.MostCommon = topCounts(filtered, 10)
	return v
}

func punctuation(texts []string) Punctuation {
	var (
		p                                    Punctuation
		chars, excl, quest, ellip, emoji, pc int
		words, caps                          int
	)
	for _, t := range texts {
		chars += utf8.RuneCountInString(t)
		excl += strings.Count(t, "!")
		quest += strings.Count(t, "?")
		ellip += strings.Count(t, "...")
		emoji += len(emojiRun.FindAllString(t, -1))
		for _, r := range t {
			if strings.ContainsRune(asciiPunctuation, r) {
				pc++
			}
		}
		for _, f := range strings.Fields(t) {
			words++
			if utf8.RuneCountInString(f) > 1 && isUpperWord(f) {
				caps++
			}
		}
	}
	if chars > 0 {
		n := float64(len(texts))
		p.ExclamationRatio = float64(excl) / float64(chars)
		p.QuestionRatio = float64(quest) / float64(chars)
		p.EllipsisPerText = float64(ellip) / n
		p.EmojiPerText = float64(emoji) / n
		p.Density = float64(pc) / float64(chars)
	}
	if words > 0 {
		p.CapsRatio = float64(caps) / float64(words)
	}
	return p
}

// isUpperWord reports whether s has at least one cased letter and no
// lowercase ones.
func isUpperWord(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func formality(texts []string) Formality {
	f := Formality{Level: "neutral"}
	var total, contr, formal, slang int
	for _, t := range texts {
		lower := strings.ToLower(t)
		total += len(textutil.Words(lower))
		contr += countContained(lower, contractions)
		formal += countContained(lower, formalWords)
		slang += countContained(lower, slangWords)
	}
	if total == 0 {
		return f
	}
	n := float64(total)
	f.ContractionsRatio = float64(contr) / n
	f.FormalWordsRatio = float64(formal) / n
	f.SlangRatio = float64(slang) / n
	f.Score = float64(2*formal-contr-2*slang) / n
	switch {
	case f.Score > 0.01:
		f.Level = "formal"
	case f.Score < -0.01:
		f.Level = "informal"
	}
	return f
}

func communication(texts []string) CommunicationStyle {
	var c CommunicationStyle
	for _, t := range texts {
		lower := strings.ToLower(t)
		c.Assertiveness += float64(countContained(lower, assertivePatterns))
		c.Politeness += float64(countContained(lower, politePatterns))
		c.Enthusiasm += float64(countContained(lower, enthusiasticPatterns))
		c.Analytical += float64(countContained(lower, analyticalPatterns))
		c.Storytelling += float64(countContained(lower, storytellingPatterns))
		c.Questions += float64(strings.Count(t, "?"))
	}
	n := float64(len(texts))
	c.Assertiveness /= n
	c.Politeness /= n
	c.Enthusiasm /= n
	c.Analytical /= n
	c.Storytelling /= n
	c.Questions /= n
	return c
}

func writingInsights(w WritingStyle) []string {
	var insights []string
	add := func(cond bool, s string) {
		if cond {
			insights = append(insights, s)
		}
	}

	switch l := w.Linguistic.AvgSentenceLength; {
	case l > 20:
		insights = append(insights, "Tends to write in long, complex sentences")
	case l < 10:
		insights = append(insights, "Prefers short, concise sentences")
	}
	switch r := w.Linguistic.Readability; {
	case r > 60:
		insights = append(insights, "Writing is generally easy to read")
	case r < 30:
		insights = append(insights, "Writing tends to be complex and challenging")
	}
	switch r := w.Vocabulary.Richness; {
	case r > 0.7:
		insights = append(insights, "Uses a rich and diverse vocabulary")
	case r < 0.3:
		insights = append(insights, "Tends to repeat common words and phrases")
	}
	add(w.Vocabulary.ComplexWordsRatio > 0.2, "Frequently uses sophisticated vocabulary")
	add(w.Formality.Level == "formal", "Maintains a formal writing style")
	add(w.Formality.Level == "informal", "Uses casual, conversational language")
	add(w.Communication.Enthusiasm > 1, "Shows high enthusiasm in communication")
	add(w.Communication.Questions > 2, "Frequently asks questions and seeks input")
	add(w.Communication.Analytical > 0.5, "Demonstrates analytical thinking patterns")
	add(w.Communication.Storytelling > 1, "Often shares personal experiences and stories")
	add(w.Punctuation.ExclamationRatio > 0.01, "Uses exclamation points frequently for emphasis")
	add(w.Punctuation.EmojiPerText > 1, "Regularly incorporates emojis in communication")
	return insights
}
