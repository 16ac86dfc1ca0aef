package stats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeTopics_NotEnoughContent(t *testing.T) {
	got := AnalyzeTopics([]string{"short", strings.Repeat("long enough text ", 5)}, 5)
	assert.Empty(t, got.Topics)
	assert.Equal(t, []string{"Not enough content for meaningful topic analysis"}, got.Insights)
}

func TestPreprocessForTopics(t *testing.T) {
	got := PreprocessForTopics("Check https://example.com NOW!!  42 times\nwww.x.org done")
	assert.Equal(t, "check now times done", got)
}

func TestKeywordTopics(t *testing.T) {
	docs := []string{
		"I write software and code every day, programming is my tech passion",
		"New console game on steam, the xbox player community loves gaming",
		"Software code review of the new programming tech stack with data",
	}

	got := keywordTopics(docs)

	assert.Equal(t, "keywords", got.Method)
	assert.Equal(t, "Technology", got.Dominant)
	require.NotEmpty(t, got.Topics)
	assert.Equal(t, "Technology", got.Topics[0].Label)
	assert.Len(t, got.Topics[0].Keywords, 5)
	assert.Len(t, got.Categorization["Technology"], 2)
	assert.Len(t, got.Categorization["Gaming"], 1)
	assert.True(t, strings.HasSuffix(got.Categorization["Gaming"][0], "..."))

	var share float64
	for _, d := range got.Distribution {
		share += d.Share
	}
	assert.InDelta(t, 1.0, share, 1e-9)

	insights := topicInsights(got)
	assert.Contains(t, insights, "Most frequently discusses: Technology")
	assert.Contains(t, insights, "Active in 2 different topic areas")
}

func TestKeywordTopics_NoMatches(t *testing.T) {
	got := keywordTopics([]string{"zzz qqq", "xxx yyy"})
	assert.Empty(t, got.Topics)
	assert.Equal(t, []string{"Unable to identify distinct topics from the content"}, topicInsights(got))
}

func TestAnalyzeTopics_FitsModel(t *testing.T) {
	texts := []string{
		"The golang compiler produces static binaries and the garbage collector is fast enough for servers",
		"Goroutines and channels make concurrent servers simple, the golang scheduler handles thousands of them",
		"Sourdough bread needs a healthy starter, flour, water and salt, then a long cold proof overnight",
		"My sourdough starter doubled overnight, the bread crumb was open and the crust crackled nicely",
		"Compiler errors in golang are usually clear and the tooling formats code the same way everywhere",
		"Baking bread at home taught me patience, a sourdough loaf takes two days from starter to crust",
	}

	got := AnalyzeTopics(texts, 2)

	require.NotEmpty(t, got.Method)
	assert.NotEmpty(t, got.Topics)
	assert.LessOrEqual(t, len(got.Topics), 10)
	if got.Method == "lda" {
		assert.Len(t, got.Topics, 2)
		assert.Len(t, got.Distribution, 2)
		for _, topic := range got.Topics {
			assert.Len(t, topic.Keywords, 10)
		}
	}
	assert.NotEmpty(t, got.Insights)
}

func TestKeyPhrases(t *testing.T) {
	docs := []string{"machine learning is fun", "i love machine learning", "i think so, i think"}
	got := KeyPhrases(docs, 10)
	assert.Equal(t, []Count{{Name: "machine learning", Count: 2}}, got)
}
