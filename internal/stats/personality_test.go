package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraitLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "low"},
		{30, "low"},
		{30.5, "medium"},
		{60, "medium"},
		{61, "high"},
		{100, "high"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TraitLevel(tt.score), "score %v", tt.score)
	}
}

func TestDominantTraits(t *testing.T) {
	traits := []Trait{
		{Name: Openness, Score: 10},
		{Name: Conscientiousness, Score: 80},
		{Name: Extraversion, Score: 55},
		{Name: Agreeableness, Score: 20},
		{Name: Neuroticism, Score: 60},
	}
	assert.Equal(t, []string{Conscientiousness, Neuroticism, Extraversion}, dominantTraits(traits))

	traits[2].Score = 40
	assert.Equal(t, []string{Conscientiousness, Neuroticism}, dominantTraits(traits))
}

func TestAnalyzePersonality(t *testing.T) {
	p := AnalyzePersonality([]string{"I am curious and creative, I love to learn new art!"})

	require.Len(t, p.Traits, 5)
	o := p.Trait(Openness)
	assert.InDelta(t, 50, o.Score, 1e-9)
	assert.Equal(t, "medium", o.Level)
	assert.Equal(t, 50, o.Percentile)
	assert.Equal(t, "Moderately open to new ideas and experiences", o.Description)
	assert.Contains(t, o.Signals, "Shows interest in creative activities")
	assert.Contains(t, o.Signals, "Demonstrates curiosity and learning orientation")

	n := p.Trait(Neuroticism)
	assert.Zero(t, n.Score)
	assert.Equal(t, 1, n.Percentile, "percentile is clamped to 1..99")
	assert.Contains(t, p.Insights, "Demonstrates emotional stability and resilience")
	assert.Len(t, p.Dominant, 2)
}

func TestAnalyzePersonality_ScoreCapped(t *testing.T) {
	p := AnalyzePersonality([]string{"WHAT?? NO!! THIS IS AWFUL... terrible, worst, horrible disaster, a nightmare crisis, I am anxious and worried"})
	n := p.Trait(Neuroticism)
	assert.Equal(t, 100.0, n.Score)
	assert.Equal(t, 99, n.Percentile)
	assert.Contains(t, p.Insights, "May be more sensitive to stress and emotional challenges")
}

func TestAnalyzePersonality_Empty(t *testing.T) {
	p := AnalyzePersonality(nil)
	assert.Empty(t, p.Traits)
	assert.Empty(t, p.Insights)
}
