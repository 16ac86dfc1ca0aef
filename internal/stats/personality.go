package stats

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Big Five trait names.
const (
	Openness          = "openness"
	Conscientiousness = "conscientiousness"
	Extraversion      = "extraversion"
	Agreeableness     = "agreeableness"
	Neuroticism       = "neuroticism"
)

var (
	listMarker      = regexp.MustCompile(`\d+\.|\*|\-`)
	repeatedPunct   = regexp.MustCompile(`[!?]{2,}`)
	shoutedWord     = regexp.MustCompile(`\b[A-Z]{3,}\b`)
	addressees      = []string{"you", "anyone", "everyone", "somebody"}
	greetings       = []string{"hey", "hi", "hello"}
	courtesyPhrases = []string{"please", "thank you", "thanks", "sorry", "excuse me", "pardon", "appreciate"}
	confrontational = []string{"wrong", "stupid", "idiot", "hate", "terrible", "awful"}
)

type wordFamily struct {
	name  string
	words []string
}

type traitModel struct {
	name       string
	families   []wordFamily
	multiplier float64
	// structural scores writing patterns that are not plain keywords.
	structural func(texts []string) Count
	levels     map[string]string
}

var traitModels = []traitModel{
	{
		name:       Openness,
		multiplier: 10,
		families: []wordFamily{
			{"creativity_words", []string{"creative", "innovative", "original", "artistic", "imagination", "design", "art", "music"}},
			{"curiosity_words", []string{"curious", "wonder", "explore", "discover", "learn", "research", "investigate", "question"}},
			{"intellectual_words", []string{"philosophy", "theory", "concept", "abstract", "complex", "analysis", "intellectual", "academic"}},
			{"novelty_words", []string{"new", "different", "unique", "unusual", "strange", "weird", "interesting", "fascinating"}},
			{"change_words", []string{"change", "transform", "evolve", "adapt", "experiment", "try", "alternative", "variety"}},
		},
		levels: map[string]string{
			"high":   "Creative, curious, and open to new experiences",
			"medium": "Moderately open to new ideas and experiences",
			"low":    "Prefers familiar routines and conventional approaches",
		},
	},
	{
		name:       Conscientiousness,
		multiplier: 8,
		families: []wordFamily{
			{"organization_words", []string{"organize", "plan", "schedule", "structure", "system", "method", "order", "arrange"}},
			{"discipline_words", []string{"discipline", "control", "focus", "dedicated", "committed", "persistent", "determined"}},
			{"goal_words", []string{"goal", "objective", "target", "aim", "achieve", "accomplish", "complete", "finish"}},
			{"responsibility_words", []string{"responsible", "duty", "obligation", "reliable", "dependable", "accountable"}},
			{"detail_words", []string{"detail", "careful", "thorough", "precise", "accurate", "exact", "specific", "meticulous"}},
		},
		structural: func(texts []string) Count {
			n := 0
			for _, t := range texts {
				if listMarker.MatchString(t) {
					n++
				}
				if len(t) > 200 && strings.Count(t, "\n") > 2 {
					n++
				}
			}
			return Count{Name: "structure_patterns", Count: n}
		},
		levels: map[string]string{
			"high":   "Organized, disciplined, and goal-oriented",
			"medium": "Reasonably organized with moderate self-discipline",
			"low":    "More spontaneous and flexible in approach",
		},
	},
	{
		name:       Extraversion,
		multiplier: 6,
		families: []wordFamily{
			{"social_words", []string{"friends", "party", "social", "people", "group", "team", "community", "together"}},
			{"assertive_words", []string{"confident", "assert", "lead", "direct", "bold", "strong", "powerful", "dominant"}},
			{"energy_words", []string{"excited", "enthusiastic", "energetic", "active", "dynamic", "vibrant", "lively"}},
			{"communication_words", []string{"talk", "speak", "discuss", "share", "tell", "communicate", "express", "voice"}},
			{"positive_emotion_words", []string{"happy", "joy", "fun", "great", "awesome", "amazing", "fantastic", "wonderful"}},
		},
		structural: func(texts []string) Count {
			n := 0
			for _, t := range texts {
				lower := strings.ToLower(t)
				if strings.Contains(t, "?") && countContained(lower, addressees) > 0 {
					n++
				}
				n += strings.Count(t, "!")
				if hasAnyPrefix(lower, greetings) {
					n++
				}
			}
			return Count{Name: "interaction_patterns", Count: n}
		},
		levels: map[string]string{
			"high":   "Outgoing, energetic, and socially engaged",
			"medium": "Balanced between social and solitary activities",
			"low":    "More reserved and prefers quieter environments",
		},
	},
	{
		name:       Agreeableness,
		multiplier: 7,
		families: []wordFamily{
			{"cooperative_words", []string{"agree", "cooperate", "collaborate", "together", "team", "help", "support", "assist"}},
			{"empathy_words", []string{"understand", "feel", "empathy", "compassion", "care", "concern", "sympathy", "sorry"}},
			{"positive_social_words", []string{"kind", "nice", "friendly", "warm", "gentle", "considerate", "thoughtful"}},
			{"trust_words", []string{"trust", "honest", "sincere", "genuine", "authentic", "reliable", "faithful"}},
			{"harmony_words", []string{"peace", "harmony", "balance", "calm", "smooth", "pleasant", "comfortable"}},
		},
		structural: func(texts []string) Count {
			var score float64
			for _, t := range texts {
				lower := strings.ToLower(t)
				score += float64(countContained(lower, courtesyPhrases))
				if countContained(lower, confrontational) == 0 {
					score += 0.5
				}
			}
			return Count{Name: "politeness_patterns", Count: int(score)}
		},
		levels: map[string]string{
			"high":   "Cooperative, trusting, and empathetic",
			"medium": "Generally cooperative with balanced skepticism",
			"low":    "More competitive and skeptical of others",
		},
	},
	{
		name:       Neuroticism,
		multiplier: 8,
		families: []wordFamily{
			{"anxiety_words", []string{"anxious", "worried", "nervous", "stress", "panic", "fear", "scared", "afraid"}},
			{"negative_emotion_words", []string{"sad", "depressed", "upset", "angry", "frustrated", "annoyed", "irritated"}},
			{"instability_words", []string{"unstable", "chaotic", "confused", "overwhelmed", "lost", "helpless", "hopeless"}},
			{"self_doubt_words", []string{"doubt", "insecure", "uncertain", "unsure", "question", "worry", "concern"}},
			{"catastrophic_words", []string{"disaster", "terrible", "awful", "horrible", "worst", "nightmare", "crisis"}},
		},
		structural: func(texts []string) Count {
			var score float64
			for _, t := range texts {
				score += float64(len(repeatedPunct.FindAllString(t, -1)))
				score += float64(len(shoutedWord.FindAllString(t, -1)))
				score += float64(strings.Count(t, "...")) * 0.5
			}
			return Count{Name: "emotional_intensity", Count: int(score)}
		},
		levels: map[string]string{
			"high":   "More emotionally reactive and stress-sensitive",
			"medium": "Moderate emotional stability",
			"low":    "Emotionally stable and resilient",
		},
	},
}

// Trait is one scored Big Five dimension.
type Trait struct {
	Name        string   `json:"name" yaml:"name"`
	Score       float64  `json:"score" yaml:"score"`
	Level       string   `json:"level" yaml:"level"`
	Percentile  int      `json:"percentile" yaml:"percentile"`
	Description string   `json:"description" yaml:"description"`
	Indicators  []Count  `json:"indicators" yaml:"indicators"`
	Signals     []string `json:"signals,omitempty" yaml:"signals,omitempty"`
}

// Personality is the output of AnalyzePersonality.
type Personality struct {
	Traits   []Trait  `json:"traits" yaml:"traits"`
	Dominant []string `json:"dominant" yaml:"dominant"`
	Insights []string `json:"insights" yaml:"insights"`
}

// Trait returns the named trait, or a zero Trait.
func (p Personality) Trait(name string) Trait {
	for _, t := range p.Traits {
		if t.Name == name {
			return t
		}
	}
	return Trait{Name: name}
}

// AnalyzePersonality scores the Big Five traits from keyword families and
// writing patterns. It is a heuristic, not a validated instrument.
func AnalyzePersonality(texts []string) Personality {
	var p Personality
	if len(texts) == 0 {
		return p
	}

	lowered := make([]string, len(texts))
	for i, t := range texts {
		lowered[i] = strings.ToLower(t)
	}
	signals := traitSignals(texts)

	for _, m := range traitModels {
		t := Trait{Name: m.name, Signals: signals[m.name]}
		total := 0
		for _, f := range m.families {
			c := 0
			for _, l := range lowered {
				c += countContained(l, f.words)
			}
			t.Indicators = append(t.Indicators, Count{Name: f.name, Count: c})
			total += c
		}
		if m.structural != nil {
			s := m.structural(texts)
			t.Indicators = append(t.Indicators, s)
			total += s.Count
		}
		t.Score = min(100, float64(total)/float64(len(texts))*m.multiplier)
		t.Level = TraitLevel(t.Score)
		t.Percentile = max(1, min(99, int(t.Score)))
		t.Description = m.levels[t.Level]
		p.Traits = append(p.Traits, t)
	}

	p.Dominant = dominantTraits(p.Traits)
	p.Insights = personalityInsights(p)
	return p
}

// TraitLevel maps a 0-100 score to high (>60), medium (>30) or low.
func TraitLevel(score float64) string {
	switch {
	case score > 60:
		return "high"
	case score > 30:
		return "medium"
	default:
		return "low"
	}
}

// dominantTraits returns the top two traits, plus the third when it scores
// above 50.
func dominantTraits(traits []Trait) []string {
	sorted := append([]Trait(nil), traits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	var out []string
	for i, t := range sorted {
		if i < 2 || (i < 3 && t.Score > 50) {
			out = append(out, t.Name)
		}
	}
	return out
}

func traitSignals(texts []string) map[string][]string {
	combined := strings.ToLower(strings.Join(texts, " "))
	has := func(words ...string) bool { return countContained(combined, words) > 0 }

	s := map[string][]string{}
	add := func(trait string, cond bool, msg string) {
		if cond {
			s[trait] = append(s[trait], msg)
		}
	}
	add(Openness, has("creative", "art"), "Shows interest in creative activities")
	add(Openness, has("learn", "curious"), "Demonstrates curiosity and learning orientation")
	add(Conscientiousness, has("plan", "organize", "schedule"), "Shows planning and organizational tendencies")
	add(Conscientiousness, has("goal", "achieve", "complete"), "Demonstrates goal-oriented behavior")
	add(Extraversion, has("friends", "party", "social"), "Shows social engagement preferences")
	add(Extraversion, strings.Count(combined, "!") > len(texts), "Uses enthusiastic language patterns")
	add(Agreeableness, has("help", "support", "care"), "Shows helping and supportive behavior")
	add(Agreeableness, has("thank", "please", "sorry"), "Uses polite and considerate language")
	add(Neuroticism, has("stress", "worry", "anxious"), "Expresses stress and anxiety concerns")
	add(Neuroticism, has("terrible", "awful", "worst"), "Uses emotionally intense negative language")
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func personalityInsights(p Personality) []string {
	var insights []string
	if len(p.Dominant) > 0 {
		names := make([]string, len(p.Dominant))
		for i, d := range p.Dominant {
			names[i] = titleCase(d)
		}
		insights = append(insights, "Dominant personality traits: "+strings.Join(names, ", "))
	}
	for _, t := range p.Traits {
		if t.Level == "high" && t.Score > 70 {
			insights = append(insights, fmt.Sprintf("Shows strong %s: %s", titleCase(t.Name), t.Description))
		}
	}
	if p.Trait(Openness).Score > 60 && p.Trait(Conscientiousness).Score > 60 {
		insights = append(insights, "Likely to be innovative while maintaining organized approach")
	}
	if p.Trait(Extraversion).Score > 60 && p.Trait(Agreeableness).Score > 60 {
		insights = append(insights, "Tends to be socially engaging and collaborative")
	}
	switch n := p.Trait(Neuroticism).Score; {
	case n < 30:
		insights = append(insights, "Demonstrates emotional stability and resilience")
	case n > 70:
		insights = append(insights, "May be more sensitive to stress and emotional challenges")
	}
	return insights
}
