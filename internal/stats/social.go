package stats

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/drpaneas/redditpersona/internal/reddit"
)

var mentionPattern = regexp.MustCompile(`/?u/([A-Za-z0-9_-]+)`)

var (
	replyPhrases = []string{"thanks for", "thank you for", "i agree", "you're right", "good point",
		"i disagree", "actually", "however", "but", "on the other hand"}
	supportivePhrases = []string{"great job", "well done", "awesome", "amazing", "love this",
		"this is great", "fantastic", "brilliant", "perfect", "exactly"}
	disagreementPhrases = []string{"i disagree", "wrong", "not true", "actually no", "that's incorrect",
		"i don't think", "not really", "i doubt", "unlikely", "probably not"}
	questionStarters = []string{"what do you", "how do you", "why do you", "when did you",
		"where did you", "who do you", "have you ever", "do you think"}

	helpSeeking        = []string{"can someone help", "need help", "please help", "how do i", "what should i do"}
	helpOffering       = []string{"i can help", "let me help", "here's how", "try this", "i recommend"}
	collaboration      = []string{"let's work together", "we should", "together we can", "team up", "collaborate"}
	interactionMarkers = []string{"@", "u/", "?", "reply", "response"}
	replyOpeners       = []string{"hey ", "hi ", "hello "}

	socialCues = []wordFamily{
		{"greetings", []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}},
		{"gratitude", []string{"thank you", "thanks", "appreciate", "grateful"}},
		{"apologies", []string{"sorry", "apologize", "my bad", "excuse me"}},
		{"politeness", []string{"please", "would you", "could you", "if you don't mind"}},
	}
)

type Mentions struct {
	Users        []string `json:"users" yaml:"users"`
	Frequent     []Count  `json:"frequent" yaml:"frequent"`
	Frequency    float64  `json:"frequency" yaml:"frequency"`
	ReplyTargets []string `json:"reply_targets,omitempty" yaml:"reply_targets,omitempty"`
}

// ReplyBehavior rates are per item.
type ReplyBehavior struct {
	ReplyIndicators      float64 `json:"reply_indicators" yaml:"reply_indicators"`
	ConversationStarters int     `json:"conversation_starters" yaml:"conversation_starters"`
	Supportive           float64 `json:"supportive" yaml:"supportive"`
	Disagreement         float64 `json:"disagreement" yaml:"disagreement"`
	Questions            float64 `json:"questions" yaml:"questions"`
	Style                string  `json:"style" yaml:"style"`
}

type Community struct {
	Subreddits []Count            `json:"subreddits" yaml:"subreddits"`
	Diversity  int                `json:"diversity" yaml:"diversity"`
	Depth      map[string]float64 `json:"depth" yaml:"depth"`
	// CrossType is focused, diverse or balanced; empty with one subreddit or none.
	CrossType        string `json:"cross_type,omitempty" yaml:"cross_type,omitempty"`
	CrossDescription string `json:"cross_description,omitempty" yaml:"cross_description,omitempty"`
}

type Interaction struct {
	Frequency     float64            `json:"frequency" yaml:"frequency"`
	AvgLength     float64            `json:"avg_length" yaml:"avg_length"`
	SocialCues    map[string]float64 `json:"social_cues" yaml:"social_cues"`
	Collaboration int                `json:"collaboration" yaml:"collaboration"`
	HelpSeeking   int                `json:"help_seeking" yaml:"help_seeking"`
	HelpOffering  int                `json:"help_offering" yaml:"help_offering"`
}

// SocialMetrics are each capped at 100.
type SocialMetrics struct {
	Engagement           float64 `json:"engagement" yaml:"engagement"`
	CommunityIntegration float64 `json:"community_integration" yaml:"community_integration"`
	InteractionDiversity float64 `json:"interaction_diversity" yaml:"interaction_diversity"`
	Helpfulness          float64 `json:"helpfulness" yaml:"helpfulness"`
}

// Social is the output of AnalyzeSocial.
type Social struct {
	Mentions    Mentions      `json:"mentions" yaml:"mentions"`
	Replies     ReplyBehavior `json:"replies" yaml:"replies"`
	Community   Community     `json:"community" yaml:"community"`
	Interaction Interaction   `json:"interaction" yaml:"interaction"`
	Metrics     SocialMetrics `json:"metrics" yaml:"metrics"`
	Insights    []string      `json:"insights" yaml:"insights"`
}

// AnalyzeSocial looks at mentions, reply tone and community spread.
func AnalyzeSocial(items []reddit.Item) Social {
	s := Social{
		Mentions:    mentions(items),
		Replies:     replyBehavior(items),
		Community:   community(items),
		Interaction: interaction(items),
	}
	s.Metrics = socialMetrics(s)
	s.Insights = socialInsights(s)
	return s
}

func mentions(items []reddit.Item) Mentions {
	var m Mentions
	counts := map[string]int{}
	total := 0
	for _, it := range items {
		text := it.Text()
		for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
			counts[match[1]]++
			total++
		}
		lower := strings.ToLower(text)
		if strings.HasPrefix(strings.TrimSpace(text), "@") || hasAnyPrefix(lower, replyOpeners) {
			m.ReplyTargets = append(m.ReplyTargets, truncateRunes(text, 50)+"...")
		}
	}
	if total == 0 {
		return m
	}
	m.Frequent = topCounts(counts, 10)
	m.Frequency = float64(total) / float64(len(items))
	for _, c := range topCounts(counts, 0) {
		m.Users = append(m.Users, c.Name)
	}
	return m
}

func replyBehavior(items []reddit.Item) ReplyBehavior {
	r := ReplyBehavior{Style: "neutral"}
	if len(items) == 0 {
		return r
	}
	var reply, sup, dis, q int
	for _, it := range items {
		lower := strings.ToLower(it.Text())
		rp := countContained(lower, replyPhrases)
		reply += rp
		sup += countContained(lower, supportivePhrases)
		dis += countContained(lower, disagreementPhrases)
		if countContained(lower, questionStarters) > 0 || strings.Contains(lower, "?") {
			q++
		}
		if len(lower) > 100 && rp == 0 {
			r.ConversationStarters++
		}
	}
	n := float64(len(items))
	r.ReplyIndicators = float64(reply) / n
	r.Supportive = float64(sup) / n
	r.Disagreement = float64(dis) / n
	r.Questions = float64(q) / n

	switch {
	case r.Supportive > r.Disagreement*2:
		r.Style = "supportive"
	case r.Disagreement > r.Supportive*2:
		r.Style = "challenging"
	case r.Questions > 0.3:
		r.Style = "inquisitive"
	}
	return r
}

func community(items []reddit.Item) Community {
	c := Community{Depth: map[string]float64{}}
	counts := map[string]int{}
	lengths := map[string]int{}
	for _, it := range items {
		sub := subredditOf(it)
		if sub == "" {
			continue
		}
		counts[sub]++
		lengths[sub] += len(it.Text())
	}
	c.Subreddits = topCounts(counts, 10)
	c.Diversity = len(counts)
	for sub, n := range counts {
		c.Depth[sub] = float64(lengths[sub]) / float64(n)
	}

	if len(counts) > 1 {
		total, top := 0, 0
		for _, n := range counts {
			total += n
			top = max(top, n)
		}
		switch ratio := float64(top) / float64(total); {
		case ratio > 0.7:
			c.CrossType, c.CrossDescription = "focused", "Primarily active in one community"
		case ratio < 0.3:
			c.CrossType, c.CrossDescription = "diverse", "Actively participates across multiple communities"
		default:
			c.CrossType, c.CrossDescription = "balanced", "Balanced participation across communities"
		}
	}
	return c
}

func interaction(items []reddit.Item) Interaction {
	in := Interaction{SocialCues: map[string]float64{}}
	if len(items) == 0 {
		return in
	}
	interactions, length := 0, 0
	cues := make([]int, len(socialCues))
	for _, it := range items {
		text := it.Text()
		lower := strings.ToLower(text)
		length += len(text)
		if countContained(lower, interactionMarkers) > 0 {
			interactions++
		}
		for i, f := range socialCues {
			cues[i] += countContained(lower, f.words)
		}
		in.HelpSeeking += countContained(lower, helpSeeking)
		in.HelpOffering += countContained(lower, helpOffering)
		in.Collaboration += countContained(lower, collaboration)
	}
	n := float64(len(items))
	in.Frequency = float64(interactions) / n
	in.AvgLength = float64(length) / n
	for i, f := range socialCues {
		in.SocialCues[f.name] = float64(cues[i]) / n
	}
	return in
}

func socialMetrics(s Social) SocialMetrics {
	var m SocialMetrics
	cues := 0.0
	for _, v := range s.Interaction.SocialCues {
		cues += v
	}
	m.Engagement = min(100, (s.Mentions.Frequency+s.Interaction.Frequency+cues)*50)

	bonus := min(20, float64(s.Community.Diversity)*2)
	switch s.Community.CrossType {
	case "diverse":
		bonus += 30
	case "balanced":
		bonus += 20
	}
	m.CommunityIntegration = min(100, bonus+30)

	m.InteractionDiversity = min(100, (s.Replies.Supportive+s.Replies.Questions+s.Replies.Disagreement)*100)
	m.Helpfulness = min(100, float64(s.Interaction.HelpOffering+s.Interaction.Collaboration)*50)
	return m
}

func socialInsights(s Social) []string {
	var insights []string
	if len(s.Mentions.Frequent) > 0 {
		insights = append(insights, "Frequently interacts with u/"+s.Mentions.Frequent[0].Name)
	}
	switch f := s.Mentions.Frequency; {
	case f > 0.1:
		insights = append(insights, "Actively mentions and engages with other users")
	case f < 0.05:
		insights = append(insights, "Tends to post independently with limited direct user interactions")
	}

	switch d := s.Community.Diversity; {
	case d > 10:
		insights = append(insights, fmt.Sprintf("Actively participates in %d+ different communities", d))
	case d > 5:
		insights = append(insights, "Engages with multiple communities regularly")
	case d <= 2:
		insights = append(insights, "Focuses primarily on specific communities")
	}

	switch s.Replies.Style {
	case "supportive":
		insights = append(insights, "Shows supportive and encouraging interaction style")
	case "challenging":
		insights = append(insights, "Tends to engage in debates and express disagreements")
	case "inquisitive":
		insights = append(insights, "Frequently asks questions and seeks information")
	}

	switch e := s.Metrics.Engagement; {
	case e > 70:
		insights = append(insights, "Demonstrates high social engagement and interaction")
	case e < 30:
		insights = append(insights, "Shows limited social interaction patterns")
	}
	if s.Metrics.Helpfulness > 50 {
		insights = append(insights, "Often offers help and assistance to others")
	}

	switch s.Community.CrossType {
	case "diverse":
		insights = append(insights, "Maintains diverse interests across multiple communities")
	case "focused":
		insights = append(insights, "Shows strong loyalty to specific communities")
	}
	return insights
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
