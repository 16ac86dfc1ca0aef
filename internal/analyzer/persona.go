package analyzer

import (
	"fmt"
	"strings"

	"github.com/drpaneas/redditpersona/internal/textutil"
)

// Field is one titled section of a synthesized persona.
type Field struct {
	Title string
	Value string
}

// Fields returns the synthesis sections in display order.
func (s *SynthesisResult) Fields() []Field {
	return []Field{
		{"Summary", s.Summary},
		{"Demographics", s.Demographics},
		{"Interests", s.Interests},
		{"Motivations", s.Motivations},
		{"Personality", s.Personality},
		{"Behaviours & Habits", s.BehavioursAndHabits},
		{"Frustrations", s.Frustrations},
		{"Goals & Needs", s.GoalsAndNeeds},
		{"Communication Style", s.CommunicationStyle},
		{"Notable Quotes", s.NotableQuotes},
	}
}

// Markdown renders the persona as a "###" title followed by one bold header
// per section and a "- " bullet per line. Empty sections are skipped.
func (p *Persona) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### User Persona: u/%s\n\n", p.Username)
	if p.Synthesis == nil {
		return b.String()
	}
	for _, f := range p.Synthesis.Fields() {
		lines := bulletLines(f.Value)
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "**%s**\n", f.Title)
		for _, l := range lines {
			fmt.Fprintf(&b, "- %s\n", l)
		}
		b.WriteString("\n")
	}
	if len(p.Sources) > 0 {
		b.WriteString("**Top Sources**\n")
		b.WriteString(textutil.FormatCitations(p.Sources))
		b.WriteString("\n\n")
	}
	return b.String()
}

func bulletLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
