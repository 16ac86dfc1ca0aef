package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/drpaneas/redditpersona/internal/stats"
)

// Analytics output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatSVG      = "svg"
)

// DefaultFormats are written when none are requested.
var DefaultFormats = []string{FormatMarkdown, FormatJSON, FormatSVG}

// Export is the machine-readable analytics document.
type Export struct {
	RunID  string        `json:"run_id" yaml:"run_id"`
	Report *stats.Report `json:"report" yaml:"report"`
}

var dashboardFuncs = template.FuncMap{
	"join": strings.Join,
	"bar": func(n, maxN int) string {
		if maxN == 0 {
			return ""
		}
		return strings.Repeat("█", (n*30+maxN-1)/maxN)
	},
	"maxHour": func(h [24]int) int {
		m := 0
		for _, n := range h {
			m = max(m, n)
		}
		return m
	},
	"first": func(n int, kw []string) []string { return kw[:min(n, len(kw))] },
}

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(dashboardFuncs).Parse(`# Analytics: u/{{.Report.Username}}

Run ` + "`{{.RunID}}`" + `, generated {{.Report.GeneratedAt.Format "2006-01-02 15:04 MST"}}.
{{.Report.Posts}} posts and {{.Report.Comments}} comments analyzed.

## Key Insights
{{range .Report.Sections}}{{if .Insights}}
### {{.Title}}
{{range .Insights}}- {{.}}
{{end}}{{end}}{{end}}
## Sentiment

Average sentiment: {{printf "%.2f" .Report.Sentiment.Average}}
{{with .Report.Sentiment.Emotions}}
| Emotion | Share |
|---|---|
{{range .}}| {{.Name}} | {{printf "%.1f" .Percent}}% |
{{end}}{{end}}{{with .Report.Sentiment.Timeline}}
| Day | Mean | Items |
|---|---|---|
{{range .}}| {{.Date}} | {{printf "%.2f" .Mean}} | {{.Count}} |
{{end}}{{end}}
## Activity
{{if .Report.Activity.HasTimestamps}}{{$max := maxHour .Report.Activity.Hourly}}
` + "```" + `
{{range $h, $n := .Report.Activity.Hourly}}{{printf "%02d" $h}}:00 {{bar $n $max}} {{$n}}
{{end}}` + "```" + `
{{else}}
No timestamps available. Posting frequency: {{.Report.Activity.PostingFrequency}}.
{{end}}
## Personality (Big Five heuristic)

| Trait | Score | Level |
|---|---|---|
{{range .Report.Personality.Traits}}| {{.Name}} | {{printf "%.0f" .Score}} | {{.Level}} |
{{end}}
## Topics ({{or .Report.Topics.Method "none"}})
{{range .Report.Topics.Topics}}
- **{{.Label}}**: {{join (first 8 .Keywords) ", "}}{{end}}

## Top Words
{{range $i, $w := .Report.WordCloud}}{{if lt $i 20}}
- {{$w.Name}} ({{$w.Count}}){{end}}{{end}}
`))

// NewExport wraps r with a fresh run ID.
func NewExport(r *stats.Report) Export {
	return Export{RunID: uuid.NewString(), Report: r}
}

// Dashboard renders the Markdown analytics dashboard.
func (e Export) Dashboard() (string, error) {
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, e); err != nil {
		return "", fmt.Errorf("executing dashboard template: %w", err)
	}
	return buf.String(), nil
}

// WriteAnalytics writes doc in each requested format and returns the
// written paths. All files share the run ID and one timestamp.
func (w *Writer) WriteAnalytics(username string, doc Export, formats []string) ([]string, error) {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	base := fmt.Sprintf("%s_analytics_%s", SafeName(username), w.stamp())

	var paths []string
	for _, f := range formats {
		data, ext, err := encodeAnalytics(doc, f)
		if err != nil {
			return paths, err
		}
		p, err := w.write(base+ext, data)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func encodeAnalytics(doc Export, format string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case FormatMarkdown, "md":
		md, err := doc.Dashboard()
		if err != nil {
			return nil, "", err
		}
		return []byte(md), ".md", nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("encoding analytics json: %w", err)
		}
		return append(data, '\n'), ".json", nil
	case FormatYAML, "yml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, "", fmt.Errorf("encoding analytics yaml: %w", err)
		}
		return data, ".yaml", nil
	case FormatSVG:
		return []byte(WordCloudSVG(doc.Report.WordCloud)), "_wordcloud.svg", nil
	default:
		return nil, "", fmt.Errorf("unsupported analytics format %q", format)
	}
}
