package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/drpaneas/redditpersona/internal/reddit"
)

// Activity describes when and how much a user posts.
type Activity struct {
	HasTimestamps bool `json:"has_timestamps" yaml:"has_timestamps"`

	// Set when timestamps are available. Hours are UTC.
	Hourly         [24]int        `json:"hourly" yaml:"hourly"`
	Daily          map[string]int `json:"daily,omitempty" yaml:"daily,omitempty"`
	PeakHours      []int          `json:"peak_hours,omitempty" yaml:"peak_hours,omitempty"`
	TimePreference string         `json:"time_preference,omitempty" yaml:"time_preference,omitempty"`
	ScheduleType   string         `json:"schedule_type,omitempty" yaml:"schedule_type,omitempty"`

	// Set when no item carries a timestamp.
	PostingFrequency string         `json:"posting_frequency,omitempty" yaml:"posting_frequency,omitempty"`
	Lengths          *LengthPattern `json:"content_lengths,omitempty" yaml:"content_lengths,omitempty"`

	Insights []string `json:"insights" yaml:"insights"`
}

// LengthPattern buckets content by character length.
type LengthPattern struct {
	Average float64 `json:"average_length" yaml:"average_length"`
	Short   int     `json:"short" yaml:"short"`
	Medium  int     `json:"medium" yaml:"medium"`
	Long    int     `json:"long" yaml:"long"`
}

// AnalyzeActivity derives posting-time patterns from item timestamps,
// falling back to content-length patterns when there are none.
func AnalyzeActivity(items []reddit.Item) Activity {
	a := Activity{Daily: map[string]int{}}
	for _, it := range items {
		if it.CreatedAt.IsZero() {
			continue
		}
		t := it.CreatedAt.UTC()
		a.Hourly[t.Hour()]++
		a.Daily[t.Weekday().String()]++
		a.HasTimestamps = true
	}
	if !a.HasTimestamps {
		return contentActivity(items)
	}

	hours := make([]int, 0, 24)
	for h, n := range a.Hourly {
		if n > 0 {
			hours = append(hours, h)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool { return a.Hourly[hours[i]] > a.Hourly[hours[j]] })
	a.PeakHours = hours[:min(3, len(hours))]

	var day, night int
	for h, n := range a.Hourly {
		if h >= 6 && h < 18 {
			day += n
		} else {
			night += n
		}
	}
	a.TimePreference = "night_active"
	if day > night {
		a.TimePreference = "day_active"
	}

	weekend := a.Daily[time.Saturday.String()] + a.Daily[time.Sunday.String()]
	weekday := 0
	for d := time.Monday; d <= time.Friday; d++ {
		weekday += a.Daily[d.String()]
	}
	// Five weekdays against two weekend days.
	a.ScheduleType = "weekday_heavy"
	if float64(weekend) > float64(weekday)/2.5 {
		a.ScheduleType = "weekend_heavy"
	}

	a.Insights = activityInsights(a)
	return a
}

func activityInsights(a Activity) []string {
	var insights []string
	if len(a.PeakHours) > 0 {
		switch h := a.PeakHours[0]; {
		case h >= 6 && h <= 12:
			insights = append(insights, "Most active during morning hours")
		case h >= 12 && h <= 18:
			insights = append(insights, "Most active during afternoon hours")
		case h >= 18 && h <= 22:
			insights = append(insights, "Most active during evening hours")
		default:
			insights = append(insights, "Most active during late night/early morning hours")
		}
	}
	if a.TimePreference == "night_active" {
		insights = append(insights, "Tends to be more active during nighttime")
	} else {
		insights = append(insights, "Tends to be more active during daytime")
	}
	if a.ScheduleType == "weekend_heavy" {
		insights = append(insights, "Shows increased activity on weekends")
	} else {
		insights = append(insights, "Maintains consistent weekday activity")
	}
	return insights
}

func contentActivity(items []reddit.Item) Activity {
	a := Activity{Lengths: &LengthPattern{}}
	total := 0
	for _, it := range items {
		l := len(it.Text())
		total += l
		switch {
		case l < 100:
			a.Lengths.Short++
		case l < 500:
			a.Lengths.Medium++
		default:
			a.Lengths.Long++
		}
	}
	if len(items) > 0 {
		a.Lengths.Average = float64(total) / float64(len(items))
	}

	switch n := len(items); {
	case n > 100:
		a.PostingFrequency = "high"
	case n > 20:
		a.PostingFrequency = "moderate"
	default:
		a.PostingFrequency = "low"
	}

	pref := "detailed"
	if float64(a.Lengths.Short) > float64(len(items))/2 {
		pref = "short"
	}
	a.Insights = []string{
		fmt.Sprintf("User has %s posting frequency", a.PostingFrequency),
		fmt.Sprintf("Average content length: %.0f characters", a.Lengths.Average),
		fmt.Sprintf("Prefers %s posts", pref),
	}
	return a
}
