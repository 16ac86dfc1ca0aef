package reddit

import "time"

// Item kinds as reported by the Reddit API.
const (
	KindComment = "t1"
	KindPost    = "t3"
)

// UserData holds everything scraped for a single Reddit account.
type UserData struct {
	Profile   Profile   `json:"profile" yaml:"profile"`
	Posts     []Item    `json:"posts" yaml:"posts"`
	Comments  []Item    `json:"comments" yaml:"comments"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// Section is a named group of items, in the order prompts present them.
type Section struct {
	Name  string
	Items []Item
}

// Sections returns posts then comments.
func (d *UserData) Sections() []Section {
	return []Section{
		{Name: "posts", Items: d.Posts},
		{Name: "comments", Items: d.Comments},
	}
}

// All returns posts followed by comments.
func (d *UserData) All() []Item {
	all := make([]Item, 0, len(d.Posts)+len(d.Comments))
	all = append(all, d.Posts...)
	return append(all, d.Comments...)
}

func (d *UserData) TotalItems() int { return len(d.Posts) + len(d.Comments) }

// Profile holds public account metadata from /user/{name}/about.
type Profile struct {
	Name         string    `json:"name" yaml:"name"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	LinkKarma    int       `json:"link_karma" yaml:"link_karma"`
	CommentKarma int       `json:"comment_karma" yaml:"comment_karma"`
	Verified     bool      `json:"verified" yaml:"verified"`
	IsEmployee   bool      `json:"is_employee" yaml:"is_employee"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// Item is a single submission or comment.
type Item struct {
	Kind        string    `json:"kind" yaml:"kind"`
	ID          string    `json:"id" yaml:"id"`
	Subreddit   string    `json:"subreddit" yaml:"subreddit"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	Body        string    `json:"body" yaml:"body"`
	Permalink   string    `json:"permalink" yaml:"permalink"`
	URL         string    `json:"url,omitempty" yaml:"url,omitempty"`
	Score       int       `json:"score" yaml:"score"`
	NumComments int       `json:"num_comments,omitempty" yaml:"num_comments,omitempty"`
	LinkTitle   string    `json:"link_title,omitempty" yaml:"link_title,omitempty"`
	Over18      bool      `json:"over_18,omitempty" yaml:"over_18,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// IsPost reports whether the item is a submission.
func (it Item) IsPost() bool { return it.Kind == KindPost }

// Text returns the content analyzed for this item: title and self text for
// posts, the body for comments.
func (it Item) Text() string {
	if it.IsPost() {
		return it.Title + "\n" + it.Body
	}
	return it.Body
}
