package reddit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultLimit is the number of posts and of comments fetched per user.
	DefaultLimit = 50
	maxPageSize  = 100
	maxBodyBytes = 8 << 20
)

var (
	ErrUserNotFound  = errors.New("reddit user not found")
	ErrUserSuspended = errors.New("reddit user is suspended")
)

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	Code int
	Path string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reddit returned status %d for %s: %s", e.Code, e.Path, e.Body)
}

// Scraper fetches a Reddit user's public profile, posts and comments.
type Scraper struct {
	client  *http.Client
	baseURL string
	limit   int
}

// NewScraper returns a Scraper authenticated with the given application
// credentials. limit caps the posts and the comments fetched per user.
func NewScraper(creds Credentials, limit int) *Scraper {
	return newScraper(newRedditClient(creds), APIBaseURL, limit)
}

func newScraper(client *http.Client, baseURL string, limit int) *Scraper {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Scraper{client: client, baseURL: baseURL, limit: limit}
}

// Scrape collects the profile, newest posts and newest comments of username.
// Failing to list posts or comments is logged and leaves that section empty;
// a missing or suspended account is an error.
func (s *Scraper) Scrape(ctx context.Context, username string) (*UserData, error) {
	data := &UserData{FetchedAt: time.Now().UTC()}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.fetchProfile(gCtx, username)
		if err != nil {
			return fmt.Errorf("fetching profile: %w", err)
		}
		mu.Lock()
		data.Profile = profile
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		posts, err := s.fetchListing(gCtx, username, "submitted")
		if err != nil {
			slog.Warn("could not fetch posts", "username", username, "error", err)
		}
		mu.Lock()
		data.Posts = posts
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		comments, err := s.fetchListing(gCtx, username, "comments")
		if err != nil {
			slog.Warn("could not fetch comments", "username", username, "error", err)
		}
		mu.Lock()
		data.Comments = comments
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Scraper) fetchProfile(ctx context.Context, username string) (Profile, error) {
	body, err := s.get(ctx, "/user/"+url.PathEscape(username)+"/about", url.Values{"raw_json": {"1"}})
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return Profile{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return Profile{}, err
	}
	d := gjson.GetBytes(body, "data")
	if !d.Exists() {
		return Profile{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if d.Get("is_suspended").Bool() {
		return Profile{}, fmt.Errorf("%w: %s", ErrUserSuspended, username)
	}
	return Profile{
		Name:         d.Get("name").String(),
		Description:  d.Get("subreddit.public_description").String(),
		LinkKarma:    int(d.Get("link_karma").Int()),
		CommentKarma: int(d.Get("comment_karma").Int()),
		Verified:     d.Get("verified").Bool(),
		IsEmployee:   d.Get("is_employee").Bool(),
		CreatedAt:    unixTime(d.Get("created_utc")),
	}, nil
}

// fetchListing walks a user listing ("submitted" or "comments") newest
// first, following the "after" cursor until the limit is reached.
func (s *Scraper) fetchListing(ctx context.Context, username, section string) ([]Item, error) {
	path := "/user/" + url.PathEscape(username) + "/" + section
	var items []Item
	after := ""
	for len(items) < s.limit {
		q := url.Values{
			"sort":     {"new"},
			"raw_json": {"1"},
			"limit":    {strconv.Itoa(min(maxPageSize, s.limit-len(items)))},
		}
		if after != "" {
			q.Set("after", after)
		}
		body, err := s.get(ctx, path, q)
		if err != nil {
			return items, err
		}
		children := gjson.GetBytes(body, "data.children").Array()
		for _, child := range children {
			items = append(items, parseItem(child))
			if len(items) >= s.limit {
				break
			}
		}
		after = gjson.GetBytes(body, "data.after").String()
		if after == "" || len(children) == 0 {
			break
		}
	}
	slog.Debug("fetched listing", "username", username, "section", section, "items", len(items))
	return items, nil
}

func parseItem(child gjson.Result) Item {
	d := child.Get("data")
	it := Item{
		Kind:        child.Get("kind").String(),
		ID:          d.Get("id").String(),
		Subreddit:   d.Get("subreddit").String(),
		Score:       int(d.Get("score").Int()),
		NumComments: int(d.Get("num_comments").Int()),
		Over18:      d.Get("over_18").Bool(),
		CreatedAt:   unixTime(d.Get("created_utc")),
	}
	if p := d.Get("permalink").String(); p != "" {
		it.Permalink = PermalinkBase + p
	}
	if it.IsPost() {
		it.Title = d.Get("title").String()
		it.Body = d.Get("selftext").String()
		it.URL = d.Get("url").String()
	} else {
		it.Body = d.Get("body").String()
		it.LinkTitle = d.Get("link_title").String()
	}
	return it
}

func unixTime(r gjson.Result) time.Time {
	if !r.Exists() || r.Float() <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(r.Float()), 0).UTC()
}

func (s *Scraper) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := s.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Path: path, Body: string(b)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON from %s", path)
	}
	return body, nil
}
