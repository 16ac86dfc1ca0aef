package reddit

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// TokenURL is Reddit's OAuth2 token endpoint.
	TokenURL = "https://www.reddit.com/api/v1/access_token"
	// APIBaseURL serves authenticated API requests.
	APIBaseURL = "https://oauth.reddit.com"
	// PermalinkBase prefixes the relative permalinks returned by the API.
	PermalinkBase = "https://www.reddit.com"
)

// Credentials identifies a Reddit "script" or "web" application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
}

// newRedditClient returns an HTTP client that authenticates with the
// client-credentials grant, sends the User-Agent Reddit requires on every
// request (including the token exchange), and backs off on rate limits.
func newRedditClient(creds Credentials) *http.Client {
	ua := &userAgentTransport{base: http.DefaultTransport, userAgent: creds.UserAgent}
	cc := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
		Transport: ua,
		Timeout:   30 * time.Second,
	})
	return &http.Client{
		Transport: &rateLimitTransport{
			base: &oauth2.Transport{
				Source: cc.TokenSource(tokenCtx),
				Base:   ua,
			},
		},
		Timeout: 30 * time.Second,
	}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

// rateLimitTransport wraps an http.RoundTripper and pauses when rate-limited.
type rateLimitTransport struct {
	base  http.RoundTripper
	sleep func(context.Context, time.Duration) error
}

const (
	maxRetries       = 3
	lowRemaining     = 5
	maxRateLimitWait = 10 * time.Minute
)

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	sleep := t.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			// Proactively pause when the window is nearly spent so the next
			// request does not get a 429.
			if rem, ok := parseRemaining(resp.Header); ok && rem <= lowRemaining {
				if wait, ok := parseReset(resp.Header); ok && wait > 0 && wait < maxRateLimitWait {
					slog.Warn("approaching reddit rate limit, pausing",
						"remaining", rem, "wait", wait.Round(time.Second))
					if err := sleep(req.Context(), wait+time.Second); err != nil {
						resp.Body.Close()
						return nil, err
					}
				}
			}
			return resp, nil
		}

		wait, ok := retryAfter(resp.Header)
		if !ok || wait <= 0 || wait >= maxRateLimitWait {
			return resp, nil
		}
		resp.Body.Close()
		if attempt == maxRetries-1 {
			break
		}

		slog.Warn("rate limited, retrying", "retry_after", wait.Round(time.Second), "attempt", attempt+1)
		if err := sleep(req.Context(), wait); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("reddit rate limit: retries exhausted after %d attempts", maxRetries)
}

// parseRemaining reads X-Ratelimit-Remaining, which Reddit sends as a float.
func parseRemaining(h http.Header) (float64, bool) {
	v := h.Get("X-Ratelimit-Remaining")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseReset reads X-Ratelimit-Reset, the number of seconds until the
// current window ends.
func parseReset(h http.Header) (time.Duration, bool) {
	v := h.Get("X-Ratelimit-Reset")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(math.Ceil(f)) * time.Second, true
}

// retryAfter prefers Retry-After and falls back to X-Ratelimit-Reset.
func retryAfter(h http.Header) (time.Duration, bool) {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second, true
		}
	}
	return parseReset(h)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
